package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/tieubaoca/docsum-be/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OCRFallback recognizes text in a PDF whose embedded text layer is missing or too thin.
type OCRFallback interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// CommandRunner runs an external program and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// OCRService rasterizes PDF pages with pdftoppm and recognizes them with tesseract.
type OCRService struct {
	pdftoppm  string
	tesseract string
	dpi       int
	language  string
	workers   int
	tempDir   string
	runner    CommandRunner
	logger    *zap.Logger
}

func NewOCRService(cfg config.OCRConfig, tempDir string, logger *zap.Logger) *OCRService {
	return NewOCRServiceWithRunner(cfg, tempDir, execRunner{}, logger)
}

func NewOCRServiceWithRunner(cfg config.OCRConfig, tempDir string, runner CommandRunner, logger *zap.Logger) *OCRService {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = 300
	}
	return &OCRService{
		pdftoppm:  valueOr(cfg.PdftoppmPath, "pdftoppm"),
		tesseract: valueOr(cfg.TesseractPath, "tesseract"),
		dpi:       dpi,
		language:  valueOr(cfg.Language, "eng"),
		workers:   workers,
		tempDir:   tempDir,
		runner:    runner,
		logger:    logger,
	}
}

// ErrNoTextRecognized is returned when no page yielded any text.
var ErrNoTextRecognized = errors.New("no text recognized on any page")

// ExtractText returns the recognized text of every page, each preceded by a
// "--- Page N ---" header, in page order.
func (s *OCRService) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	tempFolder, err := os.MkdirTemp(s.tempDir, "ocr-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempFolder)

	prefix := filepath.Join(tempFolder, "page")
	if _, err := s.runner.Run(ctx, s.pdftoppm, "-png", "-r", strconv.Itoa(s.dpi), pdfPath, prefix); err != nil {
		return "", fmt.Errorf("failed to rasterize pdf: %w", err)
	}

	images, err := pageImages(tempFolder)
	if err != nil {
		return "", err
	}
	s.logger.Info("Running OCR", zap.String("file", pdfPath), zap.Int("pages", len(images)))

	texts := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, image := range images {
		i, image := i, image
		g.Go(func() error {
			out, err := s.runner.Run(gctx, s.tesseract, image, "stdout", "-l", s.language)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warn("Failed to recognize page", zap.Int("page", i+1), zap.Error(err))
				return nil
			}
			texts[i] = string(out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var b strings.Builder
	recognized := false
	for i, text := range texts {
		if strings.TrimSpace(text) != "" {
			recognized = true
		}
		fmt.Fprintf(&b, "\n--- Page %d ---\n%s\n", i+1, text)
	}
	if !recognized {
		return "", ErrNoTextRecognized
	}
	return b.String(), nil
}

// pageImages lists the images pdftoppm wrote, ordered by page number. pdftoppm
// zero-pads the index depending on page count, so lexical order is not enough.
func pageImages(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, fmt.Errorf("failed to read image files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no page images generated from pdf")
	}
	sort.Slice(files, func(i, j int) bool {
		return pageIndex(files[i]) < pageIndex(files[j])
	})
	return files, nil
}

func pageIndex(path string) int {
	name := strings.TrimSuffix(filepath.Base(path), ".png")
	n, err := strconv.Atoi(name[strings.LastIndex(name, "-")+1:])
	if err != nil {
		return 0
	}
	return n
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
