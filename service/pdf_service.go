package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/tieubaoca/docsum-be/config"
	"github.com/tieubaoca/docsum-be/metrics"
	"github.com/tieubaoca/docsum-be/types"
	"github.com/tieubaoca/docsum-be/utils"
	"go.uber.org/zap"
)

// PDFService handles PDF processing operations
type PDFService struct {
	ocr      OCRFallback
	minChars int
	tempDir  string
	pageText func(r *pdf.Reader, pageNum int) (string, error)
	logger   *zap.Logger
}

// NewPDFService creates a PDF service. ocr may be nil to disable the OCR fallback.
func NewPDFService(cfg config.OCRConfig, ocr OCRFallback, tempDir string, logger *zap.Logger) *PDFService {
	if !cfg.Enabled {
		ocr = nil
	}
	return &PDFService{
		ocr:      ocr,
		minChars: cfg.MinChars,
		tempDir:  tempDir,
		pageText: extractPage,
		logger:   logger,
	}
}

// ExtractText materializes the upload to a temporary file, reads its text layer and
// falls back to OCR when the text layer is shorter than the configured minimum.
// The temporary file is removed before ExtractText returns.
func (s *PDFService) ExtractText(ctx context.Context, src io.Reader) (string, types.ExtractionStats, error) {
	var stats types.ExtractionStats

	path, cleanup, err := utils.WriteTempFile(src, s.tempDir, ".pdf")
	if err != nil {
		return "", stats, types.WrapAppError(err, types.KindInternal, "Failed to store uploaded PDF")
	}
	defer cleanup()

	text, stats, err := s.extractTextLayer(path)
	if err != nil {
		return "", stats, types.WrapAppError(err, types.KindParseFailure,
			fmt.Sprintf("PDF parsing failed: %v. The PDF might be corrupted, password-protected, or image-based.", err))
	}
	s.logger.Info("Extracted PDF text layer",
		zap.Int("pages", stats.TotalPages),
		zap.Int("skipped_pages", stats.SkippedPages),
		zap.Int("chars", len(text)))

	if s.ocr == nil || len(strings.TrimSpace(text)) >= s.minChars {
		return text, stats, nil
	}

	s.logger.Info("Text layer below threshold, falling back to OCR", zap.Int("min_chars", s.minChars))
	ocrText, err := s.ocr.ExtractText(ctx, path)
	if err != nil {
		metrics.OCRFallbackTotal.WithLabelValues("error").Inc()
		s.logger.Warn("OCR fallback failed, keeping text layer", zap.Error(err))
		return text, stats, nil
	}
	if strings.TrimSpace(ocrText) == "" {
		metrics.OCRFallbackTotal.WithLabelValues("empty").Inc()
		return text, stats, nil
	}
	metrics.OCRFallbackTotal.WithLabelValues("success").Inc()
	stats.UsedOCR = true
	return ocrText, stats, nil
}

// extractTextLayer concatenates the text of every readable page. Pages that fail
// are skipped and logged.
func (s *PDFService) extractTextLayer(path string) (text string, stats types.ExtractionStats, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", stats, err
	}
	defer f.Close()

	stats.TotalPages = r.NumPage()
	var b strings.Builder
	for pageNum := 1; pageNum <= stats.TotalPages; pageNum++ {
		pageText, err := s.pageText(r, pageNum)
		if err != nil {
			stats.SkippedPages++
			s.logger.Warn("Failed to extract text from page", zap.Int("page", pageNum), zap.Error(err))
			continue
		}
		pageText = cleanText(pageText)
		if pageText == "" {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), stats, nil
}

func extractPage(r *pdf.Reader, pageNum int) (string, error) {
	return readPageSafely(pageNum, func() (string, error) {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			return "", nil
		}
		return page.GetPlainText(nil)
	})
}

// readPageSafely turns a panic inside the reader into an error for that page.
func readPageSafely(pageNum int, read func() (string, error)) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", pageNum, rec)
		}
	}()
	return read()
}

var textCleaner = strings.NewReplacer(
	"\u0000", "",
	"\ufffd", "",
	"\u001b", "",
	"\r", "",
	"\f", "\n",
)

func cleanText(text string) string {
	return strings.TrimSpace(textCleaner.Replace(text))
}
