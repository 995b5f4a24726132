package service

import (
	"context"
	"strings"

	"github.com/tieubaoca/docsum-be/metrics"
	"github.com/tieubaoca/docsum-be/types"
	"go.uber.org/zap"
)

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, doc types.UploadedDocument) (string, error)
}

// FileService dispatches an upload to the extractor matching its filename suffix.
type FileService struct {
	pdfService  *PDFService
	docxService *DocxService
	textService *TextService
	logger      *zap.Logger
}

func NewFileService(
	pdfService *PDFService,
	docxService *DocxService,
	textService *TextService,
	logger *zap.Logger,
) *FileService {
	return &FileService{
		pdfService:  pdfService,
		docxService: docxService,
		textService: textService,
		logger:      logger,
	}
}

func (s *FileService) ExtractText(ctx context.Context, doc types.UploadedDocument) (string, error) {
	kind, err := types.DetectFileKind(doc.Filename)
	if err != nil {
		metrics.ExtractionTotal.WithLabelValues("unsupported", "error").Inc()
		return "", err
	}

	logger := s.logger.With(zap.String("file", doc.Filename), zap.String("kind", string(kind)), zap.Int64("size", doc.Size))
	logger.Info("Processing file")

	var text string
	switch kind {
	case types.FileKindPDF:
		var stats types.ExtractionStats
		text, stats, err = s.pdfService.ExtractText(ctx, doc.Content)
		if err == nil && stats.UsedOCR {
			logger.Info("Used OCR text", zap.Int("pages", stats.TotalPages))
		}
	case types.FileKindDOCX:
		text, err = s.docxService.ExtractText(doc.Content)
	case types.FileKindTXT:
		text, err = s.textService.ExtractText(doc.Content)
	}
	if err != nil {
		metrics.ExtractionTotal.WithLabelValues(string(kind), "error").Inc()
		logger.Warn("Failed to extract text", zap.Error(err))
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		metrics.ExtractionTotal.WithLabelValues(string(kind), "empty").Inc()
		return "", types.ErrNoTextExtracted
	}

	metrics.ExtractionTotal.WithLabelValues(string(kind), "success").Inc()
	logger.Info("Extracted text", zap.Int("chars", len(text)))
	return text, nil
}
