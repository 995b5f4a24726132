package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/docsum-be/config"
	"github.com/tieubaoca/docsum-be/types"
	"go.uber.org/zap"
)

func newTestFileService(t *testing.T) *FileService {
	t.Helper()
	logger := zap.NewNop()
	return NewFileService(
		NewPDFService(config.OCRConfig{Enabled: false}, nil, t.TempDir(), logger),
		NewDocxService(),
		NewTextService(),
		logger,
	)
}

func doc(name, body string) types.UploadedDocument {
	return types.UploadedDocument{Filename: name, Size: int64(len(body)), Content: strings.NewReader(body)}
}

func TestFileService_ExtractText(t *testing.T) {
	s := newTestFileService(t)
	ctx := context.Background()

	t.Run("txt", func(t *testing.T) {
		got, err := s.ExtractText(ctx, doc("notes.txt", "Hello World"))
		require.NoError(t, err)
		assert.Equal(t, "Hello World", got)
	})

	t.Run("suffix is case insensitive", func(t *testing.T) {
		got, err := s.ExtractText(ctx, doc("NOTES.TXT", "upper"))
		require.NoError(t, err)
		assert.Equal(t, "upper", got)
	})

	t.Run("docx", func(t *testing.T) {
		body := string(buildDocx(t, docxBody))
		got, err := s.ExtractText(ctx, doc("book.docx", body))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "Chapter 1\nHello World"))
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := s.ExtractText(ctx, doc("slides.xyz", "data"))
		require.Error(t, err)
		assert.True(t, types.IsKind(err, types.KindUnsupportedFormat))
	})

	t.Run("blank text", func(t *testing.T) {
		_, err := s.ExtractText(ctx, doc("empty.txt", "  \n\t "))
		require.Error(t, err)
		assert.True(t, types.IsKind(err, types.KindEmptyContent))
	})

	t.Run("corrupt pdf", func(t *testing.T) {
		_, err := s.ExtractText(ctx, doc("broken.pdf", "garbage"))
		require.Error(t, err)
		assert.True(t, types.IsKind(err, types.KindParseFailure))
	})
}

func TestFileService_OCRRecognizedNothing(t *testing.T) {
	logger := zap.NewNop()
	tempDir := t.TempDir()
	ocrCfg := config.OCRConfig{Enabled: true, MinChars: 200, Workers: 2}
	runner := &fakeRunner{pages: 2, failAll: true}
	s := NewFileService(
		NewPDFService(ocrCfg, NewOCRServiceWithRunner(ocrCfg, tempDir, runner, logger), tempDir, logger),
		NewDocxService(),
		NewTextService(),
		logger,
	)

	pdf := blankPDF()
	text, err := s.ExtractText(context.Background(), types.UploadedDocument{
		Filename: "scan.pdf",
		Size:     int64(len(pdf)),
		Content:  bytes.NewReader(pdf),
	})
	require.Error(t, err)
	assert.Empty(t, text)
	assert.True(t, types.IsKind(err, types.KindEmptyContent))
	assert.Equal(t, 2, runner.calls["tesseract"])
}
