package types

import (
	"io"
	"path/filepath"
	"strings"
)

// FileKind is the document format derived from the uploaded filename.
type FileKind string

const (
	FileKindPDF  FileKind = ".pdf"
	FileKindDOCX FileKind = ".docx"
	FileKindTXT  FileKind = ".txt"
)

// UploadedDocument is a request-scoped view over an uploaded file.
type UploadedDocument struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// DetectFileKind matches the filename suffix case-insensitively.
func DetectFileKind(filename string) (FileKind, error) {
	switch FileKind(strings.ToLower(filepath.Ext(filename))) {
	case FileKindPDF:
		return FileKindPDF, nil
	case FileKindDOCX:
		return FileKindDOCX, nil
	case FileKindTXT:
		return FileKindTXT, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// ExtractionStats describes how a PDF's text was obtained.
type ExtractionStats struct {
	TotalPages   int
	SkippedPages int
	UsedOCR      bool
}
