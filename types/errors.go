package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures surfaced to API clients.
type ErrorKind string

const (
	KindNoFileOrText        ErrorKind = "no_file_or_text"
	KindUnsupportedFormat   ErrorKind = "unsupported_format"
	KindUnsupportedEncoding ErrorKind = "unsupported_encoding"
	KindParseFailure        ErrorKind = "parse_failure"
	KindEmptyContent        ErrorKind = "empty_content"
	KindInvalidParam        ErrorKind = "invalid_param"
	KindFileTooLarge        ErrorKind = "file_too_large"
	KindChapterRequired     ErrorKind = "chapter_required"
	KindChapterNotFound     ErrorKind = "chapter_not_found"
	KindUpstreamFailure     ErrorKind = "upstream_failure"
	KindInternal            ErrorKind = "internal"
)

// AppError is the single error type handlers translate into a JSON envelope.
type AppError struct {
	Kind    ErrorKind
	Message string
	Detail  string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail sets the optional human readable hint returned as "message".
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

func NewAppError(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message, Status: kindToHTTPStatus(kind)}
}

func WrapAppError(err error, kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message, Status: kindToHTTPStatus(kind), Err: err}
}

func kindToHTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindNoFileOrText, KindUnsupportedFormat, KindUnsupportedEncoding, KindParseFailure,
		KindEmptyContent, KindInvalidParam, KindFileTooLarge, KindChapterRequired:
		return http.StatusBadRequest
	case KindChapterNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// AsAppError converts any error into an AppError; unknown errors become internal failures.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Kind: KindInternal, Message: err.Error(), Status: http.StatusInternalServerError, Err: err}
}

var (
	ErrNoInput           = NewAppError(KindNoFileOrText, "No input provided").WithDetail("Please provide either file or text")
	ErrUnsupportedFormat = NewAppError(KindUnsupportedFormat, "Unsupported file format").WithDetail("Please upload PDF, DOCX, or TXT file")
	ErrEmptyContent      = NewAppError(KindEmptyContent, "Empty content").WithDetail("The file or text is empty")
	ErrNoTextExtracted   = NewAppError(KindEmptyContent, "No text could be extracted from the document").WithDetail("Failed to extract text from file")
	ErrChapterRequired   = NewAppError(KindChapterRequired, "Chapter is required")
	ErrChapterNotFound   = NewAppError(KindChapterNotFound, "Chapter not found in the document")
	ErrAPIKeyMissing     = NewAppError(KindUpstreamFailure, "API key not configured")
	ErrFileTooLarge      = NewAppError(KindFileTooLarge, "File too large")
	ErrInvalidWordCount  = NewAppError(KindInvalidParam, "Invalid word_count").WithDetail("word_count must be a positive integer")
)
