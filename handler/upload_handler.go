package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docsum-be/types"
)

// formInput is the parsed multipart form shared by the generation endpoints.
// The caller owns closer and must call it once the document has been consumed.
type formInput struct {
	input  types.GenerationInput
	closer func()
}

// parseForm reads file or text plus chapter and word_count. When both a file and
// text are supplied the file wins.
func parseForm(c *gin.Context, maxUploadBytes int64, withWordCount bool) (formInput, error) {
	in := formInput{closer: func() {}}

	if maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+formOverheadBytes)
	}
	if err := readForm(c.Request); err != nil {
		return in, err
	}

	if withWordCount {
		wordCount, err := parseWordCount(c.PostForm("word_count"))
		if err != nil {
			return in, err
		}
		in.input.WordCount = wordCount
	}
	in.input.Chapter = strings.TrimSpace(c.PostForm("chapter"))

	file, header, err := c.Request.FormFile("file")
	switch {
	case err == nil && header.Filename != "":
		if maxUploadBytes > 0 && header.Size > maxUploadBytes {
			file.Close()
			return in, types.ErrFileTooLarge
		}
		if _, err := types.DetectFileKind(header.Filename); err != nil {
			file.Close()
			return in, err
		}
		in.input.Document = &types.UploadedDocument{
			Filename: header.Filename,
			Size:     header.Size,
			Content:  file,
		}
		in.closer = func() { file.Close() }
		return in, nil
	case err == nil:
		file.Close()
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return in, formError(err)
	}

	text := c.PostForm("text")
	if strings.TrimSpace(text) == "" {
		return in, types.ErrNoInput
	}
	in.input.Text = text
	return in, nil
}

const (
	// formOverheadBytes leaves room for multipart boundaries and the text fields
	// around an upload that is exactly at the size cap.
	formOverheadBytes = 1 << 20
	multipartMemory   = 32 << 20
)

// readForm parses the body once, up front, so an oversized body surfaces as
// FileTooLarge instead of being swallowed by gin's form cache.
func readForm(req *http.Request) error {
	if err := req.ParseForm(); err != nil {
		return formError(err)
	}
	if err := req.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return formError(err)
	}
	return nil
}

func formError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return types.ErrFileTooLarge
	}
	return types.WrapAppError(err, types.KindInvalidParam, "Invalid form data")
}

// parseWordCount returns 0 for an absent value so the configured default applies.
func parseWordCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, types.ErrInvalidWordCount
	}
	return n, nil
}

func writeError(c *gin.Context, err error) {
	appErr := types.AsAppError(err)
	c.JSON(appErr.Status, types.ErrorResponse{
		Success: false,
		Error:   appErr.Message,
		Message: appErr.Detail,
	})
}
