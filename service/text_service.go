package service

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/tieubaoca/docsum-be/types"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextService decodes plain-text uploads.
type TextService struct{}

func NewTextService() *TextService {
	return &TextService{}
}

// ExtractText decodes src as UTF-8, retrying as Latin-1 when the bytes are not valid UTF-8.
func (s *TextService) ExtractText(src io.Reader) (string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return "", types.WrapAppError(err, types.KindInternal, "Failed to read uploaded file")
	}
	return decodeText(data)
}

func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	// Every byte is a valid Latin-1 code point, so this never fails in practice.
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", types.WrapAppError(err, types.KindUnsupportedEncoding, "Could not decode text file. Unsupported encoding.")
	}
	return string(decoded), nil
}
