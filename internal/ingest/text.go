package ingest

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrNotText is returned for input that is not valid UTF-8.
var ErrNotText = errors.New("unsupported binary format, expected UTF-8 text or PDF")

// TextExtractor splits UTF-8 text into lines.
type TextExtractor struct{}

// Extract implements Extractor.
func (TextExtractor) Extract(_ context.Context, data []byte) ([]string, error) {
	if !utf8.Valid(data) {
		return nil, ErrNotText
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return cleanLines(strings.Split(text, "\n")), nil
}
