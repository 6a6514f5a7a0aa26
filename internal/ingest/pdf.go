package ingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads text row by row from every page of a PDF.
type PDFExtractor struct{}

// Extract implements Extractor. Pages without text contribute no lines, so
// scanned documents yield an empty slice rather than an error.
func (PDFExtractor) Extract(ctx context.Context, data []byte) (lines []string, err error) {
	// The decoder panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			lines, err = nil, fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	var raw []string
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, rowErr := page.GetTextByRow()
		if rowErr != nil {
			return nil, fmt.Errorf("reading page %d: %w", i, rowErr)
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			raw = append(raw, strings.Join(words, " "))
		}
	}
	return cleanLines(raw), nil
}
