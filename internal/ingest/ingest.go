// Package ingest turns files into engine.Documents: ordered, trimmed text
// lines ready for analysis. PDF files are decoded with ledongthuc/pdf, any
// other file is read as UTF-8 text.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/greenledger/meatprint/internal/engine"
	"github.com/greenledger/meatprint/internal/engine/batch"
	"github.com/greenledger/meatprint/internal/engine/cache"
	"github.com/greenledger/meatprint/internal/logging"
)

// StdinPath is the path naming standard input.
const StdinPath = "-"

// pdfMagic starts every PDF file.
const pdfMagic = "%PDF-"

// Extractor turns raw document bytes into text lines.
type Extractor interface {
	Extract(ctx context.Context, data []byte) ([]string, error)
}

// LineCache stores extracted lines by content key.
type LineCache interface {
	Lines(key string) ([]string, bool)
	Set(key, source string, lines []string) error
}

// Loader reads documents from disk or stdin.
type Loader struct {
	pdf   Extractor
	text  Extractor
	cache LineCache
	stdin io.Reader
}

// Option configures a Loader.
type Option func(*Loader)

// WithCache caches PDF extraction results. A nil or disabled store is ignored.
func WithCache(store *cache.FileStore) Option {
	return func(l *Loader) {
		if store != nil && store.IsEnabled() {
			l.cache = store
		}
	}
}

// WithStdin replaces os.Stdin as the source for StdinPath.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) { l.stdin = r }
}

// WithPDFExtractor replaces the PDF extractor.
func WithPDFExtractor(e Extractor) Option {
	return func(l *Loader) { l.pdf = e }
}

// NewLoader returns a Loader with the default extractors.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		pdf:   PDFExtractor{},
		text:  TextExtractor{},
		stdin: os.Stdin,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads path into a Document. Failures are recorded on Document.Err
// so that one unreadable file never stops a batch.
func (l *Loader) Load(ctx context.Context, path string) engine.Document {
	log := logging.FromContext(ctx)
	doc := engine.Document{ID: path}

	data, err := l.read(path)
	if err != nil {
		doc.Err = err
		return doc
	}

	if !isPDF(path, data) {
		doc.Lines, doc.Err = l.text.Extract(ctx, data)
		return doc
	}

	key := cache.Key(data)
	if l.cache != nil {
		if lines, ok := l.cache.Lines(key); ok {
			log.Debug().Ctx(ctx).Str("component", "ingest").Str("document", path).Msg("extraction cache hit")
			doc.Lines = lines
			return doc
		}
	}

	doc.Lines, doc.Err = l.pdf.Extract(ctx, data)
	if doc.Err != nil {
		doc.Err = fmt.Errorf("extracting %s: %w", path, doc.Err)
		return doc
	}
	if len(doc.Lines) == 0 {
		log.Warn().Ctx(ctx).Str("component", "ingest").Str("document", path).
			Msg("no text extracted, the PDF may be scanned")
	}

	if l.cache != nil {
		if setErr := l.cache.Set(key, path, doc.Lines); setErr != nil {
			log.Warn().Ctx(ctx).Str("component", "ingest").Err(setErr).Msg("could not cache extraction")
		}
	}
	return doc
}

// LoadAll loads paths concurrently and returns documents in path order.
func (l *Loader) LoadAll(ctx context.Context, paths []string, concurrency int) ([]engine.Document, error) {
	return batch.Map(ctx, paths, concurrency, func(ctx context.Context, _ int, path string) (engine.Document, error) {
		return l.Load(ctx, path), nil
	})
}

func (l *Loader) read(path string) ([]byte, error) {
	if path == StdinPath {
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func isPDF(path string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return true
	}
	return bytes.HasPrefix(data, []byte(pdfMagic))
}

// cleanLines trims every line and drops blank ones.
func cleanLines(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
