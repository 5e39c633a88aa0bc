// Package extract pulls plain text out of source documents.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrLoad marks a document that could not be opened or parsed.
var ErrLoad = errors.New("failed to load document")

// Extractor pulls plain text from a document on disk.
type Extractor interface {
	// Extract returns the text of each page, in order. Pages that cannot
	// be parsed are skipped.
	Extract(ctx context.Context, path string) ([]string, error)
}

// PDFExtractor extracts text from PDF files.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract reads the PDF at path and returns per-page plain text. Empty and
// unparseable pages are dropped. Errors opening or parsing the file wrap
// ErrLoad.
func (e *PDFExtractor) Extract(ctx context.Context, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	pageCount := reader.NumPage()
	pages := make([]string, 0, pageCount)

	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages the parser cannot handle.
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, text)
	}

	return pages, nil
}

var _ Extractor = (*PDFExtractor)(nil)
