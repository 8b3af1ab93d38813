// Package extract produces plain text from uploaded document bytes.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// TypePDF is the declared type for PDF documents.
	TypePDF = "application/pdf"

	// TypeText is the declared type for plain text documents.
	TypeText = "text/plain"
)

// ErrUnsupportedFormat is returned when the declared file type has no extractor.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extract converts raw document bytes into plain text according to the
// declared type. Plain text is decoded tolerantly (invalid UTF-8 bytes are
// replaced, never fatal). PDFs yield per-page text in document order joined
// by newlines; a PDF with no extractable text yields an empty string and a
// nil error.
func Extract(data []byte, declaredType string) (string, error) {
	switch declaredType {
	case TypePDF:
		return extractPDF(data)
	case TypeText:
		return extractText(data), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, declaredType)
	}
}

// DetectType maps a file name to the declared type Extract understands.
// Unknown extensions map to an empty string and will be rejected by Extract.
func DetectType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return TypePDF
	case ".txt", ".text", ".md":
		return TypeText
	default:
		return ""
	}
}

func extractText(data []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(data), "�"))
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("parsing pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parsing pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			// Image-only or otherwise unextractable pages contribute
			// nothing rather than failing the whole document.
			continue
		}

		if content != "" {
			pages = append(pages, content)
		}
	}

	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}
