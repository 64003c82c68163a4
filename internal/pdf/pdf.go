// Package pdf extracts plain text from uploaded PDF documents.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrEmptyDocument is returned for zero-byte uploads.
var ErrEmptyDocument = errors.New("empty document")

// ExtractText reads a PDF and returns each page's text followed by "\n".
// Invalid UTF-8 sequences are dropped.
func ExtractText(r io.Reader, maxBytes int64) (text string, err error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("document exceeds %d bytes", maxBytes)
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("parse document: %v", p)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if !page.V.IsNull() {
			pageText, err := page.GetPlainText(nil)
			if err != nil {
				return "", fmt.Errorf("extract page %d: %w", i, err)
			}
			b.WriteString(strings.ToValidUTF8(pageText, ""))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
