package adapters

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/campusfaq/internal/model"
)

// TextAdapter reads plain text; form feeds separate pages
type TextAdapter struct{}

// NewTextAdapter creates a plain text adapter
func NewTextAdapter() *TextAdapter {
	return &TextAdapter{}
}

// Name returns the adapter name
func (a *TextAdapter) Name() string {
	return "text"
}

// CanHandle matches .txt/.md files and text/plain
func (a *TextAdapter) CanHandle(name string, contentType string) bool {
	return hasExtension(name, ".txt", ".text", ".md") || hasContentType(contentType, "text/plain", "text/markdown")
}

// ExtractPages splits the document on form feeds
func (a *TextAdapter) ExtractPages(data []byte) ([]model.Page, error) {
	var text string
	if utf8.Valid(data) {
		text = string(data)
	} else {
		text = string(printableText(data))
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var pages []model.Page
	for i, part := range strings.Split(text, "\f") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		pages = append(pages, model.Page{Number: i + 1, Text: part})
	}
	return pages, nil
}

// printableText keeps printable runes and whitespace, dropping invalid bytes
func printableText(in []byte) []byte {
	var out bytes.Buffer
	for len(in) > 0 {
		r, size := utf8.DecodeRune(in)
		in = in[size:]
		if r == utf8.RuneError && size == 1 {
			continue
		}
		if r == '\n' || r == '\t' || r == '\f' || r >= 32 && r != 127 {
			out.WriteRune(r)
		}
	}
	return out.Bytes()
}
