package adapters

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ppiankov/campusfaq/internal/model"
)

// PDFAdapter reads PDF documents page by page
type PDFAdapter struct{}

// NewPDFAdapter creates a PDF adapter
func NewPDFAdapter() *PDFAdapter {
	return &PDFAdapter{}
}

// Name returns the adapter name
func (a *PDFAdapter) Name() string {
	return "pdf"
}

// CanHandle matches .pdf files and application/pdf
func (a *PDFAdapter) CanHandle(name string, contentType string) bool {
	return hasExtension(name, ".pdf") || hasContentType(contentType, "application/pdf")
}

// ExtractPages returns one page per PDF page, one line per text row with
// table cells separated by tabs. Pages without positioned rows fall back to
// the parser's plain text; when nothing yields text at all, the printable
// bytes of the file are returned as page 1.
func (a *PDFAdapter) ExtractPages(data []byte) ([]model.Page, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var pages []model.Page
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text := rowText(p)
		if strings.TrimSpace(text) == "" {
			plain, err := p.GetPlainText(nil)
			if err != nil || strings.TrimSpace(plain) == "" {
				continue
			}
			text = plain
		}
		pages = append(pages, model.Page{Number: i, Text: text})
	}

	if len(pages) == 0 {
		return singlePage(string(printableText(data))), nil
	}
	return pages, nil
}

// rowText flattens a page top to bottom. Cells of a row are already sorted by
// X; pieces sharing an X come from one text object and are joined directly.
func rowText(p pdf.Page) string {
	rows, err := p.GetTextByRow()
	if err != nil {
		return ""
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var (
			cells []string
			lastX float64
		)
		for _, t := range row.Content {
			if t.S == "" {
				continue
			}
			if len(cells) > 0 && t.X == lastX {
				cells[len(cells)-1] += t.S
				continue
			}
			cells = append(cells, t.S)
			lastX = t.X
		}

		var kept []string
		for _, c := range cells {
			if c = strings.TrimSpace(c); c != "" {
				kept = append(kept, c)
			}
		}
		if len(kept) > 0 {
			lines = append(lines, strings.Join(kept, "\t"))
		}
	}
	return strings.Join(lines, "\n")
}
