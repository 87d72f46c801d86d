package adapters

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/campusfaq/internal/model"
)

// DOCXAdapter reads Word documents. Paragraphs become lines and table rows
// become tab-separated lines.
type DOCXAdapter struct{}

// NewDOCXAdapter creates a DOCX adapter
func NewDOCXAdapter() *DOCXAdapter {
	return &DOCXAdapter{}
}

// Name returns the adapter name
func (a *DOCXAdapter) Name() string {
	return "docx"
}

// CanHandle matches .docx files and the wordprocessingml content type
func (a *DOCXAdapter) CanHandle(name string, contentType string) bool {
	return hasExtension(name, ".docx") ||
		hasContentType(contentType, "application/vnd.openxmlformats-officedocument.wordprocessingml")
}

// ExtractPages returns the document body as a single page
func (a *DOCXAdapter) ExtractPages(data []byte) ([]model.Page, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}

	var docFile *zip.File
	for _, f := range r.File {
		if strings.EqualFold(f.Name, "word/document.xml") {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("open docx: word/document.xml not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer func() { _ = rc.Close() }()

	return singlePage(docxText(rc)), nil
}

func docxText(r io.Reader) string {
	dec := xml.NewDecoder(r)
	var buf strings.Builder
	cellDepth := 0

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t", "instrText":
				var text string
				if err := dec.DecodeElement(&text, &t); err == nil {
					buf.WriteString(text)
				}
			case "tab":
				buf.WriteByte('\t')
			case "br", "cr":
				buf.WriteByte('\n')
			case "tc":
				cellDepth++
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if cellDepth > 0 {
					buf.WriteByte(' ')
				} else {
					buf.WriteByte('\n')
				}
			case "tc":
				cellDepth--
				buf.WriteByte('\t')
			case "tr":
				buf.WriteByte('\n')
			}
		}
	}

	return normalizeLines(buf.String())
}
