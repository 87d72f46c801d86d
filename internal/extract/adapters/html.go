package adapters

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/campusfaq/internal/model"
)

var (
	spaceRunRe     = regexp.MustCompile(`[ \x{00a0}]+`)
	tabPaddingRe   = regexp.MustCompile(` *\t *`)
	extraNewlineRe = regexp.MustCompile(`\n{3,}`)
	htmlSpaceRe    = regexp.MustCompile(`\s+`)
)

// HTMLAdapter reads the visible text of web pages and HTML notices
type HTMLAdapter struct{}

// NewHTMLAdapter creates an HTML adapter
func NewHTMLAdapter() *HTMLAdapter {
	return &HTMLAdapter{}
}

// Name returns the adapter name
func (a *HTMLAdapter) Name() string {
	return "html"
}

// CanHandle matches .html/.htm files and text/html
func (a *HTMLAdapter) CanHandle(name string, contentType string) bool {
	return hasExtension(name, ".html", ".htm", ".xhtml") || hasContentType(contentType, "text/html", "application/xhtml")
}

// ExtractPages returns the page text as a single page
func (a *HTMLAdapter) ExtractPages(data []byte) ([]model.Page, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return singlePage(visibleText(doc)), nil
}

// visibleText extracts text nodes, skipping scripts/styles. Block elements
// become line breaks and table cells become tabs so rows stay readable.
func visibleText(root *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "svg", "template":
				return
			case "br":
				buf.WriteString("\n")
				return
			}
		}

		if n.Type == html.TextNode {
			text := htmlSpaceRe.ReplaceAllString(n.Data, " ")
			if strings.TrimSpace(text) != "" {
				buf.WriteString(text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode {
			switch n.Data {
			case "td", "th":
				buf.WriteString("\t")
			case "tr", "li", "div", "dt", "dd", "title":
				buf.WriteString("\n")
			case "p", "h1", "h2", "h3", "h4", "h5", "h6", "table", "ul", "ol", "section", "article", "header", "footer":
				buf.WriteString("\n\n")
			}
		}
	}
	walk(root)

	return normalizeLines(buf.String())
}

// normalizeLines trims every line, folds space runs and keeps at most one blank line
func normalizeLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = spaceRunRe.ReplaceAllString(line, " ")
		line = tabPaddingRe.ReplaceAllString(line, "\t")
		lines[i] = strings.Trim(line, " \t")
	}
	text = strings.Join(lines, "\n")
	text = extraNewlineRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
