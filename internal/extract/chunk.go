package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/campusfaq/internal/model"
)

var sentenceEndRe = regexp.MustCompile(`[.!?]+`)

// DefaultChunkSize is the chunk length used when none is configured
const DefaultChunkSize = 500

// ChunkText groups the sentences of text into chunks shorter than maxLength.
// A single sentence longer than maxLength becomes its own chunk.
func ChunkText(text string, maxLength int) []string {
	if maxLength <= 0 {
		maxLength = DefaultChunkSize
	}

	var chunks []string
	var current strings.Builder
	for _, sentence := range sentenceEndRe.Split(text, -1) {
		sentence = collapseWhitespace(sentence)
		if sentence == "" {
			continue
		}
		if current.Len() > 0 && runeLen(current.String())+runeLen(sentence) >= maxLength {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(sentence)
		current.WriteString(". ")
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}

// ChunkPages chunks every page of a document, numbering chunks per page
func ChunkPages(pages []model.Page, sourceFile string, maxLength int) []model.Chunk {
	var chunks []model.Chunk
	for _, page := range pages {
		for i, content := range ChunkText(page.Text, maxLength) {
			chunks = append(chunks, model.Chunk{
				Content:    content,
				SourceFile: sourceFile,
				PageNumber: page.Number,
				ChunkIndex: i,
			})
		}
	}
	return chunks
}
