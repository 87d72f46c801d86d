package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/campusfaq/internal/model"
)

var (
	cellSplitRe = regexp.MustCompile(`\s{2,}|\t`)
	numberRe    = regexp.MustCompile(`\d+(?:,\d+)*(?:\.\d+)?`)
	digitRe     = regexp.MustCompile(`\d`)
)

var tableLabelWords = []string{"fee", "cost", "amount", "price"}

// TableStrategy reads flattened table rows whose label names a cost
type TableStrategy struct{}

// NewTableStrategy creates a table strategy
func NewTableStrategy() *TableStrategy {
	return &TableStrategy{}
}

// Name returns the strategy name
func (s *TableStrategy) Name() string {
	return "table"
}

// Extract returns one fact per qualifying row
func (s *TableStrategy) Extract(text string) []model.Fact {
	var facts []model.Fact

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if runeLen(line) <= 10 || !digitRe.MatchString(line) || isAllUpper(line) {
			continue
		}
		if len(strings.Fields(line)) < 2 {
			continue
		}

		var cells []string
		for _, c := range cellSplitRe.Split(line, -1) {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) < 2 {
			continue
		}

		label := strings.ToLower(collapseWhitespace(cells[0]))
		if !containsAny(label, tableLabelWords) {
			continue
		}
		amount := numberRe.FindString(strings.Join(cells[1:], " "))
		if amount == "" {
			continue
		}

		facts = append(facts, model.Fact{
			Question: fmt.Sprintf("What is the %s?", label),
			Answer:   fmt.Sprintf("The %s is Rs. %s.", label, amount),
			Category: Categorize(label),
			Language: model.LanguageEnglish,
		})
	}

	return facts
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
