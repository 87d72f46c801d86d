package extract

import (
	"fmt"
	"strings"

	"github.com/ppiankov/campusfaq/internal/model"
)

// topicTerms is searched in order; the first three hits name the paragraph
var topicTerms = [][]string{
	{"fee", "tuition", "cost", "payment", "amount"},
	{"b.a", "b.com", "b.sc", "bca", "bba", "mba", "course", "program"},
	{"library", "lab", "hostel", "mess", "campus"},
	{"exam", "admission", "semester", "year", "subject"},
	{"registration", "enrollment", "identity", "card"},
}

const maxTopicTerms = 3

// TopicStrategy turns short paragraphs into "what about X" facts
type TopicStrategy struct {
	detector        Detector
	minLength       int
	maxLength       int
	maxAnswerLength int
}

// NewTopicStrategy creates a topic strategy. Paragraphs must be longer than
// minLength and no longer than maxLength characters.
func NewTopicStrategy(detector Detector, minLength, maxLength, maxAnswerLength int) *TopicStrategy {
	if detector == nil {
		detector = ScriptDetector{}
	}
	if minLength <= 0 {
		minLength = 30
	}
	if maxLength <= 0 {
		maxLength = 500
	}
	return &TopicStrategy{
		detector:        detector,
		minLength:       minLength,
		maxLength:       maxLength,
		maxAnswerLength: maxAnswerLength,
	}
}

// Name returns the strategy name
func (s *TopicStrategy) Name() string {
	return "topic"
}

// Extract returns one fact per paragraph that mentions a known term
func (s *TopicStrategy) Extract(text string) []model.Fact {
	var facts []model.Fact

	for _, paragraph := range splitParagraphs(text) {
		paragraph = strings.TrimSpace(paragraph)
		n := runeLen(paragraph)
		// Longer paragraphs are usually whole-page dumps
		if n <= s.minLength || n > s.maxLength {
			continue
		}

		terms := KeyTerms(paragraph)
		if len(terms) == 0 {
			continue
		}

		var question string
		if len(terms) == 1 {
			question = fmt.Sprintf("What information is available about %s?", terms[0])
		} else {
			question = fmt.Sprintf("What are the details for %s?", strings.Join(terms[:2], ", "))
		}

		facts = append(facts, model.Fact{
			Question: question,
			Answer:   truncate(collapseWhitespace(paragraph), s.maxAnswerLength),
			Category: Categorize(strings.Join(terms, " ")),
			Language: s.detector.Detect(paragraph),
		})
	}

	return facts
}

// KeyTerms returns up to three known terms found in text
func KeyTerms(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, group := range topicTerms {
		for _, term := range group {
			if strings.Contains(lower, term) {
				found = append(found, term)
				if len(found) == maxTopicTerms {
					return found
				}
			}
		}
	}
	return found
}
