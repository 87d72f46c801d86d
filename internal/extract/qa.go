package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/campusfaq/internal/model"
)

var (
	questionMarkerRe   = regexp.MustCompile(`(?im)^[ \t]*Q(?:uestion)?[ \t]*\d*[ \t]*[:.)]`)
	answerLineMarkerRe = regexp.MustCompile(`(?im)^[ \t]*A(?:ns(?:wer)?)?[ \t]*\d*[ \t]*[:.)]`)
	answerInlineRe     = regexp.MustCompile(`(?i)[ \t]A(?:ns(?:wer)?)?[ \t]*\d*[ \t]*:`)
	inlineQuestionRe   = regexp.MustCompile(`(?i)^((?:what|when|where|who|whom|which|why|how|can|is|are|do|does)\b[^?]{3,}\?)[ \t]+(\S.*)$`)
)

const (
	minQuestionLength = 5
	minAnswerLength   = 20
)

// QAStrategy picks up question/answer pairs already written in the document
type QAStrategy struct {
	detector        Detector
	maxAnswerLength int
}

// NewQAStrategy creates a Q/A strategy; maxAnswerLength <= 0 keeps answers whole
func NewQAStrategy(detector Detector, maxAnswerLength int) *QAStrategy {
	if detector == nil {
		detector = ScriptDetector{}
	}
	return &QAStrategy{
		detector:        detector,
		maxAnswerLength: maxAnswerLength,
	}
}

// Name returns the strategy name
func (s *QAStrategy) Name() string {
	return "qa"
}

// Extract returns marker pairs, then question-line pairs, then inline questions
func (s *QAStrategy) Extract(text string) []model.Fact {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var facts []model.Fact
	emit := func(question, answer string) {
		if fact, ok := s.pair(question, answer); ok {
			facts = append(facts, fact)
		}
	}

	s.markerPairs(text, emit)
	s.questionLinePairs(text, emit)
	s.inlinePairs(text, emit)

	return facts
}

// markerPairs handles "Q: ... A: ..." blocks; an answer runs to the next
// question marker or blank line
func (s *QAStrategy) markerPairs(text string, emit func(q, a string)) {
	locs := questionMarkerRe.FindAllStringIndex(text, -1)
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segment := text[loc[1]:end]

		a := answerLineMarkerRe.FindStringIndex(segment)
		if a == nil || a[0] == 0 {
			a = answerInlineRe.FindStringIndex(segment)
		}
		if a == nil {
			continue
		}

		answer := segment[a[1]:]
		if cut := blankLineRe.FindStringIndex(answer); cut != nil {
			answer = answer[:cut[0]]
		}
		emit(segment[:a[0]], answer)
	}
}

// questionLinePairs handles a line ending in "?" followed by its answer lines
func (s *QAStrategy) questionLinePairs(text string, emit func(q, a string)) {
	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		question := strings.TrimSuffix(strings.TrimSpace(lines[i]), ":")
		question = strings.TrimSpace(question)
		if !strings.HasSuffix(question, "?") || questionMarkerRe.MatchString(lines[i]) {
			continue
		}

		var answer []string
		j := i + 1
		for ; j < len(lines); j++ {
			line := strings.TrimSpace(lines[j])
			if line == "" || strings.Contains(line, "?") || questionMarkerRe.MatchString(lines[j]) {
				break
			}
			answer = append(answer, line)
		}
		if len(answer) == 0 {
			continue
		}
		emit(question, strings.Join(answer, " "))
		i = j - 1
	}
}

// inlinePairs handles "What is X? X is Y." written on one line
func (s *QAStrategy) inlinePairs(text string, emit func(q, a string)) {
	for _, line := range strings.Split(text, "\n") {
		m := inlineQuestionRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil || strings.Contains(m[2], "?") {
			continue
		}
		emit(m[1], m[2])
	}
}

func (s *QAStrategy) pair(question, answer string) (model.Fact, bool) {
	question = collapseWhitespace(question)
	answer = collapseWhitespace(answer)
	if runeLen(question) <= minQuestionLength || !strings.Contains(question, "?") {
		return model.Fact{}, false
	}
	if runeLen(answer) <= minAnswerLength {
		return model.Fact{}, false
	}

	return model.Fact{
		Question: question,
		Answer:   truncate(answer, s.maxAnswerLength),
		Category: Categorize(question),
		Language: s.detector.Detect(question),
	}, true
}
