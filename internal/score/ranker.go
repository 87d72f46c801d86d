package score

import (
	"sort"
	"strings"
	"unicode"

	"github.com/ppiankov/campusfaq/internal/model"
)

// alias maps a canonical token to the spellings that identify it in a query
type alias struct {
	canonical  string
	variations []string
}

// courseAliases is ordered; the first detected course becomes the priority term
var courseAliases = []alias{
	{"b.a", []string{"b.a", "ba", "bachelor of arts", "arts"}},
	{"b.sc", []string{"b.sc", "bsc", "bachelor of science", "science"}},
	{"b.com", []string{"b.com", "bcom", "bachelor of commerce", "commerce"}},
	{"bca", []string{"bca", "bachelor of computer application"}},
	{"bba", []string{"bba", "bachelor of business administration"}},
	{"mba", []string{"mba", "master of business administration"}},
	{"h.s", []string{"h.s", "hs", "higher secondary"}},
}

var feeTypeAliases = []alias{
	{"tuition", []string{"tuition", "tuition fee"}},
	{"admission", []string{"admission", "admission fee"}},
	{"total", []string{"total", "total fee", "overall"}},
	{"fee", []string{"fee", "fees", "cost", "amount"}},
}

// Signal weights
const (
	courseInQuestion  = 0.5
	courseInAnswer    = 0.3
	feeTypeInQuestion = 0.3
	feeTypeInAnswer   = 0.2
	questionOverlap   = 0.2
	answerOverlap     = 0.1
)

// minWordLength is the length a plain query word must exceed to become a search term
const minWordLength = 2

// Query is a preprocessed lookup query
type Query struct {
	Text     string   // Lowercased, trimmed query
	Courses  []string // Canonical course tokens, alias-table order
	FeeTypes []string // Canonical fee-type tokens, alias-table order
	Words    []string // Whitespace tokens of Text
}

// ParseQuery lowercases the query and detects course and fee-type tokens
func ParseQuery(query string) Query {
	text := strings.ToLower(strings.TrimSpace(query))
	return Query{
		Text:     text,
		Courses:  detect(text, courseAliases),
		FeeTypes: detect(text, feeTypeAliases),
		Words:    strings.Fields(text),
	}
}

// SearchTerms returns the substrings a candidate fact must contain at least one of.
// Course and fee-type tokens win; plain words longer than two characters are
// only used when neither is present.
func (q Query) SearchTerms() []string {
	if len(q.Courses) > 0 || len(q.FeeTypes) > 0 {
		terms := make([]string, 0, len(q.Courses)+len(q.FeeTypes))
		terms = append(terms, q.Courses...)
		return append(terms, q.FeeTypes...)
	}

	var terms []string
	seen := make(map[string]bool)
	for _, w := range q.Words {
		w = strings.TrimFunc(w, isPunct)
		if len([]rune(w)) > minWordLength && !seen[w] {
			seen[w] = true
			terms = append(terms, w)
		}
	}
	return terms
}

// PriorityTerm is the term used by the store for its coarse pre-sort: the
// first course or fee type, else the longest plain search term
func (q Query) PriorityTerm() string {
	switch {
	case len(q.Courses) > 0:
		return q.Courses[0]
	case len(q.FeeTypes) > 0:
		return q.FeeTypes[0]
	}

	best := ""
	for _, t := range q.SearchTerms() {
		if len([]rune(t)) > len([]rune(best)) {
			best = t
		}
	}
	if best == "" {
		return q.Text
	}
	return best
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// Ranker scores candidate facts against a query
type Ranker struct{}

// NewRanker creates a new ranker
func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank scores every fact and returns candidates best-first. Facts with equal
// scores keep their input order.
func (r *Ranker) Rank(query string, facts []model.Fact) []model.Candidate {
	return r.RankParsed(ParseQuery(query), facts)
}

// RankParsed is Rank for an already parsed query
func (r *Ranker) RankParsed(q Query, facts []model.Fact) []model.Candidate {
	if len(facts) == 0 {
		return nil
	}

	candidates := make([]model.Candidate, 0, len(facts))
	for _, f := range facts {
		s := r.Score(q, f)
		candidates = append(candidates, model.Candidate{
			Fact:       f,
			Score:      s,
			Confidence: model.BandFor(s),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// Score computes the relevance of a fact to a query in [0, 1]
func (r *Ranker) Score(q Query, f model.Fact) float64 {
	question := strings.ToLower(f.Question)
	answer := strings.ToLower(f.Answer)

	score := 0.0

	// 1. Course identity
	for _, course := range q.Courses {
		if strings.Contains(question, course) {
			score += courseInQuestion
		} else if strings.Contains(answer, course) {
			score += courseInAnswer
		}
	}

	// 2. Fee type
	for _, feeType := range q.FeeTypes {
		if strings.Contains(question, feeType) {
			score += feeTypeInQuestion
		} else if strings.Contains(answer, feeType) {
			score += feeTypeInAnswer
		}
	}

	// 3. Word overlap
	queryWords := wordSet(q.Text)
	if len(queryWords) > 0 {
		score += questionOverlap * overlap(queryWords, wordSet(question))
		score += answerOverlap * overlap(queryWords, wordSet(answer))
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

// detect returns the canonical tokens whose variations appear in text as whole words
func detect(text string, aliases []alias) []string {
	var found []string
	for _, a := range aliases {
		for _, v := range a.variations {
			if containsWord(text, v) {
				found = append(found, a.canonical)
				break
			}
		}
	}
	return found
}

// containsWord reports whether phrase occurs in text without letters or digits
// directly on either side, so "ba" does not match inside "mba".
func containsWord(text, phrase string) bool {
	for start := 0; start <= len(text)-len(phrase); {
		i := strings.Index(text[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(phrase)
		if (i == 0 || !isWordByte(text[i-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		start = i + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b >= 0x80
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		set[w] = true
	}
	return set
}

// overlap is the fraction of query words also present in other
func overlap(query, other map[string]bool) float64 {
	shared := 0
	for w := range query {
		if other[w] {
			shared++
		}
	}
	return float64(shared) / float64(len(query))
}
