package extract

import (
	"strings"

	"github.com/ppiankov/campusfaq/internal/model"
)

const (
	questionDuplicateThreshold = 0.8
	answerDuplicateThreshold   = 0.9
)

// Similarity is the Jaccard index of the lowercased whitespace tokens of a and b.
// Two empty inputs are not similar.
func Similarity(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inter := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

// Dedup drops every fact whose question or answer nearly repeats an earlier one
func Dedup(facts []model.Fact) []model.Fact {
	unique := make([]model.Fact, 0, len(facts))
	for _, f := range facts {
		if !isDuplicate(f, unique) {
			unique = append(unique, f)
		}
	}
	return unique
}

func isDuplicate(f model.Fact, kept []model.Fact) bool {
	for _, k := range kept {
		if Similarity(f.Question, k.Question) >= questionDuplicateThreshold {
			return true
		}
		if Similarity(f.Answer, k.Answer) >= answerDuplicateThreshold {
			return true
		}
	}
	return false
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
