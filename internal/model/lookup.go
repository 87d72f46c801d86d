package model

// Candidate is a fact paired with its relevance to a query
type Candidate struct {
	Fact       Fact           `json:"fact"`
	Score      float64        `json:"score"` // Relevance in [0, 1]
	Confidence ConfidenceBand `json:"confidence"`
}

// ConfidenceBand buckets a relevance score
type ConfidenceBand string

const (
	ConfidenceHigh   ConfidenceBand = "high"   // score > 0.7
	ConfidenceMedium ConfidenceBand = "medium" // 0.4 < score <= 0.7
	ConfidenceLow    ConfidenceBand = "low"
)

// BandFor maps a relevance score to its confidence band
func BandFor(score float64) ConfidenceBand {
	switch {
	case score > 0.7:
		return ConfidenceHigh
	case score > 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// LookupKind tells which variant a LookupResult holds
type LookupKind string

const (
	LookupNoContext LookupKind = "no_context"
	LookupFound     LookupKind = "found"
)

// LookupResult is the answer of the knowledge facade.
// Best and Alternates are only set when Kind is LookupFound.
type LookupResult struct {
	Kind       LookupKind  `json:"kind"`
	Best       *Candidate  `json:"best,omitempty"`
	Alternates []Candidate `json:"alternates,omitempty"`
}

// NoContext returns the "nothing relevant" lookup result
func NoContext() LookupResult {
	return LookupResult{Kind: LookupNoContext}
}

// Found returns a lookup result carrying the best candidate and its alternates
func Found(best Candidate, alternates []Candidate) LookupResult {
	return LookupResult{Kind: LookupFound, Best: &best, Alternates: alternates}
}

// IsFound reports whether the result carries a relevant fact
func (r LookupResult) IsFound() bool {
	return r.Kind == LookupFound && r.Best != nil
}
