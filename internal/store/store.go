// Package store persists extracted facts and chunks and answers the
// substring-disjunction query the retrieval ranker is fed from.
//
// Two implementations exist:
// - SQLiteStore, the durable store used by the CLI
// - MemoryStore, a process-local store for tests and throwaway runs
package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/campusfaq/internal/model"
)

// DefaultCandidateLimit bounds FindMatching when the query sets no limit.
const DefaultCandidateLimit = 20

// MatchQuery selects facts whose question or answer contains any of Terms.
// Matches are pre-sorted with PriorityTerm in the question first, then
// PriorityTerm in the answer, then shorter answers first.
type MatchQuery struct {
	Terms        []string
	PriorityTerm string
	Limit        int
}

// Store defines the fact storage interface.
type Store interface {
	// SaveDocument inserts one document's facts and chunks atomically and
	// assigns fact IDs in place.
	SaveDocument(ctx context.Context, facts []model.Fact, chunks []model.Chunk) error

	// FindMatching returns facts matching any term. No terms, no results.
	FindMatching(ctx context.Context, q MatchQuery) ([]model.Fact, error)

	// Stats aggregates fact and chunk counts.
	Stats(ctx context.Context) (*model.Stats, error)

	// Clear deletes all facts and chunks.
	Clear(ctx context.Context) error

	Close() error
}

// normalizeTerms lowercases terms and drops blanks and duplicates
func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func effectiveLimit(limit int) int {
	if limit <= 0 {
		return DefaultCandidateLimit
	}
	return limit
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
