package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ppiankov/campusfaq/internal/model"
)

// MemoryStore implements Store in process memory with the same ordering
// rules as SQLiteStore.
type MemoryStore struct {
	mu     sync.RWMutex
	facts  []model.Fact
	chunks []model.Chunk
	nextID int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// SaveDocument appends facts and chunks
func (s *MemoryStore) SaveDocument(ctx context.Context, facts []model.Fact, chunks []model.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range facts {
		facts[i].ID = s.nextID
		s.nextID++
		s.facts = append(s.facts, facts[i])
	}
	s.chunks = append(s.chunks, chunks...)
	return nil
}

// FindMatching returns facts containing any term, coarse-sorted like the SQL store
func (s *MemoryStore) FindMatching(ctx context.Context, q MatchQuery) ([]model.Fact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := normalizeTerms(q.Terms)
	if len(terms) == 0 {
		return nil, nil
	}
	priority := strings.ToLower(strings.TrimSpace(q.PriorityTerm))
	if priority == "" {
		priority = terms[0]
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type match struct {
		fact model.Fact
		rank int
	}
	var matches []match
	for _, f := range s.facts {
		question := strings.ToLower(f.Question)
		answer := strings.ToLower(f.Answer)
		if !containsAny(question, terms) && !containsAny(answer, terms) {
			continue
		}
		rank := 3
		if strings.Contains(question, priority) {
			rank = 1
		} else if strings.Contains(answer, priority) {
			rank = 2
		}
		matches = append(matches, match{fact: f, rank: rank})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		li := utf8.RuneCountInString(matches[i].fact.Answer)
		lj := utf8.RuneCountInString(matches[j].fact.Answer)
		if li != lj {
			return li < lj
		}
		return matches[i].fact.ID < matches[j].fact.ID
	})

	limit := effectiveLimit(q.Limit)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	facts := make([]model.Fact, 0, len(matches))
	for _, m := range matches {
		facts = append(facts, m.fact)
	}
	return facts, nil
}

// Stats counts facts by category and language
func (s *MemoryStore) Stats(ctx context.Context) (*model.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &model.Stats{
		TotalFacts:  len(s.facts),
		TotalChunks: len(s.chunks),
		Categories:  make(map[model.Category]int),
		Languages:   make(map[string]int),
	}
	sources := make(map[string]bool)
	for _, f := range s.facts {
		stats.Categories[f.Category]++
		stats.Languages[f.Language]++
		if f.SourceFile != "" {
			sources[f.SourceFile] = true
		}
	}
	stats.Sources = len(sources)
	return stats, nil
}

// Clear drops all facts and chunks
func (s *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = nil
	s.chunks = nil
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
