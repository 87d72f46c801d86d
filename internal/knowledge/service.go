// Package knowledge turns the fact store and the ranker into a single lookup
// contract: one best fact with its alternates, or an explicit "no context".
package knowledge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ppiankov/campusfaq/internal/cache"
	"github.com/ppiankov/campusfaq/internal/model"
	"github.com/ppiankov/campusfaq/internal/score"
	"github.com/ppiankov/campusfaq/internal/store"
)

// DefaultMinRelevance is the score the best candidate must exceed
const DefaultMinRelevance = 0.2

// Service is the knowledge lookup facade
type Service struct {
	store   store.Store
	ranker  *score.Ranker
	cfg     model.RetrievalConfig
	lookups cache.Cache // nil when CacheTTL is 0
	logger  *slog.Logger
}

// NewService creates a lookup facade over st
func NewService(st store.Store, cfg model.RetrievalConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = store.DefaultCandidateLimit
	}
	if cfg.MinRelevance <= 0 {
		cfg.MinRelevance = DefaultMinRelevance
	}
	if cfg.MaxAlternates < 0 {
		cfg.MaxAlternates = 0
	}

	s := &Service{
		store:  st,
		ranker: score.NewRanker(),
		cfg:    cfg,
		logger: logger,
	}
	if cfg.CacheTTL > 0 {
		s.lookups = cache.NewMemoryCache(cfg.CacheTTL)
	}
	return s
}

// Lookup returns the single best fact for query, or NoContext. It never fails:
// empty queries, store errors and candidates at or below the relevance floor
// all resolve to NoContext.
func (s *Service) Lookup(ctx context.Context, query string) model.LookupResult {
	q := score.ParseQuery(query)
	if len(q.SearchTerms()) == 0 {
		return model.NoContext()
	}

	key := cache.Key("lookup", q.Text)
	var cached model.LookupResult
	if cache.GetJSON(s.lookups, key, &cached) {
		return cached
	}

	candidates, err := s.rank(ctx, q)
	if err != nil {
		s.logger.Warn("fact lookup failed", "query", query, "err", err)
		return model.NoContext()
	}

	result := s.choose(candidates)
	_ = cache.SetJSON(s.lookups, key, result, 0)

	if result.IsFound() {
		s.logger.Debug("lookup", "query", query, "best", result.Best.Fact.Question,
			"score", result.Best.Score, "alternates", len(result.Alternates))
	} else {
		s.logger.Debug("lookup found no context", "query", query, "candidates", len(candidates))
	}
	return result
}

// Search returns every ranked candidate for query, including those below the
// relevance floor
func (s *Service) Search(ctx context.Context, query string) ([]model.Candidate, error) {
	q := score.ParseQuery(query)
	if len(q.SearchTerms()) == 0 {
		return nil, model.ErrEmptyQuery
	}
	return s.rank(ctx, q)
}

// Stats returns fact and chunk counts
func (s *Service) Stats(ctx context.Context) (*model.Stats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return stats, nil
}

// Clear deletes the whole knowledge base
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	s.Invalidate()
	s.logger.Info("knowledge base cleared")
	return nil
}

// Invalidate drops cached lookups; called after every store write
func (s *Service) Invalidate() {
	if s.lookups != nil {
		_ = s.lookups.Clear()
	}
}

func (s *Service) rank(ctx context.Context, q score.Query) ([]model.Candidate, error) {
	facts, err := s.store.FindMatching(ctx, store.MatchQuery{
		Terms:        q.SearchTerms(),
		PriorityTerm: q.PriorityTerm(),
		Limit:        s.cfg.CandidateLimit,
	})
	if err != nil {
		return nil, err
	}
	return s.ranker.RankParsed(q, facts), nil
}

// choose applies the relevance floor to ranked candidates
func (s *Service) choose(candidates []model.Candidate) model.LookupResult {
	if len(candidates) == 0 || candidates[0].Score <= s.cfg.MinRelevance {
		return model.NoContext()
	}

	var alternates []model.Candidate
	for _, c := range candidates[1:] {
		if len(alternates) >= s.cfg.MaxAlternates {
			break
		}
		if c.Score <= s.cfg.MinRelevance {
			break
		}
		alternates = append(alternates, c)
	}
	return model.Found(candidates[0], alternates)
}
