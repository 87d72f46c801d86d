package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/campusfaq/internal/extract"
	"github.com/ppiankov/campusfaq/internal/model"
	"github.com/ppiankov/campusfaq/internal/store"
)

// countingStore counts FindMatching calls and can be told to fail
type countingStore struct {
	*store.MemoryStore
	finds int
	err   error
}

func (s *countingStore) FindMatching(ctx context.Context, q store.MatchQuery) ([]model.Fact, error) {
	s.finds++
	if s.err != nil {
		return nil, s.err
	}
	return s.MemoryStore.FindMatching(ctx, q)
}

func newTestStore(t *testing.T, facts ...model.Fact) *countingStore {
	t.Helper()
	st := &countingStore{MemoryStore: store.NewMemoryStore()}
	if err := st.SaveDocument(context.Background(), facts, nil); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}
	return st
}

func feeFacts() []model.Fact {
	return []model.Fact{
		{Question: "What is the fee for B.A?", Answer: "The fee for B.A is Rs. 720.00.", Category: model.CategoryFees, Language: "en", SourceFile: "fees.pdf"},
		{Question: "What is the fee for B.Sc?", Answer: "The fee for B.Sc is Rs. 840.00.", Category: model.CategoryFees, Language: "en", SourceFile: "fees.pdf"},
		{Question: "What is the fee for B.Com?", Answer: "The fee for B.Com is Rs. 3000.00.", Category: model.CategoryFees, Language: "en", SourceFile: "fees.pdf"},
		{Question: "What is the fee for H.S.?", Answer: "The fee for H.S. is Rs. 600.00.", Category: model.CategoryFees, Language: "en", SourceFile: "fees.pdf"},
	}
}

func noCache() model.RetrievalConfig {
	cfg := model.DefaultConfig().Retrieval
	cfg.CacheTTL = 0
	return cfg
}

func TestLookup_EmptyQuery(t *testing.T) {
	st := newTestStore(t, feeFacts()...)
	svc := NewService(st, noCache(), nil)

	for _, query := range []string{"", "   ", "\t\n"} {
		if result := svc.Lookup(context.Background(), query); result.IsFound() {
			t.Errorf("Lookup(%q): expected NoContext, got %+v", query, result)
		}
	}
	if st.finds != 0 {
		t.Errorf("expected no store calls for empty queries, got %d", st.finds)
	}
}

func TestLookup_StoreErrorDegradesToNoContext(t *testing.T) {
	st := newTestStore(t, feeFacts()...)
	st.err = errors.New("database is locked")
	svc := NewService(st, noCache(), nil)

	result := svc.Lookup(context.Background(), "What is the fee for B.Com?")
	if result.Kind != model.LookupNoContext {
		t.Errorf("expected NoContext on store error, got %s", result.Kind)
	}
}

func TestLookup_UnrelatedQuery(t *testing.T) {
	svc := NewService(newTestStore(t, feeFacts()...), noCache(), nil)

	if result := svc.Lookup(context.Background(), "asdkj zzqq"); result.IsFound() {
		t.Errorf("expected NoContext, got best %q", result.Best.Fact.Question)
	}
}

func TestLookup_FloorRejectsWeakMatches(t *testing.T) {
	st := newTestStore(t, model.Fact{Question: "Library rules", Answer: "Silence is mandatory.", Category: model.CategoryLibrary, Language: "en"})
	svc := NewService(st, noCache(), nil)

	// The store returns the fact, but word overlap alone stays under the floor
	candidates, err := svc.Search(context.Background(), "library timings on sunday")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Score > DefaultMinRelevance {
		t.Fatalf("expected one candidate at or below the floor, got %+v", candidates)
	}

	if result := svc.Lookup(context.Background(), "library timings on sunday"); result.IsFound() {
		t.Errorf("expected NoContext, got best with score %f", result.Best.Score)
	}
}

func TestLookup_CandidateLimitKeepsSpecificMatch(t *testing.T) {
	facts := []model.Fact{{
		Question: "What are the library timings?",
		Answer:   "The library is open from 9 AM to 5 PM.",
		Category: model.CategoryLibrary,
		Language: "en",
	}}
	for i := 0; i < 20; i++ {
		facts = append(facts, model.Fact{
			Question: fmt.Sprintf("What is notice %d about?", i),
			Answer:   "Holiday.",
			Category: model.CategoryGeneral,
			Language: "en",
		})
	}
	svc := NewService(newTestStore(t, facts...), noCache(), nil)

	result := svc.Lookup(context.Background(), "What are the library timings?")
	if !result.IsFound() {
		t.Fatal("expected the library fact to survive the candidate limit")
	}
	if result.Best.Fact.Question != "What are the library timings?" {
		t.Errorf("expected library fact, got %q", result.Best.Fact.Question)
	}
}

func TestLookup_BestAndAlternates(t *testing.T) {
	cfg := noCache()
	cfg.MaxAlternates = 2
	svc := NewService(newTestStore(t, feeFacts()...), cfg, nil)

	result := svc.Lookup(context.Background(), "What is the fee for B.Com?")
	if !result.IsFound() {
		t.Fatal("expected a fact to be found")
	}
	if result.Best.Fact.Question != "What is the fee for B.Com?" {
		t.Errorf("expected B.Com fact, got %q", result.Best.Fact.Question)
	}
	if len(result.Alternates) != 2 {
		t.Fatalf("expected 2 alternates, got %d", len(result.Alternates))
	}
	for _, alt := range result.Alternates {
		if alt.Score <= DefaultMinRelevance || alt.Score > result.Best.Score {
			t.Errorf("unexpected alternate score %f (best %f)", alt.Score, result.Best.Score)
		}
	}
}

func TestLookup_EndToEndFromExtraction(t *testing.T) {
	ctx := context.Background()
	text := "B.A. 720.00\nB.Sc. 840.00\nB.Com. 3000.00\nH.S. 600.00"

	facts := extract.NewExtractor(model.DefaultConfig().Extract, extract.ScriptDetector{}, nil).Extract(text)

	fees := 0
	for _, f := range facts {
		if f.Category == model.CategoryFees && strings.HasPrefix(f.Question, "What is the fee for") {
			fees++
		}
	}
	if fees != 4 {
		t.Fatalf("expected 4 course fee facts, got %d", fees)
	}

	st := store.NewMemoryStore()
	if err := st.SaveDocument(ctx, facts, nil); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	result := NewService(st, noCache(), nil).Lookup(ctx, "What is the fee for B.Com?")
	if !result.IsFound() {
		t.Fatal("expected a fact to be found")
	}
	if !strings.Contains(result.Best.Fact.Answer, "3000.00") {
		t.Errorf("expected the B.Com fee answer, got %q", result.Best.Fact.Answer)
	}
	if result.Best.Confidence != model.ConfidenceHigh {
		t.Errorf("expected high confidence, got %s", result.Best.Confidence)
	}
}

func TestLookup_CacheAndInvalidate(t *testing.T) {
	cfg := model.DefaultConfig().Retrieval
	cfg.CacheTTL = time.Minute
	st := newTestStore(t, feeFacts()...)
	svc := NewService(st, cfg, nil)
	ctx := context.Background()

	first := svc.Lookup(ctx, "What is the fee for B.Com?")
	second := svc.Lookup(ctx, "  what is the FEE for b.com?  ")
	if st.finds != 1 {
		t.Errorf("expected one store call for repeated queries, got %d", st.finds)
	}
	if !second.IsFound() || second.Best.Fact.ID != first.Best.Fact.ID {
		t.Errorf("expected cached result to match, got %+v", second)
	}

	svc.Invalidate()
	svc.Lookup(ctx, "What is the fee for B.Com?")
	if st.finds != 2 {
		t.Errorf("expected store call after Invalidate, got %d", st.finds)
	}
}

func TestLookup_StoreErrorIsNotCached(t *testing.T) {
	cfg := model.DefaultConfig().Retrieval
	cfg.CacheTTL = time.Minute
	st := newTestStore(t, feeFacts()...)
	st.err = errors.New("disk I/O error")
	svc := NewService(st, cfg, nil)
	ctx := context.Background()

	if result := svc.Lookup(ctx, "bca fee"); result.IsFound() {
		t.Fatal("expected NoContext while the store fails")
	}

	st.err = nil
	if result := svc.Lookup(ctx, "bca fee"); !result.IsFound() {
		t.Error("expected lookup to recover once the store is back")
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := NewService(newTestStore(t), noCache(), nil)

	if _, err := svc.Search(context.Background(), "  "); !errors.Is(err, model.ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestClear(t *testing.T) {
	cfg := model.DefaultConfig().Retrieval
	svc := NewService(newTestStore(t, feeFacts()...), cfg, nil)
	ctx := context.Background()

	if result := svc.Lookup(ctx, "What is the fee for B.Com?"); !result.IsFound() {
		t.Fatal("expected a fact before Clear")
	}
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if result := svc.Lookup(ctx, "What is the fee for B.Com?"); result.IsFound() {
		t.Error("expected NoContext after Clear")
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalFacts != 0 {
		t.Errorf("expected 0 facts, got %d", stats.TotalFacts)
	}
}
