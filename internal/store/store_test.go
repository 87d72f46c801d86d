package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ppiankov/campusfaq/internal/model"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "knowledge.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Store{
		"sqlite": sqlite,
		"memory": NewMemoryStore(),
	}
}

func intPtr(n int) *int { return &n }

func seedFacts() []model.Fact {
	return []model.Fact{
		{Question: "What is the hostel fee?", Answer: "The hostel fee is Rs. 12,000 per year.", Category: model.CategoryFees, Language: "en", SourceFile: "fees.pdf", PageNumber: intPtr(3)},
		{Question: "Visiting hours", Answer: "Visitors must leave the hostel by 8 PM.", Category: model.CategoryHostel, Language: "en", SourceFile: "rules.docx"},
		{Question: "What is the library fine?", Answer: "Rs. 2 per day.", Category: model.CategoryLibrary, Language: "en", SourceFile: "rules.docx"},
		{Question: "Where is the hostel office?", Answer: "Block C.", Category: model.CategoryHostel, Language: "hi", SourceFile: "rules.docx"},
	}
}

func TestStore_SaveDocumentAssignsIDs(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			facts := seedFacts()
			chunks := []model.Chunk{
				{Content: "The hostel fee is Rs. 12,000 per year.", SourceFile: "fees.pdf", PageNumber: 3},
				{Content: "Visitors must leave by 8 PM.", SourceFile: "rules.docx", PageNumber: 1, ChunkIndex: 1},
			}

			if err := s.SaveDocument(ctx, facts, chunks); err != nil {
				t.Fatalf("SaveDocument failed: %v", err)
			}
			for i, f := range facts {
				if f.ID != int64(i+1) {
					t.Errorf("expected fact %d to get ID %d, got %d", i, i+1, f.ID)
				}
			}

			stats, err := s.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats failed: %v", err)
			}
			if stats.TotalFacts != 4 {
				t.Errorf("expected 4 facts, got %d", stats.TotalFacts)
			}
			if stats.TotalChunks != 2 {
				t.Errorf("expected 2 chunks, got %d", stats.TotalChunks)
			}
			if stats.Sources != 2 {
				t.Errorf("expected 2 sources, got %d", stats.Sources)
			}
			if stats.Categories[model.CategoryHostel] != 2 || stats.Categories[model.CategoryFees] != 1 {
				t.Errorf("unexpected category counts %v", stats.Categories)
			}
			if stats.Languages["en"] != 3 || stats.Languages["hi"] != 1 {
				t.Errorf("unexpected language counts %v", stats.Languages)
			}
		})
	}
}

func TestStore_FindMatchingOrder(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.SaveDocument(ctx, seedFacts(), nil); err != nil {
				t.Fatalf("SaveDocument failed: %v", err)
			}

			facts, err := s.FindMatching(ctx, MatchQuery{Terms: []string{"Hostel"}, PriorityTerm: "hostel"})
			if err != nil {
				t.Fatalf("FindMatching failed: %v", err)
			}

			// Question matches first (shorter answer first), then answer-only matches
			want := []string{"Where is the hostel office?", "What is the hostel fee?", "Visiting hours"}
			if len(facts) != len(want) {
				t.Fatalf("expected %d facts, got %d", len(want), len(facts))
			}
			for i, q := range want {
				if facts[i].Question != q {
					t.Errorf("position %d: expected %q, got %q", i, q, facts[i].Question)
				}
			}

			if facts[1].PageNumber == nil || *facts[1].PageNumber != 3 {
				t.Errorf("expected page number 3 to round-trip, got %v", facts[1].PageNumber)
			}
			if facts[0].PageNumber != nil {
				t.Errorf("expected nil page number, got %d", *facts[0].PageNumber)
			}
		})
	}
}

func TestStore_FindMatchingLimit(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.SaveDocument(ctx, seedFacts(), nil); err != nil {
				t.Fatalf("SaveDocument failed: %v", err)
			}

			facts, err := s.FindMatching(ctx, MatchQuery{Terms: []string{"hostel", "library"}, PriorityTerm: "hostel", Limit: 2})
			if err != nil {
				t.Fatalf("FindMatching failed: %v", err)
			}
			if len(facts) != 2 {
				t.Fatalf("expected 2 facts, got %d", len(facts))
			}
		})
	}
}

func TestStore_FindMatchingNoTerms(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.SaveDocument(ctx, seedFacts(), nil); err != nil {
				t.Fatalf("SaveDocument failed: %v", err)
			}

			facts, err := s.FindMatching(ctx, MatchQuery{Terms: []string{"", "  "}})
			if err != nil {
				t.Fatalf("FindMatching failed: %v", err)
			}
			if len(facts) != 0 {
				t.Errorf("expected no facts without terms, got %d", len(facts))
			}
		})
	}
}

func TestStore_FindMatchingEscapesWildcards(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			facts := []model.Fact{
				{Question: "Is there a sibling discount?", Answer: "Siblings get 50% off the tuition fee.", Category: model.CategoryFees, Language: "en"},
				{Question: "What is the late fee?", Answer: "A late fee of Rs. 500 applies.", Category: model.CategoryFees, Language: "en"},
			}
			if err := s.SaveDocument(ctx, facts, nil); err != nil {
				t.Fatalf("SaveDocument failed: %v", err)
			}

			got, err := s.FindMatching(ctx, MatchQuery{Terms: []string{"50%"}})
			if err != nil {
				t.Fatalf("FindMatching failed: %v", err)
			}
			if len(got) != 1 || got[0].Question != "Is there a sibling discount?" {
				t.Errorf("expected only the literal 50%% match, got %+v", got)
			}
		})
	}
}

func TestStore_Clear(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.SaveDocument(ctx, seedFacts(), []model.Chunk{{Content: "x", SourceFile: "a.pdf"}}); err != nil {
				t.Fatalf("SaveDocument failed: %v", err)
			}
			if err := s.Clear(ctx); err != nil {
				t.Fatalf("Clear failed: %v", err)
			}

			stats, err := s.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats failed: %v", err)
			}
			if stats.TotalFacts != 0 || stats.TotalChunks != 0 {
				t.Errorf("expected empty store after Clear, got %+v", stats)
			}

			facts, err := s.FindMatching(ctx, MatchQuery{Terms: []string{"hostel"}})
			if err != nil {
				t.Fatalf("FindMatching failed: %v", err)
			}
			if len(facts) != 0 {
				t.Errorf("expected no facts after Clear, got %d", len(facts))
			}
		})
	}
}

func TestSQLiteStore_InMemory(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	if err := s.SaveDocument(ctx, seedFacts(), nil); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalFacts != 4 {
		t.Errorf("expected 4 facts, got %d", stats.TotalFacts)
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "knowledge.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	if err := s.SaveDocument(context.Background(), seedFacts(), nil); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}
	_ = s.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	stats, err := reopened.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalFacts != 4 {
		t.Errorf("expected facts to persist across reopen, got %d", stats.TotalFacts)
	}
}
