package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/campusfaq/internal/model"
	"github.com/ppiankov/campusfaq/internal/store"
	"github.com/ppiankov/campusfaq/internal/worker"
)

const feeNotice = `Fee Structure 2024-25

B.A. 720.00
B.Sc. 840.00
B.Com. 3000.00
H.S. 600.00

Q: When is the last date for fee payment?
A: The last date for payment of fees is 15th July without late fine.
`

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.HTTP.RespectRobots = false
	cfg.RateLimiting.RequestsPerSecond = 0
	cfg.Extract.LanguageDetector = "script"
	return cfg
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate() { c.calls++ }

type failingStore struct {
	*store.MemoryStore
}

func (s *failingStore) SaveDocument(ctx context.Context, facts []model.Fact, chunks []model.Chunk) error {
	return errors.New("database is locked")
}

func TestProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fees.txt")
	if err := os.WriteFile(path, []byte(feeNotice), 0644); err != nil {
		t.Fatal(err)
	}

	st := store.NewMemoryStore()
	inv := &countingInvalidator{}
	p := NewPipeline(testConfig(), st, inv, nil)

	result, err := p.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if result.SourceFile != "fees.txt" || result.Adapter != "text" {
		t.Errorf("unexpected source %q / adapter %q", result.SourceFile, result.Adapter)
	}
	if result.Facts < 5 {
		t.Errorf("expected at least 5 facts (4 fees + 1 Q/A), got %d", result.Facts)
	}
	if result.Categories[model.CategoryFees] < 4 {
		t.Errorf("expected at least 4 fee facts, got %v", result.Categories)
	}
	if result.Chunks == 0 {
		t.Error("expected chunks to be stored")
	}
	if result.RunID == "" {
		t.Error("expected a run ID")
	}
	if len(result.Samples) != sampleFacts {
		t.Errorf("expected %d samples, got %d", sampleFacts, len(result.Samples))
	}
	if inv.calls != 1 {
		t.Errorf("expected lookup cache invalidated once, got %d", inv.calls)
	}

	facts, err := st.FindMatching(context.Background(), store.MatchQuery{Terms: []string{"b.com"}})
	if err != nil {
		t.Fatalf("FindMatching failed: %v", err)
	}
	if len(facts) == 0 {
		t.Fatal("expected the B.Com fee fact to be stored")
	}
	f := facts[0]
	if f.SourceFile != "fees.txt" || f.RunID != result.RunID {
		t.Errorf("expected provenance fees.txt/%s, got %s/%s", result.RunID, f.SourceFile, f.RunID)
	}
	if f.PageNumber == nil || *f.PageNumber != 1 {
		t.Errorf("expected page 1 for a single-page document, got %v", f.PageNumber)
	}
	if !strings.Contains(f.Answer, "3000.00") {
		t.Errorf("expected B.Com amount in answer, got %q", f.Answer)
	}
}

func TestProcessText_InsufficientText(t *testing.T) {
	st := store.NewMemoryStore()
	p := NewPipeline(testConfig(), st, nil, nil)

	_, err := p.ProcessText(context.Background(), "notice.txt", "B.A. 720.00\nB.Sc. 840.00")
	if !errors.Is(err, model.ErrInsufficientText) {
		t.Fatalf("expected ErrInsufficientText, got %v", err)
	}
	if !strings.Contains(err.Error(), "24 characters") {
		t.Errorf("expected character count in error, got %q", err.Error())
	}

	stats, _ := st.Stats(context.Background())
	if stats.TotalFacts != 0 || stats.TotalChunks != 0 {
		t.Errorf("expected nothing stored, got %+v", stats)
	}
}

func TestProcessText_StoreFailure(t *testing.T) {
	p := NewPipeline(testConfig(), &failingStore{store.NewMemoryStore()}, nil, nil)

	_, err := p.ProcessText(context.Background(), "fees.txt", feeNotice)
	if err == nil || !strings.Contains(err.Error(), "database is locked") {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestProcessURL(t *testing.T) {
	page := `<html><body><h1>Hostel</h1>
<p>Q: What are the hostel visiting hours?</p>
<p>A: Visitors are allowed between 4 PM and 7 PM on weekends only.</p>
<p>Residents must sign the register at the warden office before leaving the campus.</p>
<table><tr><td>Hostel Fee</td><td>12,000</td></tr></table>
</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, page)
	}))
	defer server.Close()

	st := store.NewMemoryStore()
	p := NewPipeline(testConfig(), st, nil, nil)

	result, err := p.Process(context.Background(), server.URL+"/notices/hostel")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.Adapter != "html" {
		t.Errorf("expected html adapter, got %s", result.Adapter)
	}
	if result.SourceFile != "hostel" {
		t.Errorf("expected source file hostel, got %s", result.SourceFile)
	}
	if result.Facts == 0 {
		t.Error("expected facts from the notice")
	}
}

func TestProcess_MissingFile(t *testing.T) {
	p := NewPipeline(testConfig(), store.NewMemoryStore(), nil, nil)

	if _, err := p.Process(context.Background(), filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://college.edu/fees.pdf": true,
		"HTTP://college.edu":           true,
		"docs/fees.pdf":                false,
		"/tmp/http.txt":                false,
	}
	for source, want := range tests {
		if got := isURL(source); got != want {
			t.Errorf("isURL(%q) = %v, want %v", source, got, want)
		}
	}
}

func TestBatch_ShortDocumentIsIsolated(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"fees.txt":   feeNotice,
		"stub.txt":   "Hostel notice pending.",
		"hostel.txt": "Hostel Rules\n\nQ: What is the hostel curfew time?\nA: All residents must return to the hostel by 9 PM on weekdays.\n",
	}
	var sources []string
	for _, name := range []string{"fees.txt", "stub.txt", "hostel.txt"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(files[name]), 0644); err != nil {
			t.Fatal(err)
		}
		sources = append(sources, path)
	}

	st := store.NewMemoryStore()
	p := NewPipeline(testConfig(), st, nil, nil)
	summary := worker.NewBatchProcessor(p, 1, nil).Process(context.Background(), sources)

	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Fatalf("expected 2 succeeded / 1 failed, got %d / %d", summary.Succeeded, summary.Failed)
	}
	failed := summary.Results[1]
	if !errors.Is(failed.Err, model.ErrInsufficientText) {
		t.Errorf("expected ErrInsufficientText for the short document, got %v", failed.Err)
	}
	if !strings.Contains(failed.Reason, "insufficient text") {
		t.Errorf("expected reason to mention insufficient text, got %q", failed.Reason)
	}

	stats, err := st.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Sources != 2 {
		t.Errorf("expected facts from 2 sources, got %d", stats.Sources)
	}
}
