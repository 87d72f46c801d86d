package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ppiankov/campusfaq/internal/cache"
	"github.com/ppiankov/campusfaq/internal/extract"
	"github.com/ppiankov/campusfaq/internal/extract/adapters"
	"github.com/ppiankov/campusfaq/internal/model"
	"github.com/ppiankov/campusfaq/internal/store"
	"github.com/ppiankov/campusfaq/internal/worker"
)

// sampleFacts is how many stored facts an IngestResult carries for display
const sampleFacts = 3

// Invalidator drops derived state (cached lookups) after the store changes
type Invalidator interface {
	Invalidate()
}

// Pipeline ingests documents: page text, fact extraction, chunking, storage
type Pipeline struct {
	fetcher     *Fetcher
	adapters    *adapters.Registry
	extractor   *extract.Extractor
	store       store.Store
	invalidator Invalidator // Optional, nil when nothing caches lookups
	config      *model.Config
	logger      *slog.Logger
}

// NewPipeline creates a pipeline writing to st. inv may be nil.
func NewPipeline(cfg *model.Config, st store.Store, inv Invalidator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		fetcher:     NewFetcher(cfg.HTTP, worker.NewLimiterFromConfig(cfg.RateLimiting), cache.New(cfg.Cache)),
		adapters:    adapters.NewRegistry(),
		extractor:   extract.NewExtractor(cfg.Extract, nil, logger),
		store:       st,
		invalidator: inv,
		config:      cfg,
		logger:      logger,
	}
}

// Process ingests a file path or an http(s) URL
func (p *Pipeline) Process(ctx context.Context, source string) (*model.IngestResult, error) {
	if isURL(source) {
		return p.ProcessURL(ctx, source)
	}
	return p.ProcessFile(ctx, source)
}

// ProcessFile ingests a document from disk
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*model.IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	name := filepath.Base(path)
	pages, adapter, err := p.adapters.Extract(name, "", data)
	if err != nil {
		return nil, fmt.Errorf("extract pages from %s: %w", name, err)
	}

	return p.ingest(ctx, path, name, adapter, pages)
}

// ProcessURL downloads and ingests a document
func (p *Pipeline) ProcessURL(ctx context.Context, rawURL string) (*model.IngestResult, error) {
	fetched, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", rawURL, err)
	}
	if fetched.FromCache {
		p.logger.Debug("document served from cache", "url", rawURL)
	}

	name := sourceName(fetched.FinalURL)
	pages, adapter, err := p.adapters.Extract(name, fetched.ContentType, fetched.Body)
	if err != nil {
		return nil, fmt.Errorf("extract pages from %s: %w", rawURL, err)
	}

	return p.ingest(ctx, rawURL, name, adapter, pages)
}

// ProcessText ingests already-decoded text under the given source name
func (p *Pipeline) ProcessText(ctx context.Context, name, text string) (*model.IngestResult, error) {
	return p.ingest(ctx, name, name, "text", []model.Page{{Number: 1, Text: text}})
}

func (p *Pipeline) ingest(ctx context.Context, source, sourceFile, adapter string, pages []model.Page) (*model.IngestResult, error) {
	start := time.Now()

	// 1. Assemble full text
	var parts []string
	for _, page := range pages {
		if strings.TrimSpace(page.Text) != "" {
			parts = append(parts, page.Text)
		}
	}
	fullText := strings.Join(parts, "\n\n")

	chars := utf8.RuneCountInString(strings.TrimSpace(fullText))
	if chars < p.config.Extract.MinTextLength {
		return nil, fmt.Errorf("%w: %d characters extracted from %s, need at least %d",
			model.ErrInsufficientText, chars, sourceFile, p.config.Extract.MinTextLength)
	}

	// 2. Extract and stamp facts
	runID := uuid.NewString()
	facts := p.extractor.Extract(fullText)
	singlePage := len(parts) == 1 && len(pages) == 1
	for i := range facts {
		facts[i].SourceFile = sourceFile
		facts[i].RunID = runID
		if singlePage {
			n := pages[0].Number
			facts[i].PageNumber = &n
		}
	}

	// 3. Chunk pages
	chunks := extract.ChunkPages(pages, sourceFile, p.config.Extract.ChunkSize)
	for i := range chunks {
		chunks[i].RunID = runID
	}

	// 4. Store atomically
	if err := p.store.SaveDocument(ctx, facts, chunks); err != nil {
		return nil, fmt.Errorf("store %s: %w", sourceFile, err)
	}
	if p.invalidator != nil {
		p.invalidator.Invalidate()
	}

	result := &model.IngestResult{
		Source:     source,
		SourceFile: sourceFile,
		RunID:      runID,
		Adapter:    adapter,
		Pages:      len(pages),
		Characters: chars,
		Facts:      len(facts),
		Chunks:     len(chunks),
		Categories: make(map[model.Category]int),
		Duration:   time.Since(start),
	}
	for _, f := range facts {
		result.Categories[f.Category]++
	}
	if len(facts) > sampleFacts {
		result.Samples = facts[:sampleFacts]
	} else {
		result.Samples = facts
	}

	if len(facts) == 0 {
		p.logger.Warn("no facts extracted", "source", source, "characters", chars)
	}
	p.logger.Info("document ingested", "source", source, "adapter", adapter,
		"pages", len(pages), "facts", len(facts), "chunks", len(chunks), "run_id", runID)

	return result, nil
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
