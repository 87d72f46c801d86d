package worker

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/campusfaq/internal/model"
)

// DocumentProcessor ingests one document source (file path or URL)
type DocumentProcessor interface {
	Process(ctx context.Context, source string) (*model.IngestResult, error)
}

// documentJob ingests a single source; panics are turned into a failed result
type documentJob struct {
	index     int
	source    string
	processor DocumentProcessor
}

// Execute runs the processor for the job's source
func (j *documentJob) Execute(ctx context.Context) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = &documentResult{model.DocumentResult{
				Index:  j.index,
				Source: j.source,
				Err:    fmt.Errorf("processing panicked: %v", r),
			}}
		}
	}()

	result, err := j.processor.Process(ctx, j.source)
	return &documentResult{model.DocumentResult{
		Index:  j.index,
		Source: j.source,
		Result: result,
		Err:    err,
	}}
}

type documentResult struct {
	model.DocumentResult
}

// GetError returns the document error
func (r *documentResult) GetError() error {
	return r.Err
}

// BatchProcessor ingests many documents with per-document failure isolation
type BatchProcessor struct {
	processor DocumentProcessor
	workers   int
	logger    *slog.Logger
}

// NewBatchProcessor creates a batch processor. One worker processes the
// sources sequentially.
func NewBatchProcessor(processor DocumentProcessor, workers int, logger *slog.Logger) *BatchProcessor {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{
		processor: processor,
		workers:   workers,
		logger:    logger,
	}
}

// Process ingests every source and summarizes the outcome. Results keep the
// input order. A failing document never stops the others.
func (b *BatchProcessor) Process(ctx context.Context, sources []string) *model.BatchSummary {
	start := time.Now()
	summary := &model.BatchSummary{Total: len(sources), Results: []model.DocumentResult{}}
	if len(sources) == 0 {
		return summary
	}

	pool := NewPoolWithContext(ctx, b.workers)
	pool.Start()

	for i, source := range sources {
		pool.Submit(&documentJob{index: i, source: source, processor: b.processor})
	}

	byIndex := make(map[int]model.DocumentResult, len(sources))
	for _, r := range pool.Wait() {
		dr := r.(*documentResult).DocumentResult
		byIndex[dr.Index] = dr
	}

	for i, source := range sources {
		dr, ok := byIndex[i]
		if !ok {
			// Never ran: the batch context was cancelled first
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("not processed")
			}
			dr = model.DocumentResult{Index: i, Source: source, Err: err}
		}

		if dr.Err != nil || dr.Result == nil {
			if dr.Err == nil {
				dr.Err = fmt.Errorf("no result")
			}
			dr.Reason = dr.Err.Error()
			summary.Failed++
			b.logger.Warn("document failed", "source", dr.Source, "err", dr.Err)
		} else {
			summary.Succeeded++
			summary.FactsStored += dr.Result.Facts
			summary.ChunksStored += dr.Result.Chunks
		}
		summary.Results = append(summary.Results, dr)
	}

	summary.Duration = time.Since(start)

	b.logger.Info("batch complete", "total", summary.Total, "succeeded", summary.Succeeded,
		"failed", summary.Failed, "facts", summary.FactsStored)
	return summary
}

// ProcessFile reads sources from a list file and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) (*model.BatchSummary, error) {
	sources, err := ReadSourcesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}
	return b.Process(ctx, sources), nil
}

// ReadSourcesFromFile reads document paths or URLs from a file, one per line.
// Blank lines and # comments are skipped, duplicates dropped.
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return sources, nil
}
