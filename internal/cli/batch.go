package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/campusfaq/internal/worker"
)

var (
	concurrency  int
	sourcesFile  string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [file|url]...",
	Short: "Ingest many documents, isolating failures",
	Long: `Batch ingests documents given as arguments and/or listed in a file
(one path or URL per line, # comments allowed). A document that fails
(unreadable, too little text, fetch error) is reported and skipped; the
rest are still ingested.

Example:
  campusfaq batch notices/*.pdf
  campusfaq batch --from sources.txt --concurrency 4`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&sourcesFile, "from", "", "file listing documents to ingest")
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	sources := append([]string{}, args...)
	if sourcesFile != "" {
		listed, err := worker.ReadSourcesFromFile(sourcesFile)
		if err != nil {
			return fmt.Errorf("read sources: %w", err)
		}
		sources = append(sources, listed...)
	}
	sources = dedupe(sources)
	if len(sources) == 0 {
		return fmt.Errorf("no documents given (pass paths or URLs, or --from <file>)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	workers := a.cfg.Concurrency.Workers
	if concurrency > 0 {
		workers = concurrency
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  campusfaq Batch Ingestion\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Documents:    %d\n", len(sources))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Database:     %s\n", a.store.Path())
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewBatchProcessor(a.pipeline(), workers, a.logger)
	summary := processor.Process(ctx, sources)

	for _, r := range summary.Results {
		if !r.Succeeded() {
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", r.Source, r.Reason)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s: %d facts, %d chunks\n", r.Source, r.Result.Facts, r.Result.Chunks)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d documents\n", summary.Total)
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", summary.Succeeded)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", summary.Failed)
	fmt.Fprintf(os.Stderr, "  Facts:     %d\n", summary.FactsStored)
	fmt.Fprintf(os.Stderr, "  Chunks:    %d\n", summary.ChunksStored)
	fmt.Fprintf(os.Stderr, "  Duration:  %v\n", summary.Duration.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "\n")

	if jsonOut {
		return printJSON(summary)
	}
	return nil
}

func dedupe(sources []string) []string {
	seen := make(map[string]bool, len(sources))
	out := sources[:0]
	for _, s := range sources {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
