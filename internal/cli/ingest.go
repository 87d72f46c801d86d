package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/campusfaq/internal/model"
)

var ingestTimeout time.Duration

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <file|url>...",
	Short: "Extract facts from documents into the knowledge base",
	Long: `Ingest reads each document, extracts question/answer facts (fees, tables,
Q&A sections, topic paragraphs) and stores them with the document's text chunks.

Supported formats: PDF, DOCX, XLSX, XLS, HTML, plain text. URLs are fetched
politely (robots.txt, per-host rate limit).

Example:
  campusfaq ingest fees-2024.pdf
  campusfaq ingest hostel-rules.docx https://college.edu/notices/scholarship.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 5*time.Minute, "overall ingestion timeout")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.pipeline()

	var (
		results []*model.IngestResult
		failed  int
	)
	for _, source := range args {
		if verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Ingesting %s...\n", source)
		}

		result, err := p.Process(ctx, source)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", source, err)
			continue
		}
		results = append(results, result)
		printIngestResult(result)
	}

	if jsonOut {
		if err := printJSON(results); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(args))
	}
	return nil
}

func printIngestResult(r *model.IngestResult) {
	fmt.Fprintf(os.Stderr, "✓ %s: %d facts, %d chunks (%s, %d pages, %d characters)\n",
		r.SourceFile, r.Facts, r.Chunks, r.Adapter, r.Pages, r.Characters)
	if r.Facts == 0 {
		fmt.Fprintf(os.Stderr, "  ⚠️  no facts found; the text is stored as chunks only\n")
		return
	}

	categories := make([]string, 0, len(r.Categories))
	for c := range r.Categories {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(os.Stderr, "  %-12s %d\n", c, r.Categories[model.Category(c)])
	}

	if verbose {
		for _, f := range r.Samples {
			fmt.Fprintf(os.Stderr, "  Q: %s\n  A: %s\n", f.Question, f.Answer)
		}
	}
}
