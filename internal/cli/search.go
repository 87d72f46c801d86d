package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/campusfaq/internal/model"
)

var searchLimit int

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "List every ranked candidate fact for a query",
	Long: `Search shows how a query is ranked: all candidate facts with their scores
and confidence bands, including those below the relevance floor that ask
would ignore.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum candidates to show (0 = all)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	candidates, err := a.knowledge.Search(ctx, query)
	if errors.Is(err, model.ErrEmptyQuery) {
		return fmt.Errorf("query %q has no searchable words", query)
	}
	if err != nil {
		return err
	}

	if searchLimit > 0 && len(candidates) > searchLimit {
		candidates = candidates[:searchLimit]
	}

	if jsonOut {
		return printJSON(candidates)
	}

	if len(candidates) == 0 {
		fmt.Println("No matching facts.")
		return nil
	}

	for i, c := range candidates {
		marker := " "
		if c.Score <= a.cfg.Retrieval.MinRelevance {
			marker = "-" // below the floor, never answered
		}
		fmt.Printf("%2d.%s %.2f %-6s  %s\n", i+1, marker, c.Score, c.Confidence, c.Fact.Question)
		fmt.Printf("             %s\n", truncate(c.Fact.Answer, 100))
		fmt.Printf("             [%s, %s]\n", c.Fact.Category, sourceLabel(c.Fact))
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
