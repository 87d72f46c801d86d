package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/campusfaq/internal/llm"
	"github.com/ppiankov/campusfaq/internal/model"
)

var (
	askTimeout     time.Duration
	showAlternates bool
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from the knowledge base",
	Long: `Ask looks up the single most relevant stored fact and answers from it.
With an LLM provider configured the answer is phrased by the model, but every
number it quotes must appear in the stored fact; otherwise the fact is quoted
as is.

Example:
  campusfaq ask "bcom fees"
  campusfaq ask what are the hostel visiting hours --alternates`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().DurationVar(&askTimeout, "timeout", time.Minute, "answer timeout")
	askCmd.Flags().BoolVar(&showAlternates, "alternates", false, "also list the next best facts")
}

type askOutput struct {
	Query  string             `json:"query"`
	Reply  llm.Reply          `json:"reply"`
	Lookup model.LookupResult `json:"lookup"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.knowledge.Lookup(ctx, query)
	reply := a.responder().Reply(ctx, query, result)

	if jsonOut {
		return printJSON(askOutput{Query: query, Reply: reply, Lookup: result})
	}

	fmt.Println(reply.Text)

	if !result.IsFound() {
		return nil
	}
	if verbose {
		best := result.Best
		fmt.Fprintf(os.Stderr, "\n  Matched:    %s\n", best.Fact.Question)
		fmt.Fprintf(os.Stderr, "  Score:      %.2f (%s)\n", best.Score, best.Confidence)
		fmt.Fprintf(os.Stderr, "  Source:     %s\n", sourceLabel(best.Fact))
	}
	if showAlternates && len(result.Alternates) > 0 {
		fmt.Fprintf(os.Stderr, "\nSee also:\n")
		for _, c := range result.Alternates {
			fmt.Fprintf(os.Stderr, "  • %s (%.2f, %s)\n", c.Fact.Question, c.Score, sourceLabel(c.Fact))
		}
	}
	return nil
}

// sourceLabel renders "fees.pdf p.2"
func sourceLabel(f model.Fact) string {
	label := f.SourceFile
	if label == "" {
		label = "unknown source"
	}
	if f.PageNumber != nil {
		label = fmt.Sprintf("%s p.%d", label, *f.PageNumber)
	}
	return label
}
