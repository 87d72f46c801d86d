package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/campusfaq/internal/model"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.knowledge.Stats(ctx)
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(stats)
		}

		fmt.Printf("Database:  %s\n", a.store.Path())
		fmt.Printf("Facts:     %d\n", stats.TotalFacts)
		fmt.Printf("Chunks:    %d\n", stats.TotalChunks)
		fmt.Printf("Sources:   %d\n", stats.Sources)

		if len(stats.Categories) > 0 {
			fmt.Println("\nBy category:")
			keys := make([]model.Category, 0, len(stats.Categories))
			for c := range stats.Categories {
				keys = append(keys, c)
			}
			sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
			for _, k := range keys {
				fmt.Printf("  %-12s %d\n", k, stats.Categories[k])
			}
		}

		if len(stats.Languages) > 0 {
			fmt.Println("\nBy language:")
			keys := make([]string, 0, len(stats.Languages))
			for l := range stats.Languages {
				keys = append(keys, l)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  %-12s %d\n", k, stats.Languages[k])
			}
		}
		return nil
	},
}

var clearConfirmed bool

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored fact and chunk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearConfirmed {
			return fmt.Errorf("refusing to clear the knowledge base without --yes")
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.knowledge.Clear(ctx); err != nil {
			return err
		}
		fmt.Printf("✓ Cleared %s\n", a.store.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().BoolVar(&clearConfirmed, "yes", false, "confirm deletion")
}
