package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newIndexCommand() *cobra.Command {
	var corpusPath string
	var column string

	cmd := &cobra.Command{
		Use:   "index [corpus.csv]",
		Short: "Build the vector index from a review corpus",
		Long: `Load the review corpus, embed every review and write the vectors to
the configured index backend. Re-running replaces existing entries in
place, so the index never accumulates duplicates.

Examples:
  reviewrag index reviews.csv
  reviewrag index --corpus reviews.csv
  reviewrag index`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := GetGlobalConfig()
			if err != nil {
				return err
			}

			path := cfg.Corpus.Path
			if corpusPath != "" {
				path = corpusPath
			}
			if len(args) == 1 {
				path = args[0]
			}
			if column != "" {
				cfg.Corpus.Column = column
			}

			indexer, components, err := buildIndexer(cfg)
			if err != nil {
				return err
			}
			defer components.close()

			start := time.Now()
			count, err := indexer.Build(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("indexing failed: %w", err)
			}

			fmt.Printf("Indexed %d reviews from %s in %s\n", count, path, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&corpusPath, "corpus", "", "corpus CSV path (overrides config)")
	cmd.Flags().StringVar(&column, "column", "", "review text column, by header name or zero-based position (overrides config)")

	return cmd
}
