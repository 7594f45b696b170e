package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/ReviewRAG/internal/formatter"
)

func newAskCommand() *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question about the indexed reviews",
		Long: `Run a single question through the pipeline: retrieve the most similar
reviews from the index, compose a prompt and generate an answer.

Examples:
  reviewrag ask "what do people think about the latte?"
  reviewrag ask --top-k 10 "is the grinder loud?"
  reviewrag ask -o json "how reliable is the frother?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := GetGlobalConfig()
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")

			components, err := buildPipeline(cfg)
			if err != nil {
				return err
			}
			defer components.close()

			answer, err := components.orchestrator.AnswerK(cmd.Context(), query, topK)
			if err != nil {
				return err
			}

			f, err := formatter.New(getOutputFormat(cfg), colorEnabled(cfg))
			if err != nil {
				return err
			}
			out, err := f.Format(&formatter.Result{Query: query, Answer: answer})
			if err != nil {
				return fmt.Errorf("failed to format answer: %w", err)
			}

			_, err = os.Stdout.Write(append(out, '\n'))
			return err
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "reviews to retrieve (0 uses config)")

	return cmd
}
