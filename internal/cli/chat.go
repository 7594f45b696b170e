package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yildizm/ReviewRAG/internal/tui"
)

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive question session over the indexed reviews",
		Long: `Open a terminal chat session. Each question runs through the full
pipeline against the persistent index; answers accumulate in a
scrollable transcript. Press Ctrl+C or Esc to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := GetGlobalConfig()
			if err != nil {
				return err
			}

			components, err := buildPipeline(cfg)
			if err != nil {
				return err
			}
			defer components.close()

			program := tea.NewProgram(tui.New(components.orchestrator), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("chat session failed: %w", err)
			}
			return nil
		},
	}
}
