package cli

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/spf13/cobra"

	"github.com/yildizm/ReviewRAG/internal/config"
	"github.com/yildizm/ReviewRAG/internal/logger"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	outputFmt string

	globalConfig     *config.Config
	globalConfigOnce sync.Once
	globalConfigErr  error
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "reviewrag",
		Short: "Question answering over customer reviews",
		Long: `ReviewRAG answers natural-language questions about a product review
corpus. It embeds the reviews into a persistent vector index, retrieves
the most relevant ones for each question, and asks a language model to
summarize them into an item name and its common themes.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json)")

	// Add subcommands
	rootCmd.AddCommand(newIndexCommand())
	rootCmd.AddCommand(newAskCommand())
	rootCmd.AddCommand(newChatCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			fmt.Printf("ReviewRAG %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Global helpers

func isVerbose() bool {
	return verbose
}

func getOutputFormat(cfg *config.Config) string {
	if outputFmt != "" {
		return outputFmt
	}
	return cfg.Output.DefaultFormat
}

func colorEnabled(cfg *config.Config) bool {
	if noColor {
		return false
	}
	return cfg.Output.ColorMode != "never"
}

// GetGlobalConfig loads the configuration once and reuses it for all
// commands in the process.
func GetGlobalConfig() (*config.Config, error) {
	globalConfigOnce.Do(func() {
		globalConfig, globalConfigErr = config.NewLoader().LoadConfig(cfgFile)
		if globalConfigErr == nil && globalConfig.Output.Verbose {
			verbose = true
		}
	})
	return globalConfig, globalConfigErr
}

// GetLogger returns a component logger wired to the global verbose flag
func GetLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}
