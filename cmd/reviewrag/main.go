package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/yildizm/ReviewRAG/internal/cli"
)

// Build variables set by ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// A .env file is optional; absence is not an error
	_ = godotenv.Load()

	cmd := cli.NewRootCommand(version, commit, date)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
