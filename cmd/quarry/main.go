package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Document ingestion service for the knowledge base",
	Long: `Quarry extracts text from documents, resolves a section layout with an
LLM strategist, splits each section into chunks, validates them with an LLM
judge, and commits the surviving runs to Postgres and blob storage.

Configuration is read from config.toml plus an optional config.<env>.toml
overlay selected by QUARRY_ENV. QUARRY_* environment variables take
precedence over both.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
