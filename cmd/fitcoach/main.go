// Package main provides the fitcoach CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fitcoach/cli"
)

var (
	// Global flags
	provider string
	dbPath   string
	verbose  bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "fitcoach",
		Short: "French-speaking fitness coach grounded on a vector knowledge base",
		Long: `A retrieval-augmented fitness and nutrition coach.

Answers are composed in French, grounded on a seeded knowledge base of
exercise and nutrition documents, with YouTube video recommendations
attached to the most relevant passages.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "LLM provider (ollama, openai, anthropic, gemini)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", ".fitcoach/fitcoach.db", "Database path for session storage")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	// Add commands
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(sessionsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func options() cli.Options {
	return cli.Options{
		Provider: provider,
		DBPath:   dbPath,
		Verbose:  verbose,
	}
}

func chatCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive coaching session",
		Long: `Start an interactive coaching session.

Conversation history is persisted per session, so a session can be
resumed later with --session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := options()
			opts.Session = sessionID
			return cli.Chat(context.Background(), opts)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID for conversation persistence (generated if empty)")

	return cmd
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question without session persistence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Ask(context.Background(), args[0], options())
		},
	}
}

func seedCmd() *cobra.Command {
	var datasetPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the knowledge base from the fitness dataset",
		Long: `Seed the vector index from the fitness dataset.

Seeding is idempotent: if the collection already exists, nothing is
embedded or written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Seed(context.Background(), datasetPath, options())
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to the dataset JSON file (defaults to DATASET_PATH)")

	return cmd
}

func sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List persisted coaching sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Sessions(context.Background(), options())
		},
	}
}
