// Package cmd implements the voicememo CLI commands.
package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the voicememo CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "voicememo",
		Short: "Voice memos with AI transcription and enhancement",
		Long:  "Voicememo - capture short voice memos, transcribe them via a remote speech-to-text service, enhance the transcript with a language model, and browse the results locally",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadDotEnv()
		},
	}

	rootCmd.AddCommand(NewRecordCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewDeleteCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// loadDotEnv loads .env.local and .env from the working directory. It
// only sets vars that are not already set, matching godotenv's behavior.
func loadDotEnv() {
	for _, p := range []string{".env.local", ".env"} {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to load env file", "path", p, "error", err)
		}
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
