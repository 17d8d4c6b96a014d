package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/voicememo/capture"
	"github.com/randalmurphal/voicememo/config"
	"github.com/randalmurphal/voicememo/store"
)

// NewListCmd creates the list command showing all memos, newest first.
func NewListCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved voice memos",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func runList(cmd *cobra.Command, verbose bool) error {
	logger := newLogger(verbose)

	memoStore, err := openStore(logger)
	if err != nil {
		return err
	}
	defer memoStore.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	if err := memoStore.WaitReady(ctx); err != nil {
		return fmt.Errorf("store initialization: %w", err)
	}

	memos, err := memoStore.ListAll(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(memos) == 0 {
		fmt.Fprintln(out, "no memos yet")
		return nil
	}
	for _, m := range memos {
		printMemo(out, m)
	}
	return nil
}

func openStore(logger *slog.Logger) (*store.Store, error) {
	cfg := config.NewResolver().Resolve()
	dbPath := cfg.Get(config.KeyDBPath)
	if dbPath == "" {
		dbPath = store.DefaultPath()
	}
	return store.Open(dbPath, logger)
}

func printMemo(out io.Writer, m store.Memo) {
	when := time.UnixMilli(m.Timestamp).Format("2006-01-02 15:04")
	header := fmt.Sprintf("#%d", m.ID)

	fmt.Fprintf(out, "%s %s %s\n",
		titleStyle.Render(header),
		timestampStyle.Render(when),
		timestampStyle.Render(capture.FormatDuration(time.Duration(m.Duration)*time.Millisecond)),
	)

	text := m.Enhanced.Text
	if text == "" {
		text = m.Transcription
	}
	if text != "" {
		fmt.Fprintf(out, "  %s\n", text)
	}
	if len(m.Enhanced.Tags) > 0 {
		fmt.Fprintf(out, "  %s\n", tagStyle.Render(strings.Join(m.Enhanced.Tags, " ")))
	}
	if m.Enhanced.Thoughts != "" {
		fmt.Fprintf(out, "  %s\n", thoughtsStyle.Render(m.Enhanced.Thoughts))
	}
	fmt.Fprintln(out)
}
