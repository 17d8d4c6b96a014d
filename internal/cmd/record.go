package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/voicememo"
	"github.com/randalmurphal/voicememo/capture"
	"github.com/randalmurphal/voicememo/config"
	"github.com/randalmurphal/voicememo/enhance"
	"github.com/randalmurphal/voicememo/notify"
	"github.com/randalmurphal/voicememo/store"
	"github.com/randalmurphal/voicememo/transcribe"
)

// NewRecordCmd creates the record command. It captures audio from a file
// or stdin, runs the transcribe-enhance-persist pipeline, and prints the
// saved memo. Recording stops on end of input, Ctrl-C, or the capture
// ceiling.
func NewRecordCmd() *cobra.Command {
	var (
		input   string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a voice memo and process it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, input, verbose)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "audio input file (\"-\" for stdin)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func runRecord(cmd *cobra.Command, input string, verbose bool) error {
	logger := newLogger(verbose)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = store.DefaultPath()
	}
	memoStore, err := store.Open(dbPath, logger)
	if err != nil {
		return err
	}
	defer memoStore.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := memoStore.WaitReady(waitCtx); err != nil {
		return fmt.Errorf("store initialization: %w", err)
	}

	device := &capture.ReaderDevice{
		NewReader: func() (io.Reader, error) {
			if input == "-" {
				return os.Stdin, nil
			}
			return os.Open(input)
		},
	}
	rec := capture.NewRecorder(device, capture.Config{
		Constraints: capture.Constraints{
			EchoCancellation: cfg.EchoCancellation,
			NoiseSuppression: cfg.NoiseSuppression,
			AutoGainControl:  cfg.AutoGainControl,
			SampleRate:       cfg.SampleRate,
			Channels:         cfg.Channels,
		},
		TimeSlice:        cfg.TimeSlice,
		MaxDuration:      cfg.MaxDuration,
		ProgressInterval: cfg.ProgressInterval,
	}, logger)

	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.WebhookURL != "" {
		notifier = notify.NewMultiNotifier(notifier, notify.NewWebhookNotifier(cfg.WebhookURL, nil))
	}

	orc := voicememo.NewOrchestrator(
		transcribe.NewClient(transcribe.Config{
			BaseURL:  cfg.APIBaseURL,
			APIKey:   cfg.APIKey,
			Model:    cfg.TranscriptionModel,
			Language: cfg.TranscriptionLanguage,
		}, logger),
		enhance.NewClient(enhance.Config{
			BaseURL:      cfg.APIBaseURL,
			APIKey:       cfg.APIKey,
			Model:        cfg.ChatModel,
			SystemPrompt: cfg.SystemPrompt,
			MaxTokens:    cfg.MaxTokens,
			Temperature:  cfg.Temperature,
			ToolName:     cfg.ToolName,
		}, logger),
		memoStore,
		notifier,
		logger,
	)

	if err := rec.Prepare(ctx); err != nil {
		return err
	}
	if err := rec.Start(); err != nil {
		return err
	}

	// Ctrl-C stops the recording rather than killing the process; the
	// pipeline then runs on a fresh context so it finishes cleanly.
	go func() {
		<-ctx.Done()
		rec.Stop()
	}()

	out := cmd.OutOrStdout()
	for ev := range rec.Events() {
		switch ev.Kind {
		case capture.EventProgress:
			fmt.Fprintf(out, "\r%s %s", recordingDotStyle.Render("●"), ev.Formatted)

		case capture.EventError:
			fmt.Fprintln(out)
			return fmt.Errorf("recording failed: %w", ev.Err)

		case capture.EventComplete:
			fmt.Fprintf(out, "\rrecorded %s, processing...\n", capture.FormatDuration(ev.Duration))

			runCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			memo, err := orc.Run(runCtx, ev.Artifact)
			if err != nil {
				return err
			}
			printMemo(out, memo)
			return nil
		}
	}
	return nil
}
