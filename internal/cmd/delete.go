package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// NewDeleteCmd creates the delete command. Deleting an id that does not
// exist is not an error.
func NewDeleteCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved voice memo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid memo id %q", args[0])
			}
			return runDelete(cmd, id, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func runDelete(cmd *cobra.Command, id int64, verbose bool) error {
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

	if err := memoStore.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted memo %d\n", id)
	return nil
}
