package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	qlifecycle "github.com/aretw0/quicknotes/pkg/adapters/lifecycle"
)

func newWatchCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print changes made to the notes by any process",
		Long: `Watch the store for changes to the notes and print one line per change
with the number of notes afterwards. Runs until interrupted, or for
--timeout. Supported by the fs, memory and redis adapters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			nb, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer nb.Close()

			src := qlifecycle.NewSource(nb)
			if err := src.Start(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %q (%d notes)\n", nb.Key(), nb.Len())
			for e := range src.Events() {
				fmt.Fprintf(out, "%s %s (%d notes)\n", time.Now().Format(time.TimeOnly), e, nb.Len())
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Stop after this long (0 runs until interrupted)")
	return cmd
}
