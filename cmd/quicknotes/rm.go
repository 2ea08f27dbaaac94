package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicknotes"
)

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID...",
		Aliases: []string{"delete"},
		Short:   "Delete notes",
		Long:    `Delete the notes with the given IDs (or unique prefixes). Unknown IDs are ignored.`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer nb.Close()

			for _, arg := range args {
				id, err := resolveID(nb, arg)
				if errors.Is(err, quicknotes.ErrNotFound) {
					// Deleting what is not there is a no-op.
					a.logger.Debug("nothing to delete", "id", arg)
					continue
				}
				if err != nil {
					return err
				}
				if err := saved(nb.Delete(cmd.Context(), id)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", id)
			}
			return nil
		},
	}
}
