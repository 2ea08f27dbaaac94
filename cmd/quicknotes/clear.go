package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newClearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every note",
		Long: `Delete every note in the collection.
Asks for confirmation unless --yes is given. Without a terminal on stdin,
--yes is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer nb.Close()

			if nb.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No notes yet")
				return nil
			}

			if !yes {
				if f, ok := cmd.InOrStdin().(*os.File); ok && !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
					return fmt.Errorf("refusing to clear without --yes: stdin is not a terminal")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Delete all %d notes? [y/N] ", nb.Len())
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "y", "yes":
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			count := nb.Len()
			if err := saved(nb.ClearAll(cmd.Context())); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d notes\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
