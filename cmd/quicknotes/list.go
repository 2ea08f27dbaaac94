package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicknotes"
)

func newListCmd(a *app) *cobra.Command {
	var (
		search string
		color  string
		sortBy string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes",
		Long: `List notes, most recently updated first.
--search matches title or content, case-insensitively.
--color keeps one color ("all" keeps every color).
--sort orders by "date" (newest first) or "title" (alphabetical).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			colorFilter, err := quicknotes.ParseColorFilter(color)
			if err != nil {
				return err
			}
			order, err := quicknotes.ParseSort(sortBy)
			if err != nil {
				return err
			}

			nb, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer nb.Close()

			notes := nb.Query(quicknotes.Query{Search: search, Color: colorFilter, Sort: order})
			out := cmd.OutOrStdout()

			if asJSON {
				return printJSON(out, notes...)
			}
			switch {
			case nb.Len() == 0:
				fmt.Fprintln(out, "No notes yet")
			case len(notes) == 0:
				fmt.Fprintln(out, "No notes match your search")
			default:
				printTable(out, notes)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive text to look for")
	cmd.Flags().StringVar(&color, "color", "all", "Color filter")
	cmd.Flags().StringVar(&sortBy, "sort", "date", "Sort order: date or title")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}
