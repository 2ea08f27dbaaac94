package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicknotes"
)

func newAddCmd(a *app) *cobra.Command {
	var title, content, color string

	cmd := &cobra.Command{
		Use:   "add [TITLE]",
		Short: "Create a note",
		Long: `Create a note with a title, content and color.
The title may be given as the first argument or with --title.
At least one of title or content must be non-blank.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if cmd.Flags().Changed("title") {
					return fmt.Errorf("title given twice")
				}
				title = args[0]
			}
			c, err := quicknotes.ParseColor(color)
			if err != nil {
				return err
			}

			nb, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer nb.Close()

			n, err := nb.Create(cmd.Context(), title, content, c)
			if err := saved(err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created note %s\n", n.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Note title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "Note content")
	cmd.Flags().StringVar(&color, "color", string(quicknotes.ColorBlue), "Note color: blue, green, yellow, pink, purple or gray")
	return cmd
}
