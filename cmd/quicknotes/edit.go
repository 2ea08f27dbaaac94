package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicknotes"
)

func newEditCmd(a *app) *cobra.Command {
	var title, content, color string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a note",
		Long: `Change the title, content or color of a note.
Only the flags given are changed. ID may be any unique prefix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("content") && !flags.Changed("color") {
				return fmt.Errorf("nothing to change: pass --title, --content or --color")
			}

			var c quicknotes.Color
			if flags.Changed("color") {
				parsed, err := quicknotes.ParseColor(color)
				if err != nil {
					return err
				}
				c = parsed
			}

			nb, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer nb.Close()

			id, err := resolveID(nb, args[0])
			if err != nil {
				return err
			}
			current, err := nb.Get(id)
			if err != nil {
				return err
			}
			if !flags.Changed("title") {
				title = current.Title
			}
			if !flags.Changed("content") {
				content = current.Content
			}

			if _, err := nb.Update(cmd.Context(), id, title, content, c); err != nil {
				return saved(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated note %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "New content")
	cmd.Flags().StringVar(&color, "color", "", "New color")
	return cmd
}
