package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var notes bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked repositories",
		Long: `List every repository yestergit reports on.

Examples:
  yestergit list           # Tracked repositories
  yestergit list --notes   # Also show saved notes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			state, err := a.store.Load()
			if err != nil {
				return err
			}

			titleColor.Fprintln(out, "Tracked repos:")
			if len(state.Repositories) == 0 {
				dimColor.Fprintln(out, "  None yet. Run 'yestergit scan' to add some.")
			}
			for _, repo := range state.Repositories {
				fmt.Fprintf(out, " - %s\n", repo)
			}

			if !notes {
				return nil
			}

			fmt.Fprintln(out)
			titleColor.Fprintln(out, "Notes:")
			if len(state.Entries) == 0 {
				dimColor.Fprintln(out, "  No notes saved.")
			}
			for _, n := range state.Entries {
				dimColor.Fprintf(out, " %s ", n.Date.Local().Format(sinceLayout))
				infoColor.Fprintln(out, n.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&notes, "notes", "n", false, "Also list saved notes")

	return cmd
}
