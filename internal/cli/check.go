package cli

import (
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report on one repository without tracking it",
		Long: `Print the report for a single repository, together with your notes,
without adding the repository to the tracked list.

Examples:
  yestergit check --path ~/src/api
  yestergit check --path . --days 7 --author alice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := a.store.Load()
			if err != nil {
				return err
			}
			return a.report(cmd, []string{path}, state.Entries, false)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Repository to report on")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}
