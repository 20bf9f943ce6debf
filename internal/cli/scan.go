package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ishaan812/yestergit/internal/scanner"
	"github.com/ishaan812/yestergit/internal/tui"
)

func newScanCmd(a *app) *cobra.Command {
	var (
		path     string
		exclude  []string
		maxDepth int
		pick     bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find git repositories under a directory and track them",
		Long: `Walk a directory tree and register every git repository found in it.

Hidden directories are skipped, and repositories nested inside another
repository are not reported. Scanning the same tree again is safe:
already tracked repositories are left alone.

Examples:
  yestergit scan                          # Scan the current directory
  yestergit scan --path ~/src             # Scan a workspace
  yestergit scan --path ~/src --select    # Choose which repositories to track
  yestergit scan --exclude '**/vendor/**' # Skip matching directories`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if maxDepth < 0 {
				return fmt.Errorf("--max-depth must not be negative")
			}

			repos, err := scanner.Scan(cmd.Context(), path, scanner.Options{
				Workers:  a.workers(),
				Exclude:  slices.Concat(a.scanSettings().Exclude, exclude),
				MaxDepth: maxDepth,
				Logger:   a.log.With().Str("component", "scanner").Logger(),
			})
			if err != nil {
				return err
			}

			if len(repos) == 0 {
				fmt.Fprintln(out, "No repos found.")
				return nil
			}

			if pick {
				if !a.interactive() {
					return fmt.Errorf("--select needs an interactive terminal")
				}
				repos, err = tui.RunRepoSelection(repos)
				if errors.Is(err, tui.ErrCanceled) {
					dimColor.Fprintln(out, "Canceled.")
					return nil
				}
				if err != nil {
					return err
				}
				if len(repos) == 0 {
					dimColor.Fprintln(out, "Nothing selected.")
					return nil
				}
			}

			state, err := a.store.Load()
			if err != nil {
				return err
			}
			added := state.AddRepositories(repos)
			if err := a.store.Save(state); err != nil {
				return err
			}

			for _, p := range added {
				dimColor.Fprintf(out, "  + %s\n", p)
			}
			successColor.Fprintln(out, "Repositories added to local database.")
			dimColor.Fprintf(out, "%d new, %d already tracked\n", len(added), len(repos)-len(added))
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", ".", "Directory to scan")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Glob of directories to skip, relative to --path (repeatable)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum directory depth to descend (0 = unlimited)")
	cmd.Flags().BoolVar(&pick, "select", false, "Choose interactively which repositories to track")

	return cmd
}
