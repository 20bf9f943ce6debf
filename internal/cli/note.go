package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ishaan812/yestergit/internal/tui"
)

func newNoteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "note [message...]",
		Short: "Record work that is not in git",
		Long: `Save a free-text note. Notes show up in the next report next to your
commits, ordered by the time they were written.

Run without a message to type it in an interactive prompt.

Examples:
  yestergit note "Reviewed the release checklist"
  yestergit note Paired with Sam on the flaky test
  yestergit note`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			message := strings.TrimSpace(strings.Join(args, " "))

			if message == "" {
				if len(args) > 0 || !a.interactive() {
					return fmt.Errorf("note message is required")
				}
				var err error
				message, err = tui.RunNotePrompt()
				if errors.Is(err, tui.ErrCanceled) {
					dimColor.Fprintln(out, "Canceled.")
					return nil
				}
				if err != nil {
					return err
				}
			}

			state, err := a.store.Load()
			if err != nil {
				return err
			}
			n := state.AddNote(message)
			if err := a.store.Save(state); err != nil {
				return err
			}

			a.log.Debug().Str("id", n.ID).Msg("note saved")
			successColor.Fprintln(out, "Note saved. It will appear in your next daily report.")
			return nil
		},
	}
}
