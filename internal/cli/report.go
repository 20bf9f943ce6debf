package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ishaan812/yestergit/internal/git"
	"github.com/ishaan812/yestergit/internal/llm"
	"github.com/ishaan812/yestergit/internal/report"
	"github.com/ishaan812/yestergit/internal/store"
	"github.com/ishaan812/yestergit/internal/timeline"
)

const sinceLayout = "02/01 15:04"

// since is local midnight a number of days back; --days wins over the
// weekday default.
func (a *app) since() time.Time {
	now := a.now()
	days := timeline.Lookback(now)
	if a.daysSet {
		days = a.flags.days
	}
	return timeline.Since(now, days)
}

func (a *app) collect(cmd *cobra.Command, repos []string, since time.Time) []report.Result {
	collector := report.NewCollector(a.log.With().Str("component", "collector").Logger(), a.workers())
	results := collector.Collect(cmd.Context(), repos, git.ExtractOptions{
		Since:       since,
		Author:      a.flags.author,
		FullHistory: a.flags.fullHistory,
	})

	if failed := report.Failed(results); len(failed) > 0 {
		a.log.Info().Int("failed", len(failed)).Int("total", len(results)).Msg("some repositories were skipped")
	}
	return results
}

// report prints the timeline table for repos and notes, optionally followed
// by an AI summary of the same activity.
func (a *app) report(cmd *cobra.Command, repos []string, notes []store.Note, summarize bool) error {
	out := cmd.OutOrStdout()
	since := a.since()

	fmt.Fprintf(out, "Reports since %s\n", since.Local().Format(sinceLayout))

	results := a.collect(cmd, repos, since)
	events := timeline.Merge(report.RepoCommits(results), notes, since)

	if len(events) == 0 {
		dimColor.Fprintln(out, "No events for this time.")
		return nil
	}

	if err := report.RenderTable(out, events); err != nil {
		return err
	}

	if !summarize {
		return nil
	}
	fmt.Fprintln(out)
	return a.summarize(cmd, report.Digest(results, notes, since))
}

func newSummarizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Turn recent activity into a standup update with AI",
		Long: `Collect the same activity as the default report and ask the configured
AI provider for a short standup summary.

Configure the provider with 'yestergit config'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := a.store.Load()
			if err != nil {
				return err
			}

			since := a.since()
			results := a.collect(cmd, state.Repositories, since)
			return a.summarize(cmd, report.Digest(results, state.Entries, since))
		},
	}
}

// summarize sends logs to the provider once. On failure the logs are
// printed so nothing collected is lost, and the error is returned.
func (a *app) summarize(cmd *cobra.Command, logs string) error {
	out := cmd.OutOrStdout()

	if strings.TrimSpace(logs) == "" {
		fmt.Fprintln(out, "There are no logs.")
		return nil
	}

	cfg, err := a.settings()
	if err != nil {
		return err
	}
	ai := cfg.AI
	client, err := a.newClient(llm.Config{
		Provider: ai.Provider,
		Model:    ai.Model,
		URL:      ai.APIURL,
		APIKey:   cfg.APIKey(),
	})
	if err != nil {
		return err
	}

	label := fmt.Sprintf(" AI generating summary... (%s)", ai.Model)
	stop := a.startSpinner(cmd.ErrOrStderr(), label)
	summary, err := llm.Summarize(cmd.Context(), client, ai.Prompt, ai.Language, logs)
	stop()

	if err != nil {
		warnColor.Fprintln(out, "Failed to generate report. Collected logs:")
		fmt.Fprintln(out, logs)
		return err
	}

	headerColor.Fprintln(out, "--- Daily Report ---")
	fmt.Fprintln(out, a.renderMarkdown(out, summary))
	successColor.Fprintln(out, "--------------------")
	return nil
}

func (a *app) startSpinner(w io.Writer, label string) func() {
	if !a.isTerminal(w) {
		dimColor.Fprintln(w, strings.TrimSpace(label))
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = label
	s.Color("cyan")
	s.Start()
	return s.Stop
}

// renderMarkdown styles the summary for a terminal and leaves it untouched
// otherwise.
func (a *app) renderMarkdown(w io.Writer, text string) string {
	if !a.isTerminal(w) {
		return text
	}

	width := 80
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			width = min(cols, 120)
		}
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		a.log.Debug().Err(err).Msg("markdown renderer unavailable")
		return text
	}
	rendered, err := r.Render(text)
	if err != nil {
		a.log.Debug().Err(err).Msg("failed to render summary")
		return text
	}
	return strings.TrimRight(rendered, "\n")
}
