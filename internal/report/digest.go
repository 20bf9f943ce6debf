package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ishaan812/yestergit/internal/store"
	"github.com/ishaan812/yestergit/internal/timeline"
)

// Digest renders collected commits and notes as plain text for the
// summarizer. It returns an empty string when there is nothing to report.
func Digest(results []Result, notes []store.Note, since time.Time) string {
	var b strings.Builder

	for _, rc := range RepoCommits(results) {
		fmt.Fprintf(&b, "Project: %s\n", rc.Label)
		for _, c := range rc.Commits {
			fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(c.Message))
		}
		b.WriteString("\n")
	}

	recent := timeline.FilterNotes(notes, since)
	if len(recent) > 0 {
		b.WriteString("--- Manual Notes ---\n")
		for _, n := range recent {
			fmt.Fprintf(&b, "Note: %s\n", strings.TrimSpace(n.Message))
		}
	}

	return b.String()
}
