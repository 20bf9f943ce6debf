// Package timeline merges commits and notes into one chronological sequence.
package timeline

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/ishaan812/yestergit/internal/git"
	"github.com/ishaan812/yestergit/internal/store"
)

// Event is either a CommitEvent or a NoteEvent.
type Event interface {
	Time() time.Time
	event()
}

// CommitEvent is a commit tagged with the repository it came from.
type CommitEvent struct {
	Repo   string
	Commit git.Commit
}

func (e CommitEvent) Time() time.Time { return e.Commit.When }
func (CommitEvent) event()            {}

// NoteEvent is a manually recorded note.
type NoteEvent struct {
	Note store.Note
}

func (e NoteEvent) Time() time.Time { return e.Note.Date }
func (NoteEvent) event()            {}

// RepoCommits holds the commits extracted from one repository.
type RepoCommits struct {
	Label   string
	Commits []git.Commit
}

// Merge flattens commits and notes into events sorted oldest first. Commits
// are expected to be filtered by the extractor already; notes are kept only
// when strictly newer than since. Equal timestamps keep input order.
func Merge(repos []RepoCommits, notes []store.Note, since time.Time) []Event {
	var events []Event
	for _, rc := range repos {
		for _, c := range rc.Commits {
			events = append(events, CommitEvent{Repo: rc.Label, Commit: c})
		}
	}
	for _, n := range FilterNotes(notes, since) {
		events = append(events, NoteEvent{Note: n})
	}

	slices.SortStableFunc(events, func(a, b Event) int {
		return a.Time().Compare(b.Time())
	})
	return events
}

// FilterNotes returns the notes recorded strictly after since.
func FilterNotes(notes []store.Note, since time.Time) []store.Note {
	var out []store.Note
	for _, n := range notes {
		if n.Date.After(since) {
			out = append(out, n)
		}
	}
	return out
}

// Label is the display name of a repository: the last element of its
// resolved path.
func Label(repoPath string) string {
	if resolved, err := store.Canonicalize(repoPath); err == nil {
		repoPath = resolved
	}
	return filepath.Base(repoPath)
}
