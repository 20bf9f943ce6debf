package git

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

const (
	shortHashLen  = 7
	unknownAuthor = "Unknown"
)

// Commit is one commit as it appears in a report.
type Commit struct {
	Hash      string
	ShortHash string
	Message   string
	Author    string
	When      time.Time
}

type ExtractOptions struct {
	Since  time.Time // Commits strictly older than this are excluded
	Author string    // Case-insensitive substring of the author name; empty matches all

	// FullHistory walks every reachable commit instead of stopping at the
	// first one older than Since. Needed for rebased histories whose commit
	// times are not monotonic.
	FullHistory bool
}

// Extract opens the repository at path and returns its commits since
// opts.Since, newest first.
func Extract(path string, opts ExtractOptions) ([]Commit, error) {
	repo, err := OpenRepo(path)
	if err != nil {
		return nil, err
	}
	return ExtractCommits(repo, opts)
}

// ExtractCommits walks history reachable from HEAD in committer-time order.
// Unless opts.FullHistory is set, the walk ends at the first commit older
// than opts.Since, so older in-range commits behind it are not reported.
func ExtractCommits(repo *Repository, opts ExtractOptions) ([]Commit, error) {
	head, ok, err := repo.HeadHash()
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Commit{}, nil
	}

	iter, err := repo.Git().Log(&git.LogOptions{
		From:  head,
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create log iterator: %w", err)
	}
	defer iter.Close()

	filter := strings.ToLower(opts.Author)
	commits := []Commit{}

	err = iter.ForEach(func(c *object.Commit) error {
		when := c.Committer.When
		if !opts.Since.IsZero() && when.Before(opts.Since) {
			if opts.FullHistory {
				return nil
			}
			return storer.ErrStop
		}

		author := c.Author.Name
		if author == "" {
			author = unknownAuthor
		}
		if filter != "" && !strings.Contains(strings.ToLower(author), filter) {
			return nil
		}

		commits = append(commits, newCommit(c, author))
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("failed to iterate commits in %s: %w", repo.Path(), err)
	}

	return commits, nil
}

func newCommit(c *object.Commit, author string) Commit {
	hash := c.Hash.String()
	return Commit{
		Hash:      hash,
		ShortHash: hash[:shortHashLen],
		Message:   firstLine(c.Message),
		Author:    author,
		When:      c.Committer.When,
	}
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	return strings.TrimSpace(message)
}
