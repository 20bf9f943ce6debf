// Package report gathers commits from tracked repositories and renders
// them alongside notes.
package report

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ishaan812/yestergit/internal/git"
	"github.com/ishaan812/yestergit/internal/timeline"
)

// Result is the outcome of extracting one repository. When Err is set
// Commits is empty.
type Result struct {
	Path    string
	Label   string
	Commits []git.Commit
	Err     error
}

// ExtractFunc reads the commits of one repository.
type ExtractFunc func(path string, opts git.ExtractOptions) ([]git.Commit, error)

// Collector extracts commits from many repositories on a bounded pool.
type Collector struct {
	log     zerolog.Logger
	workers int
	extract ExtractFunc
}

func NewCollector(log zerolog.Logger, workers int) *Collector {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Collector{
		log:     log,
		workers: workers,
		extract: git.Extract,
	}
}

// Collect runs the extractor for every repository. A failing repository
// yields an empty Result with Err set and never affects the others.
// Results are returned in the order of repos.
func (c *Collector) Collect(ctx context.Context, repos []string, opts git.ExtractOptions) []Result {
	results := make([]Result, len(repos))

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, path := range repos {
		g.Go(func() error {
			results[i] = c.collectOne(ctx, path, opts)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *Collector) collectOne(ctx context.Context, path string, opts git.ExtractOptions) (res Result) {
	res = Result{Path: path, Label: timeline.Label(path)}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	// A corrupt object database can panic inside the git library; keep it
	// contained to this repository.
	defer func() {
		if r := recover(); r != nil {
			res.Commits = nil
			res.Err = &PanicError{Value: r}
			c.log.Debug().Str("repo", path).Interface("panic", r).Msg("extraction panicked")
		}
	}()

	commits, err := c.extract(path, opts)
	if err != nil {
		c.log.Debug().Err(err).Str("repo", path).Msg("skipping repository")
		res.Err = err
		return res
	}

	c.log.Debug().Str("repo", path).Int("commits", len(commits)).Msg("extracted commits")
	res.Commits = commits
	return res
}

// RepoCommits converts results into merger input, dropping failed and
// empty repositories.
func RepoCommits(results []Result) []timeline.RepoCommits {
	var out []timeline.RepoCommits
	for _, r := range results {
		if r.Err != nil || len(r.Commits) == 0 {
			continue
		}
		out = append(out, timeline.RepoCommits{Label: r.Label, Commits: r.Commits})
	}
	return out
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
