// Package scanner discovers git working copies below a directory.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const gitMarker = ".git"

// Options controls a scan.
type Options struct {
	// Workers bounds how many top-level subtrees are walked at once.
	// Defaults to runtime.NumCPU().
	Workers int
	// Exclude holds doublestar patterns matched against directory paths
	// relative to the scan root, using forward slashes.
	Exclude []string
	// MaxDepth limits how deep below the root a repository may sit.
	// Zero means unlimited.
	MaxDepth int
	Logger   zerolog.Logger
}

// Scan returns the canonical paths of all repositories under root, sorted.
//
// When root is itself a repository it is the only result. Otherwise each
// immediate subdirectory is walked in parallel; hidden directories are
// skipped and a repository's subtree is never descended into.
func Scan(ctx context.Context, root string, opts Options) ([]string, error) {
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	if isRepo(absRoot) {
		return []string{canonical(absRoot)}, nil
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", absRoot, err)
	}

	var subdirs []string
	for _, e := range entries {
		path := filepath.Join(absRoot, e.Name())
		// Stat follows symlinks so a linked top-level directory is still walked.
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		subdirs = append(subdirs, path)
	}

	w := &walker{root: absRoot, opts: opts}
	found := make([][]string, len(subdirs))

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, dir := range subdirs {
		g.Go(func() error {
			found[i] = w.walk(ctx, dir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return dedupe(slices.Concat(found...)), nil
}

type walker struct {
	root string
	opts Options
}

// walk collects repositories below dir. Errors are per entry and never
// abort the walk.
func (w *walker) walk(ctx context.Context, dir string) []string {
	var repos []string

	start := dir
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		start = resolved
	}

	_ = filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if err != nil {
			w.opts.Logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable entry")
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		// Report paths relative to the scan root even when start was a symlink.
		display := filepath.Join(dir, strings.TrimPrefix(path, start))

		if isHidden(filepath.Base(display)) {
			return filepath.SkipDir
		}

		rel, relErr := filepath.Rel(w.root, display)
		if relErr == nil && w.excluded(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}

		if isRepo(path) {
			repos = append(repos, path)
			return filepath.SkipDir
		}

		if w.opts.MaxDepth > 0 && relErr == nil && depth(rel) >= w.opts.MaxDepth {
			return filepath.SkipDir
		}
		return nil
	})

	return repos
}

func (w *walker) excluded(rel string) bool {
	for _, p := range w.opts.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func isRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, gitMarker))
	return err == nil
}

func depth(rel string) int {
	return strings.Count(rel, string(os.PathSeparator)) + 1
}

// canonical resolves symlinks and relative segments. Paths that cannot be
// resolved are returned cleaned and absolute.
func canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.Clean(path)
}

func dedupe(paths []string) []string {
	out := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		c := canonical(p)
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
