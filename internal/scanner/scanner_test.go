package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tree creates directories relative to a fresh temp root and returns the
// root with symlinks resolved.
func tree(t *testing.T, dirs ...string) string {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0o755))
	}
	return root
}

func TestScan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dirs []string
		opts Options
		want []string
	}{
		{
			name: "nested repository is not reported",
			dirs: []string{"A/.git", "A/sub/.git"},
			want: []string{"A"},
		},
		{
			name: "hidden directories are skipped",
			dirs: []string{".hidden/.git", "visible/.git", "B/.cache/inner/.git"},
			want: []string{"visible"},
		},
		{
			name: "deep repositories are found",
			dirs: []string{"work/client/api/.git", "work/client/web/.git", "personal/blog/.git", "empty/dir"},
			want: []string{"personal/blog", "work/client/api", "work/client/web"},
		},
		{
			name: "exclude patterns prune subtrees",
			dirs: []string{"work/api/.git", "vendor/lib/.git", "work/node_modules/pkg/.git"},
			opts: Options{Exclude: []string{"vendor", "**/node_modules"}},
			want: []string{"work/api"},
		},
		{
			name: "max depth bounds the walk",
			dirs: []string{"a/.git", "b/c/.git", "d/e/f/.git"},
			opts: Options{MaxDepth: 2},
			want: []string{"a", "b/c"},
		},
		{
			name: "no repositories",
			dirs: []string{"one/two", "three"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := tree(t, tt.dirs...)

			got, err := Scan(context.Background(), root, tt.opts)
			require.NoError(t, err)

			want := make([]string, 0, len(tt.want))
			for _, w := range tt.want {
				want = append(want, filepath.Join(root, filepath.FromSlash(w)))
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestScanRootIsRepository(t *testing.T) {
	t.Parallel()

	root := tree(t, ".git", "child/.git")

	got, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{root}, got)
}

func TestScanGitFileMarker(t *testing.T) {
	t.Parallel()

	root := tree(t, "worktree")
	gitFile := filepath.Join(root, "worktree", ".git")
	require.NoError(t, os.WriteFile(gitFile, []byte("gitdir: /elsewhere\n"), 0o644))

	got, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "worktree")}, got)
}

func TestScanSymlinkedRepositoryIsDeduplicated(t *testing.T) {
	t.Parallel()

	root := tree(t, "real/project/.git")
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")))

	got, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "real", "project")}, got)
}

func TestScanMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{})
	require.Error(t, err)
}

func TestScanInvalidExclude(t *testing.T) {
	t.Parallel()

	_, err := Scan(context.Background(), t.TempDir(), Options{Exclude: []string{"[unclosed"}})
	require.Error(t, err)
}
