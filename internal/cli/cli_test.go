package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishaan812/yestergit/internal/config"
	"github.com/ishaan812/yestergit/internal/llm"
	"github.com/ishaan812/yestergit/internal/store"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type fakeClient struct {
	messages []llm.Message
	out      string
	err      error
}

func (f *fakeClient) ChatComplete(_ context.Context, messages []llm.Message) (string, error) {
	f.messages = messages
	return f.out, f.err
}

type env struct {
	t      *testing.T
	dbPath string
	client *fakeClient
}

// newEnv isolates the store and settings files. It uses t.Setenv, so
// callers cannot run in parallel.
func newEnv(t *testing.T) *env {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db.json")
	t.Setenv(store.EnvPath, dbPath)
	t.Setenv(config.EnvPath, filepath.Join(dir, "config.yaml"))

	return &env{t: t, dbPath: dbPath, client: &fakeClient{}}
}

func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	out, _, err := e.runWithStderr(args...)
	return out, err
}

func (e *env) runWithStderr(args ...string) (string, string, error) {
	e.t.Helper()

	a := newApp()
	a.newClient = func(llm.Config) (llm.Client, error) { return e.client, nil }
	a.interactive = func() bool { return false }
	a.isTerminal = func(io.Writer) bool { return false }

	cmd := newRootCmd(a)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (e *env) state() *store.State {
	e.t.Helper()
	s, err := store.New(e.dbPath).Load()
	require.NoError(e.t, err)
	return s
}

func commitRepo(t *testing.T, dir string, commits map[string]time.Time) {
	t.Helper()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	// Commit oldest first so HEAD is the newest.
	type pending struct {
		msg  string
		when time.Time
	}
	var ordered []pending
	for msg, when := range commits {
		ordered = append(ordered, pending{msg, when})
	}
	slices.SortFunc(ordered, func(a, b pending) int { return a.when.Compare(b.when) })

	for i, c := range ordered {
		name := filepath.Join(dir, "file"+string(rune('a'+i))+".txt")
		require.NoError(t, os.WriteFile(name, []byte(c.msg), 0o644))
		_, err := wt.Add(filepath.Base(name))
		require.NoError(t, err)

		sig := &object.Signature{Name: "Alice Smith", Email: "alice@example.com", When: c.when}
		_, err = wt.Commit(c.msg, &gogit.CommitOptions{Author: sig, Committer: sig})
		require.NoError(t, err)
	}
}

func workspace(t *testing.T) (root, api string) {
	t.Helper()

	now := time.Now()
	root = t.TempDir()
	api = filepath.Join(root, "api")
	require.NoError(t, os.MkdirAll(api, 0o755))
	commitRepo(t, api, map[string]time.Time{
		"Ancient work": now.AddDate(0, 0, -30),
		"Add login":    now.Add(-3 * time.Hour),
		"Fix logout":   now.Add(-time.Hour),
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	return root, api
}

func TestScanAndList(t *testing.T) {
	e := newEnv(t)
	root, api := workspace(t)

	out, err := e.run("scan", "--path", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Repositories added to local database.")
	assert.Contains(t, out, "1 new, 0 already tracked")

	out, err = e.run("scan", "--path", root)
	require.NoError(t, err)
	assert.Contains(t, out, "0 new, 1 already tracked")

	canonical, err := store.Canonicalize(api)
	require.NoError(t, err)
	assert.Equal(t, []string{canonical}, e.state().Repositories)

	out, err = e.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Tracked repos:")
	assert.Contains(t, out, canonical)
}

func TestScanNoRepos(t *testing.T) {
	e := newEnv(t)

	out, err := e.run("scan", "--path", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No repos found.")
	assert.Empty(t, e.state().Repositories)
}

func TestScanSelectNeedsTerminal(t *testing.T) {
	e := newEnv(t)
	root, _ := workspace(t)

	_, err := e.run("scan", "--path", root, "--select")
	require.Error(t, err)
	assert.Empty(t, e.state().Repositories)
}

func TestNoteAndListNotes(t *testing.T) {
	e := newEnv(t)

	out, err := e.run("note", "Reviewed", "the", "release")
	require.NoError(t, err)
	assert.Contains(t, out, "Note saved.")

	notes := e.state().Entries
	require.Len(t, notes, 1)
	assert.Equal(t, "Reviewed the release", notes[0].Message)
	assert.NotEmpty(t, notes[0].ID)

	out, err = e.run("list", "--notes")
	require.NoError(t, err)
	assert.Contains(t, out, "Reviewed the release")
}

func TestNoteRequiresMessage(t *testing.T) {
	e := newEnv(t)

	_, err := e.run("note")
	require.Error(t, err)

	_, err = e.run("note", "  ")
	require.Error(t, err)
	assert.Empty(t, e.state().Entries)
}

func TestReportMergesCommitsAndNotes(t *testing.T) {
	e := newEnv(t)
	root, _ := workspace(t)

	_, err := e.run("scan", "--path", root)
	require.NoError(t, err)
	_, err = e.run("note", "Paired on flaky test")
	require.NoError(t, err)

	out, err := e.run("--days", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Reports since")
	assert.NotContains(t, out, "Ancient work")
	login := strings.Index(out, "Add login")
	logout := strings.Index(out, "Fix logout")
	note := strings.Index(out, "Paired on flaky test")
	require.NotEqual(t, -1, login)
	assert.Less(t, login, logout)
	assert.Less(t, logout, note)
}

func TestReportAuthorFilter(t *testing.T) {
	e := newEnv(t)
	root, _ := workspace(t)

	_, err := e.run("scan", "--path", root)
	require.NoError(t, err)

	out, err := e.run("--days", "2", "--author", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "No events for this time.")

	out, err = e.run("--days", "2", "-a", "ALICE")
	require.NoError(t, err)
	assert.Contains(t, out, "Fix logout")
}

func TestReportSkipsBrokenRepository(t *testing.T) {
	e := newEnv(t)
	root, _ := workspace(t)

	_, err := e.run("scan", "--path", root)
	require.NoError(t, err)

	// A tracked repository that has since been deleted.
	gone := filepath.Join(t.TempDir(), "gone")
	require.NoError(t, os.MkdirAll(filepath.Join(gone, ".git"), 0o755))
	_, err = e.run("scan", "--path", gone)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(gone))

	out, errOut, err := e.runWithStderr("--days", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Fix logout")
	assert.Empty(t, errOut)

	out, errOut, err = e.runWithStderr("--days", "2", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Fix logout")
	assert.Contains(t, errOut, "repository not found")
	assert.NotContains(t, errOut, "\x1b[", "log output to a non-terminal is not colored")
}

func TestInvalidSettingsOnlyBlockSummaries(t *testing.T) {
	e := newEnv(t)
	root, _ := workspace(t)
	cfgPath := os.Getenv(config.EnvPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte("ai:\n  provider: bogus\n"), 0o600))

	_, errOut, err := e.runWithStderr("scan", "--path", root)
	require.NoError(t, err)
	assert.Contains(t, errOut, "unknown provider")
	assert.Len(t, e.state().Repositories, 1)

	_, err = e.run("note", "hello")
	require.NoError(t, err)
	_, err = e.run("list", "--notes")
	require.NoError(t, err)

	out, err := e.run("--days", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Fix logout")

	_, err = e.run("summarize", "--days", "2")
	require.ErrorContains(t, err, "unknown provider")
	assert.Nil(t, e.client.messages)

	out, err = e.run("config")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings are invalid")

	_, err = e.run("config", "--set-provider", "openai")
	require.NoError(t, err)
	_, err = config.Load(cfgPath)
	require.NoError(t, err)
}

func TestConfigResetRepairsUnparseableFile(t *testing.T) {
	e := newEnv(t)
	cfgPath := os.Getenv(config.EnvPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte("ai: [broken\n"), 0o600))

	_, err := e.run("config", "--set-lang", "German")
	require.ErrorContains(t, err, "config --reset")

	out, err := e.run("config", "--reset", "--yes", "--set-lang", "German")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings saved.")

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "German", cfg.AI.Language)
}

func TestReportCorruptStoreFails(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(e.dbPath, []byte("{not json"), 0o600))

	_, err := e.run()
	require.Error(t, err)

	_, err = e.run("note", "lost?")
	require.Error(t, err)
}

func TestCheckDoesNotRegister(t *testing.T) {
	e := newEnv(t)
	_, api := workspace(t)

	out, err := e.run("check", "--path", api, "--days", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Fix logout")
	assert.Empty(t, e.state().Repositories)

	_, err = e.run("check")
	require.Error(t, err)
}

func TestSummarize(t *testing.T) {
	e := newEnv(t)
	root, _ := workspace(t)
	e.client.out = "I fixed logout on api."

	_, err := e.run("scan", "--path", root)
	require.NoError(t, err)

	out, err := e.run("summarize", "--days", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "--- Daily Report ---")
	assert.Contains(t, out, "I fixed logout on api.")

	require.Len(t, e.client.messages, 2)
	prompt := e.client.messages[1].Content
	assert.Contains(t, prompt, "Project: api\n- Fix logout\n- Add login\n")
	assert.Contains(t, prompt, "English")
}

func TestRootSummarizeFlag(t *testing.T) {
	e := newEnv(t)
	root, _ := workspace(t)
	e.client.out = "Done."

	_, err := e.run("scan", "--path", root)
	require.NoError(t, err)

	out, err := e.run("-s", "--days", "2")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Fix logout"), strings.Index(out, "--- Daily Report ---"))
}

func TestSummarizeFailureKeepsLogs(t *testing.T) {
	e := newEnv(t)
	root, _ := workspace(t)
	e.client.err = errors.New("connection refused")

	_, err := e.run("scan", "--path", root)
	require.NoError(t, err)

	out, err := e.run("summarize", "--days", "2")
	var serr *llm.SummarizationError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, out, "Failed to generate report.")
	assert.Contains(t, out, "- Fix logout")
}

func TestSummarizeNothingToDo(t *testing.T) {
	e := newEnv(t)

	out, err := e.run("summarize")
	require.NoError(t, err)
	assert.Contains(t, out, "There are no logs.")
	assert.Nil(t, e.client.messages)
}

func TestConfig(t *testing.T) {
	e := newEnv(t)

	out, err := e.run("config", "--set-model", "mistral", "--set-lang", "German", "--set-key", "sk-secret-value")
	require.NoError(t, err)
	assert.Contains(t, out, "AI Model updated.")
	assert.Contains(t, out, "Settings saved.")

	out, err = e.run("config")
	require.NoError(t, err)
	assert.Contains(t, out, "model: mistral")
	assert.Contains(t, out, "language: German")
	assert.Contains(t, out, "sk-s...alue")
	assert.NotContains(t, out, "sk-secret-value")

	_, err = e.run("config", "--set-prompt", "no placeholder here")
	require.Error(t, err)

	_, err = e.run("config", "--set-provider", "bard")
	require.Error(t, err)

	_, err = e.run("config", "--reset")
	require.Error(t, err, "reset without a terminal needs --yes")

	out, err = e.run("config", "--reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings reset to defaults.")

	out, err = e.run("config")
	require.NoError(t, err)
	assert.Contains(t, out, "model: llama3")
}

func TestConfigProviderSwitch(t *testing.T) {
	e := newEnv(t)

	_, err := e.run("config", "--set-provider", "ollama", "--set-model", "qwen2.5")
	require.NoError(t, err)

	out, err := e.run("config")
	require.NoError(t, err)
	assert.Contains(t, out, "provider: ollama")
	assert.Contains(t, out, "api_url: http://localhost:11434\n")
	assert.Contains(t, out, "model: qwen2.5")
}

func TestNegativeDays(t *testing.T) {
	e := newEnv(t)

	_, err := e.run("--days", "-1")
	require.Error(t, err)
}

func TestSinceUsesWeekdayDefault(t *testing.T) {
	monday := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)

	a := newApp()
	a.now = func() time.Time { return monday }
	assert.Equal(t, time.Date(2026, 2, 27, 0, 0, 0, 0, time.Local), a.since())

	a.daysSet = true
	a.flags.days = 1
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local), a.since())
}

func TestMaskKey(t *testing.T) {
	assert.Empty(t, maskKey(""))
	assert.Equal(t, "********", maskKey("short"))
	assert.Equal(t, "sk-a...wxyz", maskKey("sk-abcdefghijklmnopqrstuvwxyz"))
}
