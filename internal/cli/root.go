package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ishaan812/yestergit/internal/config"
	"github.com/ishaan812/yestergit/internal/llm"
	"github.com/ishaan812/yestergit/internal/store"
)

// Version is set at build time.
var Version = "dev"

var (
	titleColor   = color.New(color.FgHiCyan, color.Bold)
	successColor = color.New(color.FgHiGreen)
	headerColor  = color.New(color.FgHiGreen, color.Bold)
	warnColor    = color.New(color.FgHiYellow)
	dimColor     = color.New(color.FgHiBlack)
	infoColor    = color.New(color.FgHiWhite)
)

type globalFlags struct {
	author      string
	days        int
	verbose     bool
	dbPath      string
	workers     int
	fullHistory bool
}

// app carries everything a command needs. The logger and store are set
// up in the root command's PersistentPreRunE; settings are read on first
// use so a broken settings file only affects the commands that need it.
type app struct {
	flags   globalFlags
	daysSet bool

	log   zerolog.Logger
	store *store.Store

	cfg       *config.Config
	cfgErr    error
	cfgLoaded bool
	cfgWarned bool

	now         func() time.Time
	newClient   func(llm.Config) (llm.Client, error)
	interactive func() bool
	isTerminal  func(w io.Writer) bool
}

func newApp() *app {
	return &app{
		log:       zerolog.Nop(),
		now:       time.Now,
		newClient: llm.NewClient,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
		isTerminal: isTerminal,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Execute runs the command line against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	var summarize bool

	cmd := &cobra.Command{
		Use:   "yestergit",
		Short: "What did I do yesterday? Commits and notes for your standup",
		Long: `yestergit collects your recent commits across every tracked repository,
merges them with the notes you jotted down, and prints one timeline.

With no subcommand it reports everything since yesterday (since Friday
on Mondays). Use 'yestergit scan' to register repositories and
'yestergit note' to record work that never made it into git.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := a.store.Load()
			if err != nil {
				return err
			}
			return a.report(cmd, state.Repositories, state.Entries, summarize)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.flags.author, "author", "a", "", "Only include commits whose author contains this text (case-insensitive)")
	pf.IntVarP(&a.flags.days, "days", "d", 1, "Days to look back (default: 3 on Mondays, 1 otherwise)")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Show per-repository errors and debug output")
	pf.StringVar(&a.flags.dbPath, "db", "", "Database file (overrides "+store.EnvPath+")")
	pf.IntVar(&a.flags.workers, "workers", 0, "Parallel workers for scanning and extraction (default: settings or CPU count)")
	pf.BoolVar(&a.flags.fullHistory, "full-history", false, "Filter the whole history instead of stopping at the first older commit")

	cmd.Flags().BoolVarP(&summarize, "summarize", "s", false, "Also summarize the report with the configured AI provider")

	cmd.AddCommand(
		newScanCmd(a),
		newCheckCmd(a),
		newListCmd(a),
		newNoteCmd(a),
		newConfigCmd(a),
		newSummarizeCmd(a),
	)

	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	errOut := cmd.ErrOrStderr()
	a.log = setupLogger(errOut, a.flags.verbose, !a.isTerminal(errOut))

	a.daysSet = cmd.Flags().Changed("days")
	if a.flags.days < 0 {
		return fmt.Errorf("--days must not be negative")
	}
	if a.flags.workers < 0 {
		return fmt.Errorf("--workers must not be negative")
	}

	var err error
	a.store, err = store.Open(a.flags.dbPath)
	if err != nil {
		return err
	}

	a.log.Debug().Str("db", a.store.Path()).Msg("opened store")
	return nil
}

func setupLogger(w io.Writer, verbose, noColor bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: noColor}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// settings loads and validates the settings file once.
func (a *app) settings() (*config.Config, error) {
	if a.cfgLoaded {
		return a.cfg, a.cfgErr
	}
	a.cfgLoaded = true

	path, err := config.Path("")
	if err != nil {
		a.cfgErr = err
		return nil, err
	}
	a.cfg, a.cfgErr = config.Load(path)
	if a.cfgErr == nil {
		a.log.Debug().Str("config", path).Msg("loaded settings")
	}
	return a.cfg, a.cfgErr
}

// scanSettings returns the scan section of the settings. Commands that do
// not talk to a provider keep working on defaults when the file is invalid.
func (a *app) scanSettings() config.ScanConfig {
	cfg, err := a.settings()
	if err != nil {
		if !a.cfgWarned {
			a.cfgWarned = true
			a.log.Warn().Err(err).Msg("using default scan settings; fix the file or run 'yestergit config --reset'")
		}
		return config.ScanConfig{}
	}
	return cfg.Scan
}

// workers resolves the pool size: flag, then settings, then the
// component default.
func (a *app) workers() int {
	if a.flags.workers > 0 {
		return a.flags.workers
	}
	return a.scanSettings().Workers
}
