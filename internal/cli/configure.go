package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ishaan812/yestergit/internal/config"
	"github.com/ishaan812/yestergit/internal/constants"
)

type configFlags struct {
	key      string
	url      string
	model    string
	prompt   string
	lang     string
	provider string
	reset    bool
	yes      bool
}

func newConfigCmd(a *app) *cobra.Command {
	var f configFlags

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or change AI summary settings",
		Long: `Show the current settings, or update them with the --set flags.

The prompt may use {LANGUAGE} and must contain {LOGS}; they are replaced
with the configured language and the collected activity.

Examples:
  yestergit config                                  # Show settings
  yestergit config --set-provider anthropic --set-key sk-ant-...
  yestergit config --set-url http://localhost:1234/v1/chat/completions
  yestergit config --set-lang German
  yestergit config --reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfig(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.key, "set-key", "", "API key")
	fl.StringVar(&f.url, "set-url", "", "API endpoint URL")
	fl.StringVar(&f.model, "set-model", "", "Model name")
	fl.StringVar(&f.prompt, "set-prompt", "", "Prompt template")
	fl.StringVar(&f.lang, "set-lang", "", "Summary language")
	fl.StringVar(&f.provider, "set-provider", "", "AI provider ("+joinProviders()+")")
	fl.BoolVar(&f.reset, "reset", false, "Restore default settings")
	fl.BoolVarP(&f.yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func (a *app) runConfig(cmd *cobra.Command, f configFlags) error {
	out := cmd.OutOrStdout()
	flags := cmd.Flags()
	changed := false

	path, err := config.Path("")
	if err != nil {
		return err
	}

	// The existing file is read without validation so these flags can
	// repair it. A reset does not read it at all.
	var cfg *config.Config
	if f.reset {
		ok, err := a.confirm("Reset all settings to defaults", f.yes)
		if err != nil {
			return err
		}
		if !ok {
			dimColor.Fprintln(out, "Canceled.")
			return nil
		}
		cfg = config.Default(path)
		fmt.Fprintln(out, "Settings reset to defaults.")
		changed = true
	} else {
		cfg, err = config.Read(path)
		if err != nil {
			return fmt.Errorf("%w; run 'yestergit config --reset' to start over", err)
		}
	}

	// Provider first so an explicit URL or model on the same command wins
	// over the provider defaults.
	if flags.Changed("set-provider") {
		if err := cfg.SetProvider(constants.Provider(f.provider)); err != nil {
			return err
		}
		fmt.Fprintln(out, "Provider updated.")
		changed = true
	}

	updates := []struct {
		flag  string
		value string
		dst   *string
		msg   string
	}{
		{"set-url", f.url, &cfg.AI.APIURL, "API URL updated."},
		{"set-key", f.key, &cfg.AI.APIKey, "API Key updated."},
		{"set-model", f.model, &cfg.AI.Model, "AI Model updated."},
		{"set-prompt", f.prompt, &cfg.AI.Prompt, "Prompt changed."},
		{"set-lang", f.lang, &cfg.AI.Language, "Language changed."},
	}
	for _, u := range updates {
		if !flags.Changed(u.flag) {
			continue
		}
		*u.dst = u.value
		fmt.Fprintln(out, u.msg)
		changed = true
	}

	if changed {
		if err := cfg.Save(); err != nil {
			return err
		}
		successColor.Fprintln(out, "Settings saved.")
		return nil
	}

	return a.printConfig(out, cfg)
}

func (a *app) printConfig(out io.Writer, cfg *config.Config) error {
	dimColor.Fprint(out, "Config file: ")
	infoColor.Fprintln(out, cfg.Path())
	dimColor.Fprint(out, "Database file: ")
	infoColor.Fprintln(out, a.store.Path())
	fmt.Fprintln(out)

	if err := cfg.Validate(); err != nil {
		warnColor.Fprintf(out, "Settings are invalid: %v\n", err)
		fmt.Fprintln(out)
	}

	shown := *cfg
	shown.AI.APIKey = maskKey(cfg.AI.APIKey)

	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to format settings: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

// confirm asks a yes/no question. Without a terminal it refuses unless
// skip is set.
func (a *app) confirm(label string, skip bool) (bool, error) {
	if skip {
		return true, nil
	}
	if !a.interactive() {
		return false, fmt.Errorf("refusing to %q without a terminal; pass --yes", label)
	}

	prompt := promptui.Prompt{Label: label, IsConfirm: true}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "********"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func joinProviders() string {
	return strings.Join(constants.ProviderNames(), ", ")
}
