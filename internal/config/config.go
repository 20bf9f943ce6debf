// Package config loads and saves user settings for summaries and scanning.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/ishaan812/yestergit/internal/constants"
	"github.com/ishaan812/yestergit/internal/prompts"
)

// EnvPath overrides the settings file location.
const EnvPath = "YESTERGIT_CONFIG"

type Config struct {
	AI   AIConfig   `yaml:"ai"`
	Scan ScanConfig `yaml:"scan"`

	path string
}

// AIConfig holds summarizer settings.
type AIConfig struct {
	Provider constants.Provider `yaml:"provider"`
	APIURL   string             `yaml:"api_url"`
	Model    string             `yaml:"model"`
	APIKey   string             `yaml:"api_key,omitempty"`
	Language string             `yaml:"language"`
	Prompt   string             `yaml:"prompt"`
}

// ScanConfig holds defaults for repository discovery and extraction.
type ScanConfig struct {
	Workers int      `yaml:"workers"` // 0 means one per CPU
	Exclude []string `yaml:"exclude,omitempty"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() Config {
	openai, _ := constants.LookupProvider(constants.ProviderOpenAI)
	return Config{
		AI: AIConfig{
			Provider: openai.Name,
			APIURL:   openai.DefaultURL,
			Model:    openai.DefaultModel,
			Language: "English",
			Prompt:   prompts.DefaultStandupTemplate(),
		},
	}
}

// Path resolves the settings file: an explicit override wins, then EnvPath,
// then the per-user configuration directory.
func Path(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "yestergit", "config.yaml"), nil
}

// Default returns the default settings bound to path.
func Default(path string) *Config {
	cfg := DefaultConfig()
	cfg.path = path
	return &cfg
}

// Load reads and validates settings from path. A missing file yields
// defaults.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Read parses settings from path and fills unset fields, without
// validating them. It lets a broken file be repaired through Save.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(path), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Start from zero values so provider defaults follow the provider
	// named in the file.
	cfg := &Config{path: path}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save validates the settings and replaces the file they were loaded
// from. The file is written to a temp file and renamed into place.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := writeTemp(dir, filepath.Base(c.path), data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

func writeTemp(dir, base string, data []byte) (path string, err error) {
	f, err := os.CreateTemp(dir, "."+base+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp config: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err := f.Chmod(0o600); err != nil {
		return "", fmt.Errorf("failed to chmod temp config: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("failed to write temp config: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync temp config: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp config: %w", err)
	}
	return f.Name(), nil
}

func (c *Config) Path() string {
	return c.path
}

// SetProvider switches provider and moves the URL and model to the new
// provider's defaults unless they were customized. Values set for an
// unknown provider are not kept.
func (c *Config) SetProvider(p constants.Provider) error {
	info, ok := constants.LookupProvider(p)
	if !ok {
		return fmt.Errorf("unknown provider %q (available: %s)", p, strings.Join(constants.ProviderNames(), ", "))
	}
	prev, known := constants.LookupProvider(c.AI.Provider)
	if !known || c.AI.APIURL == "" || c.AI.APIURL == prev.DefaultURL {
		c.AI.APIURL = info.DefaultURL
	}
	if !known || c.AI.Model == "" || c.AI.Model == prev.DefaultModel {
		c.AI.Model = info.DefaultModel
	}
	c.AI.Provider = p
	return nil
}

// APIKey returns the configured key, falling back to the provider's
// conventional environment variable.
func (c *Config) APIKey() string {
	if c.AI.APIKey != "" {
		return c.AI.APIKey
	}
	switch c.AI.Provider {
	case constants.ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case constants.ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case constants.ProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	default:
		return ""
	}
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.AI.Provider == "" {
		c.AI.Provider = defaults.AI.Provider
	}
	info, _ := constants.LookupProvider(c.AI.Provider)
	if c.AI.APIURL == "" {
		c.AI.APIURL = info.DefaultURL
	}
	if c.AI.Model == "" {
		c.AI.Model = info.DefaultModel
	}
	if c.AI.Language == "" {
		c.AI.Language = defaults.AI.Language
	}
	if strings.TrimSpace(c.AI.Prompt) == "" {
		c.AI.Prompt = defaults.AI.Prompt
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if _, ok := constants.LookupProvider(c.AI.Provider); !ok {
		errs = errs.Append("ai.provider", fmt.Errorf("unknown provider %q (available: %s)",
			c.AI.Provider, strings.Join(constants.ProviderNames(), ", ")))
	}

	if c.AI.Provider != constants.ProviderGemini {
		if u, err := url.Parse(c.AI.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = errs.Append("ai.api_url", fmt.Errorf("must be an absolute http(s) URL, got %q", c.AI.APIURL))
		}
	}

	if strings.TrimSpace(c.AI.Model) == "" {
		errs = errs.Append("ai.model", fmt.Errorf("must not be empty"))
	}

	if !strings.Contains(c.AI.Prompt, prompts.LogsPlaceholder) {
		errs = errs.Append("ai.prompt", fmt.Errorf("must contain the %s placeholder", prompts.LogsPlaceholder))
	}

	if c.Scan.Workers < 0 {
		errs = errs.Append("scan.workers", fmt.Errorf("must not be negative"))
	}

	for i, p := range c.Scan.Exclude {
		if !doublestar.ValidatePattern(p) {
			errs = errs.Append(fmt.Sprintf("scan.exclude[%d]", i), fmt.Errorf("invalid glob %q", p))
		}
	}

	return errs.ToError()
}
