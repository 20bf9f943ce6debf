package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ishaan812/yestergit/internal/constants"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client defines the interface for LLM operations.
type Client interface {
	ChatComplete(ctx context.Context, messages []Message) (string, error)
}

// Config holds configuration for creating an LLM client.
type Config struct {
	Provider constants.Provider
	Model    string
	// URL is the full endpoint for openai and anthropic, the server base
	// URL for ollama, and unused by gemini.
	URL     string
	APIKey  string
	Timeout time.Duration
}

const defaultTimeout = 2 * time.Minute

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NewClient creates an LLM client from config.
func NewClient(cfg Config) (Client, error) {
	info, ok := constants.LookupProvider(cfg.Provider)
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
	if cfg.Model == "" {
		cfg.Model = info.DefaultModel
	}
	if cfg.URL == "" {
		cfg.URL = info.DefaultURL
	}
	if info.NeedsAPIKey && cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required; set it with 'yestergit config --set-key'", cfg.Provider)
	}

	httpClient := newHTTPClient(cfg.Timeout)

	switch cfg.Provider {
	case constants.ProviderOpenAI:
		return NewOpenAIClient(cfg.URL, cfg.APIKey, cfg.Model, httpClient), nil
	case constants.ProviderOllama:
		return NewOllamaClient(cfg.URL, cfg.Model, httpClient), nil
	case constants.ProviderAnthropic:
		return NewAnthropicClient(cfg.URL, cfg.APIKey, cfg.Model, httpClient), nil
	case constants.ProviderGemini:
		return NewGeminiClient(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
