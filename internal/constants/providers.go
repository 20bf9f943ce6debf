package constants

import "slices"

// Provider represents a summarization backend
type Provider string

// Summarization providers
const (
	ProviderOpenAI    Provider = "openai" // Any OpenAI-compatible chat completions endpoint
	ProviderOllama    Provider = "ollama"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// ProviderInfo contains display and default settings for a provider
type ProviderInfo struct {
	Name        Provider
	Description string
	// DefaultURL is the full chat endpoint for openai/anthropic and the
	// server base URL for ollama. Gemini ignores it.
	DefaultURL   string
	DefaultModel string
	NeedsAPIKey  bool
}

// AllProviders lists the supported providers in display order
var AllProviders = []ProviderInfo{
	{
		Name:         ProviderOpenAI,
		Description:  "OpenAI-compatible endpoint (OpenAI, Ollama /v1, LM Studio, vLLM)",
		DefaultURL:   "http://localhost:11434/v1/chat/completions",
		DefaultModel: "llama3",
	},
	{
		Name:         ProviderOllama,
		Description:  "Ollama native API (local, free)",
		DefaultURL:   "http://localhost:11434",
		DefaultModel: "llama3",
	},
	{
		Name:         ProviderAnthropic,
		Description:  "Anthropic Messages API",
		DefaultURL:   "https://api.anthropic.com/v1/messages",
		DefaultModel: "claude-sonnet-4-5-20250929",
		NeedsAPIKey:  true,
	},
	{
		Name:         ProviderGemini,
		Description:  "Google Gemini via the genai SDK",
		DefaultModel: "gemini-2.5-flash",
		NeedsAPIKey:  true,
	},
}

// LookupProvider returns the info for a provider name
func LookupProvider(name Provider) (ProviderInfo, bool) {
	i := slices.IndexFunc(AllProviders, func(p ProviderInfo) bool { return p.Name == name })
	if i < 0 {
		return ProviderInfo{}, false
	}
	return AllProviders[i], true
}

// ProviderNames returns the provider names as strings
func ProviderNames() []string {
	names := make([]string, 0, len(AllProviders))
	for _, p := range AllProviders {
		names = append(names, string(p.Name))
	}
	return names
}
