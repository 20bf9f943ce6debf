package prompts

import (
	_ "embed"
	"strings"
)

// Placeholders substituted into a summary prompt template.
const (
	LanguagePlaceholder = "{LANGUAGE}"
	LogsPlaceholder     = "{LOGS}"
)

// SystemPrompt is sent ahead of every summary request.
const SystemPrompt = "You are a helpful assistant."

//go:embed standup_summary.md
var standupSummaryPromptTemplate string

// DefaultStandupTemplate returns the built-in standup summary template.
func DefaultStandupTemplate() string {
	return strings.TrimSpace(standupSummaryPromptTemplate)
}

// BuildStandupPrompt fills a template with the target language and logs.
// Templates are user-editable, so missing placeholders are tolerated.
func BuildStandupPrompt(template, language, logs string) string {
	return strings.NewReplacer(
		LanguagePlaceholder, language,
		LogsPlaceholder, logs,
	).Replace(template)
}
