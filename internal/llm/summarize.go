package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ishaan812/yestergit/internal/prompts"
)

// ErrEmptySummary is returned when the provider answers with no text.
var ErrEmptySummary = errors.New("empty summary in response")

// StatusError is a non-success HTTP response from a provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.Code, e.Body)
}

// SummarizationError wraps any failure of the summary request. The logs
// that were sent remain available to the caller.
type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string {
	return "summarization failed: " + e.Err.Error()
}

func (e *SummarizationError) Unwrap() error {
	return e.Err
}

// Summarize fills template with language and logs and sends it to client
// once.
func Summarize(ctx context.Context, client Client, template, language, logs string) (string, error) {
	messages := []Message{
		{Role: "system", Content: prompts.SystemPrompt},
		{Role: "user", Content: prompts.BuildStandupPrompt(template, language, logs)},
	}

	out, err := client.ChatComplete(ctx, messages)
	if err != nil {
		return "", &SummarizationError{Err: err}
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", &SummarizationError{Err: ErrEmptySummary}
	}
	return out, nil
}
