package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient implements Client using Google's Gemini Go SDK.
type GeminiClient struct {
	client *genai.Client
	apiKey string
	model  string
}

// NewGeminiClient defers SDK setup to the first request, since
// genai.NewClient needs a context.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		model:  model,
	}
}

func (c *GeminiClient) ensureClient(ctx context.Context) error {
	if c.client != nil {
		return nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  c.apiKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c.client = client
	return nil
}

func (c *GeminiClient) ChatComplete(ctx context.Context, messages []Message) (string, error) {
	contents, system := geminiContents(messages)
	if len(contents) == 0 {
		return "", fmt.Errorf("no user/assistant messages provided")
	}

	if err := c.ensureClient(ctx); err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{SystemInstruction: system}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return result.Text(), nil
}

// geminiContents maps chat messages onto Gemini roles. System messages
// become the system instruction.
func geminiContents(messages []Message) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var system *genai.Content

	for _, m := range messages {
		var role genai.Role = genai.RoleUser
		switch m.Role {
		case "system":
			system = genai.NewContentFromText(m.Content, genai.RoleUser)
			continue
		case "assistant":
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	return contents, system
}
