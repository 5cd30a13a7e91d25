// Package agent turns a free-text description of a command into a shortcut
// record by asking an LLM, then adds it to the store after the user agrees.
package agent

import (
	"context"
	"encoding/json"

	"github.com/Iron-Ham/shortcuts/internal/config"
	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/logging"
	"github.com/Iron-Ham/shortcuts/internal/util"
)

// PromptPreviewLength is how much of the prompt is shown on the terminal.
// The full prompt always goes to the log.
const PromptPreviewLength = 150

// Client is an LLM provider.
type Client interface {
	// Name identifies the provider in logs and errors.
	Name() string
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Request is a provider-neutral completion request.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
}

// Response carries the reply text plus the provider's raw reply for display.
type Response struct {
	Content string
	Payload json.RawMessage
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatPayload struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// Payload returns the request in chat-completions shape.
func (r Request) Payload() any {
	return chatPayload{
		Model: r.Model,
		Messages: []chatMessage{
			{Role: "system", Content: r.System},
			{Role: "user", Content: r.Prompt},
		},
		Temperature: r.Temperature,
	}
}

// DisplayPayload is Payload with the prompt collapsed to one line and cut
// to PromptPreviewLength characters.
func (r Request) DisplayPayload() any {
	p := r.Payload().(chatPayload)
	p.Messages[1].Content = previewPrompt(r.Prompt)
	return p
}

func previewPrompt(prompt string) string {
	runes := []rune(util.CompactWhitespace(prompt))
	if len(runes) > PromptPreviewLength {
		runes = runes[:PromptPreviewLength]
	}
	return string(runes) + "..."
}

// NewClient builds the client for the configured provider.
func NewClient(ctx context.Context, cfg *config.AgentConfig, logger *logging.Logger) (Client, error) {
	key := cfg.APIKey()
	if key == "" {
		return nil, errors.NewAgentError("no API key for "+cfg.Provider, errors.ErrNotConfigured).
			WithProvider(cfg.Provider)
	}
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  key,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.Timeout(),
		}, logger), nil
	case "gemini":
		return NewGeminiClient(ctx, key, logger)
	default:
		return nil, errors.NewAgentError("unknown provider "+cfg.Provider, errors.ErrInvalidInput).
			WithProvider(cfg.Provider)
	}
}
