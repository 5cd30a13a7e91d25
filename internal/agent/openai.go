package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/logging"
)

// DefaultOpenAIBaseURL is the public OpenAI API.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1/"

// OpenAIConfig configures OpenAIClient.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// Attempts bounds tries on 408, 409, 429 and 5xx. Zero means 3.
	Attempts int
}

// OpenAIClient calls the chat-completions endpoint through the OpenAI SDK.
type OpenAIClient struct {
	client openai.Client
	logger *logging.Logger
}

// NewOpenAIClient creates a client. Missing settings take defaults.
func NewOpenAIClient(cfg OpenAIConfig, logger *logging.Logger) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenAIBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &OpenAIClient{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
			option.WithRequestTimeout(cfg.Timeout),
			option.WithMaxRetries(cfg.Attempts-1),
		),
		logger: logger.WithComponent("openai"),
	}
}

// Name implements Client.
func (c *OpenAIClient) Name() string { return "openai" }

// Complete sends req and returns the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, c.fail("request",
				fmt.Sprintf("API request failed with status %d", apiErr.StatusCode),
				errors.Join(errors.ErrLLMResponse, err))
		}
		if ctx.Err() != nil {
			return nil, c.fail("request", "request cancelled", ctx.Err())
		}
		return nil, c.fail("response", "request failed", errors.Join(errors.ErrLLMResponse, err))
	}

	if len(resp.Choices) == 0 {
		msg := "no completion returned"
		if f, ok := resp.JSON.ExtraFields["error"]; ok && f.Raw() != "" {
			msg = "API error: " + f.Raw()
		}
		return nil, c.fail("response", msg, errors.ErrLLMResponse)
	}

	c.logger.Info("completion received",
		"model", req.Model,
		"duration_ms", time.Since(start).Milliseconds(),
		"finish_reason", resp.Choices[0].FinishReason,
	)
	return &Response{
		Content: resp.Choices[0].Message.Content,
		Payload: json.RawMessage(resp.RawJSON()),
	}, nil
}

func (c *OpenAIClient) fail(stage, message string, cause error) error {
	c.logger.Error("completion failed", "stage", stage, "error", message)
	return errors.NewAgentError(message, cause).WithProvider(c.Name()).WithStage(stage)
}
