package agent

import (
	"context"
	"encoding/json"
	"time"

	"google.golang.org/genai"

	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/logging"
)

// GeminiClient calls Gemini through the Google GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	logger *logging.Logger
}

// NewGeminiClient creates a client for the Gemini API.
func NewGeminiClient(ctx context.Context, apiKey string, logger *logging.Logger) (*GeminiClient, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewAgentError("failed to create GenAI client", err).WithProvider("gemini")
	}
	return &GeminiClient{client: client, logger: logger.WithComponent("gemini")}, nil
}

// Name implements Client.
func (c *GeminiClient) Name() string { return "gemini" }

// Complete implements Client.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	result, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		c.logger.Error("completion failed", "error", err)
		return nil, errors.NewAgentError("GenAI request failed", errors.Join(errors.ErrLLMResponse, err)).
			WithProvider(c.Name()).WithStage("request")
	}

	text := result.Text()
	if text == "" {
		return nil, errors.NewAgentError("no completion returned", errors.ErrLLMResponse).
			WithProvider(c.Name()).WithStage("response")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		payload = nil
	}
	c.logger.Info("completion received", "model", req.Model, "duration_ms", time.Since(start).Milliseconds())
	return &Response{Content: text, Payload: payload}, nil
}
