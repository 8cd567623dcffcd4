package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// Client implements llm.Generator using Google Gemini.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *slog.Logger
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey, modelName string, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger,
	}, nil
}

// Generate sends the prompts to Gemini and returns the concatenated text
// response. Gemini has no separate system role here, so the system prompt is
// prepended to the user prompt.
func (c *Client) Generate(ctx context.Context, userPrompt, systemPrompt string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.generate.start",
		"req_id", rid,
		"provider", "google",
		"user_len", len(userPrompt),
	)

	full := systemPrompt + "\n\n" + userPrompt
	resp, err := c.model.GenerateContent(ctx, genai.Text(full))
	if err != nil {
		c.logger.Error("llm.generate.failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	content := strings.TrimSpace(b.String())
	c.logger.Info("llm.generate.ok",
		"req_id", rid,
		"content_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// Close closes the underlying Gemini client.
func (c *Client) Close() error {
	return c.client.Close()
}
