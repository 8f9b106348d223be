package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	// DefaultModel is the default Gemini model used for summarization.
	DefaultModel = "gemini-flash-lite-latest"
)

// Options configures a Client.
type Options struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int32
}

// Client is a thin wrapper around the Gemini SDK that generates
// schema-constrained JSON responses.
type Client struct {
	gClient     *genai.Client
	modelName   string
	temperature float32
	maxTokens   int32
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required; set GEMINI_API_KEY or llm.api_key in config")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		gClient:     gClient,
		modelName:   opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}, nil
}

// GenerateJSON sends a prompt and returns the model's raw JSON text,
// constrained by the given response schema.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	temp := c.temperature
	config := &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	if c.maxTokens > 0 {
		config.MaxOutputTokens = c.maxTokens
	}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// IsRateLimited reports whether an error looks like an API rate limit.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || (strings.Contains(msg, "rate") && strings.Contains(msg, "limit"))
}
