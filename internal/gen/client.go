package gen

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClientConfig contains configuration for creating a new Client.
type ClientConfig struct {
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY.
	APIKey string
	// Model is the model to use. Defaults to Claude Sonnet.
	Model anthropic.Model
	// MaxTokens caps the output size of a single call.
	MaxTokens int64
	// Temperature is the sampling temperature in [0,1].
	Temperature float64
}

// Client wraps the Anthropic SDK client with fixed sampling settings and
// token tracking. It implements Generator.
type Client struct {
	inner       anthropic.Client
	model       anthropic.Model
	maxTokens   int64
	temperature float64
	tracker     *TokenTracker
}

// NewClient creates a new Anthropic-backed generator.
func NewClient(cfg ClientConfig) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
	}

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	return &Client{
		inner:       anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		tracker:     NewTokenTracker(),
	}, nil
}

// Generate performs a single prompt/response round trip. No tools, no
// multi-turn loop: every stage call is one request and one text answer.
func (c *Client) Generate(ctx context.Context, req Request) (*Result, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if c.temperature > 0 {
		params.Temperature = anthropic.Float(c.temperature)
	}

	resp, err := c.inner.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("messages.new: %w", err)
	}

	result := &Result{
		TokensIn:  resp.Usage.InputTokens,
		TokensOut: resp.Usage.OutputTokens,
	}
	c.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			result.Output += variant.Text
		}
	}
	return result, nil
}

// Model returns the configured model name.
func (c *Client) Model() anthropic.Model {
	return c.model
}

// Tracker returns the token tracker for this client.
func (c *Client) Tracker() *TokenTracker {
	return c.tracker
}
