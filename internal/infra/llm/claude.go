package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"study-notes/internal/resilience/circuitbreaker"
	"study-notes/internal/resilience/retry"
)

// DefaultClaudeConfig returns the defaults for the Claude client.
func DefaultClaudeConfig() Config {
	return Config{
		Model:     string(anthropic.ModelClaudeSonnet4_5_20250929),
		MaxTokens: 1024,
		Timeout:   60 * time.Second,
	}
}

// Claude completes prompts with the Anthropic Messages API.
type Claude struct {
	client anthropic.Client
	config Config
	caller
}

// NewClaude creates a Claude client. The SDK's own retries are disabled so
// that retry.WithBackoff is the only retry layer.
func NewClaude(apiKey string, cfg Config, opts ...Option) *Claude {
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Claude{
		client: anthropic.NewClient(reqOpts...),
		config: cfg,
		caller: newCaller("claude", cfg, circuitbreaker.ClaudeAPIConfig(), opts),
	}
}

// Provider implements Completer.
func (c *Claude) Provider() string { return "claude" }

// Complete implements Completer.
func (c *Claude) Complete(ctx context.Context, req Request) (string, error) {
	return c.call(ctx, func(ctx context.Context) (string, error) {
		return c.doComplete(ctx, req)
	})
}

func (c *Claude) doComplete(ctx context.Context, req Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.config.Model),
		MaxTokens:   int64(maxTokens(req, c.config)),
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude api error: %w", claudeError(err))
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	reply := strings.TrimSpace(sb.String())
	if reply == "" {
		return "", ErrEmptyResponse
	}
	return reply, nil
}

func claudeError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
		return fmt.Errorf("%w: %w", &retry.HTTPError{StatusCode: apiErr.StatusCode, Message: http.StatusText(apiErr.StatusCode)}, err)
	}
	return err
}
