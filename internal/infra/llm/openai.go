package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"study-notes/internal/resilience/circuitbreaker"
	"study-notes/internal/resilience/retry"
)

// DefaultOpenAIConfig returns the defaults for the OpenAI client.
func DefaultOpenAIConfig() Config {
	return Config{
		Model:     openai.GPT4oMini,
		MaxTokens: 1024,
		Timeout:   60 * time.Second,
	}
}

// OpenAI completes prompts with the Chat Completions API.
type OpenAI struct {
	client *openai.Client
	config Config
	caller
}

// NewOpenAI creates an OpenAI client.
func NewOpenAI(apiKey string, cfg Config, opts ...Option) *OpenAI {
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		config: cfg,
		caller: newCaller("openai", cfg, circuitbreaker.OpenAIAPIConfig(), opts),
	}
}

// Provider implements Completer.
func (o *OpenAI) Provider() string { return "openai" }

// Complete implements Completer.
func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	return o.call(ctx, func(ctx context.Context) (string, error) {
		return o.doComplete(ctx, req)
	})
}

func (o *OpenAI) doComplete(ctx context.Context, req Request) (string, error) {
	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	seed := 0
	chatReq := openai.ChatCompletionRequest{
		Model:     o.config.Model,
		Messages:  messages,
		MaxTokens: maxTokens(req, o.config),
		// a zero temperature is dropped by omitempty
		Temperature: math.SmallestNonzeroFloat32,
		Seed:        &seed,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", openAIError(err))
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrEmptyResponse
	}
	return reply, nil
}

// openAIError exposes the HTTP status so that retry.IsRetryable can see it.
func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return fmt.Errorf("%w: %w", &retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return fmt.Errorf("%w: %w", &retry.HTTPError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}, err)
	}
	return err
}

func maxTokens(req Request, cfg Config) int {
	if req.MaxTokens > 0 && req.MaxTokens < cfg.MaxTokens {
		return req.MaxTokens
	}
	return cfg.MaxTokens
}
