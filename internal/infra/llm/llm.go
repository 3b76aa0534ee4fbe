// Package llm holds the chat-completion clients shared by the summarization
// and sentiment adapters. Every call goes through a timeout, a rate limiter,
// retries with backoff and a circuit breaker. Sampling is pinned so that a
// fixed prompt gives a fixed reply as far as the provider allows.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"study-notes/internal/resilience/circuitbreaker"
	"study-notes/internal/resilience/retry"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total number of model API requests",
		},
		[]string{"provider", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Model API request duration in seconds, including retries",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider"},
	)
)

// ErrEmptyResponse is returned when the provider answers without any text.
var ErrEmptyResponse = errors.New("model returned empty response")

// Request is one completion call.
type Request struct {
	// System is an optional system instruction.
	System string
	Prompt string
	// MaxTokens caps the reply; zero uses Config.MaxTokens.
	MaxTokens int
	// JSON asks the provider for a JSON object reply where supported.
	JSON bool
}

// Completer produces a single text reply for a prompt.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Provider() string
}

// Config configures a provider client.
type Config struct {
	Model     string
	MaxTokens int
	Timeout   time.Duration
	// BaseURL overrides the provider endpoint. Empty uses the SDK default.
	BaseURL string
	// RequestsPerSecond <= 0 disables rate limiting.
	RequestsPerSecond float64
	Burst             int
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.RequestsPerSecond > 0 && c.Burst <= 0 {
		return fmt.Errorf("burst must be positive when rate limiting, got %d", c.Burst)
	}
	return nil
}

// Option customizes a client.
type Option func(*caller)

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *caller) { c.retryConfig = cfg }
}

// WithCircuitBreaker overrides the circuit breaker.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(c *caller) { c.circuitBreaker = cb }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *caller) { c.logger = l }
}

// caller carries the resilience plumbing common to all providers.
type caller struct {
	provider       string
	timeout        time.Duration
	limiter        *RateLimiter
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	logger         *slog.Logger
}

func newCaller(provider string, cfg Config, cb circuitbreaker.Config, opts []Option) caller {
	c := caller{
		provider:       provider,
		timeout:        cfg.Timeout,
		circuitBreaker: circuitbreaker.New(cb),
		retryConfig:    retry.AIAPIConfig(),
		logger:         slog.Default(),
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst)
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c *caller) call(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(c.provider).Observe(time.Since(start).Seconds())
	}()

	var reply string
	err := retry.WithBackoff(ctx, c.retryConfig, func() error {
		if c.limiter != nil {
			if err := c.limiter.Allow(ctx); err != nil {
				return fmt.Errorf("rate limit wait: %w", err)
			}
		}
		var callErr error
		reply, callErr = circuitbreaker.Run(c.circuitBreaker, func() (string, error) {
			return fn(ctx)
		})
		return callErr
	})

	if err != nil {
		outcome := "error"
		if errors.Is(err, circuitbreaker.ErrOpen) {
			outcome = "circuit_breaker_open"
		}
		requestsTotal.WithLabelValues(c.provider, outcome).Inc()
		c.logger.ErrorContext(ctx, "model request failed",
			slog.String("provider", c.provider),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%s request failed: %w", c.provider, err)
	}

	requestsTotal.WithLabelValues(c.provider, "success").Inc()
	c.logger.DebugContext(ctx, "model request completed",
		slog.String("provider", c.provider),
		slog.Int("reply_length", len(reply)),
		slog.Duration("duration", time.Since(start)))
	return reply, nil
}
