package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"study-notes/internal/observability/metrics"
	"study-notes/internal/resilience/circuitbreaker"
	"study-notes/internal/resilience/retry"
)

// URLLoader downloads a web page and extracts its article text.
// It is safe for concurrent use.
type URLLoader struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
	logger         *slog.Logger
}

// LoaderOption customizes a URLLoader.
type LoaderOption func(*URLLoader)

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg retry.Config) LoaderOption {
	return func(l *URLLoader) { l.retryConfig = cfg }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *URLLoader) { l.logger = logger }
}

// NewURLLoader creates a loader. Every redirect target is validated with the
// same SSRF rules as the original URL.
func NewURLLoader(config Config, opts ...LoaderOption) *URLLoader {
	l := &URLLoader{
		circuitBreaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		retryConfig:    retry.ContentFetchConfig(),
		config:         config,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.client = &http.Client{
		Timeout: 3 * config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= l.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), l.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return l
}

// Load fetches urlStr and returns its readable text.
func (l *URLLoader) Load(ctx context.Context, urlStr string) (string, error) {
	start := time.Now()

	if err := validateURL(urlStr, l.config.DenyPrivateIPs); err != nil {
		metrics.RecordContentFetch("url", false, time.Since(start))
		return "", err
	}

	var content string
	err := retry.WithBackoff(ctx, l.retryConfig, func() error {
		var fetchErr error
		content, fetchErr = circuitbreaker.Run(l.circuitBreaker, func() (string, error) {
			return l.doFetch(ctx, urlStr)
		})
		return fetchErr
	})

	metrics.RecordContentFetch("url", err == nil, time.Since(start))
	if err != nil {
		l.logger.WarnContext(ctx, "content fetch failed",
			slog.String("url", urlStr),
			slog.String("error", err.Error()))
		return "", err
	}

	l.logger.InfoContext(ctx, "content fetched",
		slog.String("url", urlStr),
		slog.Int("length", len(content)),
		slog.Duration("duration", time.Since(start)))
	return content, nil
}

func (l *URLLoader) doFetch(ctx context.Context, urlStr string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", l.config.UserAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: request exceeded %v", ErrTimeout, l.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.config.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > l.config.MaxBodySize {
		return "", fmt.Errorf("%w: response size %d bytes exceeds limit %d bytes",
			ErrBodyTooLarge, len(body), l.config.MaxBodySize)
	}

	pageURL := resp.Request.URL
	return ExtractHTML(bytes.NewReader(body), pageURL, "")
}
