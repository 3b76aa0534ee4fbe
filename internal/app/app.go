// Package app assembles the notes pipeline and its loaders from
// configuration. It is shared by the command-line tool and the worker.
package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"study-notes/internal/config"
	"study-notes/internal/infra/annotator"
	"study-notes/internal/infra/feed"
	"study-notes/internal/infra/fetcher"
	"study-notes/internal/infra/llm"
	"study-notes/internal/infra/sentiment"
	"study-notes/internal/infra/summarizer"
	"study-notes/internal/usecase/compose"
	"study-notes/internal/usecase/notes"
)

// App holds the long-lived collaborators of one process.
type App struct {
	Notes  *notes.Service
	Loader *fetcher.URLLoader
	Feeds  *feed.Reader

	logger  *slog.Logger
	closers []func() error
}

// New builds the pipeline described by cfg. Remote models are created on
// first use; the gRPC annotator is dialed here so a bad address fails early.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{logger: logger}

	ann, closeAnn, err := NewAnnotator(ctx, cfg.Annotator, logger)
	if err != nil {
		return nil, err
	}
	if closeAnn != nil {
		a.closers = append(a.closers, closeAnn)
	}

	pipeline, err := PipelineConfig(cfg.Pipeline)
	if err != nil {
		a.Close()
		return nil, err
	}

	deps := notes.Deps{
		Annotator:  ann,
		Summarizer: NewSummarizer(cfg, logger),
		Sentiment:  NewSentiment(cfg, logger),
	}
	a.Notes = notes.NewService(deps, pipeline, notes.WithLogger(logger))

	fetchCfg := FetchConfig(cfg.Fetch)
	a.Loader = fetcher.NewURLLoader(fetchCfg, fetcher.WithLogger(logger))
	a.Feeds = feed.NewReader(newHTTPClient(fetchCfg.Timeout), feed.WithLogger(logger))

	logger.Info("notes pipeline initialized",
		slog.String("annotator", cfg.Annotator.Type),
		slog.String("summarizer", cfg.Summarizer.Type),
		slog.String("sentiment", cfg.Sentiment.Type),
		slog.String("budget", pipeline.Budget.Name()))
	return a, nil
}

// Close releases remote connections. It is safe to call more than once.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Error("failed to close collaborator", slog.Any("error", err))
		}
	}
	a.closers = nil
}

// NewAnnotator returns the configured annotator and, for the remote one,
// the function that closes its connection.
func NewAnnotator(ctx context.Context, cfg config.AnnotatorConfig, logger *slog.Logger) (notes.Annotator, func() error, error) {
	switch cfg.Type {
	case config.AnnotatorGRPC:
		client, err := annotator.Dial(ctx, annotator.ClientConfig{
			Address:        cfg.Address,
			ConnectTimeout: cfg.ConnectTimeout,
			CallTimeout:    cfg.CallTimeout,
		}, annotator.WithClientLogger(logger))
		if err != nil {
			return nil, nil, fmt.Errorf("dial annotator: %w", err)
		}
		logger.Info("using remote annotator", slog.String("address", cfg.Address))
		return client, client.Close, nil
	case config.AnnotatorProse, "":
		return annotator.NewProse(logger), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown annotator type %q", cfg.Type)
	}
}

// NewSummarizer returns a lazily built summarization model.
func NewSummarizer(cfg *config.Config, logger *slog.Logger) *notes.Lazy[notes.SummarizationModel] {
	if cfg.Summarizer.Type == config.TypeExtractive || cfg.Summarizer.Type == "" {
		return notes.Ready[notes.SummarizationModel](summarizer.NewExtractive())
	}
	return notes.NewLazy(func() (notes.SummarizationModel, error) {
		c, err := newCompleter(cfg, cfg.Summarizer, logger)
		if err != nil {
			return nil, fmt.Errorf("summarizer: %w", err)
		}
		return summarizer.New(c, summarizer.WithLogger(logger)), nil
	})
}

// NewSentiment returns a lazily built sentiment classifier, or nil when
// sentiment is disabled.
func NewSentiment(cfg *config.Config, logger *slog.Logger) *notes.Lazy[notes.SentimentClassifier] {
	switch cfg.Sentiment.Type {
	case config.TypeNone:
		return nil
	case config.TypeBayes, "":
		return notes.NewLazy(func() (notes.SentimentClassifier, error) {
			b, err := sentiment.NewBayes()
			if err != nil {
				return nil, fmt.Errorf("sentiment: %w", err)
			}
			return b, nil
		})
	}
	return notes.NewLazy(func() (notes.SentimentClassifier, error) {
		c, err := newCompleter(cfg, cfg.Sentiment, logger)
		if err != nil {
			return nil, fmt.Errorf("sentiment: %w", err)
		}
		return sentiment.NewModel(c, logger), nil
	})
}

func newCompleter(cfg *config.Config, mc config.ModelConfig, logger *slog.Logger) (llm.Completer, error) {
	var (
		def llm.Config
		key string
	)
	switch mc.Type {
	case config.TypeOpenAI:
		def, key = llm.DefaultOpenAIConfig(), cfg.OpenAIAPIKey
	case config.TypeClaude:
		def, key = llm.DefaultClaudeConfig(), cfg.AnthropicAPIKey
	default:
		return nil, fmt.Errorf("unknown model type %q", mc.Type)
	}
	if key == "" {
		return nil, fmt.Errorf("%s: api key is not set", mc.Type)
	}

	lc := llm.Config{
		Model:             mc.Model,
		MaxTokens:         mc.MaxTokens,
		Timeout:           mc.Timeout,
		BaseURL:           mc.BaseURL,
		RequestsPerSecond: mc.RequestsPerSecond,
		Burst:             mc.Burst,
	}
	if lc.Model == "" {
		lc.Model = def.Model
	}
	if lc.MaxTokens <= 0 {
		lc.MaxTokens = def.MaxTokens
	}
	if lc.Timeout <= 0 {
		lc.Timeout = def.Timeout
	}
	if err := lc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", mc.Type, err)
	}

	if mc.Type == config.TypeOpenAI {
		return llm.NewOpenAI(key, lc, llm.WithLogger(logger)), nil
	}
	return llm.NewClaude(key, lc, llm.WithLogger(logger)), nil
}

// PipelineConfig converts the file settings into notes.Config.
func PipelineConfig(p config.PipelineConfig) (notes.Config, error) {
	budget, err := compose.BudgetByName(p.BudgetStrategy)
	if err != nil {
		return notes.Config{}, err
	}
	return notes.Config{
		MaxInputWords:   p.MaxInputWords,
		TopKeyPoints:    p.TopKeyPoints,
		NumTopics:       p.NumTopics,
		NumKeywords:     p.NumKeywords,
		NumMainPoints:   p.NumMainPoints,
		MaxSegmentWords: p.MaxSegmentWords,
		Budget:          budget,
		Diagnostics:     p.Diagnostics,
	}, nil
}

// FetchConfig converts the file settings into fetcher.Config.
func FetchConfig(f config.FetchConfig) fetcher.Config {
	c := fetcher.DefaultConfig()
	if f.Timeout > 0 {
		c.Timeout = f.Timeout
	}
	if f.MaxBodySize > 0 {
		c.MaxBodySize = f.MaxBodySize
	}
	if f.MaxRedirects > 0 {
		c.MaxRedirects = f.MaxRedirects
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	c.DenyPrivateIPs = !f.AllowPrivateIPs
	return c
}

// newHTTPClient creates the feed client. TLS 1.2+ is enforced.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: 3 * timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}
