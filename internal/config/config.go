// Package config loads the notes configuration: built-in defaults, then an
// optional YAML file, then environment overrides.
//
// Environment variables:
//   - NOTES_MAX_INPUT_WORDS, NOTES_BUDGET_STRATEGY, NOTES_DIAGNOSTICS
//   - NOTES_TOP_KEY_POINTS, NOTES_NUM_TOPICS, NOTES_MAX_SEGMENT_WORDS
//   - SUMMARIZER_TYPE (openai, claude, extractive), SUMMARIZER_MODEL, SUMMARIZER_TIMEOUT
//   - SENTIMENT_TYPE (openai, claude, bayes, none), SENTIMENT_MODEL
//   - OPENAI_API_KEY, OPENAI_BASE_URL, ANTHROPIC_API_KEY
//   - ANNOTATOR_TYPE (prose, grpc), ANNOTATOR_ADDRESS, ANNOTATOR_TIMEOUT
//   - FETCH_TIMEOUT, FETCH_MAX_BODY_SIZE, FETCH_ALLOW_PRIVATE_IPS
//   - LOG_LEVEL, LOG_FORMAT
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	envcfg "study-notes/internal/pkg/config"
)

// Model backends.
const (
	TypeOpenAI     = "openai"
	TypeClaude     = "claude"
	TypeExtractive = "extractive"
	TypeBayes      = "bayes"
	TypeNone       = "none"

	AnnotatorProse = "prose"
	AnnotatorGRPC  = "grpc"
)

// Config is the full notes configuration.
type Config struct {
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Summarizer    ModelConfig         `yaml:"summarizer"`
	Sentiment     ModelConfig         `yaml:"sentiment"`
	Annotator     AnnotatorConfig     `yaml:"annotator"`
	Fetch         FetchConfig         `yaml:"fetch"`
	Observability ObservabilityConfig `yaml:"observability"`

	// Credentials only come from the environment.
	OpenAIAPIKey    string `yaml:"-"`
	AnthropicAPIKey string `yaml:"-"`
}

// PipelineConfig tunes the notes pipeline.
type PipelineConfig struct {
	MaxInputWords   int    `yaml:"max_input_words"`
	TopKeyPoints    int    `yaml:"top_key_points"`
	NumTopics       int    `yaml:"num_topics"`
	NumKeywords     int    `yaml:"num_keywords"`
	NumMainPoints   int    `yaml:"num_main_points"`
	MaxSegmentWords int    `yaml:"max_segment_words"`
	BudgetStrategy  string `yaml:"budget_strategy"`
	Diagnostics     bool   `yaml:"diagnostics"`
}

// ModelConfig selects and tunes a summarization or sentiment backend.
type ModelConfig struct {
	Type              string        `yaml:"type"`
	Model             string        `yaml:"model"`
	MaxTokens         int           `yaml:"max_tokens"`
	Timeout           time.Duration `yaml:"timeout"`
	BaseURL           string        `yaml:"base_url"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// AnnotatorConfig selects the linguistic annotator.
type AnnotatorConfig struct {
	Type           string        `yaml:"type"`
	Address        string        `yaml:"address"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	CallTimeout    time.Duration `yaml:"call_timeout"`
}

// FetchConfig tunes the URL loader.
type FetchConfig struct {
	Timeout         time.Duration `yaml:"timeout"`
	MaxBodySize     int64         `yaml:"max_body_size"`
	MaxRedirects    int           `yaml:"max_redirects"`
	AllowPrivateIPs bool          `yaml:"allow_private_ips"`
	UserAgent       string        `yaml:"user_agent"`
}

// ObservabilityConfig controls logging.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in configuration: local annotator and models,
// so the pipeline runs without network access.
func Default() Config {
	return Config{
		Pipeline: PipelineConfig{
			MaxInputWords:   1000,
			TopKeyPoints:    10,
			NumTopics:       5,
			NumKeywords:     10,
			NumMainPoints:   5,
			MaxSegmentWords: 1024,
			BudgetStrategy:  "adaptive",
		},
		Summarizer: ModelConfig{
			Type:              TypeExtractive,
			MaxTokens:         1024,
			Timeout:           60 * time.Second,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Sentiment: ModelConfig{
			Type:              TypeBayes,
			MaxTokens:         64,
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Annotator: AnnotatorConfig{
			Type:           AnnotatorProse,
			ConnectTimeout: 10 * time.Second,
			CallTimeout:    30 * time.Second,
		},
		Fetch: FetchConfig{
			Timeout:      10 * time.Second,
			MaxBodySize:  10 * 1024 * 1024,
			MaxRedirects: 5,
			UserAgent:    "StudyNotesBot/1.0",
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
	}
}

// LoadDotEnv loads KEY=VALUE files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load builds the configuration. path may be empty to skip the file.
// Unparseable environment values fall back to the file or default value
// with a warning; the merged result must pass Validate.
func Load(path string, logger *slog.Logger) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 -- path comes from a command-line flag
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnv(&cfg, envcfg.NewTracker(logger, nil))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyEnv(c *Config, t *envcfg.Tracker) {
	p := &c.Pipeline
	p.MaxInputWords = envcfg.Use(t, "max_input_words", envcfg.LoadEnvInt("NOTES_MAX_INPUT_WORDS", p.MaxInputWords, nil))
	p.TopKeyPoints = envcfg.Use(t, "top_key_points", envcfg.LoadEnvInt("NOTES_TOP_KEY_POINTS", p.TopKeyPoints, nil))
	p.NumTopics = envcfg.Use(t, "num_topics", envcfg.LoadEnvInt("NOTES_NUM_TOPICS", p.NumTopics, nil))
	p.MaxSegmentWords = envcfg.Use(t, "max_segment_words", envcfg.LoadEnvInt("NOTES_MAX_SEGMENT_WORDS", p.MaxSegmentWords, nil))
	p.BudgetStrategy = envcfg.Use(t, "budget_strategy", envcfg.LoadEnvString("NOTES_BUDGET_STRATEGY", p.BudgetStrategy, nil))
	p.Diagnostics = envcfg.Use(t, "diagnostics", envcfg.LoadEnvBool("NOTES_DIAGNOSTICS", p.Diagnostics))

	c.Summarizer.Type = envcfg.Use(t, "summarizer_type", envcfg.LoadEnvString("SUMMARIZER_TYPE", c.Summarizer.Type, nil))
	c.Summarizer.Model = envcfg.Use(t, "summarizer_model", envcfg.LoadEnvString("SUMMARIZER_MODEL", c.Summarizer.Model, nil))
	c.Summarizer.Timeout = envcfg.Use(t, "summarizer_timeout", envcfg.LoadEnvDuration("SUMMARIZER_TIMEOUT", c.Summarizer.Timeout, envcfg.ValidatePositiveDuration))
	c.Sentiment.Type = envcfg.Use(t, "sentiment_type", envcfg.LoadEnvString("SENTIMENT_TYPE", c.Sentiment.Type, nil))
	c.Sentiment.Model = envcfg.Use(t, "sentiment_model", envcfg.LoadEnvString("SENTIMENT_MODEL", c.Sentiment.Model, nil))

	baseURL := envcfg.LoadEnvString("OPENAI_BASE_URL", "", nil).Value
	if baseURL != "" {
		if c.Summarizer.Type == TypeOpenAI {
			c.Summarizer.BaseURL = baseURL
		}
		if c.Sentiment.Type == TypeOpenAI {
			c.Sentiment.BaseURL = baseURL
		}
	}
	c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	c.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")

	c.Annotator.Type = envcfg.Use(t, "annotator_type", envcfg.LoadEnvString("ANNOTATOR_TYPE", c.Annotator.Type, nil))
	c.Annotator.Address = envcfg.Use(t, "annotator_address", envcfg.LoadEnvString("ANNOTATOR_ADDRESS", c.Annotator.Address, nil))
	c.Annotator.CallTimeout = envcfg.Use(t, "annotator_timeout", envcfg.LoadEnvDuration("ANNOTATOR_TIMEOUT", c.Annotator.CallTimeout, envcfg.ValidatePositiveDuration))

	c.Fetch.Timeout = envcfg.Use(t, "fetch_timeout", envcfg.LoadEnvDuration("FETCH_TIMEOUT", c.Fetch.Timeout, envcfg.ValidatePositiveDuration))
	maxBody := envcfg.Use(t, "fetch_max_body_size", envcfg.LoadEnvInt("FETCH_MAX_BODY_SIZE", int(c.Fetch.MaxBodySize), nil))
	c.Fetch.MaxBodySize = int64(maxBody)
	c.Fetch.AllowPrivateIPs = envcfg.Use(t, "fetch_allow_private_ips", envcfg.LoadEnvBool("FETCH_ALLOW_PRIVATE_IPS", c.Fetch.AllowPrivateIPs))

	c.Observability.LogLevel = envcfg.Use(t, "log_level", envcfg.LoadEnvString("LOG_LEVEL", c.Observability.LogLevel, nil))
	c.Observability.LogFormat = envcfg.Use(t, "log_format", envcfg.LoadEnvString("LOG_FORMAT", c.Observability.LogFormat, nil))

	t.Finish()
}

// Validate checks configuration correctness. All problems are reported.
func (c *Config) Validate() error {
	var errs []error

	p := c.Pipeline
	if p.MaxInputWords <= 0 {
		errs = append(errs, fmt.Errorf("pipeline.max_input_words must be positive"))
	}
	if p.TopKeyPoints <= 0 || p.NumTopics <= 0 || p.NumKeywords <= 0 || p.NumMainPoints <= 0 {
		errs = append(errs, fmt.Errorf("pipeline result counts must be positive"))
	}
	if p.MaxSegmentWords <= 0 {
		errs = append(errs, fmt.Errorf("pipeline.max_segment_words must be positive"))
	}
	if err := envcfg.OneOf("adaptive", "mode-scaled")(p.BudgetStrategy); err != nil {
		errs = append(errs, fmt.Errorf("pipeline.budget_strategy: %w", err))
	}

	errs = append(errs, c.Summarizer.validate("summarizer", TypeOpenAI, TypeClaude, TypeExtractive)...)
	errs = append(errs, c.Sentiment.validate("sentiment", TypeOpenAI, TypeClaude, TypeBayes, TypeNone)...)
	for _, m := range []ModelConfig{c.Summarizer, c.Sentiment} {
		switch strings.ToLower(m.Type) {
		case TypeOpenAI:
			if c.OpenAIAPIKey == "" {
				errs = append(errs, fmt.Errorf("OPENAI_API_KEY is required for the openai backend"))
			}
		case TypeClaude:
			if c.AnthropicAPIKey == "" {
				errs = append(errs, fmt.Errorf("ANTHROPIC_API_KEY is required for the claude backend"))
			}
		}
	}

	switch strings.ToLower(c.Annotator.Type) {
	case AnnotatorProse:
	case AnnotatorGRPC:
		if c.Annotator.Address == "" {
			errs = append(errs, fmt.Errorf("annotator.address is required for the grpc annotator"))
		}
		if c.Annotator.ConnectTimeout <= 0 || c.Annotator.CallTimeout <= 0 {
			errs = append(errs, fmt.Errorf("annotator timeouts must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("annotator.type %q is not one of prose, grpc", c.Annotator.Type))
	}

	if c.Fetch.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch.timeout must be positive"))
	}
	if c.Fetch.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("fetch.max_body_size must be positive"))
	}
	if c.Fetch.MaxRedirects < 0 {
		errs = append(errs, fmt.Errorf("fetch.max_redirects cannot be negative"))
	}

	return errors.Join(errs...)
}

func (m ModelConfig) validate(section string, allowed ...string) []error {
	var errs []error
	if err := envcfg.OneOf(allowed...)(m.Type); err != nil {
		errs = append(errs, fmt.Errorf("%s.type: %w", section, err))
	}
	switch strings.ToLower(m.Type) {
	case TypeOpenAI, TypeClaude:
		if m.Timeout <= 0 {
			errs = append(errs, fmt.Errorf("%s.timeout must be positive", section))
		}
		if m.MaxTokens <= 0 {
			errs = append(errs, fmt.Errorf("%s.max_tokens must be positive", section))
		}
		if m.RequestsPerSecond < 0 || m.Burst < 0 {
			errs = append(errs, fmt.Errorf("%s rate limit cannot be negative", section))
		}
	}
	return errs
}
