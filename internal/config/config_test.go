package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"NOTES_MAX_INPUT_WORDS", "NOTES_TOP_KEY_POINTS", "NOTES_NUM_TOPICS", "NOTES_MAX_SEGMENT_WORDS",
		"NOTES_BUDGET_STRATEGY", "NOTES_DIAGNOSTICS", "SUMMARIZER_TYPE", "SUMMARIZER_MODEL",
		"SUMMARIZER_TIMEOUT", "SENTIMENT_TYPE", "SENTIMENT_MODEL", "OPENAI_BASE_URL", "OPENAI_API_KEY",
		"ANTHROPIC_API_KEY", "ANNOTATOR_TYPE", "ANNOTATOR_ADDRESS", "ANNOTATOR_TIMEOUT", "FETCH_TIMEOUT",
		"FETCH_MAX_BODY_SIZE", "FETCH_ALLOW_PRIVATE_IPS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, TypeExtractive, cfg.Summarizer.Type)
	assert.Equal(t, AnnotatorProse, cfg.Annotator.Type)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "notes.yaml", `
pipeline:
  max_input_words: 500
  budget_strategy: mode-scaled
summarizer:
  type: claude
  model: claude-haiku-4-5
  timeout: 45s
annotator:
  type: grpc
  address: localhost:50051
`)
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("NOTES_MAX_INPUT_WORDS", "800")
	t.Setenv("ANNOTATOR_TIMEOUT", "5s")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Pipeline.MaxInputWords)
	assert.Equal(t, "mode-scaled", cfg.Pipeline.BudgetStrategy)
	assert.Equal(t, TypeClaude, cfg.Summarizer.Type)
	assert.Equal(t, "claude-haiku-4-5", cfg.Summarizer.Model)
	assert.Equal(t, 45*time.Second, cfg.Summarizer.Timeout)
	// untouched keys keep their defaults
	assert.Equal(t, 1024, cfg.Summarizer.MaxTokens)
	assert.Equal(t, "localhost:50051", cfg.Annotator.Address)
	assert.Equal(t, 5*time.Second, cfg.Annotator.CallTimeout)
	assert.Equal(t, "sk-test", cfg.AnthropicAPIKey)
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTES_MAX_INPUT_WORDS", "lots")
	t.Setenv("FETCH_TIMEOUT", "-3s")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Pipeline.MaxInputWords)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeFile(t, "bad.yaml", "pipeline: [unclosed"), nil)
	assert.ErrorContains(t, err, "failed to parse config")

	t.Setenv("SUMMARIZER_TYPE", "openai")
	_, err = Load("", nil)
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown budget", mutate: func(c *Config) { c.Pipeline.BudgetStrategy = "greedy" }, wantErr: "budget_strategy"},
		{name: "zero input words", mutate: func(c *Config) { c.Pipeline.MaxInputWords = 0 }, wantErr: "max_input_words"},
		{name: "unknown summarizer", mutate: func(c *Config) { c.Summarizer.Type = "llama" }, wantErr: "summarizer.type"},
		{name: "bayes is not a summarizer", mutate: func(c *Config) { c.Summarizer.Type = TypeBayes }, wantErr: "summarizer.type"},
		{name: "sentiment disabled", mutate: func(c *Config) { c.Sentiment.Type = TypeNone }},
		{
			name: "claude without key",
			mutate: func(c *Config) {
				c.Sentiment.Type = TypeClaude
			},
			wantErr: "ANTHROPIC_API_KEY",
		},
		{
			name: "remote model without timeout",
			mutate: func(c *Config) {
				c.Summarizer.Type = TypeOpenAI
				c.OpenAIAPIKey = "k"
				c.Summarizer.Timeout = 0
			},
			wantErr: "summarizer.timeout",
		},
		{name: "grpc without address", mutate: func(c *Config) { c.Annotator.Type = AnnotatorGRPC }, wantErr: "annotator.address"},
		{name: "unknown annotator", mutate: func(c *Config) { c.Annotator.Type = "spacy" }, wantErr: "annotator.type"},
		{name: "negative redirects", mutate: func(c *Config) { c.Fetch.MaxRedirects = -1 }, wantErr: "max_redirects"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("DOTENV_PRESET", "kept")
	t.Setenv("DOTENV_NEW", "")
	require.NoError(t, os.Unsetenv("DOTENV_NEW"))

	path := writeFile(t, ".env", "DOTENV_PRESET=replaced\nDOTENV_NEW=loaded\n")
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env"), path))

	assert.Equal(t, "kept", os.Getenv("DOTENV_PRESET"))
	assert.Equal(t, "loaded", os.Getenv("DOTENV_NEW"))
}
