package main

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/fwojciec/webclip"
	webhttp "github.com/fwojciec/webclip/http"
	"gopkg.in/yaml.v3"
)

// AI providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// DefaultAITimeout bounds one model call attempt.
const DefaultAITimeout = 60 * time.Second

// Config is the on-disk configuration of the CLI.
type Config struct {
	Store StoreConfig `yaml:"store"`
	AI    AIConfig    `yaml:"ai"`
	Fetch FetchConfig `yaml:"fetch"`
	Retry RetryConfig `yaml:"retry"`
}

// StoreConfig configures the collection store client.
type StoreConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`

	// RequestsPerSecond limits calls to the store. Zero disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// AIConfig selects the model used for extraction.
type AIConfig struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
}

// FetchConfig configures the page fetcher.
type FetchConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	MaxBytes int64         `yaml:"max_bytes"`
}

// RetryConfig configures backoff for remote service calls.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Timeout: webhttp.DefaultRequestTimeout,
		},
		AI: AIConfig{
			Provider: ProviderGemini,
			Timeout:  DefaultAITimeout,
		},
		Fetch: FetchConfig{
			Timeout:  webhttp.DefaultFetchTimeout,
			MaxBytes: webclip.MaxPageBytes,
		},
		Retry: RetryConfig{
			MaxAttempts: webhttp.DefaultMaxAttempts,
			BaseDelay:   webhttp.DefaultBaseDelay,
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, webclip.Errorf(webclip.EINVALID, "invalid config %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	switch c.AI.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return webclip.Errorf(webclip.EINVALID, "unknown ai.provider %q (want %s or %s)", c.AI.Provider, ProviderGemini, ProviderOpenAI)
	}
	if c.Retry.MaxAttempts < 1 {
		return webclip.Errorf(webclip.EINVALID, "retry.max_attempts must be at least 1")
	}
	if c.Store.RequestsPerSecond < 0 {
		return webclip.Errorf(webclip.EINVALID, "store.requests_per_second must not be negative")
	}
	return nil
}
