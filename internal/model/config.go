package model

import "time"

// Config is the full application configuration tree. Values are loaded
// from flags, CLAIMLENS_* environment variables and the optional
// ~/.claimlens/config.yaml file; DefaultConfig is the single source of
// defaults.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	LLM     LLMConfig     `yaml:"llm"`
	Retry   RetryConfig   `yaml:"retry"`
	Source  SourceConfig  `yaml:"source"`
	Extract ExtractConfig `yaml:"extract"`
	HTTP    HTTPConfig    `yaml:"http"`
	Cache   CacheConfig   `yaml:"cache"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LLMConfig configures the LLM provider. API keys are read from the
// environment (GEMINI_API_KEY, OPENAI_API_KEY), never from config
// files.
type LLMConfig struct {
	// Provider name: "gemini" or "openai".
	Provider string `yaml:"provider"`

	// Model name (provider-specific).
	Model string `yaml:"model"`

	// APIKey for the provider.
	APIKey string `yaml:"-"`

	// BaseURL for custom endpoints (OpenAI-compatible gateways).
	BaseURL string `yaml:"base_url,omitempty"`

	// RPS caps requests per second to the provider; zero disables the
	// limiter. Burst is the limiter bucket size.
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// RetryConfig bounds the gateway's retry loop for a single logical
// call.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseBackoff time.Duration `yaml:"base_backoff"`
	MaxBackoff  time.Duration `yaml:"max_backoff"`
}

// SourceConfig bounds accepted source text, measured in runes.
type SourceConfig struct {
	MinLength int `yaml:"min_length"`
	MaxLength int `yaml:"max_length"`
}

// ExtractConfig configures the two extraction calls.
type ExtractConfig struct {
	Temperature  float32       `yaml:"temperature"`
	TopicTimeout time.Duration `yaml:"topic_timeout"`
	ClaimTimeout time.Duration `yaml:"claim_timeout"`

	// ClaimMaxTokens caps the claim-extraction response; the claim
	// payload is much larger than the topic list.
	ClaimMaxTokens int `yaml:"claim_max_tokens"`
}

// HTTPConfig configures outbound page fetching for the CLI extract
// path.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// CacheConfig configures the in-memory fetched-page cache. LLM
// responses are never cached.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    3 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
			Burst:    1,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseBackoff: 2 * time.Second,
			MaxBackoff:  30 * time.Second,
		},
		Source: SourceConfig{
			MinLength: 50,
			MaxLength: 50_000,
		},
		Extract: ExtractConfig{
			Temperature:    0.2,
			TopicTimeout:   30 * time.Second,
			ClaimTimeout:   60 * time.Second,
			ClaimMaxTokens: 8192,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Claimlens/0.1 (+https://github.com/claimlens/claimlens)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
	}
}
