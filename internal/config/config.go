// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Provider names accepted in llm_provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Defaults
const (
	DefaultPort         = 8080
	DefaultMaxSteps     = 6
	DefaultFetchTimeout = 30 * time.Second
	DefaultCacheTTL     = 24 * time.Hour
)

// Config holds every setting of the application. Values come from (lowest to
// highest priority) defaults, an optional config file, environment variables
// and bound CLI flags.
type Config struct {
	Port int `mapstructure:"port"`

	// LLM controller
	LLMProvider     string `mapstructure:"llm_provider"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	ControllerModel string `mapstructure:"controller_model"`
	MaxSteps        int    `mapstructure:"max_steps"`

	// Google Custom Search
	CSEAPIKey string `mapstructure:"cse_api_key"`
	CSEID     string `mapstructure:"cse_id"`

	// Website extraction
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	UseBrowser   bool          `mapstructure:"use_browser"`

	// Optional infrastructure; empty disables the feature
	RedisURL    string        `mapstructure:"redis_url"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	DatabaseURL string        `mapstructure:"database_url"`

	LogJSON bool `mapstructure:"log_json"`
	Debug   bool `mapstructure:"debug"`
}

// envBindings maps config keys to the environment variables that can set them.
// When several variables are listed the first one that is set wins.
var envBindings = map[string][]string{
	"port":             {"PORT"},
	"llm_provider":     {"LLM_PROVIDER"},
	"gemini_api_key":   {"GEMINI_API_KEY", "GOOGLE_GENERATIVE_AI_API_KEY"},
	"openai_api_key":   {"OPENAI_API_KEY"},
	"controller_model": {"CONTROLLER_MODEL"},
	"max_steps":        {"AGENT_MAX_STEPS"},
	"cse_api_key":      {"GOOGLE_CSE_API_KEY"},
	"cse_id":           {"GOOGLE_CSE_ID"},
	"fetch_timeout":    {"FETCH_TIMEOUT"},
	"use_browser":      {"USE_BROWSER"},
	"redis_url":        {"REDIS_URL"},
	"cache_ttl":        {"CACHE_TTL"},
	"database_url":     {"DATABASE_URL"},
	"log_json":         {"LOG_JSON"},
	"debug":            {"DEBUG"},
}

// New returns a viper instance with defaults and environment bindings applied.
// Callers may bind CLI flags on it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("port", DefaultPort)
	v.SetDefault("llm_provider", ProviderGemini)
	v.SetDefault("max_steps", DefaultMaxSteps)
	v.SetDefault("fetch_timeout", DefaultFetchTimeout)
	v.SetDefault("cache_ttl", DefaultCacheTTL)
	v.SetDefault("use_browser", false)
	v.SetDefault("log_json", false)
	v.SetDefault("debug", false)

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		// BindEnv only fails when called without a key
		_ = v.BindEnv(args...)
	}

	return v
}

// Load reads the optional config file at path into v and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = New()
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)
	cfg.OpenAIAPIKey = strings.TrimSpace(cfg.OpenAIAPIKey)
	cfg.CSEAPIKey = strings.TrimSpace(cfg.CSEAPIKey)
	cfg.CSEID = strings.TrimSpace(cfg.CSEID)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Missing credentials are not validation errors: they are reported with
// RequireLLM/RequireSearch when the capability is actually needed.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("config error: 'port' must be between 1 and 65535"))
	}
	switch c.LLMProvider {
	case ProviderGemini, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("config error: unknown 'llm_provider' %q", c.LLMProvider))
	}
	if c.MaxSteps < 1 || c.MaxSteps > 20 {
		errs = append(errs, fmt.Errorf("config error: 'max_steps' must be between 1 and 20"))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("config error: 'fetch_timeout' must be positive"))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("config error: 'cache_ttl' must be positive"))
	}

	return errors.Join(errs...)
}

// LLMAPIKey returns the API key of the configured provider.
func (c *Config) LLMAPIKey() string {
	if c.LLMProvider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// RequireLLM returns an *Error if the configured provider has no API key.
func (c *Config) RequireLLM() error {
	if c.LLMAPIKey() != "" {
		return nil
	}
	if c.LLMProvider == ProviderOpenAI {
		return Missing("openai_api_key", "OPENAI_API_KEY")
	}
	return Missing("gemini_api_key", "GEMINI_API_KEY")
}

// RequireSearch returns an *Error if either Custom Search credential is missing.
func (c *Config) RequireSearch() error {
	return RequireSearchCredentials(c.CSEAPIKey, c.CSEID)
}

// RequireSearchCredentials checks a Custom Search key/engine id pair.
func RequireSearchCredentials(apiKey, engineID string) error {
	if strings.TrimSpace(apiKey) == "" {
		return Missing("cse_api_key", "GOOGLE_CSE_API_KEY")
	}
	if strings.TrimSpace(engineID) == "" {
		return Missing("cse_id", "GOOGLE_CSE_ID")
	}
	return nil
}

// Preview masks a secret for display, keeping only a short prefix and suffix.
func Preview(secret string) string {
	if secret == "" {
		return "NOT_CONFIGURED"
	}
	if len(secret) < 12 {
		return "***"
	}
	return secret[:7] + "..." + secret[len(secret)-4:]
}
