/*
Package config loads the process-wide runtime configuration.
Values come from a local .env file (if present) and the process environment,
and are read exactly once at startup. The resulting *Config is never mutated
and is handed by reference to every component that needs it.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/gommon/bytes"
	"github.com/spf13/viper"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultModel             = "gemini-1.5-pro"
	DefaultPort              = 5000
	DefaultGenerationTimeout = 60 * time.Second
	MinGenerationTimeout     = time.Second
	DefaultBodyLimit         = "64K"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"
)

// DefaultAllowedOrigins are the local development frontends.
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

var (
	ErrMissingAPIKey = errors.New("GOOGLE_API_KEY is required")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds everything the server needs to run.
type Config struct {
	// APIKey authenticates calls to the Gemini API.
	APIKey string

	// Model is the Gemini model identifier used for generation.
	Model string

	// BaseURL overrides the Gemini endpoint. Empty means the SDK default.
	BaseURL string

	// Port is the TCP port the HTTP server listens on.
	Port int

	// GenerationTimeout bounds a single call to the provider.
	GenerationTimeout time.Duration

	// AllowedOrigins lists the origins permitted by CORS on /api/*.
	AllowedOrigins []string

	// RateLimit is the per-client-IP request rate on /api/*. Zero disables it.
	RateLimit float64

	// TrustProxy takes the client IP from X-Forwarded-For when the request
	// arrives through a private or loopback proxy. Otherwise the peer address
	// is used and forwarding headers are ignored.
	TrustProxy bool

	// BodyLimit caps the size of request bodies, e.g. "64K".
	BodyLimit string

	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("gemini_model", DefaultModel)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("generation_timeout", DefaultGenerationTimeout)
	v.SetDefault("cors_allowed_origins", strings.Join(DefaultAllowedOrigins, ","))
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("trust_proxy", false)
	v.SetDefault("body_limit", DefaultBodyLimit)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)

	cfg := &Config{
		APIKey:            strings.TrimSpace(v.GetString("google_api_key")),
		Model:             strings.TrimSpace(v.GetString("gemini_model")),
		BaseURL:           strings.TrimSpace(v.GetString("gemini_base_url")),
		Port:              v.GetInt("port"),
		GenerationTimeout: v.GetDuration("generation_timeout"),
		AllowedOrigins:    splitList(v.GetString("cors_allowed_origins")),
		RateLimit:         v.GetFloat64("rate_limit_rps"),
		TrustProxy:        v.GetBool("trust_proxy"),
		BodyLimit:         strings.TrimSpace(v.GetString("body_limit")),
		LogLevel:          strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		LogFormat:         strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first problem found in c.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Model == "" {
		return fmt.Errorf("%w: GEMINI_MODEL must not be empty", ErrInvalidConfig)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: PORT must be between 1 and 65535", ErrInvalidConfig)
	}
	if c.GenerationTimeout < MinGenerationTimeout {
		return fmt.Errorf("%w: GENERATION_TIMEOUT must be at least %s, got %s (units are required, e.g. 60s)",
			ErrInvalidConfig, MinGenerationTimeout, c.GenerationTimeout)
	}
	if _, err := bytes.Parse(c.BodyLimit); err != nil {
		return fmt.Errorf("%w: BODY_LIMIT %q: %v", ErrInvalidConfig, c.BodyLimit, err)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: RATE_LIMIT_RPS must not be negative", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: LOG_FORMAT must be console or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
