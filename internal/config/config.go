// Package config loads application configuration: built-in defaults, then
// an optional YAML file, then the legacy environment names the assist and
// OTP backends have always read, then WEBTG_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "webtg.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WEBTG_"

// State backends.
const (
	StateMemory   = "memory"
	StateSQLite   = "sqlite"
	StatePostgres = "postgres"
	StateValkey   = "valkey"
)

// OTP modes.
const (
	OTPTwilio = "twilio"
	OTPLocal  = "local"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Env      string `koanf:"env"` // "development", "production", "testing"
	LogLevel string `koanf:"log_level"`
	// PublicURL is the origin the host page is served from.
	PublicURL   string   `koanf:"public_url"`
	APIBase     string   `koanf:"api_base"`
	CORSOrigins []string `koanf:"cors_origins"`

	// Local state store
	StateBackend   string `koanf:"state_backend"`
	SQLitePath     string `koanf:"sqlite_path"`
	PostgresDSN    string `koanf:"postgres_dsn"`
	ValkeyAddr     string `koanf:"valkey_addr"`
	ValkeyPassword string `koanf:"valkey_password"`
	ValkeyDB       int    `koanf:"valkey_db"`

	// AI provider settings
	AIProvider     string        `koanf:"ai_provider"` // "openai", "claude"
	OpenAIAPIKey   string        `koanf:"openai_api_key"`
	OpenAIModel    string        `koanf:"openai_model"`
	OpenAIBaseURL  string        `koanf:"openai_base_url"`
	ClaudeAPIKey   string        `koanf:"claude_api_key"`
	ClaudeModel    string        `koanf:"claude_model"`
	ClaudeBaseURL  string        `koanf:"claude_base_url"`
	EnhanceTimeout time.Duration `koanf:"enhance_timeout"`
	FallbackPort   string        `koanf:"fallback_port"`

	// Phone verification
	OTPMode          string `koanf:"otp_mode"`
	TwilioAccountSID string `koanf:"twilio_account_sid"`
	TwilioAuthToken  string `koanf:"twilio_auth_token"`
	TwilioVerifySID  string `koanf:"twilio_verify_sid"`

	// Static hosting for published sites
	S3Endpoint  string `koanf:"s3_endpoint"`
	S3Region    string `koanf:"s3_region"`
	S3AccessKey string `koanf:"s3_access_key"`
	S3SecretKey string `koanf:"s3_secret_key"`
	S3Bucket    string `koanf:"s3_bucket"`
	S3PublicURL string `koanf:"s3_public_url"`
}

// Default returns the development defaults.
func Default() *Config {
	return &Config{
		Host:           "0.0.0.0",
		Port:           "5000",
		Env:            "development",
		LogLevel:       "info",
		StateBackend:   StateSQLite,
		SQLitePath:     "data/webtg.db",
		ValkeyAddr:     "localhost:6379",
		AIProvider:     "openai",
		EnhanceTimeout: 6500 * time.Millisecond,
		FallbackPort:   "5000",
		OTPMode:        OTPLocal,
		S3Region:       "us-east-1",
	}
}

// legacyEnv maps the environment names used by earlier deployments.
// Several spellings of the OpenAI key are accepted; the first one set wins.
var legacyEnv = map[string]string{
	"PORT":               "port",
	"OPENAI_MODEL":       "openai_model",
	"TWILIO_ACCOUNT_SID": "twilio_account_sid",
	"TWILIO_AUTH_TOKEN":  "twilio_auth_token",
	"TWILIO_VERIFY_SID":  "twilio_verify_sid",
}

var openAIKeyEnv = []string{"OPENAI_API_KEY", "OPENAPI_API_KEY", "OPEN_AI_API_KEY", "OPENAI_KEY"}

// Load reads configuration from path (skipped when the file does not
// exist) and the environment, then validates it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		if os.Getenv(s) == "" {
			return ""
		}
		return legacyEnv[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading legacy env: %w", err)
	}
	for _, name := range openAIKeyEnv {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			if err := k.Set("openai_api_key", v); err != nil {
				return nil, fmt.Errorf("loading %s: %w", name, err)
			}
			break
		}
	}

	// WEBTG_STATE_BACKEND -> state_backend, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	validBackends  = map[string]bool{StateMemory: true, StateSQLite: true, StatePostgres: true, StateValkey: true}
	validOTPModes  = map[string]bool{OTPTwilio: true, OTPLocal: true}
	validProviders = map[string]bool{"openai": true, "claude": true}
	validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if !validBackends[c.StateBackend] {
		return fmt.Errorf("invalid state_backend %q: must be one of memory, sqlite, postgres, valkey", c.StateBackend)
	}
	if c.StateBackend == StatePostgres && c.PostgresDSN == "" {
		return fmt.Errorf("postgres_dsn is required for the postgres state backend")
	}
	if c.StateBackend == StateSQLite && c.SQLitePath == "" {
		return fmt.Errorf("sqlite_path is required for the sqlite state backend")
	}
	if !validOTPModes[c.OTPMode] {
		return fmt.Errorf("invalid otp_mode %q: must be one of twilio, local", c.OTPMode)
	}
	if !validProviders[c.AIProvider] {
		return fmt.Errorf("invalid ai_provider %q: must be one of openai, claude", c.AIProvider)
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.EnhanceTimeout <= 0 {
		return fmt.Errorf("enhance_timeout must be positive")
	}

	if c.Env == "production" {
		if c.OTPMode == OTPLocal {
			return fmt.Errorf("otp_mode local is not allowed in production")
		}
		if c.TwilioAccountSID == "" || c.TwilioAuthToken == "" || c.TwilioVerifySID == "" {
			return fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_VERIFY_SID must be set in production")
		}
		if c.PublicURL == "" {
			return fmt.Errorf("public_url must be set in production")
		}
	}
	return nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Origin returns the public origin, defaulting to localhost on the port.
func (c *Config) Origin() string {
	if c.PublicURL != "" {
		return strings.TrimRight(c.PublicURL, "/")
	}
	return "http://localhost:" + c.Port
}

// AssistBase returns the API base the enhancement client probes first.
func (c *Config) AssistBase() string {
	if c.APIBase != "" {
		return strings.TrimRight(c.APIBase, "/")
	}
	return c.Origin()
}

// S3Configured reports whether publishing to static hosting is possible.
func (c *Config) S3Configured() bool {
	return c.S3Endpoint != "" && c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
