package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance, reading an optional yaml file
// and the environment
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/email-categorizer/")
	v.AddConfigPath("$HOME/.email-categorizer")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("EMAIL_CATEGORIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvAliases(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper
// instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// bindEnvAliases maps the short environment names used by existing
// deployments onto their config keys, in addition to the prefixed forms
func bindEnvAliases(v *viper.Viper) {
	v.BindEnv("gemini.api_key", "EMAIL_CATEGORIZER_GEMINI_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("openai.api_key", "EMAIL_CATEGORIZER_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("llm.provider", "EMAIL_CATEGORIZER_LLM_PROVIDER", "DEFAULT_AI_PROVIDER")
	v.BindEnv("categorizer.timeout_seconds", "EMAIL_CATEGORIZER_CATEGORIZER_TIMEOUT_SECONDS", "CATEGORIZATION_TIMEOUT")
	v.BindEnv("categorizer.max_email_length", "EMAIL_CATEGORIZER_CATEGORIZER_MAX_EMAIL_LENGTH", "MAX_EMAIL_LENGTH")
	v.BindEnv("server.host", "EMAIL_CATEGORIZER_SERVER_HOST", "HOST")
	v.BindEnv("server.port", "EMAIL_CATEGORIZER_SERVER_PORT", "PORT")
	v.BindEnv("logging.debug", "EMAIL_CATEGORIZER_LOGGING_DEBUG", "DEBUG")
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Classification strategy defaults
	v.SetDefault("categorizer.strategy", "llm")
	v.SetDefault("categorizer.timeout_seconds", 30)
	v.SetDefault("categorizer.max_email_length", 10000)
	v.SetDefault("categorizer.trusted_domains", []string{})

	// LLM provider defaults
	v.SetDefault("llm.provider", "gemini")

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-1.5-flash")
	v.SetDefault("gemini.max_tokens", 1000)
	v.SetDefault("gemini.temperature", 0.3)
	v.SetDefault("gemini.top_p", 0.9)
	v.SetDefault("gemini.max_body_size", 4096)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4")
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("openai.temperature", 0.3)
	v.SetDefault("openai.top_p", 0.9)
	v.SetDefault("openai.max_body_size", 4096)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 1000)
	v.SetDefault("bedrock.temperature", 0.3)
	v.SetDefault("bedrock.top_p", 0.9)
	v.SetDefault("bedrock.max_body_size", 4096)

	// Server defaults
	v.SetDefault("server.mode", "http")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.name", "email-ai-categorizer-backend")
	v.SetDefault("server.smtp.listen_address", "0.0.0.0:10025")
	v.SetDefault("server.smtp.relay_address", "127.0.0.1")
	v.SetDefault("server.smtp.relay_port", 10026)
	v.SetDefault("server.smtp.relay_enabled", true)
	v.SetDefault("server.smtp.category_header", "X-Email-Category")
	v.SetDefault("server.smtp.confidence_header", "X-Email-Category-Confidence")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_frequency", "1h")
	v.SetDefault("cache.sqlite_path", "/data/categorizer_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/email_categorizer")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.debug", false)
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration parses a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
