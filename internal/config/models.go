package config

import "time"

// CategorizerConfig represents the decision-engine configuration
type CategorizerConfig struct {
	Strategy       string
	Timeout        time.Duration
	MaxEmailLength int
	TrustedDomains []string
}

// LLMConfig represents the configuration for the LLM provider selection
type LLMConfig struct {
	Provider string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// ServerConfig represents the frontend configuration
type ServerConfig struct {
	Mode string
	Host string
	Port int
	Name string
}

// SMTPConfig represents the SMTP tagging-frontend configuration
type SMTPConfig struct {
	ListenAddress    string
	RelayAddress     string
	RelayPort        int
	RelayEnabled     bool
	CategoryHeader   string
	ConfidenceHeader string
}

// GetCategorizer returns the decision-engine configuration
func (c *Config) GetCategorizer() CategorizerConfig {
	return CategorizerConfig{
		Strategy:       c.GetString("categorizer.strategy"),
		Timeout:        time.Duration(c.GetInt("categorizer.timeout_seconds")) * time.Second,
		MaxEmailLength: c.GetInt("categorizer.max_email_length"),
		TrustedDomains: c.GetStringSlice("categorizer.trusted_domains"),
	}
}

// GetLLM returns the LLM provider selection
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetServer returns the frontend configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		Mode: c.GetString("server.mode"),
		Host: c.GetString("server.host"),
		Port: c.GetInt("server.port"),
		Name: c.GetString("server.name"),
	}
}

// GetSMTP returns the SMTP tagging-frontend configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		ListenAddress:    c.GetString("server.smtp.listen_address"),
		RelayAddress:     c.GetString("server.smtp.relay_address"),
		RelayPort:        c.GetInt("server.smtp.relay_port"),
		RelayEnabled:     c.GetBool("server.smtp.relay_enabled"),
		CategoryHeader:   c.GetString("server.smtp.category_header"),
		ConfidenceHeader: c.GetString("server.smtp.confidence_header"),
	}
}
