package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/config"
	"github.com/mikey/email-categorizer/internal/core"
	"github.com/mikey/email-categorizer/internal/factory"
	"github.com/mikey/email-categorizer/internal/logging"
	"github.com/mikey/email-categorizer/internal/normalizer"
)

var (
	// Strategy flags
	strategy = flag.String("strategy", "llm", "Classification strategy (llm, keyword)")
	provider = flag.String("provider", "gemini", "LLM provider (gemini, openai, bedrock)")

	// LLM generation flags
	maxTokens   = flag.Int("max-tokens", 1000, "Maximum tokens for LLM response")
	temperature = flag.Float64("temperature", 0.3, "Temperature for LLM generation")
	topP        = flag.Float64("top-p", 0.9, "Top-p for LLM generation")
	maxBodySize = flag.Int("max-body-size", 4096, "Maximum email body size to send to LLM")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-1.5-flash", "Gemini model name")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4", "OpenAI model name")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Normalization flags
	maxEmailLength = flag.Int("max-email-length", 10000, "Maximum cleaned body length")

	// Input flags
	inputFile  = flag.String("file", "", "Input email file (use stdin if not specified)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	// Initialize the classification strategy
	textProcessor := factory.NewTextProcessorFactory(logger).CreateTextProcessor()
	classifierFactory := factory.NewClassifierFactory(cfg, logger, textProcessor)
	classifier, err := classifierFactory.CreateClassifier()
	if err != nil {
		logger.Fatal("Failed to create classifier", zap.Error(err))
	}

	// Read email from file or stdin
	var emailReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", *inputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	// Parse email
	msg, err := mail.ReadMessage(bufio.NewReader(emailReader))
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	from := msg.Header.Get("From")
	subject := msg.Header.Get("Subject")

	bodyBytes, err := io.ReadAll(msg.Body)
	if err != nil {
		logger.Fatal("Failed to read email body", zap.Error(err))
	}
	body := string(bodyBytes)

	// Print email summary
	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", from)
	fmt.Printf("Subject: %s\n", subject)
	fmt.Printf("Body length: %d bytes\n", len(body))
	fmt.Printf("\n")

	fmt.Printf("=== Classification ===\n")
	fmt.Printf("Strategy: %s\n", cfg.GetString("categorizer.strategy"))
	if cfg.GetString("categorizer.strategy") == "llm" {
		fmt.Printf("Provider: %s\n", cfg.GetString("llm.provider"))
	}

	startTime := time.Now()

	norm := normalizer.New(cfg.GetCategorizer().MaxEmailLength, logger)
	email := norm.Normalize(&core.RawEmail{
		Subject: subject,
		Sender:  from,
		Body:    body,
	})

	result, err := classifier.Classify(context.Background(), email)
	if err != nil {
		logger.Warn("Primary classification failed, using keyword fallback", zap.Error(err))
		result, err = classifierFactory.CreateFallbackClassifier().Classify(context.Background(), email)
		if err != nil {
			logger.Fatal("Failed to classify email", zap.Error(err))
		}
	}
	duration := time.Since(startTime)

	// Print results
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Category: %s\n", string(result.Category))
	fmt.Printf("Confidence: %.4f\n", result.Confidence)
	fmt.Printf("Reasoning: %s\n", result.Reasoning)
	fmt.Printf("Model used: %s\n", result.ModelUsed)
	fmt.Printf("Is promotional: %t\n", email.IsPromotional)
	fmt.Printf("Priority score: %.2f\n", email.PriorityScore)
	fmt.Printf("Processing time: %v\n", duration)

	// Close any resources that need closing
	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier", zap.Error(err))
		}
	}
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("categorizer.strategy", *strategy)
	v.Set("categorizer.max_email_length", *maxEmailLength)
	v.Set("llm.provider", *provider)

	// Set provider-specific configuration
	switch *provider {
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
		v.Set("gemini.top_p", *topP)
		v.Set("gemini.max_body_size", *maxBodySize)
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
		v.Set("openai.top_p", *topP)
		v.Set("openai.max_body_size", *maxBodySize)
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
		v.Set("bedrock.top_p", *topP)
		v.Set("bedrock.max_body_size", *maxBodySize)
	}

	// Fall back to the environment for API keys when not passed as flags
	if *geminiAPIKey == "" {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			v.Set("gemini.api_key", key)
		}
	}
	if *openaiAPIKey == "" {
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			v.Set("openai.api_key", key)
		}
	}

	return config.NewFromViper(v)
}
