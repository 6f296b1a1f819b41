package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/adapters/bedrock"
	"github.com/mikey/email-categorizer/internal/adapters/gemini"
	"github.com/mikey/email-categorizer/internal/adapters/keyword"
	"github.com/mikey/email-categorizer/internal/adapters/openai"
	"github.com/mikey/email-categorizer/internal/config"
	"github.com/mikey/email-categorizer/internal/core"
	"github.com/mikey/email-categorizer/internal/utils"
)

// ClassifierFactory creates classification strategies
type ClassifierFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClassifier creates the primary classification strategy based on the
// configuration. When the llm strategy is selected but the provider cannot
// be constructed (typically missing credentials), the factory degrades to
// the keyword strategy instead of failing startup.
func (f *ClassifierFactory) CreateClassifier() (core.Classifier, error) {
	strategy := f.cfg.GetString("categorizer.strategy")

	switch strategy {
	case "keyword":
		return keyword.NewClassifier(f.logger), nil
	case "llm":
		classifier, err := f.createLLMClassifier()
		if err != nil {
			f.logger.Warn("LLM provider unavailable, degrading to keyword strategy",
				zap.String("provider", f.cfg.GetString("llm.provider")),
				zap.Error(err))
			return keyword.NewClassifier(f.logger), nil
		}
		return classifier, nil
	default:
		return nil, fmt.Errorf("unsupported classification strategy: %s", strategy)
	}
}

// CreateFallbackClassifier creates the deterministic fallback strategy
func (f *ClassifierFactory) CreateFallbackClassifier() *keyword.Classifier {
	return keyword.NewClassifier(f.logger)
}

// createLLMClassifier creates an LLM classifier for the configured provider
func (f *ClassifierFactory) createLLMClassifier() (core.Classifier, error) {
	provider := f.cfg.GetLLM().Provider

	switch provider {
	case "gemini":
		factory := gemini.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateClassifier()
	case "openai":
		factory := openai.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateClassifier()
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateClassifier()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
