package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/config"
	"github.com/mikey/email-categorizer/internal/core"
	"github.com/mikey/email-categorizer/internal/factory"
	"github.com/mikey/email-categorizer/internal/logging"
	"github.com/mikey/email-categorizer/internal/normalizer"
	"github.com/mikey/email-categorizer/internal/ports"
	"github.com/mikey/email-categorizer/internal/utils"
	"github.com/mikey/email-categorizer/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register normalizer
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.Normalizer {
		return normalizer.New(cfg.GetCategorizer().MaxEmailLength, logger)
	}); err != nil {
		return nil, err
	}

	// Register classification strategy and fallback
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register trusted-domain checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
		trustedDomains := cfg.GetCategorizer().TrustedDomains
		if len(trustedDomains) > 0 {
			logger.Info("Loaded trusted domains", zap.Strings("domains", trustedDomains))
		}
		return whitelist.NewChecker(trustedDomains, logger)
	}); err != nil {
		return nil, err
	}

	// Register statistics ledger
	if err := container.Provide(core.NewStatistics); err != nil {
		return nil, err
	}

	// Register categorizer service
	if err := container.Provide(func(
		cfg *config.Config,
		norm core.Normalizer,
		classifier core.Classifier,
		classifierFactory *factory.ClassifierFactory,
		cacheRepo core.CacheRepository,
		cacheFactory *factory.CacheFactory,
		trusted *whitelist.Checker,
		stats *core.Statistics,
		logger *zap.Logger,
	) (*core.CategorizerService, error) {
		cacheTTL, err := cacheFactory.GetCacheTTL()
		if err != nil {
			return nil, err
		}
		return core.NewCategorizerService(
			norm,
			classifier,
			classifierFactory.CreateFallbackClassifier(),
			cacheRepo,
			trusted,
			stats,
			logger,
			cacheFactory.IsCacheEnabled(),
			cacheTTL,
			cfg.GetCategorizer().Timeout,
		), nil
	}); err != nil {
		return nil, err
	}

	// Register frontend
	if err := container.Provide(func(f *factory.FrontendFactory) (ports.Frontend, error) {
		return f.CreateFrontend()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
