package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/metrics"
	"github.com/mikey/email-categorizer/internal/whitelist"
)

// CategorizerService is the categorization decision engine. It owns the
// normalize -> classify pipeline and always produces a member of the closed
// category enumeration; classifier failures degrade to the keyword fallback
// and finally to the default label, never to an error.
type CategorizerService struct {
	normalizer   Normalizer
	classifier   Classifier
	fallback     Classifier
	cache        CacheRepository
	trusted      *whitelist.Checker
	stats        *Statistics
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
	timeout      time.Duration
}

// NewCategorizerService creates a new categorizer service
func NewCategorizerService(
	normalizer Normalizer,
	classifier Classifier,
	fallback Classifier,
	cache CacheRepository,
	trusted *whitelist.Checker,
	stats *Statistics,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
	timeout time.Duration,
) *CategorizerService {
	return &CategorizerService{
		normalizer:   normalizer,
		classifier:   classifier,
		fallback:     fallback,
		cache:        cache,
		trusted:      trusted,
		stats:        stats,
		logger:       logger,
		cacheEnabled: cacheEnabled,
		cacheTTL:     cacheTTL,
		timeout:      timeout,
	}
}

// Stats returns the service's statistics ledger
func (s *CategorizerService) Stats() *Statistics {
	return s.stats
}

// Strategy returns the name of the primary classification strategy
func (s *CategorizerService) Strategy() string {
	return s.classifier.Name()
}

// cacheKey derives a stable verdict-cache key from the normalized sender
// and subject
func cacheKey(email *NormalizedEmail) string {
	h := sha256.Sum256([]byte(email.Sender + "\x00" + email.Subject))
	return hex.EncodeToString(h[:])
}

// Categorize normalizes an email and classifies it into exactly one label
// from the closed enumeration. It never returns an error to the caller.
func (s *CategorizerService) Categorize(ctx context.Context, raw *RawEmail) *CategoryResult {
	start := time.Now()
	s.stats.RecordRequest()

	email := s.normalizer.Normalize(raw)

	if s.trusted.IsTrusted(email.Sender) {
		s.logger.Info("Skipping classification for trusted sender domain",
			zap.String("sender", email.Sender))
		result := &CategoryResult{
			Category:      CategoryImportant,
			Confidence:    1.0,
			Reasoning:     "Sender domain is trusted",
			ModelUsed:     "trusted",
			CategorizedAt: time.Now(),
		}
		s.recordSuccess(result, start)
		return result
	}

	key := cacheKey(email)
	if s.cacheEnabled {
		if entry, ok := s.cache.Get(ctx, key); ok {
			s.logger.Debug("Cache hit",
				zap.String("sender", email.Sender),
				zap.String("category", string(entry.Category)))
			result := &CategoryResult{
				Category:      entry.Category,
				Confidence:    entry.Confidence,
				Reasoning:     "Result from cache",
				ModelUsed:     "cache",
				CategorizedAt: time.Now(),
			}
			s.recordSuccess(result, start)
			return result
		}
	}

	classifyCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		classifyCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.classifier.Classify(classifyCtx, email)
	if err != nil {
		s.stats.RecordFailure()
		metrics.RecordCategorization(s.classifier.Name(), "failed", "")
		s.logger.Warn("Primary classification failed, using fallback",
			zap.String("strategy", s.classifier.Name()),
			zap.String("sender", email.Sender),
			zap.Error(err))
		return s.classifyFallback(ctx, email)
	}

	s.recordSuccess(result, start)
	if s.cacheEnabled {
		s.cache.Set(ctx, &CacheEntry{
			Key:        key,
			Category:   result.Category,
			Confidence: result.Confidence,
			LastSeen:   time.Now(),
			ExpiresAt:  time.Now().Add(s.cacheTTL),
		})
	}

	return result
}

// classifyFallback runs the deterministic fallback strategy. The keyword
// classifier cannot fail, but the default label covers a misconfigured
// fallback too.
func (s *CategorizerService) classifyFallback(ctx context.Context, email *NormalizedEmail) *CategoryResult {
	if s.fallback != nil {
		if result, err := s.fallback.Classify(ctx, email); err == nil {
			return result
		}
	}
	return &CategoryResult{
		Category:      DefaultCategory,
		Confidence:    PlaceholderConfidence,
		Reasoning:     "No usable classification, defaulted",
		ModelUsed:     "default",
		CategorizedAt: time.Now(),
	}
}

func (s *CategorizerService) recordSuccess(result *CategoryResult, start time.Time) {
	elapsed := time.Since(start)
	s.stats.RecordSuccess(elapsed)
	metrics.RecordCategorization(result.ModelUsed, "success", string(result.Category))
	metrics.RecordClassifierLatency(result.ModelUsed, elapsed)
	s.logger.Info("Email categorized",
		zap.String("category", string(result.Category)),
		zap.String("model", result.ModelUsed),
		zap.Duration("elapsed", elapsed))
}
