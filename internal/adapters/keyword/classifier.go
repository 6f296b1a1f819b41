// Package keyword implements the deterministic categorization strategy:
// ordered case-insensitive substring matching against fixed keyword lists.
// It serves both as the standalone strategy when no LLM is configured and
// as the fallback when an LLM call fails.
package keyword

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/core"
)

// keywordRule binds one keyword list to its category. Rules are evaluated in
// strict priority order; the first list with any match wins.
type keywordRule struct {
	category core.Category
	keywords []string
}

// rules in priority order: job signals first, then do-not-miss signals,
// then delete signals. No match defaults to READ.
var rules = []keywordRule{
	{
		category: core.CategoryJob,
		keywords: []string{
			"job", "hiring", "recruiter", "application", "interview",
			"position", "career", "linkedin", "indeed", "ziprecruiter",
		},
	},
	{
		category: core.CategoryImportant,
		keywords: []string{
			"urgent", "important", "asap", "otp", "verification",
			"password", "security", "account", "billing", "invoice",
			"payment", "due",
		},
	},
	{
		category: core.CategoryDelete,
		keywords: []string{
			"sale", "discount", "offer", "promotion", "marketing",
			"newsletter", "spam", "unsubscribe", "advertisement",
		},
	},
}

// Classifier is the keyword-matching implementation of core.Classifier
type Classifier struct {
	logger *zap.Logger
}

// NewClassifier creates a new keyword classifier
func NewClassifier(logger *zap.Logger) *Classifier {
	return &Classifier{logger: logger}
}

// Name identifies the strategy
func (c *Classifier) Name() string {
	return "keyword"
}

// Classify matches the lower-cased subject and body against the ordered
// keyword lists. It is a pure function of its input and never fails.
func (c *Classifier) Classify(_ context.Context, email *core.NormalizedEmail) (*core.CategoryResult, error) {
	content := strings.ToLower(email.Subject + " " + email.Body)

	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(content, kw) {
				c.logger.Debug("Keyword rule matched",
					zap.String("keyword", kw),
					zap.String("category", string(rule.category)))
				return &core.CategoryResult{
					Category:      rule.category,
					Confidence:    core.PlaceholderConfidence,
					Reasoning:     fmt.Sprintf("Matched keyword %q", kw),
					ModelUsed:     "keyword",
					CategorizedAt: time.Now(),
				}, nil
			}
		}
	}

	return &core.CategoryResult{
		Category:      core.DefaultCategory,
		Confidence:    core.PlaceholderConfidence,
		Reasoning:     "No keyword rules matched",
		ModelUsed:     "keyword",
		CategorizedAt: time.Now(),
	}, nil
}
