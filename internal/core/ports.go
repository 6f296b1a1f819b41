package core

import (
	"context"
)

// Classifier maps normalized email content to a category label.
// Implementations return an error when they cannot produce a label that is
// a member of the closed enumeration; the service degrades to its fallback.
type Classifier interface {
	Classify(ctx context.Context, email *NormalizedEmail) (*CategoryResult, error)

	// Name identifies the strategy in logs and statistics
	Name() string
}

// Normalizer cleans raw email content into its analyzable form. It never
// fails; malformed input degrades to a best-effort record.
type Normalizer interface {
	Normalize(raw *RawEmail) *NormalizedEmail
}

// CacheRepository stores categorization verdicts between requests
type CacheRepository interface {
	Get(ctx context.Context, key string) (*CacheEntry, bool)
	Set(ctx context.Context, entry *CacheEntry)
	Delete(ctx context.Context, key string) error
	Cleanup(ctx context.Context) error
}
