package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/whitelist"
)

type passthroughNormalizer struct{}

func (passthroughNormalizer) Normalize(raw *RawEmail) *NormalizedEmail {
	body := raw.Body
	if body == "" {
		body = raw.Snippet
	}
	return &NormalizedEmail{
		Subject: raw.Subject,
		Sender:  strings.ToLower(raw.Sender),
		Body:    body,
	}
}

type stubClassifier struct {
	name   string
	result *CategoryResult
	err    error
	calls  int
}

func (c *stubClassifier) Name() string { return c.name }

func (c *stubClassifier) Classify(_ context.Context, _ *NormalizedEmail) (*CategoryResult, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	r := *c.result
	r.CategorizedAt = time.Now()
	return &r, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*CacheEntry
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*CacheEntry)}
}

func (c *fakeCache) Get(_ context.Context, key string) (*CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	return entry, ok
}

func (c *fakeCache) Set(_ context.Context, entry *CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.Key] = entry
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) Cleanup(_ context.Context) error { return nil }

func newTestService(primary, fallback Classifier, cache CacheRepository, trustedDomains []string) *CategorizerService {
	cacheEnabled := cache != nil
	return NewCategorizerService(
		passthroughNormalizer{},
		primary,
		fallback,
		cache,
		whitelist.NewChecker(trustedDomains, zap.NewNop()),
		NewStatistics(),
		zap.NewNop(),
		cacheEnabled,
		time.Hour,
		time.Second,
	)
}

func TestCategorizeSuccess(t *testing.T) {
	primary := &stubClassifier{
		name:   "stub",
		result: &CategoryResult{Category: CategoryJob, Confidence: 0.92, ModelUsed: "stub"},
	}
	svc := newTestService(primary, nil, nil, nil)

	result := svc.Categorize(context.Background(), &RawEmail{
		Subject: "Interview",
		Sender:  "hr@corp.example.com",
	})

	if result.Category != CategoryJob {
		t.Errorf("category = %s, want %s", result.Category, CategoryJob)
	}

	snap := svc.Stats().Snapshot()
	if snap.TotalRequests != 1 || snap.SuccessfulCategorizations != 1 || snap.FailedRequests != 0 {
		t.Errorf("stats = %+v", snap)
	}
}

func TestCategorizeFallsBackOnClassifierError(t *testing.T) {
	primary := &stubClassifier{name: "stub", err: errors.New("model unavailable")}
	fallback := &stubClassifier{
		name:   "fallback",
		result: &CategoryResult{Category: CategoryDelete, Confidence: PlaceholderConfidence, ModelUsed: "fallback"},
	}
	svc := newTestService(primary, fallback, nil, nil)

	result := svc.Categorize(context.Background(), &RawEmail{
		Subject: "Big sale",
		Sender:  "promo@shop.example.com",
	})

	if result.Category != CategoryDelete {
		t.Errorf("category = %s, want fallback label %s", result.Category, CategoryDelete)
	}
	if fallback.calls != 1 {
		t.Errorf("fallback called %d times, want 1", fallback.calls)
	}

	snap := svc.Stats().Snapshot()
	if snap.FailedRequests != 1 {
		t.Errorf("failed = %d, want 1", snap.FailedRequests)
	}
}

func TestCategorizeDefaultsWhenFallbackMissing(t *testing.T) {
	primary := &stubClassifier{name: "stub", err: errors.New("model unavailable")}
	svc := newTestService(primary, nil, nil, nil)

	result := svc.Categorize(context.Background(), &RawEmail{
		Subject: "Anything",
		Sender:  "someone@example.com",
	})

	if result.Category != DefaultCategory {
		t.Errorf("category = %s, want default %s", result.Category, DefaultCategory)
	}
	if result.Confidence != PlaceholderConfidence {
		t.Errorf("confidence = %f, want %f", result.Confidence, PlaceholderConfidence)
	}
}

func TestCategorizeTrustedDomainBypass(t *testing.T) {
	primary := &stubClassifier{name: "stub", err: errors.New("should not be called")}
	svc := newTestService(primary, nil, nil, []string{"corp.example.com"})

	result := svc.Categorize(context.Background(), &RawEmail{
		Subject: "Payroll",
		Sender:  "hr@corp.example.com",
	})

	if result.Category != CategoryImportant {
		t.Errorf("category = %s, want %s", result.Category, CategoryImportant)
	}
	if result.Confidence != 1.0 {
		t.Errorf("confidence = %f, want 1.0", result.Confidence)
	}
	if primary.calls != 0 {
		t.Errorf("classifier called %d times for trusted sender", primary.calls)
	}
}

func TestCategorizeCacheHitSkipsClassifier(t *testing.T) {
	primary := &stubClassifier{
		name:   "stub",
		result: &CategoryResult{Category: CategoryJob, Confidence: 0.9, ModelUsed: "stub"},
	}
	cache := newFakeCache()
	svc := newTestService(primary, nil, cache, nil)

	raw := &RawEmail{Subject: "Interview", Sender: "hr@corp.example.com"}

	first := svc.Categorize(context.Background(), raw)
	if primary.calls != 1 {
		t.Fatalf("classifier calls = %d, want 1", primary.calls)
	}

	second := svc.Categorize(context.Background(), raw)
	if primary.calls != 1 {
		t.Errorf("classifier calls = %d after cache hit, want 1", primary.calls)
	}
	if second.Category != first.Category {
		t.Errorf("cached category = %s, want %s", second.Category, first.Category)
	}
	if second.ModelUsed != "cache" {
		t.Errorf("model = %q, want cache", second.ModelUsed)
	}
}

func TestCacheKeyIsStable(t *testing.T) {
	a := cacheKey(&NormalizedEmail{Sender: "a@b.com", Subject: "Hello"})
	b := cacheKey(&NormalizedEmail{Sender: "a@b.com", Subject: "Hello"})
	c := cacheKey(&NormalizedEmail{Sender: "a@b.com", Subject: "Hello2"})

	if a != b {
		t.Error("identical inputs produced different keys")
	}
	if a == c {
		t.Error("different subjects produced the same key")
	}
}
