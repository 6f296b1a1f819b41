package core

import (
	"time"
)

// Category is one label from the closed categorization enumeration
type Category string

const (
	CategoryDelete    Category = "DELETE"
	CategoryJob       Category = "JOB"
	CategoryRead      Category = "READ"
	CategoryImportant Category = "IMPORTANT"
)

// DefaultCategory is the safe fallback when no strategy produces a usable label
const DefaultCategory = CategoryRead

// PlaceholderConfidence is reported whenever a strategy has no genuine
// model-derived confidence signal
const PlaceholderConfidence = 0.85

// Categories returns the closed enumeration in its fixed order
func Categories() []Category {
	return []Category{CategoryDelete, CategoryJob, CategoryRead, CategoryImportant}
}

// ParseCategory validates a raw label against the closed enumeration
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryDelete, CategoryJob, CategoryRead, CategoryImportant:
		return Category(s), true
	}
	return "", false
}

// RawEmail is the per-request input as received from the client
type RawEmail struct {
	Subject string
	Sender  string
	Body    string
	Snippet string
}

// EmailFeatures holds the auxiliary heuristics derived during normalization
type EmailFeatures struct {
	SubjectLength  int    `json:"subject_length"`
	HasUrgent      bool   `json:"has_urgent"`
	HasQuestion    bool   `json:"has_question"`
	IsReply        bool   `json:"is_reply"`
	SenderDomain   string `json:"sender_domain"`
	IsCommonDomain bool   `json:"is_common_domain"`
	BodyLength     int    `json:"body_length"`
	HasLinks       bool   `json:"has_links"`
	HasAttachments bool   `json:"has_attachments"`
	ContainsMoney  bool   `json:"contains_money"`
	ContainsDates  bool   `json:"contains_dates"`
}

// NormalizedEmail is the cleaned, analyzable form of a RawEmail
type NormalizedEmail struct {
	Subject       string        `json:"subject"`
	Sender        string        `json:"sender"`
	Body          string        `json:"body"`
	Features      EmailFeatures `json:"features"`
	IsPromotional bool          `json:"is_promotional"`
	PriorityScore float64       `json:"priority_score"`
}

// CategoryResult is the outcome of one categorization
type CategoryResult struct {
	Category      Category
	Confidence    float64
	Reasoning     string
	ModelUsed     string
	CategorizedAt time.Time
}

// CacheEntry is a cached categorization verdict, keyed by normalized
// sender+subject
type CacheEntry struct {
	Key        string
	Category   Category
	Confidence float64
	LastSeen   time.Time
	ExpiresAt  time.Time
}
