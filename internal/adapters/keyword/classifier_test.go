package keyword

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/core"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(zap.NewNop())

	tests := []struct {
		name     string
		subject  string
		body     string
		expected core.Category
	}{
		{
			name:     "job keyword in subject",
			subject:  "Interview invitation for backend role",
			body:     "We would like to schedule a call.",
			expected: core.CategoryJob,
		},
		{
			name:     "job list outranks delete list",
			subject:  "Interview availability",
			body:     "To stop receiving these, unsubscribe below.",
			expected: core.CategoryJob,
		},
		{
			name:     "important keyword",
			subject:  "Your OTP is 482913",
			body:     "",
			expected: core.CategoryImportant,
		},
		{
			name:     "delete keyword",
			subject:  "Huge sale this weekend",
			body:     "Everything must go.",
			expected: core.CategoryDelete,
		},
		{
			name:     "body keywords also match",
			subject:  "Hello",
			body:     "Your invoice is ready for review.",
			expected: core.CategoryImportant,
		},
		{
			name:     "no match defaults to read",
			subject:  "Lunch on Thursday",
			body:     "Want to grab tacos?",
			expected: core.CategoryRead,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Classify(context.Background(), &core.NormalizedEmail{
				Subject: tt.subject,
				Body:    tt.body,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Category != tt.expected {
				t.Errorf("got %s, want %s", result.Category, tt.expected)
			}
			if result.Confidence != core.PlaceholderConfidence {
				t.Errorf("confidence = %f, want %f", result.Confidence, core.PlaceholderConfidence)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := NewClassifier(zap.NewNop())
	email := &core.NormalizedEmail{Subject: "Recruiter outreach", Body: "about a position"}

	first, err := c.Classify(context.Background(), email)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		result, err := c.Classify(context.Background(), email)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Category != first.Category {
			t.Fatalf("run %d: got %s, want %s", i, result.Category, first.Category)
		}
	}
}
