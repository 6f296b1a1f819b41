package normalizer

import (
	"testing"

	"github.com/mikey/email-categorizer/internal/core"
)

func TestExtractFeatures(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		sender  string
		body    string
		check   func(t *testing.T, f core.EmailFeatures)
	}{
		{
			name:    "urgent and question flags",
			subject: "URGENT: can you confirm?",
			sender:  "boss@corp.example.com",
			body:    "Need an answer today.",
			check: func(t *testing.T, f core.EmailFeatures) {
				if !f.HasUrgent {
					t.Error("expected urgent flag")
				}
				if !f.HasQuestion {
					t.Error("expected question flag")
				}
			},
		},
		{
			name:    "common consumer domain",
			subject: "Hi",
			sender:  "friend@gmail.com",
			body:    "hello",
			check: func(t *testing.T, f core.EmailFeatures) {
				if f.SenderDomain != "gmail.com" {
					t.Errorf("domain = %q", f.SenderDomain)
				}
				if !f.IsCommonDomain {
					t.Error("expected common-domain flag")
				}
			},
		},
		{
			name:    "corporate domain is not common",
			subject: "Hi",
			sender:  "noreply@shop.example.com",
			body:    "hello",
			check: func(t *testing.T, f core.EmailFeatures) {
				if f.IsCommonDomain {
					t.Error("did not expect common-domain flag")
				}
			},
		},
		{
			name:    "links money and dates",
			subject: "Receipt",
			sender:  "store@example.com",
			body:    "Your order of $49,99 shipped on 12/05/2025, track at https://example.com/t",
			check: func(t *testing.T, f core.EmailFeatures) {
				if !f.HasLinks {
					t.Error("expected links flag")
				}
				if !f.ContainsMoney {
					t.Error("expected money flag")
				}
				if !f.ContainsDates {
					t.Error("expected dates flag")
				}
			},
		},
		{
			name:    "attachment mention",
			subject: "Report",
			sender:  "team@example.com",
			body:    "The attached spreadsheet has the numbers.",
			check: func(t *testing.T, f core.EmailFeatures) {
				if !f.HasAttachments {
					t.Error("expected attachments flag")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, extractFeatures(tt.subject, tt.sender, tt.body))
		})
	}
}

func TestIsPromotional(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		body     string
		expected bool
	}{
		{
			name:     "unsubscribe footer",
			subject:  "Weekly picks",
			body:     "Click here to unsubscribe from this list",
			expected: true,
		},
		{
			name:     "copyright footer",
			subject:  "Newsletter",
			body:     "All rights reserved © 2025 Acme Corp",
			expected: true,
		},
		{
			name:     "two promotional words",
			subject:  "Great deal inside",
			body:     "A free gift with every order",
			expected: true,
		},
		{
			name:     "single promotional word is not enough",
			subject:  "Offer letter",
			body:     "We are pleased to extend you this role",
			expected: false,
		},
		{
			name:     "plain personal mail",
			subject:  "Dinner on Friday",
			body:     "Are you around this week?",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isPromotional(tt.subject, tt.body)
			if got != tt.expected {
				t.Errorf("got %t, want %t", got, tt.expected)
			}
		})
	}
}

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		name     string
		features core.EmailFeatures
		expected float64
	}{
		{
			name: "all positive signals",
			features: core.EmailFeatures{
				HasUrgent:     true,
				HasQuestion:   true,
				ContainsMoney: true,
				SubjectLength: 20,
			},
			expected: 0.8,
		},
		{
			name: "common domain subtracts",
			features: core.EmailFeatures{
				HasUrgent:      true,
				SubjectLength:  20,
				IsCommonDomain: true,
			},
			expected: 0.3,
		},
		{
			name: "clamped at zero",
			features: core.EmailFeatures{
				SubjectLength:  80,
				IsCommonDomain: true,
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := priorityScore(tt.features)
			if diff := got - tt.expected; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("got %f, want %f", got, tt.expected)
			}
		})
	}
}
