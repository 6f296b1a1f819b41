package normalizer

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/core"
)

func TestCleanSubject(t *testing.T) {
	n := New(0, zap.NewNop())

	tests := []struct {
		name     string
		subject  string
		expected string
	}{
		{
			name:     "reply prefix stripped",
			subject:  "Re: Meeting tomorrow",
			expected: "Meeting tomorrow",
		},
		{
			name:     "forward prefix stripped case-insensitively",
			subject:  "FWD: Invoice",
			expected: "Invoice",
		},
		{
			name:     "fw prefix stripped",
			subject:  "Fw: Status update",
			expected: "Status update",
		},
		{
			name:     "no prefix unchanged",
			subject:  "Quarterly report",
			expected: "Quarterly report",
		},
		{
			name:     "only one prefix stripped per pass",
			subject:  "Re: Re: Hello",
			expected: "Re: Hello",
		},
		{
			name:     "whitespace collapsed",
			subject:  "  Status   update  ",
			expected: "Status update",
		},
		{
			name:     "html entities decoded",
			subject:  "Tom &amp; Jerry",
			expected: "Tom & Jerry",
		},
		{
			name:     "empty subject",
			subject:  "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.CleanSubject(tt.subject)
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCleanSender(t *testing.T) {
	n := New(0, zap.NewNop())

	tests := []struct {
		name     string
		sender   string
		expected string
	}{
		{
			name:     "display name with angle brackets",
			sender:   "Jane Doe <jane@example.com>",
			expected: "jane@example.com",
		},
		{
			name:     "address lowercased",
			sender:   "JANE@EXAMPLE.COM",
			expected: "jane@example.com",
		},
		{
			name:     "mixed case inside brackets",
			sender:   "Jane Doe <Jane.Doe@Example.COM>",
			expected: "jane.doe@example.com",
		},
		{
			name:     "bare address unchanged",
			sender:   "jane@example.com",
			expected: "jane@example.com",
		},
		{
			name:     "empty sender",
			sender:   "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.CleanSender(tt.sender)
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCleanBodyStripsHTML(t *testing.T) {
	n := New(0, zap.NewNop())

	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "simple markup removed",
			body:     "<p>Hello <b>world</b></p>",
			expected: "Hello world",
		},
		{
			name:     "script and style subtrees dropped",
			body:     "<html><style>p{color:red}</style><p>Hello</p><script>alert(1)</script></html>",
			expected: "Hello",
		},
		{
			name:     "entities decoded",
			body:     "Fish &amp; chips",
			expected: "Fish & chips",
		},
		{
			name:     "signature footer removed",
			body:     "See attached notes.\nSent from my iPhone",
			expected: "See attached notes.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.CleanBody(tt.body)
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCleanBodyTruncation(t *testing.T) {
	const maxLen = 100
	n := New(maxLen, zap.NewNop())

	body := strings.Repeat("a", maxLen+50)
	got := n.CleanBody(body)

	if len(got) != maxLen+3 {
		t.Errorf("truncated length = %d, want %d", len(got), maxLen+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated body %q does not end with ellipsis", got[len(got)-10:])
	}
}

func TestNormalizeSnippetFallback(t *testing.T) {
	n := New(0, zap.NewNop())

	email := n.Normalize(&core.RawEmail{
		Subject: "Weekly digest",
		Sender:  "digest@example.com",
		Body:    "",
		Snippet: "Here is your weekly digest preview",
	})

	if email.Body != "Here is your weekly digest preview" {
		t.Errorf("body = %q, want snippet content", email.Body)
	}
}

func TestNormalizeNeverNil(t *testing.T) {
	n := New(0, zap.NewNop())

	tests := []struct {
		name string
		raw  *core.RawEmail
	}{
		{name: "all fields empty", raw: &core.RawEmail{}},
		{name: "malformed html", raw: &core.RawEmail{Subject: "x", Sender: "y", Body: "<div><<<>"}},
		{
			name: "plain email",
			raw:  &core.RawEmail{Subject: "Hi", Sender: "a@b.com", Body: "hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.raw); got == nil {
				t.Fatal("Normalize returned nil")
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := New(0, zap.NewNop())

	first := n.Normalize(&core.RawEmail{
		Subject: "Fwd: Quarterly   report",
		Sender:  "Reports <Reports@Corp.example.com>",
		Body:    "<p>Numbers   attached.</p>\n\nSee you Monday.",
	})

	second := n.Normalize(&core.RawEmail{
		Subject: first.Subject,
		Sender:  first.Sender,
		Body:    first.Body,
	})

	if second.Subject != first.Subject {
		t.Errorf("subject changed on re-normalization: %q -> %q", first.Subject, second.Subject)
	}
	if second.Sender != first.Sender {
		t.Errorf("sender changed on re-normalization: %q -> %q", first.Sender, second.Sender)
	}
	if second.Body != first.Body {
		t.Errorf("body changed on re-normalization: %q -> %q", first.Body, second.Body)
	}
}

func TestNormalizeFullPipeline(t *testing.T) {
	n := New(0, zap.NewNop())

	email := n.Normalize(&core.RawEmail{
		Subject: "Re: Re: Urgent: invoice attached",
		Sender:  "Billing <Billing@Vendor.com>",
		Body:    "<p>Please pay $1,200 by Friday.</p>",
	})

	if email.Subject != "Re: Urgent: invoice attached" {
		t.Errorf("subject = %q", email.Subject)
	}
	if email.Sender != "billing@vendor.com" {
		t.Errorf("sender = %q", email.Sender)
	}
	if email.Body != "Please pay $1,200 by Friday." {
		t.Errorf("body = %q", email.Body)
	}
	if !email.Features.HasUrgent {
		t.Error("expected urgent flag")
	}
	if !email.Features.ContainsMoney {
		t.Error("expected money flag")
	}
	if !email.Features.IsReply {
		t.Error("expected reply flag from stacked prefix")
	}
	if email.Features.SenderDomain != "vendor.com" {
		t.Errorf("sender domain = %q", email.Features.SenderDomain)
	}
}
