package normalizer

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/core"
)

// DefaultMaxBodyLength bounds the cleaned body to keep LLM prompts within
// token limits
const DefaultMaxBodyLength = 10000

var (
	// One leading reply/forward prefix per pass. "Re: Re: x" keeps one "Re:".
	subjectPrefixRe = regexp.MustCompile(`(?i)^(re|fwd|fw):\s*`)

	angleAddrRe = regexp.MustCompile(`<([^>]+)>`)

	blankLinesRe = regexp.MustCompile(`\n\s*\n`)
	hspaceRe     = regexp.MustCompile(`[ \t]+`)

	// Signature/footer boilerplate, each matching to end of line. The order
	// mirrors how often these show up in real mail.
	signatureRes = []*regexp.Regexp{
		regexp.MustCompile(`(?im)--\s*$`),
		regexp.MustCompile(`(?im)best regards,.*`),
		regexp.MustCompile(`(?im)regards,.*`),
		regexp.MustCompile(`(?im)cheers,.*`),
		regexp.MustCompile(`(?im)thank you,.*`),
		regexp.MustCompile(`(?im)sent from.*`),
		regexp.MustCompile(`(?im)confidential.*`),
		regexp.MustCompile(`(?im)this email.*`),
	}
)

// Normalizer cleans raw email content into its canonical analyzable form
type Normalizer struct {
	maxBodyLength int
	logger        *zap.Logger
}

// New creates a new normalizer. maxBodyLength <= 0 selects the default.
func New(maxBodyLength int, logger *zap.Logger) *Normalizer {
	if maxBodyLength <= 0 {
		maxBodyLength = DefaultMaxBodyLength
	}
	return &Normalizer{
		maxBodyLength: maxBodyLength,
		logger:        logger,
	}
}

// Normalize cleans the subject, sender and body of an email and derives the
// auxiliary feature set. It never fails: any internal panic degrades to a
// best-effort record built from the verbatim inputs.
func (n *Normalizer) Normalize(raw *core.RawEmail) (email *core.NormalizedEmail) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Normalization panicked, returning raw content",
				zap.Any("panic", r),
				zap.String("subject", raw.Subject))
			body := raw.Body
			if body == "" {
				body = raw.Snippet
			}
			email = &core.NormalizedEmail{
				Subject: raw.Subject,
				Sender:  raw.Sender,
				Body:    body,
			}
		}
	}()

	subject := n.CleanSubject(raw.Subject)
	sender := n.CleanSender(raw.Sender)
	body := n.CleanBody(raw.Body)

	// Snippet stands in when the body cleans down to nothing
	if body == "" && raw.Snippet != "" {
		body = raw.Snippet
	}

	features := extractFeatures(subject, sender, body)

	return &core.NormalizedEmail{
		Subject:       subject,
		Sender:        sender,
		Body:          body,
		Features:      features,
		IsPromotional: isPromotional(subject, body),
		PriorityScore: priorityScore(features),
	}
}

// CleanSubject strips one reply/forward prefix, collapses whitespace and
// decodes HTML entities
func (n *Normalizer) CleanSubject(subject string) string {
	if subject == "" {
		return ""
	}

	subject = subjectPrefixRe.ReplaceAllString(subject, "")
	subject = strings.Join(strings.Fields(subject), " ")
	subject = html.UnescapeString(subject)

	return strings.TrimSpace(subject)
}

// CleanSender lower-cases the sender and extracts the bare address from the
// "Name <addr>" form when present
func (n *Normalizer) CleanSender(sender string) string {
	if sender == "" {
		return ""
	}

	if m := angleAddrRe.FindStringSubmatch(sender); m != nil {
		return strings.ToLower(strings.TrimSpace(m[1]))
	}

	sender = strings.ToLower(strings.TrimSpace(sender))
	sender = strings.NewReplacer("<", "", ">", "").Replace(sender)

	return sender
}

// CleanBody strips HTML down to plain text, removes signature boilerplate,
// collapses whitespace and truncates to the configured maximum length
func (n *Normalizer) CleanBody(body string) string {
	if body == "" {
		return ""
	}

	text := n.stripHTML(body)
	text = html.UnescapeString(text)

	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	text = hspaceRe.ReplaceAllString(text, " ")

	for _, re := range signatureRes {
		text = re.ReplaceAllString(text, "")
	}

	text = strings.TrimSpace(text)

	if len(text) > n.maxBodyLength {
		n.logger.Debug("Email body truncated",
			zap.Int("original_size", len(text)),
			zap.Int("max_size", n.maxBodyLength))
		text = text[:n.maxBodyLength] + "..."
	}

	return text
}

// stripHTML extracts plain text from an HTML body, dropping script and style
// subtrees entirely. Unparsable input is treated as plain text.
func (n *Normalizer) stripHTML(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}

	doc.Find("script, style").Remove()

	return doc.Text()
}
