package normalizer

import (
	"regexp"
	"strings"

	"github.com/mikey/email-categorizer/internal/core"
)

var (
	urgentRe = regexp.MustCompile(`(?i)urgent|important|asap|emergency`)
	linkRe   = regexp.MustCompile(`https?://`)
	attachRe = regexp.MustCompile(`(?i)attachment|attached`)
	moneyRe  = regexp.MustCompile(`(?i)\$[\d,]+|\b\d+\s*(?:dollars?|usd|eur|gbp)`)
	dateRe   = regexp.MustCompile(`(?i)\b\d{1,2}[-/]\d{1,2}[-/]\d{2,4}|\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`)

	promotionalRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)unsubscribe`),
		regexp.MustCompile(`(?i)click here to unsubscribe`),
		regexp.MustCompile(`(?i)privacy policy`),
		regexp.MustCompile(`(?i)terms of service`),
		regexp.MustCompile(`©\s?\d{4}`),
	}

	promotionalWords = []string{"deal", "offer", "discount", "sale", "free", "buy now", "limited time"}
)

// commonDomains are consumer mail providers; mail from them is usually
// person-to-person rather than brand-to-person
var commonDomains = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"hotmail.com": true,
	"outlook.com": true,
	"icloud.com":  true,
}

// extractFeatures derives the auxiliary heuristics from cleaned content
func extractFeatures(subject, sender, body string) core.EmailFeatures {
	combined := subject + body
	lowerSubject := strings.ToLower(subject)

	domain := ""
	if idx := strings.LastIndex(sender, "@"); idx >= 0 {
		domain = sender[idx+1:]
	}

	return core.EmailFeatures{
		SubjectLength:  len(subject),
		HasUrgent:      urgentRe.MatchString(combined),
		HasQuestion:    strings.Contains(subject, "?") || strings.Contains(body, "?"),
		IsReply:        strings.HasPrefix(lowerSubject, "re:") || strings.HasPrefix(lowerSubject, "fwd:") || strings.HasPrefix(lowerSubject, "fw:"),
		SenderDomain:   domain,
		IsCommonDomain: commonDomains[domain],
		BodyLength:     len(body),
		HasLinks:       linkRe.MatchString(body),
		HasAttachments: attachRe.MatchString(body),
		ContainsMoney:  moneyRe.MatchString(body),
		ContainsDates:  dateRe.MatchString(body),
	}
}

// isPromotional flags boilerplate unsubscribe/legal footers, or two or more
// promotional words in the content
func isPromotional(subject, body string) bool {
	content := strings.ToLower(subject + " " + body)

	for _, re := range promotionalRes {
		if re.MatchString(content) {
			return true
		}
	}

	count := 0
	for _, word := range promotionalWords {
		if strings.Contains(content, word) {
			count++
		}
	}

	return count >= 2
}

// priorityScore is an additive urgency heuristic, clamped to [0,1].
// It is independent of the category label.
func priorityScore(features core.EmailFeatures) float64 {
	score := 0.0

	if features.HasUrgent {
		score += 0.3
	}
	if features.HasQuestion {
		score += 0.2
	}
	if features.ContainsMoney {
		score += 0.2
	}
	if features.SubjectLength < 50 {
		score += 0.1
	}
	if features.IsCommonDomain {
		score -= 0.1
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
