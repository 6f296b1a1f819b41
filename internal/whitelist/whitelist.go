package whitelist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker tests sender addresses against the configured trusted domains.
// Mail from a trusted domain bypasses classification entirely.
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new trusted-domain checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalized := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			normalized = append(normalized, d)
		}
	}
	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsTrusted reports whether the sender's domain is in the trusted list
func (c *Checker) IsTrusted(sender string) bool {
	parts := strings.Split(sender, "@")
	if len(parts) != 2 {
		return false
	}

	domain := strings.ToLower(parts[1])
	for _, trusted := range c.domains {
		if domain == trusted {
			c.logger.Debug("Sender domain is trusted", zap.String("domain", domain))
			return true
		}
	}

	return false
}
