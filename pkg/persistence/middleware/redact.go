package middleware

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/agentkit/pkg/domain"
	"github.com/aretw0/agentkit/pkg/ports"
)

// Mask replaces every redacted value.
const Mask = "***"

// DefaultPatterns match credentials that upstream error texts echo back,
// such as query parameters of a failed request URL.
var DefaultPatterns = []string{
	`(?i)((?:api[-_]?key|x_cg_(?:pro|demo)_api_key|secret|token|password)=)[^&\s"']+`,
	`(?i)(authorization:\s*(?:basic|bearer)\s+)\S+`,
}

// minSecretLen keeps short values from masking unrelated text.
const minSecretLen = 6

type redactMiddleware struct {
	next     ports.Journal
	secrets  []string
	patterns []*regexp.Regexp
}

// NewRedactMiddleware masks the given secret values and every pattern match
// in record messages before they reach the wrapped journal. A pattern's
// first group, when present, is kept in front of the mask.
func NewRedactMiddleware(secrets []string, patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("redact pattern %d: %w", i, err)
		}
		compiled[i] = re
	}
	var kept []string
	for _, s := range secrets {
		if len(s) >= minSecretLen {
			kept = append(kept, s)
		}
	}
	return func(next ports.Journal) ports.Journal {
		return &redactMiddleware{next: next, secrets: kept, patterns: compiled}
	}, nil
}

func (m *redactMiddleware) Append(ctx context.Context, rec domain.Record) error {
	rec.Message = m.redact(rec.Message)
	return m.next.Append(ctx, rec)
}

func (m *redactMiddleware) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	return m.next.Recent(ctx, limit)
}

func (m *redactMiddleware) redact(s string) string {
	for _, secret := range m.secrets {
		s = strings.ReplaceAll(s, secret, Mask)
	}
	for _, re := range m.patterns {
		if re.NumSubexp() > 0 {
			s = re.ReplaceAllString(s, "${1}"+Mask)
			continue
		}
		s = re.ReplaceAllLiteralString(s, Mask)
	}
	return s
}
