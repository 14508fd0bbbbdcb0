// Package recognize provides recognizer strategies: a local pattern matcher
// and a client for hosted NLU services. Both satisfy ports.Recognizer and
// can be mixed behind one router.
package recognize

import (
	"context"
	"regexp"

	"github.com/aretw0/wicker/pkg/domain"
)

// Pattern is one regular-expression binding of a matcher.
type Pattern struct {
	Expr   *regexp.Regexp
	Intent string
}

// Matcher recognizes intents by matching regular expressions against the
// raw utterance, in registration order. It never errors and performs no IO,
// which makes it the right default for hand-rolled routing.
type Matcher struct {
	patterns []Pattern
}

// NewMatcher creates an empty matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Add binds a pattern to an intent name. The pattern must compile; Add
// panics otherwise, like http.HandleFunc, because patterns are wiring-time
// constants.
func (m *Matcher) Add(pattern, intent string) *Matcher {
	m.patterns = append(m.patterns, Pattern{
		Expr:   regexp.MustCompile(pattern),
		Intent: intent,
	})
	return m
}

// Recognize returns every intent whose pattern matches, in registration
// order, each with score 1.
func (m *Matcher) Recognize(ctx context.Context, utterance string) ([]domain.Intent, error) {
	var intents []domain.Intent
	for _, p := range m.patterns {
		if p.Expr.MatchString(utterance) {
			intents = append(intents, domain.Intent{Name: p.Intent, Score: 1})
		}
	}
	return intents, nil
}
