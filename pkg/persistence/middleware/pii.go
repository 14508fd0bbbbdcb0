package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/wicker/pkg/domain"
	"github.com/aretw0/wicker/pkg/ports"
)

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks values of user-data and
// dialog-data keys matching the patterns before they reach the store. The
// in-memory session the engine works with stays intact.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, conversationID string, sess *domain.Session) error {
	cloned := *sess
	cloned.UserData = deepCopyMap(sess.UserData)
	maskMap(cloned.UserData, m.patterns)

	cloned.Stack = make([]*domain.Frame, len(sess.Stack))
	for i, frame := range sess.Stack {
		f := *frame
		f.DialogData = deepCopyMap(frame.DialogData)
		maskMap(f.DialogData, m.patterns)
		cloned.Stack[i] = &f
	}

	return m.next.Save(ctx, conversationID, &cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, conversationID string) (*domain.Session, error) {
	return m.next.Load(ctx, conversationID)
}

func (m *piiMiddleware) Delete(ctx context.Context, conversationID string) error {
	return m.next.Delete(ctx, conversationID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if subMap, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(subMap)
		} else {
			out[k] = v
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = "***"
				break
			}
		}

		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
