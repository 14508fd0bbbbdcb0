package ports

import (
	"context"

	"github.com/aretw0/wicker/pkg/domain"
)

// Recognizer turns a raw utterance into zero or more recognized intents.
// Implementations range from a hosted NLU call to a local pattern matcher;
// the router treats both uniformly and consults them in registration order.
type Recognizer interface {
	Recognize(ctx context.Context, utterance string) ([]domain.Intent, error)
}

// RecognizerFunc adapts a plain function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, utterance string) ([]domain.Intent, error)

func (f RecognizerFunc) Recognize(ctx context.Context, utterance string) ([]domain.Intent, error) {
	return f(ctx, utterance)
}
