package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a conversation ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrStackOverflow is returned when pushing a dialog would exceed the
// configured maximum stack depth. The engine treats it as fatal for the
// current conversation: the stack is cleared and the fallback message is sent.
var ErrStackOverflow = errors.New("dialog stack overflow")

// ErrUnknownDialog is returned when a routing rule or a Begin result names a
// dialog that was never registered.
var ErrUnknownDialog = errors.New("unknown dialog")

// ValidationError reports input that does not match the shape a pending
// prompt expects. The engine handles it by re-issuing the identical prompt;
// it never escapes a turn.
type ValidationError struct {
	Kind PromptKind
	Raw  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("input %q does not match expected %s", e.Raw, e.Kind)
}
