package domain

import (
	"context"
	"time"
)

// Turn outcomes reported via TurnEvent.
const (
	OutcomeContinued = "continued" // input handed to the active dialog
	OutcomeStarted   = "started"   // a new dialog was routed and pushed
	OutcomeFallback  = "fallback"  // nothing matched; default message sent
	OutcomeReset     = "reset"     // a reset trigger cleared the stack
	OutcomeError     = "error"     // a step failed; stack aborted
)

// DialogEvent describes a dialog starting or ending.
type DialogEvent struct {
	ConversationID string
	Dialog         string
	Depth          int
}

// PromptEvent describes a prompt being issued or re-issued.
type PromptEvent struct {
	ConversationID string
	Dialog         string
	Kind           PromptKind

	// Retry is true when the prompt is re-issued because the previous
	// answer failed validation.
	Retry bool
}

// TurnEvent describes one completed turn.
type TurnEvent struct {
	ConversationID string
	Outcome        string
	Duration       time.Duration
}

// LifecycleHooks are optional observability callbacks the engine invokes
// during turn processing. Nil callbacks are skipped; hooks must not mutate
// the session.
type LifecycleHooks struct {
	OnDialogStart func(context.Context, *DialogEvent)
	OnDialogEnd   func(context.Context, *DialogEvent)
	OnPrompt      func(context.Context, *PromptEvent)
	OnTurn        func(context.Context, *TurnEvent)
}
