package domain

// Session is the per-conversation mutable state: data that survives for the
// conversation's lifetime plus the stack of active dialogs. It is owned by
// the session store and must only be mutated by steps executing within that
// conversation's turn (pkg/session.Manager enforces the single-writer rule).
type Session struct {
	// ConversationID identifies one ongoing conversation with one user on
	// one channel.
	ConversationID string `json:"conversation_id"`

	// UserData persists dialog-to-dialog for the conversation's lifetime.
	UserData map[string]any `json:"user_data"`

	// Stack holds the active dialog invocations, innermost last.
	Stack []*Frame `json:"stack,omitempty"`
}

// NewSession creates an idle session with empty user data and no active dialog.
func NewSession(conversationID string) *Session {
	return &Session{
		ConversationID: conversationID,
		UserData:       make(map[string]any),
	}
}

// ActiveFrame returns the top of the dialog stack, or nil when the session
// is idle.
func (s *Session) ActiveFrame() *Frame {
	if len(s.Stack) == 0 {
		return nil
	}
	return s.Stack[len(s.Stack)-1]
}

// Depth returns the number of active dialog invocations.
func (s *Session) Depth() int {
	return len(s.Stack)
}

// Frame is one active (possibly suspended) dialog invocation.
//
// Invariants: Step only ever advances forward or the frame is popped; a
// frame pushed by another dialog is always popped before its caller resumes.
type Frame struct {
	// Dialog names the DialogDefinition this frame executes.
	Dialog string `json:"dialog"`

	// Step indexes the next step to execute or resume.
	Step int `json:"step"`

	// Prompt is set while the frame is suspended awaiting input.
	Prompt *PendingPrompt `json:"prompt,omitempty"`

	// DialogData is scoped to this invocation and discarded when the frame
	// pops. Cross-dialog state belongs in Session.UserData.
	DialogData map[string]any `json:"dialog_data,omitempty"`
}

// NewFrame creates a frame for the named dialog at step 0 with a fresh
// dialog-data scope.
func NewFrame(dialog string) *Frame {
	return &Frame{
		Dialog:     dialog,
		DialogData: make(map[string]any),
	}
}
