package domain

import "fmt"

// Turn is the per-invocation view a step gets of the conversation: the
// session, the input that woke the step up, and the output queue for the
// messages this turn will emit.
type Turn struct {
	// Session is the conversation's accumulated state. Steps may mutate
	// UserData freely; the engine runs at most one turn per conversation
	// at a time.
	Session *Session

	// Input is the validated answer to the prompt the step was suspended
	// on. Nil when the step was entered by routing, by Next, or by a child
	// dialog ending.
	Input *Input

	// Intent is the recognized trigger that started the active dialog,
	// including its extracted entities. Nil for pattern-routed or child
	// dialogs without one.
	Intent *Intent

	// Entities are the externally recognized entities of the current
	// inbound turn (which may differ from Intent.Entities on resume).
	Entities []Entity

	// ChildResult carries the result of a child dialog that just ended,
	// for the step that resumes after a Begin.
	ChildResult any

	messages []Message
}

// Data returns the dialog-data scope of the active frame. It returns a
// fresh throwaway map when no dialog is active, so steps never nil-check.
func (t *Turn) Data() map[string]any {
	if f := t.Session.ActiveFrame(); f != nil {
		if f.DialogData == nil {
			f.DialogData = make(map[string]any)
		}
		return f.DialogData
	}
	return make(map[string]any)
}

// Send queues a plain text message, with fmt.Sprintf formatting.
func (t *Turn) Send(format string, args ...any) {
	t.messages = append(t.messages, TextMessage(fmt.Sprintf(format, args...)))
}

// SendMessage queues an arbitrary message.
func (t *Turn) SendMessage(msg Message) {
	t.messages = append(t.messages, msg)
}

// SendCards queues rich content with the given layout.
func (t *Turn) SendCards(layout string, cards ...Card) {
	t.messages = append(t.messages, CardMessage(layout, cards...))
}

// Messages returns the queued output in emission order.
func (t *Turn) Messages() []Message {
	return t.messages
}
