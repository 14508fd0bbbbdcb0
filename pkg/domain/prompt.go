package domain

import "time"

// PromptKind defines the shape of input a suspended step is waiting for.
type PromptKind string

const (
	PromptText    PromptKind = "text"
	PromptNumber  PromptKind = "number"
	PromptConfirm PromptKind = "confirm"
	PromptChoice  PromptKind = "choice"
	PromptTime    PromptKind = "time"
)

// PendingPrompt records what a suspended step is waiting for, so the next
// turn's raw input can be validated and coerced before the step resumes.
// It also keeps everything needed to re-issue the identical question when
// validation fails.
type PendingPrompt struct {
	Kind    PromptKind `json:"kind"`
	Text    string     `json:"text"`
	Options []string   `json:"options,omitempty"`

	// Attachments are re-sent together with the question on retry, so a
	// choice prompt carried by a card survives a malformed answer.
	Attachments []Card `json:"attachments,omitempty"`
}

// Message renders the prompt as the outbound message that asks the question.
func (p *PendingPrompt) Message() Message {
	switch p.Kind {
	case PromptChoice:
		return Message{Type: MessageChoice, Text: p.Text, Options: p.Options, Cards: p.Attachments}
	default:
		return Message{Type: MessageText, Text: p.Text, Cards: p.Attachments}
	}
}

// Input is a validated, coerced answer to a pending prompt. Exactly the
// fields implied by Kind are meaningful; the rest stay zero.
type Input struct {
	Kind PromptKind `json:"kind"`

	// Text is always set to the raw utterance, whatever the kind.
	Text string `json:"text"`

	Number      float64   `json:"number,omitempty"`
	Confirmed   bool      `json:"confirmed,omitempty"`
	Choice      string    `json:"choice,omitempty"`
	ChoiceIndex int       `json:"choice_index,omitempty"`
	Time        time.Time `json:"time,omitzero"`
}
