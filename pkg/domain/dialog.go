package domain

import (
	"context"
	"fmt"
)

// Step is one stage of a waterfall. It receives the accumulated session
// state and the current turn, and decides how the dialog proceeds: suspend
// on a prompt, advance to the next step, begin a child dialog, or end.
type Step func(ctx context.Context, t *Turn) (StepResult, error)

// DialogDefinition is a named, ordered sequence of steps. Definitions are
// immutable once registered; the name is used for stack frames and routing.
type DialogDefinition struct {
	Name  string
	Steps []Step
}

// StepResultKind discriminates the outcomes a step can produce.
type StepResultKind string

const (
	// StepSuspend records a pending prompt and ends the turn.
	StepSuspend StepResultKind = "suspend"
	// StepAdvance runs the next step in the same turn, without new input.
	StepAdvance StepResultKind = "advance"
	// StepBegin pushes a child dialog; the current dialog resumes at its
	// next step once the child ends.
	StepBegin StepResultKind = "begin"
	// StepEnd pops the dialog, handing Result to the parent if one exists.
	StepEnd StepResultKind = "end"
)

// StepResult is the tagged outcome of a step invocation.
type StepResult struct {
	Kind   StepResultKind
	Prompt *PendingPrompt // StepSuspend
	Dialog string         // StepBegin
	Result any            // StepEnd
}

// Next advances to the following step within the same turn. Used to skip
// a question when the required data is already known.
func Next() (StepResult, error) {
	return StepResult{Kind: StepAdvance}, nil
}

// Done ends the dialog with a result for the caller (nil is fine).
func Done(result any) (StepResult, error) {
	return StepResult{Kind: StepEnd, Result: result}, nil
}

// Begin starts the named dialog as a child of the current one.
func Begin(dialog string) (StepResult, error) {
	return StepResult{Kind: StepBegin, Dialog: dialog}, nil
}

// Suspend records an arbitrary pending prompt.
func Suspend(p PendingPrompt) (StepResult, error) {
	return StepResult{Kind: StepSuspend, Prompt: &p}, nil
}

// AskText suspends on a free-text question.
func AskText(format string, args ...any) (StepResult, error) {
	return Suspend(PendingPrompt{Kind: PromptText, Text: fmt.Sprintf(format, args...)})
}

// AskNumber suspends on a numeric question.
func AskNumber(format string, args ...any) (StepResult, error) {
	return Suspend(PendingPrompt{Kind: PromptNumber, Text: fmt.Sprintf(format, args...)})
}

// AskConfirm suspends on a yes/no question.
func AskConfirm(format string, args ...any) (StepResult, error) {
	return Suspend(PendingPrompt{Kind: PromptConfirm, Text: fmt.Sprintf(format, args...)})
}

// AskChoice suspends until the user picks one of the options.
func AskChoice(text string, options ...string) (StepResult, error) {
	return Suspend(PendingPrompt{Kind: PromptChoice, Text: text, Options: options})
}

// AskTime suspends on a date/time question.
func AskTime(format string, args ...any) (StepResult, error) {
	return Suspend(PendingPrompt{Kind: PromptTime, Text: fmt.Sprintf(format, args...)})
}
