package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/wicker/internal/logging"
	"github.com/aretw0/wicker/pkg/domain"
	"github.com/aretw0/wicker/pkg/registry"
)

// Default messages and limits.
const (
	DefaultMaxStackDepth = 20
	DefaultFallback      = "Sorry, I didn't get that. Can you please try again?"
	DefaultApology       = "Sorry, something went wrong on my end. Let's start over."
	DefaultResetNotice   = "Okay, let's start over."
)

// Engine executes waterfall dialogs against a session. Given one inbound
// turn it routes the utterance, runs steps of the active dialog until one
// suspends or the stack empties, and collects the ordered outbound messages.
//
// The engine never mutates two sessions concurrently by itself; callers
// (pkg/session.Manager) serialize turns per conversation.
type Engine struct {
	dialogs *registry.Registry
	router  *Router

	maxDepth    int
	fallbackMsg string
	apologyMsg  string
	resetMsg    string

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithMaxStackDepth caps dialog nesting (default 20). Exceeding it aborts
// the conversation's stack, guarding against accidental mutual recursion
// between dialogs.
func WithMaxStackDepth(depth int) EngineOption {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithFallbackMessage sets the reply for unroutable input.
func WithFallbackMessage(msg string) EngineOption {
	return func(e *Engine) {
		e.fallbackMsg = msg
	}
}

// WithApologyMessage sets the reply emitted when a step fails and the stack
// is aborted.
func WithApologyMessage(msg string) EngineOption {
	return func(e *Engine) {
		e.apologyMsg = msg
	}
}

// WithResetNotice sets the reply emitted when a reset trigger clears the stack.
func WithResetNotice(msg string) EngineOption {
	return func(e *Engine) {
		e.resetMsg = msg
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine over the given dialog registry and router.
func NewEngine(dialogs *registry.Registry, router *Router, opts ...EngineOption) *Engine {
	e := &Engine{
		dialogs:     dialogs,
		router:      router,
		maxDepth:    DefaultMaxStackDepth,
		fallbackMsg: DefaultFallback,
		apologyMsg:  DefaultApology,
		resetMsg:    DefaultResetNotice,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TurnInput is one inbound turn as delivered by the transport: raw text
// plus any externally recognized entities.
type TurnInput struct {
	Text     string
	Entities []domain.Entity
}

// Turn processes one inbound turn against the session and returns the
// ordered outbound messages. Step failures never escape: the dialog stack
// is aborted, a fixed apology is emitted, and the error stays confined to
// this conversation.
func (e *Engine) Turn(ctx context.Context, sess *domain.Session, in TurnInput) ([]domain.Message, error) {
	start := time.Now()
	t := &domain.Turn{Session: sess, Entities: in.Entities}
	outcome := domain.OutcomeFallback

	decision := e.router.Route(ctx, sess, in.Text, in.Entities)
	switch decision.Kind {
	case RouteFallback:
		t.SendMessage(domain.TextMessage(e.fallbackMsg))

	case RouteReset:
		outcome = domain.OutcomeReset
		e.clearStack(ctx, sess)
		t.SendMessage(domain.TextMessage(e.resetMsg))
		if decision.Dialog != "" {
			if !e.begin(ctx, t, decision.Dialog) {
				outcome = domain.OutcomeError
			}
		}

	case RouteStart:
		outcome = domain.OutcomeStarted
		t.Intent = decision.Intent
		if !e.begin(ctx, t, decision.Dialog) {
			outcome = domain.OutcomeError
		}

	case RouteContinue:
		outcome = domain.OutcomeContinued
		frame := sess.ActiveFrame()
		if frame.Prompt != nil {
			input, err := Coerce(frame.Prompt, in.Text, in.Entities)
			if err != nil {
				// Malformed input: re-issue the identical prompt. Step
				// index and session data stay untouched.
				e.logger.Debug("input failed validation",
					"conversation_id", sess.ConversationID,
					"dialog", frame.Dialog,
					"kind", frame.Prompt.Kind,
				)
				t.SendMessage(frame.Prompt.Message())
				e.emitPrompt(ctx, sess, frame, true)
				e.emitTurn(ctx, sess, outcome, start)
				return t.Messages(), nil
			}
			frame.Prompt = nil
			t.Input = input
		}
		if !e.run(ctx, t) {
			outcome = domain.OutcomeError
		}
	}

	e.emitTurn(ctx, sess, outcome, start)
	return t.Messages(), nil
}

// begin pushes the named dialog and runs it. Returns false when the turn
// ended in an abort.
func (e *Engine) begin(ctx context.Context, t *domain.Turn, dialog string) bool {
	if !e.push(ctx, t, dialog) {
		return false
	}
	return e.run(ctx, t)
}

// push appends a frame for the named dialog, enforcing the depth cap.
func (e *Engine) push(ctx context.Context, t *domain.Turn, dialog string) bool {
	sess := t.Session
	if _, ok := e.dialogs.Get(dialog); !ok {
		e.logger.Error("route names unknown dialog",
			"conversation_id", sess.ConversationID, "dialog", dialog,
			"err", domain.ErrUnknownDialog)
		e.abort(ctx, t, e.apologyMsg)
		return false
	}
	if sess.Depth() >= e.maxDepth {
		e.logger.Error("dialog stack overflow",
			"conversation_id", sess.ConversationID, "dialog", dialog,
			"depth", sess.Depth(), "err", domain.ErrStackOverflow)
		e.abort(ctx, t, e.fallbackMsg)
		return false
	}
	sess.Stack = append(sess.Stack, domain.NewFrame(dialog))
	if e.hooks.OnDialogStart != nil {
		e.hooks.OnDialogStart(ctx, &domain.DialogEvent{
			ConversationID: sess.ConversationID,
			Dialog:         dialog,
			Depth:          sess.Depth(),
		})
	}
	return true
}

// run executes steps of the top-of-stack dialog until one suspends, the
// stack empties, or something goes wrong. Returns false on abort.
func (e *Engine) run(ctx context.Context, t *domain.Turn) (ok bool) {
	sess := t.Session

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("step panicked",
				"conversation_id", sess.ConversationID, "panic", r)
			e.abort(ctx, t, e.apologyMsg)
			ok = false
		}
	}()

	for {
		frame := sess.ActiveFrame()
		if frame == nil {
			return true
		}

		def, found := e.dialogs.Get(frame.Dialog)
		if !found {
			// A stored session can reference a dialog this build no longer
			// registers.
			e.logger.Error("active frame names unknown dialog",
				"conversation_id", sess.ConversationID, "dialog", frame.Dialog)
			e.abort(ctx, t, e.apologyMsg)
			return false
		}

		if frame.Step >= len(def.Steps) {
			// Ran off the end of the waterfall: implicit end with no result.
			e.pop(ctx, t, nil)
			continue
		}

		res, err := def.Steps[frame.Step](ctx, t)
		if err != nil {
			e.logger.Error("step failed",
				"conversation_id", sess.ConversationID,
				"dialog", frame.Dialog, "step", frame.Step, "err", err)
			e.abort(ctx, t, e.apologyMsg)
			return false
		}

		switch res.Kind {
		case domain.StepSuspend:
			frame.Step++
			frame.Prompt = res.Prompt
			t.SendMessage(res.Prompt.Message())
			e.emitPrompt(ctx, sess, frame, false)
			return true

		case domain.StepAdvance:
			frame.Step++

		case domain.StepBegin:
			frame.Step++
			t.Input = nil
			t.ChildResult = nil
			if !e.push(ctx, t, res.Dialog) {
				return false
			}

		case domain.StepEnd:
			e.pop(ctx, t, res.Result)

		default:
			e.logger.Error("step returned unknown result kind",
				"conversation_id", sess.ConversationID,
				"dialog", frame.Dialog, "step", frame.Step, "kind", res.Kind)
			e.abort(ctx, t, e.apologyMsg)
			return false
		}
	}
}

// pop removes the top frame and prepares the parent (if any) to resume in
// the same turn with the child's result as its input.
func (e *Engine) pop(ctx context.Context, t *domain.Turn, result any) {
	sess := t.Session
	frame := sess.ActiveFrame()
	sess.Stack = sess.Stack[:len(sess.Stack)-1]
	if e.hooks.OnDialogEnd != nil {
		e.hooks.OnDialogEnd(ctx, &domain.DialogEvent{
			ConversationID: sess.ConversationID,
			Dialog:         frame.Dialog,
			Depth:          sess.Depth(),
		})
	}
	t.Input = nil
	t.ChildResult = result
}

// abort clears the whole stack and emits a fixed message; the conversation
// returns to idle.
func (e *Engine) abort(ctx context.Context, t *domain.Turn, msg string) {
	e.clearStack(ctx, t.Session)
	t.SendMessage(domain.TextMessage(msg))
}

func (e *Engine) clearStack(ctx context.Context, sess *domain.Session) {
	for sess.ActiveFrame() != nil {
		frame := sess.ActiveFrame()
		sess.Stack = sess.Stack[:len(sess.Stack)-1]
		if e.hooks.OnDialogEnd != nil {
			e.hooks.OnDialogEnd(ctx, &domain.DialogEvent{
				ConversationID: sess.ConversationID,
				Dialog:         frame.Dialog,
				Depth:          sess.Depth(),
			})
		}
	}
}

func (e *Engine) emitPrompt(ctx context.Context, sess *domain.Session, frame *domain.Frame, retry bool) {
	if e.hooks.OnPrompt == nil || frame.Prompt == nil {
		return
	}
	e.hooks.OnPrompt(ctx, &domain.PromptEvent{
		ConversationID: sess.ConversationID,
		Dialog:         frame.Dialog,
		Kind:           frame.Prompt.Kind,
		Retry:          retry,
	})
}

func (e *Engine) emitTurn(ctx context.Context, sess *domain.Session, outcome string, start time.Time) {
	if e.hooks.OnTurn == nil {
		return
	}
	e.hooks.OnTurn(ctx, &domain.TurnEvent{
		ConversationID: sess.ConversationID,
		Outcome:        outcome,
		Duration:       time.Since(start),
	})
}
