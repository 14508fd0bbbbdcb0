package runtime

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wicker/pkg/domain"
	"github.com/aretw0/wicker/pkg/registry"
)

// bookingFixture wires the canonical appointment flow: name, time, confirm.
func bookingFixture(t *testing.T) (*Engine, *domain.Session) {
	t.Helper()
	dialogs := registry.New()
	require.NoError(t, dialogs.Register("book",
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			return domain.AskText("What's your name?")
		},
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			tn.Data()["name"] = tn.Input.Text
			return domain.AskTime("When?")
		},
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			tn.Data()["when"] = tn.Input.Time.Format("15:04")
			return domain.AskConfirm("Book for %s at %s?", tn.Data()["name"], tn.Data()["when"])
		},
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			if !tn.Input.Confirmed {
				tn.Send("Cancelled.")
				return domain.Done(nil)
			}
			tn.Send("Booked for %s at %s.", tn.Data()["name"], tn.Data()["when"])
			return domain.Done(nil)
		},
	))

	router := NewRouter(nil)
	router.AddRule(Rule{Pattern: MustPattern(`^book`), Dialog: "book"})
	router.AddRule(Rule{Pattern: MustPattern(`^(start over|reset)$`), Reset: true})

	engine := NewEngine(dialogs, router)
	return engine, domain.NewSession("c1")
}

func turnText(t *testing.T, e *Engine, sess *domain.Session, text string) []domain.Message {
	t.Helper()
	msgs, err := e.Turn(context.Background(), sess, TurnInput{Text: text})
	require.NoError(t, err)
	return msgs
}

func TestEngine_BookingFlow(t *testing.T) {
	engine, sess := bookingFixture(t)

	msgs := turnText(t, engine, sess, "book a haircut")
	require.Len(t, msgs, 1)
	assert.Equal(t, "What's your name?", msgs[0].Text)

	msgs = turnText(t, engine, sess, "Arthur")
	require.Len(t, msgs, 1)
	assert.Equal(t, "When?", msgs[0].Text)

	msgs = turnText(t, engine, sess, "15:30")
	require.Len(t, msgs, 1)
	assert.Equal(t, "Book for Arthur at 15:30?", msgs[0].Text)

	msgs = turnText(t, engine, sess, "yes")
	require.Len(t, msgs, 1)
	assert.Equal(t, "Booked for Arthur at 15:30.", msgs[0].Text)

	// Dialog ended; the stack is empty again.
	assert.Equal(t, 0, sess.Depth())
}

func TestEngine_MalformedInputReasksWithoutAdvancing(t *testing.T) {
	engine, sess := bookingFixture(t)

	turnText(t, engine, sess, "book")
	turnText(t, engine, sess, "Arthur")

	frame := sess.ActiveFrame()
	stepBefore := frame.Step

	// Three bad answers in a row: identical re-prompt, no state movement.
	for i := 0; i < 3; i++ {
		msgs := turnText(t, engine, sess, "whenever suits")
		require.Len(t, msgs, 1)
		assert.Equal(t, "When?", msgs[0].Text)
		assert.Equal(t, stepBefore, sess.ActiveFrame().Step)
		assert.Equal(t, "Arthur", sess.ActiveFrame().DialogData["name"])
	}

	// A valid answer still lands on the right step.
	msgs := turnText(t, engine, sess, "16:00")
	assert.Equal(t, "Book for Arthur at 16:00?", msgs[0].Text)
}

func TestEngine_ActiveDialogOwnsTurn(t *testing.T) {
	engine, sess := bookingFixture(t)

	turnText(t, engine, sess, "book")

	// "book the room" matches the start rule but must be consumed as the
	// name answer, not start a second dialog.
	msgs := turnText(t, engine, sess, "book the room")
	require.Len(t, msgs, 1)
	assert.Equal(t, "When?", msgs[0].Text)
	assert.Equal(t, 1, sess.Depth())
}

func TestEngine_ResetMidFlow(t *testing.T) {
	engine, sess := bookingFixture(t)

	turnText(t, engine, sess, "book")
	turnText(t, engine, sess, "Arthur")
	require.Equal(t, 1, sess.Depth())

	msgs := turnText(t, engine, sess, "start over")
	require.Len(t, msgs, 1)
	assert.Equal(t, DefaultResetNotice, msgs[0].Text)
	assert.Equal(t, 0, sess.Depth())

	// Back to idle: unmatched input now falls through.
	msgs = turnText(t, engine, sess, "Arthur")
	assert.Equal(t, DefaultFallback, msgs[0].Text)
}

func TestEngine_FallbackWhenNothingMatches(t *testing.T) {
	engine, sess := bookingFixture(t)

	msgs := turnText(t, engine, sess, "sing me a song")
	require.Len(t, msgs, 1)
	assert.Equal(t, DefaultFallback, msgs[0].Text)
	assert.Equal(t, 0, sess.Depth())
}

func TestEngine_NestedDialog(t *testing.T) {
	dialogs := registry.New()
	require.NoError(t, dialogs.Register("outer",
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			tn.Send("Before child.")
			return domain.Begin("child")
		},
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			tn.Send("Child said: %v", tn.ChildResult)
			return domain.Done(nil)
		},
	))
	require.NoError(t, dialogs.Register("child",
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			return domain.AskText("Child asks: what?")
		},
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			return domain.Done(tn.Input.Text)
		},
	))

	router := NewRouter(nil)
	router.AddRule(Rule{Pattern: MustPattern(`^go$`), Dialog: "outer"})
	engine := NewEngine(dialogs, router)
	sess := domain.NewSession("c1")

	msgs := turnText(t, engine, sess, "go")
	require.Len(t, msgs, 2)
	assert.Equal(t, "Before child.", msgs[0].Text)
	assert.Equal(t, "Child asks: what?", msgs[1].Text)
	assert.Equal(t, 2, sess.Depth())

	// The child pops and the parent resumes in the same turn, seeing the
	// child's result.
	msgs = turnText(t, engine, sess, "plastics")
	require.Len(t, msgs, 1)
	assert.Equal(t, "Child said: plastics", msgs[0].Text)
	assert.Equal(t, 0, sess.Depth())
}

func TestEngine_StepErrorAbortsStack(t *testing.T) {
	dialogs := registry.New()
	require.NoError(t, dialogs.Register("boom",
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			return domain.StepResult{}, errors.New("database on fire")
		},
	))

	router := NewRouter(nil)
	router.AddRule(Rule{Pattern: MustPattern(`^go$`), Dialog: "boom"})
	engine := NewEngine(dialogs, router)
	sess := domain.NewSession("c1")

	// The step error stays inside the conversation as an apology.
	msgs, err := engine.Turn(context.Background(), sess, TurnInput{Text: "go"})
	require.NoError(t, err)
	require.NotEmpty(t, msgs)
	assert.Equal(t, DefaultApology, msgs[len(msgs)-1].Text)
	assert.Equal(t, 0, sess.Depth())
}

func TestEngine_StepPanicAbortsStack(t *testing.T) {
	dialogs := registry.New()
	require.NoError(t, dialogs.Register("boom",
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			panic("nil map write")
		},
	))

	router := NewRouter(nil)
	router.AddRule(Rule{Pattern: MustPattern(`^go$`), Dialog: "boom"})
	engine := NewEngine(dialogs, router)
	sess := domain.NewSession("c1")

	msgs, err := engine.Turn(context.Background(), sess, TurnInput{Text: "go"})
	require.NoError(t, err)
	require.NotEmpty(t, msgs)
	assert.Equal(t, DefaultApology, msgs[len(msgs)-1].Text)
	assert.Equal(t, 0, sess.Depth())
}

func TestEngine_StackOverflowAborts(t *testing.T) {
	dialogs := registry.New()
	require.NoError(t, dialogs.Register("loop",
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			return domain.Begin("loop")
		},
	))

	router := NewRouter(nil)
	router.AddRule(Rule{Pattern: MustPattern(`^go$`), Dialog: "loop"})
	engine := NewEngine(dialogs, router, WithMaxStackDepth(5))
	sess := domain.NewSession("c1")

	msgs, err := engine.Turn(context.Background(), sess, TurnInput{Text: "go"})
	require.NoError(t, err)
	require.NotEmpty(t, msgs)
	assert.Equal(t, DefaultFallback, msgs[len(msgs)-1].Text)
	assert.Equal(t, 0, sess.Depth())
}

func TestEngine_UnknownDialogOnResume(t *testing.T) {
	dialogs := registry.New()
	router := NewRouter(nil)
	engine := NewEngine(dialogs, router)

	// A stored session referencing a dialog this build no longer registers.
	sess := domain.NewSession("c1")
	sess.Stack = []*domain.Frame{{Dialog: "retired", Step: 1}}

	msgs, err := engine.Turn(context.Background(), sess, TurnInput{Text: "hello"})
	require.NoError(t, err)
	require.NotEmpty(t, msgs)
	assert.Equal(t, DefaultApology, msgs[len(msgs)-1].Text)
	assert.Equal(t, 0, sess.Depth())
}

func TestEngine_ImplicitEndAfterLastStep(t *testing.T) {
	dialogs := registry.New()
	require.NoError(t, dialogs.Register("short",
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			return domain.AskText("Last question?")
		},
	))

	router := NewRouter(nil)
	router.AddRule(Rule{Pattern: MustPattern(`^go$`), Dialog: "short"})
	engine := NewEngine(dialogs, router)
	sess := domain.NewSession("c1")

	turnText(t, engine, sess, "go")
	// Answering the final step's prompt runs off the end of the waterfall;
	// the dialog ends implicitly.
	turnText(t, engine, sess, "sure")
	assert.Equal(t, 0, sess.Depth())
}

func TestEngine_SkipStepWithNext(t *testing.T) {
	dialogs := registry.New()
	require.NoError(t, dialogs.Register("smart",
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			if _, ok := tn.Session.UserData["name"]; ok {
				return domain.Next()
			}
			return domain.AskText("Name?")
		},
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			if tn.Input != nil {
				tn.Session.UserData["name"] = tn.Input.Text
			}
			tn.Send("Hello %s.", tn.Session.UserData["name"])
			return domain.Done(nil)
		},
	))

	router := NewRouter(nil)
	router.AddRule(Rule{Pattern: MustPattern(`^hi$`), Dialog: "smart"})
	engine := NewEngine(dialogs, router)

	sess := domain.NewSession("c1")
	sess.UserData["name"] = "Zoe"

	// Both steps run in one turn; no prompt was needed.
	msgs := turnText(t, engine, sess, "hi")
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hello Zoe.", msgs[0].Text)
}

func TestEngine_LifecycleHooksFire(t *testing.T) {
	engine, sess := bookingFixture(t)

	var starts, ends, prompts, retries, turns int
	engine.hooks = domain.LifecycleHooks{
		OnDialogStart: func(ctx context.Context, ev *domain.DialogEvent) { starts++ },
		OnDialogEnd:   func(ctx context.Context, ev *domain.DialogEvent) { ends++ },
		OnPrompt: func(ctx context.Context, ev *domain.PromptEvent) {
			prompts++
			if ev.Retry {
				retries++
			}
		},
		OnTurn: func(ctx context.Context, ev *domain.TurnEvent) { turns++ },
	}

	turnText(t, engine, sess, "book")
	turnText(t, engine, sess, "Arthur")
	turnText(t, engine, sess, "not a time")
	turnText(t, engine, sess, "15:30")
	turnText(t, engine, sess, "no")

	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, ends)
	assert.Equal(t, 4, prompts)
	assert.Equal(t, 1, retries)
	assert.Equal(t, 5, turns)
}

func TestEngine_MessagesKeepOrder(t *testing.T) {
	dialogs := registry.New()
	require.NoError(t, dialogs.Register("chatty",
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			for i := 1; i <= 3; i++ {
				tn.Send("line %d", i)
			}
			return domain.Done(nil)
		},
	))

	router := NewRouter(nil)
	router.AddRule(Rule{Pattern: MustPattern(`^go$`), Dialog: "chatty"})
	engine := NewEngine(dialogs, router)
	sess := domain.NewSession("c1")

	msgs := turnText(t, engine, sess, "go")
	require.Len(t, msgs, 3)
	for i, msg := range msgs {
		assert.Equal(t, fmt.Sprintf("line %d", i+1), msg.Text)
	}
}
