package wicker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wicker/internal/runtime"
	"github.com/aretw0/wicker/pkg/adapters/memory"
	"github.com/aretw0/wicker/pkg/domain"
	"github.com/aretw0/wicker/pkg/ports"
)

func newGreetBot(t *testing.T, opts ...Option) *Bot {
	t.Helper()
	bot := New(opts...)
	require.NoError(t, bot.Dialog("greet",
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			if name, ok := tn.Session.UserData["name"].(string); ok {
				tn.Send("Welcome back, %s!", name)
				return domain.Done(nil)
			}
			return domain.AskText("Hi! What is your name?")
		},
		func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
			tn.Session.UserData["name"] = tn.Input.Text
			tn.Send("Nice to meet you, %s.", tn.Input.Text)
			return domain.Done(nil)
		},
	))
	bot.Match(`^(hi|hello)\b`, "greet")
	return bot
}

func texts(messages []domain.Message) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.Text
	}
	return out
}

func TestBot_ConverseFlow(t *testing.T) {
	bot := newGreetBot(t)
	ctx := context.Background()

	msgs, err := bot.Converse(ctx, "c1", "hello there")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hi! What is your name?"}, texts(msgs))

	msgs, err = bot.Converse(ctx, "c1", "Arthur")
	require.NoError(t, err)
	assert.Equal(t, []string{"Nice to meet you, Arthur."}, texts(msgs))

	// UserData survives into the next dialog run.
	msgs, err = bot.Converse(ctx, "c1", "hi")
	require.NoError(t, err)
	assert.Equal(t, []string{"Welcome back, Arthur!"}, texts(msgs))
}

func TestBot_ConversationsAreIsolated(t *testing.T) {
	bot := newGreetBot(t)
	ctx := context.Background()

	_, err := bot.Converse(ctx, "c1", "hi")
	require.NoError(t, err)
	_, err = bot.Converse(ctx, "c1", "Arthur")
	require.NoError(t, err)

	msgs, err := bot.Converse(ctx, "c2", "hi")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hi! What is your name?"}, texts(msgs))
}

func TestBot_SessionsSurviveRestartWithSharedStore(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	bot := newGreetBot(t, WithStore(store))
	_, err := bot.Converse(ctx, "c1", "hi")
	require.NoError(t, err)
	_, err = bot.Converse(ctx, "c1", "Arthur")
	require.NoError(t, err)

	restarted := newGreetBot(t, WithStore(store))
	msgs, err := restarted.Converse(ctx, "c1", "hello")
	require.NoError(t, err)
	assert.Equal(t, []string{"Welcome back, Arthur!"}, texts(msgs))
}

func TestBot_FallbackMessageOption(t *testing.T) {
	bot := newGreetBot(t, WithFallbackMessage("No entiendo."))

	msgs, err := bot.Converse(context.Background(), "c1", "blorp")
	require.NoError(t, err)
	assert.Equal(t, []string{"No entiendo."}, texts(msgs))
}

func TestBot_ResetOn(t *testing.T) {
	bot := newGreetBot(t)
	bot.ResetOn(`^start over$`, "")
	ctx := context.Background()

	_, err := bot.Converse(ctx, "c1", "hi")
	require.NoError(t, err)

	msgs, err := bot.Converse(ctx, "c1", "start over")
	require.NoError(t, err)
	assert.Equal(t, []string{runtime.DefaultResetNotice}, texts(msgs))

	// The pending prompt is gone; unmatched input falls through.
	msgs, err = bot.Converse(ctx, "c1", "Arthur")
	require.NoError(t, err)
	assert.Equal(t, []string{runtime.DefaultFallback}, texts(msgs))
}

func TestBot_MatchIntentUsesRecognizer(t *testing.T) {
	rec := ports.RecognizerFunc(func(ctx context.Context, utterance string) ([]domain.Intent, error) {
		return []domain.Intent{{Name: "Hours", Score: 0.9}}, nil
	})

	bot := New(WithRecognizer(rec))
	require.NoError(t, bot.Dialog("hours", func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
		tn.Send("We open at nine.")
		return domain.Done(nil)
	}))
	bot.MatchIntent("Hours", "hours")

	msgs, err := bot.Converse(context.Background(), "c1", "when are you open")
	require.NoError(t, err)
	assert.Equal(t, []string{"We open at nine."}, texts(msgs))
}

func TestBot_DialogsAndStepCount(t *testing.T) {
	bot := newGreetBot(t)
	require.NoError(t, bot.Dialog("help", func(ctx context.Context, tn *domain.Turn) (domain.StepResult, error) {
		return domain.Done(nil)
	}))

	assert.Equal(t, []string{"greet", "help"}, bot.Dialogs())
	assert.Equal(t, 2, bot.StepCount("greet"))
	assert.Equal(t, 0, bot.StepCount("missing"))
}
