// Package wicker is a multi-turn dialog orchestration core: waterfall
// dialogs over a per-conversation stack, typed prompts with validation and
// re-prompting, and a rule table routing free text into dialogs by regular
// expression or recognized intent.
//
// A minimal bot:
//
//	bot := wicker.New()
//	bot.Dialog("greet", func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
//		return domain.AskText("Hi! What is your name?"), nil
//	}, func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
//		t.Send("Nice to meet you, %s.", t.Input.Text)
//		return domain.Done(nil), nil
//	})
//	bot.Match("^hi|hello$", "greet")
//
//	msgs, err := bot.Converse(ctx, "conv-1", "hello")
//
// Sessions persist between turns through a pluggable store (memory, Redis,
// bbolt); replicated deployments add a distributed locker so each
// conversation processes one turn at a time.
package wicker
