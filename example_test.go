package wicker_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/wicker"
	"github.com/aretw0/wicker/pkg/domain"
)

// ExampleNew demonstrates a minimal two-step dialog: ask for a name, then
// greet. Sessions live in memory; pass WithStore for durable backends.
func ExampleNew() {
	bot := wicker.New()

	// 1. Register a waterfall dialog. Each step decides how to proceed:
	// suspend on a prompt, advance, begin a child dialog, or end.
	err := bot.Dialog("greet",
		func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
			return domain.AskText("Hi! What is your name?")
		},
		func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
			t.Send("Nice to meet you, %s.", t.Input.Text)
			return domain.Done(nil)
		},
	)
	if err != nil {
		log.Fatal(err)
	}

	// 2. Route utterances to it.
	bot.Match(`^(hi|hello)\b`, "greet")

	// 3. Feed inbound turns. Each call returns the outbound messages.
	ctx := context.Background()
	msgs, err := bot.Converse(ctx, "example", "hello")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(msgs[0].Text)

	msgs, err = bot.Converse(ctx, "example", "Ada")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(msgs[0].Text)

	// Output:
	// Hi! What is your name?
	// Nice to meet you, Ada.
}

// ExampleBot_ResetOn shows a start-over trigger clearing the dialog stack
// mid-flow.
func ExampleBot_ResetOn() {
	bot := wicker.New(wicker.WithResetNotice("Okay, scrapping that."))

	err := bot.Dialog("order",
		func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
			return domain.AskChoice("What size?", "small", "large")
		},
		func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
			t.Send("One %s coming up.", t.Input.Choice)
			return domain.Done(nil)
		},
	)
	if err != nil {
		log.Fatal(err)
	}
	bot.Match(`(?i)order`, "order")
	bot.ResetOn(`(?i)^start over$`, "")

	ctx := context.Background()
	if _, err := bot.Converse(ctx, "example", "order please"); err != nil {
		log.Fatal(err)
	}

	msgs, err := bot.Converse(ctx, "example", "start over")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(msgs[0].Text)

	// Output:
	// Okay, scrapping that.
}
