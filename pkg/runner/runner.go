package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/wicker"
	"github.com/aretw0/wicker/internal/logging"
	"github.com/aretw0/wicker/pkg/domain"
)

// MessageRenderer transforms one outbound message into terminal text. It
// keeps this package decoupled from the TUI layer; plain bots can leave it
// nil and get the default text degradation.
type MessageRenderer func(domain.Message) string

// Runner drives an interactive chat loop against a bot over provided IO.
// It exists so the same loop serves the CLI, tests, and piped transcripts.
type Runner struct {
	// Input is the user side of the conversation. Defaults to os.Stdin.
	Input io.Reader

	// Output receives the bot's replies. Defaults to os.Stdout.
	Output io.Writer

	// ConversationID identifies the session. Defaults to "console".
	ConversationID string

	// Renderer formats outbound messages. If nil, a plain-text fallback is
	// used.
	Renderer MessageRenderer

	// Logger is used for internal debug logging. If nil, a no-op logger is
	// used.
	Logger *slog.Logger
}

// NewRunner creates a Runner with default stdin/stdout wiring.
func NewRunner() *Runner {
	return &Runner{
		Input:          os.Stdin,
		Output:         os.Stdout,
		ConversationID: "console",
		Logger:         logging.NewNop(),
	}
}

// Run reads lines from Input and feeds them to the bot until EOF, "exit" or
// "quit". Each turn's messages are rendered to Output in order.
func (r *Runner) Run(ctx context.Context, bot *wicker.Bot) error {
	in := r.Input
	if in == nil {
		in = os.Stdin
	}
	out := r.Output
	if out == nil {
		out = os.Stdout
	}
	conversationID := r.ConversationID
	if conversationID == "" {
		conversationID = "console"
	}
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			return nil
		}

		messages, err := bot.Converse(ctx, conversationID, text)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logger.Error("turn failed", "conversation_id", conversationID, "err", err)
			fmt.Fprintln(out, "(something went wrong, try again)")
			continue
		}

		for _, msg := range messages {
			fmt.Fprintln(out, r.render(msg))
		}
	}
}

func (r *Runner) render(msg domain.Message) string {
	if r.Renderer != nil {
		return r.Renderer(msg)
	}
	return RenderPlain(msg)
}

// RenderPlain degrades any message to plain text: choices become a numbered
// list, cards become an indented block with their buttons spelled out.
func RenderPlain(msg domain.Message) string {
	switch msg.Type {
	case domain.MessageChoice:
		var sb strings.Builder
		sb.WriteString(msg.Text)
		for i, opt := range msg.Options {
			fmt.Fprintf(&sb, "\n  %d. %s", i+1, opt)
		}
		return sb.String()

	case domain.MessageCard:
		var sb strings.Builder
		if msg.Text != "" {
			sb.WriteString(msg.Text)
		}
		for i, card := range msg.Cards {
			if i > 0 || msg.Text != "" {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "[%s]", card.Title)
			if card.Subtitle != "" {
				fmt.Fprintf(&sb, " %s", card.Subtitle)
			}
			if card.Text != "" {
				fmt.Fprintf(&sb, "\n  %s", card.Text)
			}
			for _, btn := range card.Buttons {
				fmt.Fprintf(&sb, "\n  - %s (%s)", btn.Title, btn.Value)
			}
		}
		return sb.String()

	default:
		return msg.Text
	}
}
