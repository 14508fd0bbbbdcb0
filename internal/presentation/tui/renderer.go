package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/wicker/pkg/domain"
)

// Renderer turns outbound messages into terminal text. On a real terminal
// it renders through glamour with color; piped output degrades to plain
// markdown so transcripts stay readable.
type Renderer struct {
	markdown *glamour.TermRenderer
	profile  termenv.Profile
	isTTY    bool
}

// NewRenderer builds a renderer for stdout.
func NewRenderer() *Renderer {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	r := &Renderer{
		profile: termenv.ColorProfile(),
		isTTY:   isTTY,
	}
	if isTTY {
		// Auto style follows the terminal's light/dark background.
		r.markdown, _ = glamour.NewTermRenderer(glamour.WithAutoStyle())
	}
	return r
}

// Render returns the terminal text for one outbound message.
func (r *Renderer) Render(msg domain.Message) string {
	switch msg.Type {
	case domain.MessageChoice:
		return r.renderMarkdown(choiceMarkdown(msg))
	case domain.MessageCard:
		return r.renderMarkdown(cardsMarkdown(msg))
	default:
		return r.renderMarkdown(msg.Text)
	}
}

func (r *Renderer) renderMarkdown(md string) string {
	if r.markdown != nil {
		if out, err := r.markdown.Render(md); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return strings.TrimRight(md, "\n")
}

func choiceMarkdown(msg domain.Message) string {
	var sb strings.Builder
	sb.WriteString(msg.Text)
	sb.WriteString("\n")
	for i, opt := range msg.Options {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, opt)
	}
	return sb.String()
}

func cardsMarkdown(msg domain.Message) string {
	var sb strings.Builder
	if msg.Text != "" {
		sb.WriteString(msg.Text)
		sb.WriteString("\n")
	}
	for i, card := range msg.Cards {
		if i > 0 || msg.Text != "" {
			sb.WriteString("\n---\n")
		}
		if card.Title != "" {
			fmt.Fprintf(&sb, "\n## %s\n", card.Title)
		}
		if card.Subtitle != "" {
			fmt.Fprintf(&sb, "\n*%s*\n", card.Subtitle)
		}
		if card.Text != "" {
			fmt.Fprintf(&sb, "\n%s\n", card.Text)
		}
		for _, img := range card.Images {
			fmt.Fprintf(&sb, "\n![image](%s)\n", img.URL)
		}
		for _, btn := range card.Buttons {
			switch btn.Type {
			case domain.ActionOpenURL:
				fmt.Fprintf(&sb, "\n- [%s](%s)", btn.Title, btn.Value)
			default:
				fmt.Fprintf(&sb, "\n- **%s** (say %q)", btn.Title, btn.Value)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
