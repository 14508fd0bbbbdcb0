package runtime

import (
	"strconv"
	"strings"

	"github.com/aretw0/wicker/pkg/domain"
)

// Coerce validates raw turn input against the pending prompt's expected
// shape and converts it into a typed Input. A *domain.ValidationError means
// the engine should re-issue the identical prompt without advancing.
func Coerce(p *domain.PendingPrompt, text string, entities []domain.Entity) (*domain.Input, error) {
	raw := strings.TrimSpace(text)
	in := &domain.Input{Kind: p.Kind, Text: raw}

	switch p.Kind {
	case domain.PromptText:
		if raw == "" {
			return nil, &domain.ValidationError{Kind: p.Kind, Raw: text}
		}
		return in, nil

	case domain.PromptNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &domain.ValidationError{Kind: p.Kind, Raw: text}
		}
		in.Number = n
		return in, nil

	case domain.PromptConfirm:
		clean := strings.ToLower(raw)
		switch clean {
		case "y", "yes", "true", "1", "confirm", "ok":
			in.Confirmed = true
			return in, nil
		case "n", "no", "false", "0", "cancel":
			in.Confirmed = false
			return in, nil
		}
		return nil, &domain.ValidationError{Kind: p.Kind, Raw: text}

	case domain.PromptChoice:
		// Exact option text, case-insensitive, or a 1-based ordinal.
		for i, opt := range p.Options {
			if strings.EqualFold(raw, opt) {
				in.Choice = opt
				in.ChoiceIndex = i
				return in, nil
			}
		}
		if ord, err := strconv.Atoi(raw); err == nil && ord >= 1 && ord <= len(p.Options) {
			in.Choice = p.Options[ord-1]
			in.ChoiceIndex = ord - 1
			return in, nil
		}
		return nil, &domain.ValidationError{Kind: p.Kind, Raw: text}

	case domain.PromptTime:
		// Pre-recognized date/time entities win over raw text parsing.
		if t, ok := domain.ResolveTime(entities); ok {
			in.Time = t
			return in, nil
		}
		if t, ok := domain.ParseTimeText(raw); ok {
			in.Time = t
			return in, nil
		}
		return nil, &domain.ValidationError{Kind: p.Kind, Raw: text}
	}

	// Unknown prompt kind: treat as free text so a stored session from an
	// older build still resumes.
	if raw == "" {
		return nil, &domain.ValidationError{Kind: p.Kind, Raw: text}
	}
	return in, nil
}
