package runtime

import (
	"context"
	"log/slog"
	"regexp"
	"sync"

	"github.com/aretw0/wicker/internal/logging"
	"github.com/aretw0/wicker/pkg/domain"
	"github.com/aretw0/wicker/pkg/ports"
)

// RouteKind discriminates routing outcomes.
type RouteKind int

const (
	// RouteContinue hands the utterance to the suspended dialog on top of
	// the stack.
	RouteContinue RouteKind = iota
	// RouteStart pushes a new dialog.
	RouteStart
	// RouteReset clears the stack, optionally starting a dialog afterwards.
	RouteReset
	// RouteFallback means nothing matched; the default message is sent.
	RouteFallback
)

// RouteDecision is the router's verdict for one inbound turn.
type RouteDecision struct {
	Kind   RouteKind
	Dialog string
	// Intent is the recognized trigger for intent-routed starts; nil for
	// pattern-routed ones.
	Intent *domain.Intent
}

// MustPattern compiles a trigger pattern, panicking on a bad expression.
// Routing tables are wired at startup, so a bad pattern is a programming
// error.
func MustPattern(expr string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + expr)
}

// Rule binds a trigger to a dialog. Exactly one of IntentName or Pattern is
// set.
type Rule struct {
	IntentName string
	Pattern    *regexp.Regexp
	Dialog     string

	// Reset marks a start-over trigger: the stack is cleared before Dialog
	// (if any) begins.
	Reset bool
}

// Router decides which dialog owns an inbound turn.
//
// A dialog in progress owns the turn outright: when the top of the stack is
// suspended on a prompt, any input routes to it, even input matching a
// registered trigger. Only an idle session consults the rule table, in
// registration order, first match wins. Recognizers are likewise consulted
// in registration order and ties are not broken by confidence score; the
// first recognized intent with a matching rule decides.
type Router struct {
	mu          sync.RWMutex
	rules       []Rule
	recognizers []ports.Recognizer
	logger      *slog.Logger
}

// NewRouter creates an empty router.
func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Router{logger: logger}
}

// AddRule appends a rule to the table. Order matters.
func (r *Router) AddRule(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule)
}

// AddRecognizer appends a recognizer strategy. Order matters.
func (r *Router) AddRecognizer(rec ports.Recognizer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recognizers = append(r.recognizers, rec)
}

// Route decides the outcome for one inbound turn.
func (r *Router) Route(ctx context.Context, sess *domain.Session, utterance string, entities []domain.Entity) RouteDecision {
	if frame := sess.ActiveFrame(); frame != nil {
		// Reset triggers are the one escape hatch out of a stuck flow.
		if rule, ok := r.matchReset(utterance); ok {
			return RouteDecision{Kind: RouteReset, Dialog: rule.Dialog}
		}
		return RouteDecision{Kind: RouteContinue}
	}

	r.mu.RLock()
	rules := r.rules
	r.mu.RUnlock()

	var intents []domain.Intent
	recognized := false

	for _, rule := range rules {
		if rule.Pattern != nil && rule.Pattern.MatchString(utterance) {
			if rule.Reset {
				return RouteDecision{Kind: RouteReset, Dialog: rule.Dialog}
			}
			return RouteDecision{Kind: RouteStart, Dialog: rule.Dialog}
		}
		if rule.IntentName != "" {
			if !recognized {
				intents = r.recognize(ctx, utterance)
				recognized = true
			}
			for i := range intents {
				if intents[i].Name == rule.IntentName {
					if rule.Reset {
						return RouteDecision{Kind: RouteReset, Dialog: rule.Dialog}
					}
					return RouteDecision{Kind: RouteStart, Dialog: rule.Dialog, Intent: &intents[i]}
				}
			}
		}
	}

	return RouteDecision{Kind: RouteFallback}
}

// matchReset checks only the reset rules, used while a dialog is active.
func (r *Router) matchReset(utterance string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rule := range r.rules {
		if rule.Reset && rule.Pattern != nil && rule.Pattern.MatchString(utterance) {
			return rule, true
		}
	}
	return Rule{}, false
}

// recognize consults the strategies in order, concatenating their intents.
// A failing recognizer is logged and skipped; recognition failure must not
// take a conversation down.
func (r *Router) recognize(ctx context.Context, utterance string) []domain.Intent {
	r.mu.RLock()
	recognizers := r.recognizers
	r.mu.RUnlock()

	var intents []domain.Intent
	for _, rec := range recognizers {
		found, err := rec.Recognize(ctx, utterance)
		if err != nil {
			r.logger.Warn("recognizer failed", "err", err)
			continue
		}
		intents = append(intents, found...)
	}
	return intents
}
