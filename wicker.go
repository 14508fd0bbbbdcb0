package wicker

import (
	"context"
	"log/slog"

	"github.com/aretw0/wicker/internal/logging"
	"github.com/aretw0/wicker/internal/runtime"
	"github.com/aretw0/wicker/pkg/adapters/memory"
	"github.com/aretw0/wicker/pkg/domain"
	"github.com/aretw0/wicker/pkg/ports"
	"github.com/aretw0/wicker/pkg/registry"
	"github.com/aretw0/wicker/pkg/session"
)

// Version of the wicker library.
const Version = "0.3.0"

// Bot is the high-level entry point: a dialog registry, a routing table,
// recognizer strategies, and a session manager wired to one waterfall
// engine. Register dialogs and routes at startup, then feed it inbound
// turns with Converse.
type Bot struct {
	dialogs  *registry.Registry
	router   *runtime.Router
	engine   *runtime.Engine
	sessions *session.Manager

	store       ports.SessionStore
	locker      ports.DistributedLocker
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	engineOpts  []runtime.EngineOption
	recognizers []ports.Recognizer
}

// Option configures the Bot.
type Option func(*Bot)

// WithStore sets the session store (default: in-memory).
func WithStore(store ports.SessionStore) Option {
	return func(b *Bot) {
		b.store = store
	}
}

// WithLocker enables distributed per-conversation locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(b *Bot) {
		b.locker = locker
	}
}

// WithLogger sets a structured logger (default: no-op).
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bot) {
		b.hooks = hooks
	}
}

// WithRecognizer appends a recognizer strategy. Strategies are consulted in
// the order given.
func WithRecognizer(rec ports.Recognizer) Option {
	return func(b *Bot) {
		b.recognizers = append(b.recognizers, rec)
	}
}

// WithMaxStackDepth caps dialog nesting (default 20).
func WithMaxStackDepth(depth int) Option {
	return func(b *Bot) {
		b.engineOpts = append(b.engineOpts, runtime.WithMaxStackDepth(depth))
	}
}

// WithFallbackMessage sets the reply for input no rule matches.
func WithFallbackMessage(msg string) Option {
	return func(b *Bot) {
		b.engineOpts = append(b.engineOpts, runtime.WithFallbackMessage(msg))
	}
}

// WithApologyMessage sets the reply emitted when a step fails.
func WithApologyMessage(msg string) Option {
	return func(b *Bot) {
		b.engineOpts = append(b.engineOpts, runtime.WithApologyMessage(msg))
	}
}

// WithResetNotice sets the reply emitted when a reset trigger fires.
func WithResetNotice(msg string) Option {
	return func(b *Bot) {
		b.engineOpts = append(b.engineOpts, runtime.WithResetNotice(msg))
	}
}

// New creates a Bot. With no options it keeps sessions in memory and stays
// silent; production bots pass a durable store and a logger.
func New(opts ...Option) *Bot {
	b := &Bot{
		dialogs: registry.New(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.store == nil {
		b.store = memory.NewStore()
	}

	sessionOpts := []session.Option{session.WithLogger(b.logger)}
	if b.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(b.locker))
	}
	b.sessions = session.NewManager(b.store, sessionOpts...)

	b.router = runtime.NewRouter(b.logger)
	for _, rec := range b.recognizers {
		b.router.AddRecognizer(rec)
	}

	engineOpts := []runtime.EngineOption{
		runtime.WithLogger(b.logger),
		runtime.WithLifecycleHooks(b.hooks),
	}
	engineOpts = append(engineOpts, b.engineOpts...)
	b.engine = runtime.NewEngine(b.dialogs, b.router, engineOpts...)

	return b
}

// Dialog registers a named waterfall.
func (b *Bot) Dialog(name string, steps ...domain.Step) error {
	return b.dialogs.Register(name, steps...)
}

// Match routes utterances matching the regular expression to the dialog.
// The pattern must compile; Match panics otherwise, because routes are
// wiring-time constants.
func (b *Bot) Match(pattern, dialog string) {
	b.router.AddRule(runtime.Rule{Pattern: runtime.MustPattern(pattern), Dialog: dialog})
}

// MatchIntent routes utterances recognized as the named intent to the
// dialog. Recognition happens through the registered recognizer strategies.
func (b *Bot) MatchIntent(intent, dialog string) {
	b.router.AddRule(runtime.Rule{IntentName: intent, Dialog: dialog})
}

// ResetOn registers a start-over trigger: utterances matching the pattern
// clear the dialog stack even mid-flow, then start the dialog if one is
// given (empty means just return to idle).
func (b *Bot) ResetOn(pattern, dialog string) {
	b.router.AddRule(runtime.Rule{Pattern: runtime.MustPattern(pattern), Dialog: dialog, Reset: true})
}

// Converse processes one inbound turn for the conversation and returns the
// ordered outbound messages. Turns for the same conversation are serialized;
// turns for different conversations run concurrently. Dialog-level failures
// don't surface here (they become apology messages), so an error means the
// turn itself could not run: store failure or canceled context.
func (b *Bot) Converse(ctx context.Context, conversationID, text string, entities ...domain.Entity) ([]domain.Message, error) {
	var messages []domain.Message
	err := b.sessions.Turn(ctx, conversationID, func(ctx context.Context, sess *domain.Session) error {
		var err error
		messages, err = b.engine.Turn(ctx, sess, runtime.TurnInput{Text: text, Entities: entities})
		return err
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Sessions exposes the session manager for admin operations (list, delete).
func (b *Bot) Sessions() *session.Manager {
	return b.sessions
}

// Dialogs returns the registered dialog names, sorted.
func (b *Bot) Dialogs() []string {
	return b.dialogs.Names()
}

// StepCount returns the number of steps in the named dialog, or 0 when no
// such dialog is registered.
func (b *Bot) StepCount(name string) int {
	def, ok := b.dialogs.Get(name)
	if !ok {
		return 0
	}
	return len(def.Steps)
}
