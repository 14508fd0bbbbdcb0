package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/wicker"
	"github.com/aretw0/wicker/internal/config"
	boltstore "github.com/aretw0/wicker/pkg/adapters/bolt"
	"github.com/aretw0/wicker/pkg/adapters/memory"
	redisstore "github.com/aretw0/wicker/pkg/adapters/redis"
	"github.com/aretw0/wicker/pkg/domain"
	"github.com/aretw0/wicker/pkg/observability"
	"github.com/aretw0/wicker/pkg/persistence/middleware"
	"github.com/aretw0/wicker/pkg/ports"
	"github.com/aretw0/wicker/pkg/recognize"
)

// buildBot assembles the demo bot from environment configuration: store,
// persistence middleware, metrics, recognizers, dialogs and routing rules.
// The returned cleanup closes whatever backend was opened.
func buildBot(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*wicker.Bot, func(), error) {
	store, cleanup, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []wicker.Option{
		wicker.WithLogger(logger),
		wicker.WithLifecycleHooks(observability.NewMetrics(reg).Hooks()),
		wicker.WithStore(secureStore(cfg, store)),
	}

	if cfg.NLUEndpoint != "" {
		opts = append(opts, wicker.WithRecognizer(recognize.NewNLUClient(cfg.NLUEndpoint)))
	}

	var rf *config.RulesFile
	if cfg.RulesPath != "" {
		if rf, err = config.LoadRules(cfg.RulesPath); err != nil {
			cleanup()
			return nil, nil, err
		}
		if rf.Fallback != "" {
			opts = append(opts, wicker.WithFallbackMessage(rf.Fallback))
		}
	}

	bot := wicker.New(opts...)
	if err := registerDemoDialogs(bot); err != nil {
		cleanup()
		return nil, nil, err
	}

	if rf != nil {
		applyRules(bot, rf)
	} else {
		applyDefaultRules(bot)
	}

	return bot, cleanup, nil
}

func buildStore(cfg *config.Config) (ports.SessionStore, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		store := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			redisstore.WithTTL(cfg.SessionTTL))
		return store, func() { _ = store.Close() }, nil

	case config.StoreBolt:
		if err := os.MkdirAll(filepath.Dir(cfg.BoltPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		store, err := boltstore.Open(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	default:
		return memory.NewStore(), func() {}, nil
	}
}

// secureStore wraps the backend with the configured persistence middleware.
// PII masking runs before encryption, so the envelope hides already-masked
// data.
func secureStore(cfg *config.Config, store ports.SessionStore) ports.SessionStore {
	var mws []middleware.Middleware
	if len(cfg.PIIPatterns) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(cfg.PIIPatterns))
	}
	if len(cfg.EncryptionKey) > 0 {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey: cfg.EncryptionKey,
		}))
	}
	return middleware.Chain(store, mws...)
}

func applyRules(bot *wicker.Bot, rf *config.RulesFile) {
	for _, rule := range rf.Rules {
		switch {
		case rule.Reset:
			bot.ResetOn(rule.Pattern, rule.Dialog)
		case rule.Intent != "":
			bot.MatchIntent(rule.Intent, rule.Dialog)
		default:
			bot.Match(rule.Pattern, rule.Dialog)
		}
	}
}

func applyDefaultRules(bot *wicker.Bot) {
	bot.Match(`^(hi|hello|hey)\b`, "greet")
	bot.Match(`haircut|appointment|book`, "book-haircut")
	bot.MatchIntent("BookHaircut", "book-haircut")
	bot.Match(`^help$`, "help")
	bot.ResetOn(`^(start over|reset)$`, "")
}

// registerDemoDialogs wires the bundled booking demo: a greeting that nests
// a profile sub-dialog, a haircut booking flow exercising every prompt
// kind, and a card-based help screen.
func registerDemoDialogs(bot *wicker.Bot) error {
	if err := bot.Dialog("greet",
		func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
			if name, ok := t.Session.UserData["name"].(string); ok {
				t.Send("Welcome back, %s!", name)
				return domain.Done(nil)
			}
			return domain.Begin("profile")
		},
		func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
			t.Send("Pleased to meet you, %s! Say \"book a haircut\" when you're ready.", t.ChildResult)
			return domain.Done(nil)
		},
	); err != nil {
		return err
	}

	if err := bot.Dialog("profile",
		func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
			return domain.AskText("Hi! What is your name?")
		},
		func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
			t.Session.UserData["name"] = t.Input.Text
			return domain.Done(t.Input.Text)
		},
	); err != nil {
		return err
	}

	if err := bot.Dialog("book-haircut",
		func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
			if name, ok := t.Session.UserData["name"].(string); ok && name != "" {
				t.Data()["name"] = name
				return domain.Next()
			}
			return domain.AskText("Happy to book you in. What's your name?")
		},
		func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
			if t.Input != nil {
				t.Data()["name"] = t.Input.Text
				t.Session.UserData["name"] = t.Input.Text
			}
			// An utterance like "book a haircut for friday 3pm" already
			// carries the slot; skip the question.
			if when, ok := domain.ResolveTime(t.Entities); ok {
				t.Data()["when"] = when.Format(time.RFC3339)
				return domain.Next()
			}
			return domain.AskTime("When would you like to come in?")
		},
		func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
			if t.Input != nil {
				t.Data()["when"] = t.Input.Time.Format(time.RFC3339)
			}
			return domain.AskChoice("Which service?", "Cut", "Cut & Wash", "The Full Works")
		},
		func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
			t.Data()["service"] = t.Input.Choice
			return domain.AskConfirm("Book %q for %s at %s?",
				t.Data()["service"], t.Data()["name"], t.Data()["when"])
		},
		func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
			if !t.Input.Confirmed {
				t.Send("No problem, nothing booked.")
				return domain.Done(nil)
			}
			t.Send("Booked! %s at %s for %s. See you then.",
				t.Data()["service"], t.Data()["when"], t.Data()["name"])
			return domain.Done(nil)
		},
	); err != nil {
		return err
	}

	return bot.Dialog("help",
		func(ctx context.Context, t *domain.Turn) (domain.StepResult, error) {
			t.SendCards(domain.LayoutList, domain.Card{
				Style:    domain.CardHero,
				Title:    "Wicker Demo Bot",
				Subtitle: "A tiny barbershop assistant",
				Text:     "I can greet you and book haircuts.",
				Buttons: []domain.CardAction{
					domain.IMBack("hello", "Say hello"),
					domain.IMBack("book a haircut", "Book a haircut"),
					domain.OpenURL("https://example.com/barbershop", "Visit us"),
				},
			})
			return domain.Done(nil)
		},
	)
}
