package pennywise

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/mintaka-labs/pennywise/internal/engine"
	"github.com/mintaka-labs/pennywise/internal/logging"
	"github.com/mintaka-labs/pennywise/pkg/catalog"
	"github.com/mintaka-labs/pennywise/pkg/domain"
	"github.com/mintaka-labs/pennywise/pkg/ports"
)

// Version is the library version, taken from the VERSION file.
//
//go:embed VERSION
var Version string

// Bot is the high-level entry point for the Pennywise library.
// It wraps the internal engine and provides a simplified API for hosts.
type Bot struct {
	engine  *engine.Engine
	catalog ports.Catalog
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	clock   func() time.Time
	locale  string
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithCatalog injects a custom message catalog, bypassing the embedded
// locale files.
func WithCatalog(c ports.Catalog) Option {
	return func(b *Bot) {
		b.catalog = c
	}
}

// WithLocale selects the embedded catalog locale (default "en").
func WithLocale(locale string) Option {
	return func(b *Bot) {
		b.locale = locale
	}
}

// WithLogger sets a custom structured logger for the bot.
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

// WithClock overrides the engine clock. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(b *Bot) {
		b.clock = clock
	}
}

// New initializes a new Pennywise Bot around an NLU provider.
// By default it uses the embedded English message catalog.
func New(understander ports.Understander, opts ...Option) (*Bot, error) {
	if understander == nil {
		return nil, fmt.Errorf("an understander is required")
	}

	bot := &Bot{locale: "en"}
	for _, opt := range opts {
		opt(bot)
	}

	if bot.logger == nil {
		bot.logger = logging.NewNop()
	}
	if bot.catalog == nil {
		c, err := catalog.New(bot.locale)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		bot.catalog = c
	}

	engineOpts := []engine.Option{
		engine.WithLogger(bot.logger),
		engine.WithLifecycleHooks(bot.hooks),
	}
	if bot.clock != nil {
		engineOpts = append(engineOpts, engine.WithClock(bot.clock))
	}

	bot.engine = engine.New(understander, bot.catalog, engineOpts...)
	return bot, nil
}

// Process runs one complete turn for a session and returns the result
// bundle: the mutated context copy, the ordered reply messages, and the
// emitted actions for the host to apply.
func (b *Bot) Process(ctx context.Context, session domain.Session) (*domain.Result, error) {
	return b.engine.Process(ctx, session)
}

// Catalog returns the message catalog in use.
func (b *Bot) Catalog() ports.Catalog {
	return b.catalog
}
