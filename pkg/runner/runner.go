// Package runner implements the host-side turn loop shared by the
// HTTP, MCP, and chat surfaces: load the user's context under its
// lock, run the engine, apply emitted actions to the ledger, and
// persist the mutated context.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mintaka-labs/pennywise/internal/logging"
	"github.com/mintaka-labs/pennywise/pkg/domain"
	"github.com/mintaka-labs/pennywise/pkg/ports"
	"github.com/mintaka-labs/pennywise/pkg/session"
)

// Bot is the engine surface the runner drives.
type Bot interface {
	Process(ctx context.Context, session domain.Session) (*domain.Result, error)
}

// Message is one inbound user message.
type Message struct {
	UserID   string
	UserName string
	Text     string
	Voice    *domain.VoiceInput
}

// Runner executes complete turns against a bot, a session manager, and
// an expense ledger.
type Runner struct {
	bot      Bot
	sessions *session.Manager
	ledger   ports.Ledger
	logger   *slog.Logger
}

// Option configures the Runner.
type Option func(*Runner)

// WithLogger sets a structured logger for the runner.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a turn runner.
func New(bot Bot, sessions *session.Manager, ledger ports.Ledger, opts ...Option) *Runner {
	r := &Runner{
		bot:      bot,
		sessions: sessions,
		ledger:   ledger,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Turn processes one inbound message end to end. The whole
// load-process-save cycle runs under the user's lock, so concurrent
// turns for the same user serialize. Deactivated contexts are refused
// with domain.ErrInactiveContext.
func (r *Runner) Turn(ctx context.Context, msg Message) (*domain.Result, error) {
	if msg.UserID == "" {
		return nil, fmt.Errorf("userID cannot be empty")
	}

	var result *domain.Result
	err := r.sessions.WithLock(ctx, msg.UserID, func(ctx context.Context) error {
		// The lock is already held; go to the store directly.
		convo, err := r.sessions.Store().Load(ctx, msg.UserID)
		if errors.Is(err, domain.ErrContextNotFound) {
			convo = domain.NewContext(msg.UserName)
		} else if err != nil {
			return fmt.Errorf("load context: %w", err)
		}

		if !convo.IsActive {
			return domain.ErrInactiveContext
		}

		res, err := r.bot.Process(ctx, domain.Session{
			UserID:        msg.UserID,
			Text:          msg.Text,
			Voice:         msg.Voice,
			Timestamp:     time.Now(),
			Context:       *convo,
			QueryExpenses: ports.BindExpenseQuery(r.ledger, msg.UserID),
		})
		if err != nil {
			return err
		}

		for _, action := range res.Actions {
			if err := r.apply(ctx, msg.UserID, action); err != nil {
				return err
			}
		}

		if err := r.sessions.Store().Save(ctx, msg.UserID, &res.Context); err != nil {
			return fmt.Errorf("save context: %w", err)
		}

		result = res
		return nil
	})
	return result, err
}

func (r *Runner) apply(ctx context.Context, userID string, action domain.Action) error {
	switch action.Type {
	case domain.ActionAddExpense:
		if action.Expense == nil {
			return fmt.Errorf("add_expense action without expense payload")
		}
		if err := r.ledger.AddExpense(ctx, userID, *action.Expense); err != nil {
			return fmt.Errorf("apply add_expense: %w", err)
		}
	default:
		r.logger.Warn("Skipping unknown action type", "type", action.Type, "user_id", userID)
	}
	return nil
}

// Sessions returns the session manager the runner drives.
func (r *Runner) Sessions() *session.Manager {
	return r.sessions
}

// Ledger returns the expense ledger the runner applies actions to.
func (r *Runner) Ledger() ports.Ledger {
	return r.ledger
}
