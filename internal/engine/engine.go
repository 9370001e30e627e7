// Package engine implements the dialogue management core: the session
// orchestrator and the rule-ordered finite-state machine that consumes
// per-turn facts to decide replies, slot-filling prompts, and durable
// context mutations.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mintaka-labs/pennywise/internal/logging"
	"github.com/mintaka-labs/pennywise/pkg/domain"
	"github.com/mintaka-labs/pennywise/pkg/nlu"
	"github.com/mintaka-labs/pennywise/pkg/ports"
)

// defaultMaxHops bounds same-turn epsilon chaining. The shipped rule
// tables are acyclic, so a well-formed turn never comes close; the cap
// guards future table edits from hanging a turn.
const defaultMaxHops = 16

// confirmationWindow is how long an account-deletion confirmation stays
// valid after the last message.
const confirmationWindow = 3 * time.Minute

// rule is one guarded step in a state's ordered rule list.
type rule struct {
	name string
	run  func(ctx context.Context, t *turn) (directive, error)
}

// turn carries everything one resolution needs: the facts, the mutable
// context copy, the bound ledger query, and the message/action sinks.
type turn struct {
	now      time.Time
	userID   string
	facts    domain.Facts
	convo    *domain.Context
	query    domain.ExpenseQuery
	messages []string
	actions  []domain.Action
	hops     int
}

func (t *turn) say(message string) {
	t.messages = append(t.messages, message)
}

// Engine resolves turns against the transition rule tables.
type Engine struct {
	understander ports.Understander
	catalog      ports.Catalog
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	clock        func() time.Time
	maxHops      int
	states       map[string][]rule
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithClock overrides the engine clock (used by tests and the
// confirmation timeout check).
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithMaxEpsilonHops overrides the same-turn chaining bound.
func WithMaxEpsilonHops(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxHops = n
		}
	}
}

// New creates an engine wired to an NLU provider and a message catalog.
func New(understander ports.Understander, catalog ports.Catalog, opts ...Option) *Engine {
	e := &Engine{
		understander: understander,
		catalog:      catalog,
		logger:       logging.NewNop(),
		clock:        time.Now,
		maxHops:      defaultMaxHops,
	}
	for _, opt := range opts {
		opt(e)
	}

	// Order is part of the contract: within a state the first rule that
	// fires wins, and in main the catch-all confusion rule comes last.
	e.states = map[string][]rule{
		domain.StateInit: {
			{"first_interaction", e.firstInteraction},
		},
		"main": {
			{"request_help", e.requestHelp},
			{"tell_joke", e.tellJoke},
			{"who_are_you", e.whoAreYou},
			{"are_you_bot", e.areYouBot},
			{"delete_account", e.deleteAccount},
			{"set_budget", e.setBudgetIntent},
			{"query_budget", e.queryBudget},
			{"query_affordability", e.queryAffordability},
			{"add_expense", e.addExpenseIntent},
			{"query_summary", e.querySummary},
			{"confused", e.confused},
		},
		"delete_account": {
			{"confirmation", e.confirmDeletion},
		},
		"set_budget": {
			{"set_budget", e.setBudget},
		},
		"add_expense": {
			{"add_expense", e.addExpense},
		},
		"specify_expense_item": {
			{"specify_expense_item", e.specifyExpenseItem},
		},
		"specify_expense_moment": {
			{"specify_expense_moment", e.specifyExpenseMoment},
		},
		"specify_expense_value": {
			{"specify_expense_value", e.specifyExpenseValue},
		},
	}

	return e
}

// Process runs one complete turn: it resolves the session input through
// the NLU provider, normalizes the payload into facts, executes the
// rule tables from the stored state, and returns the result bundle.
// The caller's context value is never mutated.
func (e *Engine) Process(ctx context.Context, session domain.Session) (*domain.Result, error) {
	payload, err := e.understand(ctx, session)
	if err != nil {
		return nil, err
	}

	facts := nlu.Normalize(payload)
	convo := session.Context.Clone()
	t := &turn{
		now:    e.clock(),
		userID: session.UserID,
		facts:  facts,
		convo:  convo,
		query:  session.QueryExpenses,
	}

	if e.hooks.OnTurnStart != nil {
		e.hooks.OnTurnStart(ctx, &domain.TurnEvent{
			EventBase: e.eventBase(domain.EventTurnStart, t),
			State:     convo.State,
			Intent:    facts.Intent,
		})
	}

	next, err := e.execute(ctx, t, convo.State)
	if err != nil {
		return nil, err
	}

	convo.State = next
	convo.MessageCounter++
	// The engine clock, not the inbound timestamp, marks the turn.
	convo.LastMessageOn = t.now

	raw := payload.Raw
	if raw == nil {
		raw, _ = json.Marshal(payload)
	}

	result := &domain.Result{
		TurnID:   uuid.NewString(),
		Context:  *convo,
		Messages: t.messages,
		Actions:  t.actions,
		RawNLU:   raw,
	}

	if e.hooks.OnTurnEnd != nil {
		e.hooks.OnTurnEnd(ctx, &domain.TurnEvent{
			EventBase: e.eventBase(domain.EventTurnEnd, t),
			State:     convo.State,
			Intent:    facts.Intent,
			Messages:  len(t.messages),
			Hops:      t.hops,
		})
	}

	return result, nil
}

// understand obtains the raw NLU payload for the session's input.
func (e *Engine) understand(ctx context.Context, session domain.Session) (*nlu.Payload, error) {
	switch {
	case session.Text != "":
		payload, err := e.understander.Message(ctx, session.Text)
		if err != nil {
			return nil, fmt.Errorf("nlu message: %w", err)
		}
		return payload, nil
	case session.Voice != nil:
		payload, err := e.understander.Speech(ctx, bytes.NewReader(session.Voice.Audio), session.Voice.ContentType)
		if err != nil {
			return nil, fmt.Errorf("nlu speech: %w", err)
		}
		return payload, nil
	default:
		return nil, domain.ErrNoInput
	}
}

// execute resolves the rule table starting at state, following epsilon
// transitions within the same turn. Unknown states fall back to the
// init rule list without changing the stored state. When every rule in
// a list declines, the state simply does not advance this turn.
func (e *Engine) execute(ctx context.Context, t *turn, state string) (string, error) {
	current := state
	for {
		rules, ok := e.states[current]
		if !ok {
			e.logger.Debug("unknown state, using init rules", "state", current)
			rules = e.states[domain.StateInit]
		}

		var d directive
		var matched string
		for _, r := range rules {
			var err error
			d, err = r.run(ctx, t)
			if err != nil {
				return "", fmt.Errorf("rule %s/%s: %w", current, r.name, err)
			}
			if d.fired {
				matched = r.name
				break
			}
		}

		if !d.fired {
			e.logger.Debug("no rule fired, state unchanged", "state", current)
			return current, nil
		}

		if e.hooks.OnRuleMatch != nil {
			e.hooks.OnRuleMatch(ctx, &domain.RuleEvent{
				EventBase: e.eventBase(domain.EventRuleMatch, t),
				State:     current,
				Rule:      matched,
				Event:     d.event,
			})
		}
		if e.hooks.OnTransition != nil {
			e.hooks.OnTransition(ctx, &domain.TransitionEvent{
				EventBase: e.eventBase(domain.EventTransition, t),
				From:      current,
				To:        d.target,
				Epsilon:   d.epsilon,
			})
		}

		if !d.epsilon {
			return d.target, nil
		}

		t.hops++
		if t.hops > e.maxHops {
			return "", fmt.Errorf("%d hops from %q: %w", t.hops, state, domain.ErrEpsilonOverflow)
		}
		current = d.target
	}
}

func (e *Engine) emitAction(ctx context.Context, t *turn, action domain.Action) {
	t.actions = append(t.actions, action)
	if e.hooks.OnActionEmit != nil {
		e.hooks.OnActionEmit(ctx, &domain.ActionEvent{
			EventBase:  e.eventBase(domain.EventActionEmit, t),
			ActionType: action.Type,
		})
	}
}

func (e *Engine) eventBase(kind domain.EventType, t *turn) domain.EventBase {
	return domain.EventBase{Timestamp: t.now, Type: kind, UserID: t.userID}
}
