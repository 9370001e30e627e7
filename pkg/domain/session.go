package domain

import (
	"context"
	"encoding/json"
	"time"
)

// ExpenseQuery is a capability bound to one user's ledger: it returns
// the expenses incurred in [from, to). The engine invokes it for
// budget, affordability, and summary queries but never writes through it.
type ExpenseQuery func(ctx context.Context, from, to time.Time) ([]Expense, error)

// VoiceInput carries raw audio for the NLU speech endpoint.
type VoiceInput struct {
	Audio       []byte
	ContentType string
}

// Session describes one inbound turn. Exactly one of Text or Voice
// must be present; when both are, text wins.
type Session struct {
	UserID    string
	Text      string
	Voice     *VoiceInput
	Timestamp time.Time

	// Context is the user's durable state. The engine operates on a
	// copy; the caller's value is never mutated.
	Context Context

	// QueryExpenses is the bound ledger query capability.
	QueryExpenses ExpenseQuery
}

// Result is the outcome of one processed turn.
type Result struct {
	// TurnID correlates logs, metrics, and diagnostics for this turn.
	TurnID string `json:"turn_id"`

	// Context is the mutated durable state to persist.
	Context Context `json:"context"`

	// Messages are the ordered reply strings to deliver to the user.
	Messages []string `json:"messages"`

	// Actions are the ordered side-effect requests for the host.
	Actions []Action `json:"actions"`

	// RawNLU preserves the upstream NLU payload for diagnostics.
	RawNLU json.RawMessage `json:"raw_nlu,omitempty"`
}
