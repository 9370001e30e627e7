package domain

import "time"

// StateInit is the state every new conversation starts in.
const StateInit = "init"

// DefaultBudget is the weekly spending budget assigned to fresh contexts.
const DefaultBudget = 500.0

// Context is the durable per-user conversational state. It is passed
// into the engine by value and returned mutated inside the Result;
// where it is stored between turns is the host's concern.
type Context struct {
	// State is the current machine state name.
	State string `json:"state"`

	// IsActive is cleared on account deletion. Once false, hosts should
	// stop routing turns to the engine for this user.
	IsActive bool `json:"is_active"`

	// UserName is the display name used for personalized replies. May be empty.
	UserName string `json:"user_name,omitempty"`

	LastMessageOn  time.Time `json:"last_message_on"`
	LastGreetingOn time.Time `json:"last_greeting_on"`
	LastJokeOn     time.Time `json:"last_joke_on"`

	// MessageCounter increments once per processed turn.
	MessageCounter int `json:"message_counter"`

	// JokeCounter saturates at the catalog's joke-list length.
	JokeCounter int `json:"joke_counter"`

	// Budget is the user-set weekly spending budget.
	Budget float64 `json:"budget"`

	// Partially-filled slots for an in-progress expense. Either all
	// absent (no expense in progress) or progressively filled; they are
	// only read inside the add-expense flow and reset exactly once per
	// new add-expense attempt.
	CurrentExpenseItem       *string    `json:"current_expense_item,omitempty"`
	CurrentExpenseValue      *float64   `json:"current_expense_value,omitempty"`
	CurrentExpenseIncurredOn *time.Time `json:"current_expense_incurred_on,omitempty"`
}

// NewContext creates a clean context for a user.
func NewContext(userName string) *Context {
	return &Context{
		State:    StateInit,
		IsActive: true,
		UserName: userName,
		Budget:   DefaultBudget,
	}
}

// Clone returns an independent copy so the engine never mutates the
// caller's instance.
func (c *Context) Clone() *Context {
	clone := *c
	if c.CurrentExpenseItem != nil {
		v := *c.CurrentExpenseItem
		clone.CurrentExpenseItem = &v
	}
	if c.CurrentExpenseValue != nil {
		v := *c.CurrentExpenseValue
		clone.CurrentExpenseValue = &v
	}
	if c.CurrentExpenseIncurredOn != nil {
		v := *c.CurrentExpenseIncurredOn
		clone.CurrentExpenseIncurredOn = &v
	}
	return &clone
}

// ClearExpenseSlots resets the in-progress expense slots.
func (c *Context) ClearExpenseSlots() {
	c.CurrentExpenseItem = nil
	c.CurrentExpenseValue = nil
	c.CurrentExpenseIncurredOn = nil
}
