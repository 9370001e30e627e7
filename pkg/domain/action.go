package domain

import "time"

// ActionAddExpense requests the host to record an expense in the ledger.
const ActionAddExpense = "add_expense"

// Expense is a single ledger record.
type Expense struct {
	Item       string    `json:"item"`
	Value      float64   `json:"value"`
	IncurredOn time.Time `json:"incurred_on"`
}

// Action is a tagged request for a durable side effect outside the
// conversational context itself. The engine never applies actions; it
// only emits them for the host to dispatch.
type Action struct {
	Type    string   `json:"type"`
	Expense *Expense `json:"expense,omitempty"`
}
