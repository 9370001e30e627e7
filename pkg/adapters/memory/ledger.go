package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mintaka-labs/pennywise/pkg/domain"
)

// Ledger implements ports.Ledger in memory.
type Ledger struct {
	mu       sync.RWMutex
	expenses map[string][]domain.Expense
}

// NewLedger creates a new in-memory expense ledger.
func NewLedger() *Ledger {
	return &Ledger{
		expenses: make(map[string][]domain.Expense),
	}
}

// AddExpense appends one expense record for the user.
func (l *Ledger) AddExpense(ctx context.Context, userID string, expense domain.Expense) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expenses[userID] = append(l.expenses[userID], expense)
	return nil
}

// QueryExpenses returns the user's expenses in [from, to), ordered by
// incurred time.
func (l *Ledger) QueryExpenses(ctx context.Context, userID string, from, to time.Time) ([]domain.Expense, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var matched []domain.Expense
	for _, expense := range l.expenses[userID] {
		if !expense.IncurredOn.Before(from) && expense.IncurredOn.Before(to) {
			matched = append(matched, expense)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].IncurredOn.Before(matched[j].IncurredOn)
	})
	return matched, nil
}
