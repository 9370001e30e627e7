package ports

import (
	"context"
	"time"

	"github.com/mintaka-labs/pennywise/pkg/domain"
)

// Ledger records and queries expenses. The engine never writes the
// ledger itself; hosts apply emitted add_expense actions through it.
type Ledger interface {
	// AddExpense appends one expense record for the user.
	AddExpense(ctx context.Context, userID string, expense domain.Expense) error

	// QueryExpenses returns the user's expenses incurred in [from, to),
	// ordered by incurred time.
	QueryExpenses(ctx context.Context, userID string, from, to time.Time) ([]domain.Expense, error)
}

// BindExpenseQuery narrows a Ledger to the read-only, single-user
// capability the engine consumes.
func BindExpenseQuery(ledger Ledger, userID string) domain.ExpenseQuery {
	return func(ctx context.Context, from, to time.Time) ([]domain.Expense, error) {
		return ledger.QueryExpenses(ctx, userID, from, to)
	}
}
