// Package sqlite provides a SQLite-backed expense ledger.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mintaka-labs/pennywise/pkg/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS expenses (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     TEXT    NOT NULL,
	item        TEXT    NOT NULL,
	value       REAL    NOT NULL,
	incurred_on INTEGER NOT NULL,
	created_on  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_expenses_user_incurred
	ON expenses (user_id, incurred_on);
`

// Ledger persists expenses in SQLite.
type Ledger struct {
	db *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite ledger at path and ensures the schema.
func Open(path string) (*Ledger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the SQLite handle.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// AddExpense appends one expense record for the user.
func (l *Ledger) AddExpense(ctx context.Context, userID string, expense domain.Expense) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, item, value, incurred_on, created_on) VALUES (?, ?, ?, ?, ?)`,
		userID, expense.Item, expense.Value, toMillis(expense.IncurredOn), toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// QueryExpenses returns the user's expenses in [from, to), ordered by
// incurred time.
func (l *Ledger) QueryExpenses(ctx context.Context, userID string, from, to time.Time) ([]domain.Expense, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT item, value, incurred_on FROM expenses
		 WHERE user_id = ? AND incurred_on >= ? AND incurred_on < ?
		 ORDER BY incurred_on`,
		userID, toMillis(from), toMillis(to),
	)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		var expense domain.Expense
		var incurred int64
		if err := rows.Scan(&expense.Item, &expense.Value, &incurred); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expense.IncurredOn = fromMillis(incurred)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}
