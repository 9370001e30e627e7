package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mintaka-labs/pennywise/pkg/domain"
)

// Intent names as trained in the NLU app.
const (
	intentRequestHelp        = "request_help"
	intentTellJoke           = "tell_joke"
	intentWhoAreYou          = "who_are_you"
	intentAreYouBot          = "are_you_bot"
	intentDeleteAccount      = "delete_account"
	intentSetBudget          = "set_budget"
	intentQueryBudget        = "query_budget"
	intentQueryAffordability = "query_affordability"
	intentAddExpense         = "add_expense"
	intentQuerySummary       = "query_summary"
)

type vars = map[string]string

// firstInteraction greets the user (personalized when we know their
// name) and chains straight into main.
func (e *Engine) firstInteraction(_ context.Context, t *turn) (directive, error) {
	if t.convo.UserName != "" {
		t.say(e.catalog.Any("greetings_personal", vars{"name": t.convo.UserName}))
	} else {
		t.say(e.catalog.Any("greetings", nil))
	}
	t.say(e.catalog.Any("welcome", nil))
	t.convo.LastGreetingOn = t.now
	return chain("main", "first_interaction"), nil
}

func (e *Engine) requestHelp(_ context.Context, t *turn) (directive, error) {
	if t.facts.Intent != intentRequestHelp {
		return declined(), nil
	}
	t.say(e.catalog.Any("help", nil))
	return finish("main", ""), nil
}

// tellJoke cycles through the catalog's joke list. The counter
// saturates at the list length; past it the fixed filler is replied and
// the counter stops moving.
func (e *Engine) tellJoke(_ context.Context, t *turn) (directive, error) {
	if t.facts.Intent != intentTellJoke {
		return declined(), nil
	}
	jokes := e.catalog.Count("joke")
	if t.convo.JokeCounter < jokes {
		t.say(e.catalog.Get("joke", t.convo.JokeCounter, e.catalog.Any("no_more_jokes", nil)))
		t.convo.JokeCounter++
	} else {
		t.say(e.catalog.Any("no_more_jokes", nil))
	}
	t.convo.LastJokeOn = t.now
	return finish("main", "joke_told"), nil
}

func (e *Engine) whoAreYou(_ context.Context, t *turn) (directive, error) {
	if t.facts.Intent != intentWhoAreYou {
		return declined(), nil
	}
	t.say(e.catalog.Any("who_are_you", nil))
	return finish("main", ""), nil
}

func (e *Engine) areYouBot(_ context.Context, t *turn) (directive, error) {
	if t.facts.Intent != intentAreYouBot {
		return declined(), nil
	}
	t.say(e.catalog.Any("are_you_bot", nil))
	return finish("main", ""), nil
}

// deleteAccount asks for confirmation; the decision is resolved by the
// delete_account state on the next turn.
func (e *Engine) deleteAccount(_ context.Context, t *turn) (directive, error) {
	if t.facts.Intent != intentDeleteAccount {
		return declined(), nil
	}
	t.say(e.catalog.Any("delete_account_confirm", nil))
	return finish("delete_account", ""), nil
}

func (e *Engine) setBudgetIntent(_ context.Context, t *turn) (directive, error) {
	if t.facts.Intent != intentSetBudget {
		return declined(), nil
	}
	return chain("set_budget", ""), nil
}

func (e *Engine) queryBudget(ctx context.Context, t *turn) (directive, error) {
	if t.facts.Intent != intentQueryBudget {
		return declined(), nil
	}
	total, err := t.weekTotal(ctx)
	if err != nil {
		return declined(), err
	}
	balance := t.convo.Budget - total
	t.say(e.catalog.Any("budget_report", vars{
		"balance": formatAmount(balance),
		"budget":  formatAmount(t.convo.Budget),
	}))
	return finish("main", ""), nil
}

// queryAffordability reports whether a proposed amount fits in what is
// left of this week's budget. Without a money fact it asks for the
// value instead of answering.
func (e *Engine) queryAffordability(ctx context.Context, t *turn) (directive, error) {
	if t.facts.Intent != intentQueryAffordability {
		return declined(), nil
	}
	if t.facts.Money == nil {
		t.say(e.catalog.Any("affordability_prompt", nil))
		return finish("main", ""), nil
	}
	total, err := t.weekTotal(ctx)
	if err != nil {
		return declined(), err
	}
	left := t.convo.Budget - total - t.facts.Money.Value
	if left >= 0 {
		t.say(e.catalog.Any("affordability_yes", vars{"left": formatAmount(left)}))
	} else {
		t.say(e.catalog.Any("affordability_no", vars{"over": formatAmount(-left)}))
	}
	return finish("main", ""), nil
}

// addExpenseIntent opens the slot-filling flow: the slots are reset
// exactly once here, and the flow is only announced when the turn
// carried no slot-relevant facts at all.
func (e *Engine) addExpenseIntent(_ context.Context, t *turn) (directive, error) {
	if t.facts.Intent != intentAddExpense {
		return declined(), nil
	}
	t.convo.ClearExpenseSlots()
	f := t.facts
	if f.Item == "" && f.Money == nil && f.Moment == nil && f.Interval == nil {
		t.say(e.catalog.Any("expense_flow_start", nil))
	}
	return chain("add_expense", ""), nil
}

func (e *Engine) querySummary(ctx context.Context, t *turn) (directive, error) {
	if t.facts.Intent != intentQuerySummary {
		return declined(), nil
	}
	if t.query == nil {
		return declined(), errors.New("no expense query bound to session")
	}

	from, to := reportingWindow(t.facts, t.now)
	expenses, err := t.query(ctx, from, to)
	if err != nil {
		return declined(), fmt.Errorf("query expenses: %w", err)
	}

	if len(expenses) == 0 {
		t.say(e.catalog.Any("summary_empty", nil))
		return finish("main", ""), nil
	}

	lines := make([]string, 0, len(expenses))
	var total float64
	for _, expense := range expenses {
		lines = append(lines, e.catalog.Any("summary_line", vars{
			"date":  expense.IncurredOn.Format("Mon, Jan 2"),
			"item":  expense.Item,
			"value": formatAmount(expense.Value),
		}))
		total += expense.Value
	}
	t.say(strings.Join(lines, "\n"))
	t.say(e.catalog.Any("summary_total", vars{"total": formatAmount(total)}))
	return finish("main", ""), nil
}

// confused is the catch-all tail of main. It only fires when no reply
// has been produced yet this turn, so an epsilon arrival that already
// greeted the user falls through to a quiet no-op.
func (e *Engine) confused(_ context.Context, t *turn) (directive, error) {
	if len(t.messages) > 0 {
		return declined(), nil
	}
	switch {
	case t.facts.Thanks:
		t.say(e.catalog.Any("thanks", nil))
	case t.facts.Greetings:
		t.say(e.catalog.Any("greetings", nil))
	case t.facts.Bye:
		if t.convo.UserName != "" {
			t.say(e.catalog.Any("bye_personal", vars{"name": t.convo.UserName}))
		} else {
			t.say(e.catalog.Any("bye", nil))
		}
	default:
		t.say(e.catalog.Any("confused", nil))
	}
	return finish("main", ""), nil
}

// confirmDeletion resolves the account-deletion confirmation. A stale
// confirmation (past the window) silently aborts back to main.
func (e *Engine) confirmDeletion(_ context.Context, t *turn) (directive, error) {
	if t.now.Sub(t.convo.LastMessageOn) > confirmationWindow {
		return finish("main", "timeout"), nil
	}
	switch t.facts.Sentiment {
	case domain.SentimentPositive:
		t.convo.IsActive = false
		t.say(e.catalog.Any("account_deleted", nil))
		return finish("main", "account_deleted"), nil
	case domain.SentimentNegative:
		t.say(e.catalog.Any("delete_cancelled", nil))
		return finish("main", "cancelled"), nil
	default:
		t.say(e.catalog.Any("confused", nil))
		return declined(), nil
	}
}

// setBudget requires a money fact; without one it re-prompts and stays.
func (e *Engine) setBudget(_ context.Context, t *turn) (directive, error) {
	if t.facts.Money == nil {
		t.say(e.catalog.Any("budget_prompt", nil))
		return declined(), nil
	}
	t.convo.Budget = t.facts.Money.Value
	t.say(e.catalog.Any("budget_set", vars{"budget": formatAmount(t.convo.Budget)}))
	return finish("main", "budget_set"), nil
}

// weekTotal sums this week's expenses through the bound ledger query.
func (t *turn) weekTotal(ctx context.Context) (float64, error) {
	if t.query == nil {
		return 0, errors.New("no expense query bound to session")
	}
	from, to := weekBounds(t.now)
	expenses, err := t.query(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("query expenses: %w", err)
	}
	var total float64
	for _, expense := range expenses {
		total += expense.Value
	}
	return total, nil
}
