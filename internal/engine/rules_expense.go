package engine

import (
	"context"

	"github.com/mintaka-labs/pennywise/pkg/domain"
)

// addExpense fills any unfilled slot from this turn's facts, then
// either chains into the specify state for the first missing slot or,
// with all three present, emits the add_expense action and returns to
// main. Money never overwrites an already-filled value; the moment slot
// falls back to an interval's start when no explicit moment was given.
func (e *Engine) addExpense(ctx context.Context, t *turn) (directive, error) {
	c, f := t.convo, t.facts

	if f.Item != "" {
		item := f.Item
		c.CurrentExpenseItem = &item
	}
	if f.Money != nil && c.CurrentExpenseValue == nil {
		value := f.Money.Value
		c.CurrentExpenseValue = &value
	}
	if c.CurrentExpenseIncurredOn == nil {
		switch {
		case f.Moment != nil:
			on := f.Moment.Value
			c.CurrentExpenseIncurredOn = &on
		case f.Interval != nil:
			on := f.Interval.From
			c.CurrentExpenseIncurredOn = &on
		}
	}

	switch {
	case c.CurrentExpenseItem == nil:
		return chain("specify_expense_item", ""), nil
	case c.CurrentExpenseIncurredOn == nil:
		return chain("specify_expense_moment", ""), nil
	case c.CurrentExpenseValue == nil:
		return chain("specify_expense_value", ""), nil
	}

	expense := domain.Expense{
		Item:       *c.CurrentExpenseItem,
		Value:      *c.CurrentExpenseValue,
		IncurredOn: *c.CurrentExpenseIncurredOn,
	}
	e.emitAction(ctx, t, domain.Action{Type: domain.ActionAddExpense, Expense: &expense})
	t.say(e.catalog.Any("expense_added", vars{
		"item":  expense.Item,
		"value": formatAmount(expense.Value),
	}))
	return finish("main", "expense_added"), nil
}

func (e *Engine) specifyExpenseItem(_ context.Context, t *turn) (directive, error) {
	if t.facts.Item == "" {
		t.say(e.catalog.Any("expense_item_prompt", nil))
		return declined(), nil
	}
	item := t.facts.Item
	t.convo.CurrentExpenseItem = &item
	return chain("add_expense", "item_specified"), nil
}

func (e *Engine) specifyExpenseMoment(_ context.Context, t *turn) (directive, error) {
	f := t.facts
	if f.Moment == nil && f.Interval == nil {
		t.say(e.catalog.Any("expense_moment_prompt", nil))
		return declined(), nil
	}
	var on domain.Moment
	if f.Moment != nil {
		on = *f.Moment
	} else {
		on = domain.Moment{Grain: f.Interval.Grain, Value: f.Interval.From}
	}
	t.convo.CurrentExpenseIncurredOn = &on.Value
	return chain("add_expense", "moment_specified"), nil
}

func (e *Engine) specifyExpenseValue(_ context.Context, t *turn) (directive, error) {
	if t.facts.Money == nil {
		t.say(e.catalog.Any("expense_value_prompt", nil))
		return declined(), nil
	}
	value := t.facts.Money.Value
	t.convo.CurrentExpenseValue = &value
	return chain("add_expense", "value_specified"), nil
}
