package engine_test

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintaka-labs/pennywise/internal/engine"
	"github.com/mintaka-labs/pennywise/pkg/domain"
	"github.com/mintaka-labs/pennywise/pkg/nlu"
)

// echoCatalog renders every message as its key, with any vars appended
// in sorted order, so tests assert on structure instead of prose.
type echoCatalog struct{}

func (echoCatalog) Any(key string, vars map[string]string) string {
	if len(vars) == 0 {
		return key
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+vars[k])
	}
	return key + "[" + strings.Join(parts, " ") + "]"
}

func (c echoCatalog) Get(key string, index int, fallback string) string {
	if index < 0 || index >= c.Count(key) {
		return fallback
	}
	return fmt.Sprintf("%s#%d", key, index)
}

func (echoCatalog) Count(key string) int {
	if key == "joke" {
		return 3
	}
	return 1
}

// stubNLU returns a canned payload and records which endpoint was used.
type stubNLU struct {
	payload *nlu.Payload
	err     error
	calls   []string
}

func (s *stubNLU) Message(_ context.Context, _ string) (*nlu.Payload, error) {
	s.calls = append(s.calls, "message")
	return s.payload, s.err
}

func (s *stubNLU) Speech(_ context.Context, _ io.Reader, _ string) (*nlu.Payload, error) {
	s.calls = append(s.calls, "speech")
	return s.payload, s.err
}

var testNow = time.Date(2026, time.August, 26, 15, 0, 0, 0, time.UTC) // a Wednesday

func newEngine(payload *nlu.Payload, opts ...engine.Option) (*engine.Engine, *stubNLU) {
	stub := &stubNLU{payload: payload}
	opts = append([]engine.Option{engine.WithClock(func() time.Time { return testNow })}, opts...)
	return engine.New(stub, echoCatalog{}, opts...), stub
}

func newSession(convo *domain.Context, query domain.ExpenseQuery) domain.Session {
	return domain.Session{
		UserID:        "u1",
		Text:          "whatever the user said",
		Timestamp:     testNow,
		Context:       *convo,
		QueryExpenses: query,
	}
}

func intentPayload(name string) *nlu.Payload {
	return &nlu.Payload{Intents: []nlu.Intent{{Name: name, Confidence: 0.9}}}
}

func noExpenses(_ context.Context, _, _ time.Time) ([]domain.Expense, error) {
	return nil, nil
}

func TestProcess_FirstInteraction(t *testing.T) {
	eng, _ := newEngine(&nlu.Payload{
		Traits: map[string]nlu.TraitGroup{
			nlu.TraitGreetings: {{Value: "true", Confidence: 0.98}},
		},
	})
	convo := domain.NewContext("Ana")

	result, err := eng.Process(context.Background(), newSession(convo, noExpenses))
	require.NoError(t, err)

	assert.Equal(t, []string{"greetings_personal[name=Ana]", "welcome"}, result.Messages)
	assert.Equal(t, "main", result.Context.State)
	assert.Equal(t, 1, result.Context.MessageCounter)
	assert.Equal(t, testNow, result.Context.LastGreetingOn)
	assert.Equal(t, testNow, result.Context.LastMessageOn)
	assert.NotEmpty(t, result.TurnID)

	// The caller's copy stays untouched.
	assert.Equal(t, domain.StateInit, convo.State)
	assert.Zero(t, convo.MessageCounter)
}

func TestProcess_FirstInteraction_NoName(t *testing.T) {
	eng, _ := newEngine(&nlu.Payload{})
	convo := domain.NewContext("")

	result, err := eng.Process(context.Background(), newSession(convo, noExpenses))
	require.NoError(t, err)
	assert.Equal(t, []string{"greetings", "welcome"}, result.Messages)
}

func TestProcess_UnknownStateFallsBackToInitRules(t *testing.T) {
	eng, _ := newEngine(&nlu.Payload{})
	convo := domain.NewContext("")
	convo.State = "from_an_older_release"

	result, err := eng.Process(context.Background(), newSession(convo, noExpenses))
	require.NoError(t, err)
	assert.Equal(t, []string{"greetings", "welcome"}, result.Messages)
	assert.Equal(t, "main", result.Context.State)
}

func TestProcess_NoInput(t *testing.T) {
	eng, _ := newEngine(&nlu.Payload{})
	session := newSession(domain.NewContext(""), noExpenses)
	session.Text = ""

	_, err := eng.Process(context.Background(), session)
	assert.ErrorIs(t, err, domain.ErrNoInput)
}

func TestProcess_TextWinsOverVoice(t *testing.T) {
	eng, stub := newEngine(&nlu.Payload{})
	session := newSession(domain.NewContext(""), noExpenses)
	session.Voice = &domain.VoiceInput{Audio: []byte("pcm"), ContentType: "audio/wav"}

	_, err := eng.Process(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, []string{"message"}, stub.calls)
}

func TestProcess_VoiceOnly(t *testing.T) {
	eng, stub := newEngine(&nlu.Payload{})
	session := newSession(domain.NewContext(""), noExpenses)
	session.Text = ""
	session.Voice = &domain.VoiceInput{Audio: []byte("pcm"), ContentType: "audio/wav"}

	_, err := eng.Process(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, []string{"speech"}, stub.calls)
}

func TestProcess_NLUFailurePropagates(t *testing.T) {
	stub := &stubNLU{err: fmt.Errorf("upstream down")}
	eng := engine.New(stub, echoCatalog{})

	_, err := eng.Process(context.Background(), newSession(domain.NewContext(""), noExpenses))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

func mainContext(name string) *domain.Context {
	convo := domain.NewContext(name)
	convo.State = "main"
	convo.LastMessageOn = testNow.Add(-30 * time.Second)
	convo.MessageCounter = 3
	return convo
}

func TestProcess_SimpleIntents(t *testing.T) {
	cases := []struct {
		intent  string
		message string
	}{
		{"request_help", "help"},
		{"who_are_you", "who_are_you"},
		{"are_you_bot", "are_you_bot"},
	}
	for _, tc := range cases {
		t.Run(tc.intent, func(t *testing.T) {
			eng, _ := newEngine(intentPayload(tc.intent))

			result, err := eng.Process(context.Background(), newSession(mainContext(""), noExpenses))
			require.NoError(t, err)
			assert.Equal(t, []string{tc.message}, result.Messages)
			assert.Equal(t, "main", result.Context.State)
		})
	}
}

func TestProcess_JokesSaturate(t *testing.T) {
	eng, _ := newEngine(intentPayload("tell_joke"))
	convo := mainContext("")

	for i := range 3 {
		result, err := eng.Process(context.Background(), newSession(convo, noExpenses))
		require.NoError(t, err)
		require.Equal(t, []string{fmt.Sprintf("joke#%d", i)}, result.Messages)
		assert.Equal(t, testNow, result.Context.LastJokeOn)
		*convo = result.Context
	}

	// The well is dry; the counter stops moving.
	for range 2 {
		result, err := eng.Process(context.Background(), newSession(convo, noExpenses))
		require.NoError(t, err)
		assert.Equal(t, []string{"no_more_jokes"}, result.Messages)
		assert.Equal(t, 3, result.Context.JokeCounter)
		*convo = result.Context
	}
}

func TestProcess_SocialFallbacks(t *testing.T) {
	t.Run("thanks", func(t *testing.T) {
		eng, _ := newEngine(&nlu.Payload{
			Traits: map[string]nlu.TraitGroup{nlu.TraitThanks: {{Confidence: 0.9}}},
		})
		result, err := eng.Process(context.Background(), newSession(mainContext(""), noExpenses))
		require.NoError(t, err)
		assert.Equal(t, []string{"thanks"}, result.Messages)
	})

	t.Run("bye personalized", func(t *testing.T) {
		eng, _ := newEngine(&nlu.Payload{
			Traits: map[string]nlu.TraitGroup{nlu.TraitBye: {{Confidence: 0.9}}},
		})
		result, err := eng.Process(context.Background(), newSession(mainContext("Ana"), noExpenses))
		require.NoError(t, err)
		assert.Equal(t, []string{"bye_personal[name=Ana]"}, result.Messages)
	})

	t.Run("nothing recognized", func(t *testing.T) {
		eng, _ := newEngine(&nlu.Payload{})
		result, err := eng.Process(context.Background(), newSession(mainContext(""), noExpenses))
		require.NoError(t, err)
		assert.Equal(t, []string{"confused"}, result.Messages)
		assert.Equal(t, "main", result.Context.State)
	})
}

func TestProcess_SetBudget(t *testing.T) {
	t.Run("one turn with amount", func(t *testing.T) {
		payload := intentPayload("set_budget")
		payload.Entities = map[string][]nlu.Entity{
			"wit$amount_of_money:amount_of_money": {
				{Name: nlu.EntityAmount, Type: "value", Body: "$300", Value: float64(300)},
			},
		}
		eng, _ := newEngine(payload)

		result, err := eng.Process(context.Background(), newSession(mainContext(""), noExpenses))
		require.NoError(t, err)
		assert.Equal(t, []string{"budget_set[budget=300]"}, result.Messages)
		assert.Equal(t, 300.0, result.Context.Budget)
		assert.Equal(t, "main", result.Context.State)
	})

	t.Run("prompts and waits without amount", func(t *testing.T) {
		eng, _ := newEngine(intentPayload("set_budget"))

		result, err := eng.Process(context.Background(), newSession(mainContext(""), noExpenses))
		require.NoError(t, err)
		assert.Equal(t, []string{"budget_prompt"}, result.Messages)
		assert.Equal(t, "set_budget", result.Context.State)

		// Second turn supplies just the number.
		followup := &nlu.Payload{Entities: map[string][]nlu.Entity{
			"wit$number:number": {
				{Name: nlu.EntityNumber, Type: "value", Body: "250", Value: float64(250)},
			},
		}}
		eng2, _ := newEngine(followup)
		convo := result.Context

		result2, err := eng2.Process(context.Background(), newSession(&convo, noExpenses))
		require.NoError(t, err)
		assert.Equal(t, []string{"budget_set[budget=250]"}, result2.Messages)
		assert.Equal(t, 250.0, result2.Context.Budget)
		assert.Equal(t, "main", result2.Context.State)
	})
}

func TestProcess_QueryBudget(t *testing.T) {
	spent := func(_ context.Context, from, to time.Time) ([]domain.Expense, error) {
		// The query window is the current Monday-start week.
		assert.Equal(t, time.Monday, from.Weekday())
		assert.Equal(t, 7*24*time.Hour, to.Sub(from))
		return []domain.Expense{
			{Item: "coffee", Value: 20, IncurredOn: testNow.Add(-24 * time.Hour)},
			{Item: "lunch", Value: 100, IncurredOn: testNow},
		}, nil
	}
	eng, _ := newEngine(intentPayload("query_budget"))

	result, err := eng.Process(context.Background(), newSession(mainContext(""), spent))
	require.NoError(t, err)
	assert.Equal(t, []string{"budget_report[balance=380 budget=500]"}, result.Messages)
}

func TestProcess_QueryAffordability(t *testing.T) {
	week := []domain.Expense{{Item: "groceries", Value: 450, IncurredOn: testNow}}
	query := func(_ context.Context, _, _ time.Time) ([]domain.Expense, error) {
		return week, nil
	}

	affordability := func(amount float64) *nlu.Payload {
		p := intentPayload("query_affordability")
		p.Entities = map[string][]nlu.Entity{
			"wit$amount_of_money:amount_of_money": {
				{Name: nlu.EntityAmount, Type: "value", Value: amount},
			},
		}
		return p
	}

	t.Run("affordable", func(t *testing.T) {
		eng, _ := newEngine(affordability(30))
		result, err := eng.Process(context.Background(), newSession(mainContext(""), query))
		require.NoError(t, err)
		assert.Equal(t, []string{"affordability_yes[left=20]"}, result.Messages)
	})

	t.Run("over budget", func(t *testing.T) {
		eng, _ := newEngine(affordability(80))
		result, err := eng.Process(context.Background(), newSession(mainContext(""), query))
		require.NoError(t, err)
		assert.Equal(t, []string{"affordability_no[over=30]"}, result.Messages)
	})

	t.Run("no amount prompts", func(t *testing.T) {
		eng, _ := newEngine(intentPayload("query_affordability"))
		result, err := eng.Process(context.Background(), newSession(mainContext(""), query))
		require.NoError(t, err)
		assert.Equal(t, []string{"affordability_prompt"}, result.Messages)
		assert.Equal(t, "main", result.Context.State)
	})
}

func TestProcess_DeleteAccount(t *testing.T) {
	confirmState := func() *domain.Context {
		convo := mainContext("")
		convo.State = "delete_account"
		return convo
	}

	t.Run("asks for confirmation", func(t *testing.T) {
		eng, _ := newEngine(intentPayload("delete_account"))
		result, err := eng.Process(context.Background(), newSession(mainContext(""), noExpenses))
		require.NoError(t, err)
		assert.Equal(t, []string{"delete_account_confirm"}, result.Messages)
		assert.Equal(t, "delete_account", result.Context.State)
		assert.True(t, result.Context.IsActive)
	})

	t.Run("positive sentiment deactivates", func(t *testing.T) {
		eng, _ := newEngine(&nlu.Payload{
			Traits: map[string]nlu.TraitGroup{
				nlu.TraitSentiment: {{Value: domain.SentimentPositive, Confidence: 0.9}},
			},
		})
		result, err := eng.Process(context.Background(), newSession(confirmState(), noExpenses))
		require.NoError(t, err)
		assert.Equal(t, []string{"account_deleted"}, result.Messages)
		assert.False(t, result.Context.IsActive)
		assert.Equal(t, "main", result.Context.State)
	})

	t.Run("negative sentiment cancels", func(t *testing.T) {
		eng, _ := newEngine(&nlu.Payload{
			Traits: map[string]nlu.TraitGroup{
				nlu.TraitSentiment: {{Value: domain.SentimentNegative, Confidence: 0.9}},
			},
		})
		result, err := eng.Process(context.Background(), newSession(confirmState(), noExpenses))
		require.NoError(t, err)
		assert.Equal(t, []string{"delete_cancelled"}, result.Messages)
		assert.True(t, result.Context.IsActive)
		assert.Equal(t, "main", result.Context.State)
	})

	t.Run("neutral reply re-prompts and waits", func(t *testing.T) {
		eng, _ := newEngine(&nlu.Payload{})
		result, err := eng.Process(context.Background(), newSession(confirmState(), noExpenses))
		require.NoError(t, err)
		assert.Equal(t, []string{"confused"}, result.Messages)
		assert.Equal(t, "delete_account", result.Context.State)
		assert.True(t, result.Context.IsActive)
	})

	t.Run("stale confirmation aborts silently", func(t *testing.T) {
		convo := confirmState()
		convo.LastMessageOn = testNow.Add(-10 * time.Minute)
		eng, _ := newEngine(&nlu.Payload{
			Traits: map[string]nlu.TraitGroup{
				nlu.TraitSentiment: {{Value: domain.SentimentPositive, Confidence: 0.9}},
			},
		})
		result, err := eng.Process(context.Background(), newSession(convo, noExpenses))
		require.NoError(t, err)
		assert.Empty(t, result.Messages)
		assert.Equal(t, "main", result.Context.State)
		assert.True(t, result.Context.IsActive)
	})
}

func TestProcess_AddExpense_SingleTurn(t *testing.T) {
	incurred := "2026-08-25T00:00:00Z"
	payload := intentPayload("add_expense")
	payload.Entities = map[string][]nlu.Entity{
		"item:item": {
			{Name: nlu.EntityItem, Type: "value", Value: "coffee"},
		},
		"wit$amount_of_money:amount_of_money": {
			{Name: nlu.EntityAmount, Type: "value", Body: "$12", Value: float64(12)},
		},
		"wit$datetime:datetime": {
			{Name: nlu.EntityDatetime, Type: "value", Grain: "day", Value: incurred},
		},
	}
	eng, _ := newEngine(payload)
	convo := mainContext("")
	before := convo.Budget

	result, err := eng.Process(context.Background(), newSession(convo, noExpenses))
	require.NoError(t, err)

	require.Len(t, result.Actions, 1)
	action := result.Actions[0]
	assert.Equal(t, domain.ActionAddExpense, action.Type)
	require.NotNil(t, action.Expense)
	assert.Equal(t, "coffee", action.Expense.Item)
	assert.Equal(t, 12.0, action.Expense.Value)
	assert.Equal(t, 25, action.Expense.IncurredOn.Day())

	assert.Equal(t, []string{"expense_added[item=coffee value=12]"}, result.Messages)
	assert.Equal(t, "main", result.Context.State)
	assert.Equal(t, convo.MessageCounter+1, result.Context.MessageCounter)
	assert.Equal(t, before, result.Context.Budget)
}

func TestProcess_AddExpense_SlotFilling(t *testing.T) {
	ctx := context.Background()
	convo := mainContext("")

	// Turn 1: bare intent opens the flow and asks for the item.
	eng, _ := newEngine(intentPayload("add_expense"))
	result, err := eng.Process(ctx, newSession(convo, noExpenses))
	require.NoError(t, err)
	assert.Equal(t, []string{"expense_flow_start", "expense_item_prompt"}, result.Messages)
	assert.Equal(t, "specify_expense_item", result.Context.State)
	assert.Empty(t, result.Actions)
	*convo = result.Context

	// Turn 2: the item arrives; next missing slot is the moment.
	eng, _ = newEngine(&nlu.Payload{Entities: map[string][]nlu.Entity{
		"item:item": {{Name: nlu.EntityItem, Type: "value", Value: "books"}},
	}})
	result, err = eng.Process(ctx, newSession(convo, noExpenses))
	require.NoError(t, err)
	assert.Equal(t, []string{"expense_moment_prompt"}, result.Messages)
	assert.Equal(t, "specify_expense_moment", result.Context.State)
	*convo = result.Context

	// Turn 3: the moment arrives; the value is still missing.
	eng, _ = newEngine(&nlu.Payload{Entities: map[string][]nlu.Entity{
		"wit$datetime:datetime": {
			{Name: nlu.EntityDatetime, Type: "value", Grain: "day", Value: "2026-08-24T00:00:00Z"},
		},
	}})
	result, err = eng.Process(ctx, newSession(convo, noExpenses))
	require.NoError(t, err)
	assert.Equal(t, []string{"expense_value_prompt"}, result.Messages)
	assert.Equal(t, "specify_expense_value", result.Context.State)
	*convo = result.Context

	// Turn 4: the amount completes the expense.
	eng, _ = newEngine(&nlu.Payload{Entities: map[string][]nlu.Entity{
		"wit$amount_of_money:amount_of_money": {
			{Name: nlu.EntityAmount, Type: "value", Value: float64(37.5)},
		},
	}})
	result, err = eng.Process(ctx, newSession(convo, noExpenses))
	require.NoError(t, err)
	assert.Equal(t, []string{"expense_added[item=books value=37.50]"}, result.Messages)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, "books", result.Actions[0].Expense.Item)
	assert.Equal(t, 37.5, result.Actions[0].Expense.Value)
	assert.Equal(t, 24, result.Actions[0].Expense.IncurredOn.Day())
	assert.Equal(t, "main", result.Context.State)
}

func TestProcess_AddExpense_RestartClearsSlots(t *testing.T) {
	// Leftover slots from an abandoned flow must not leak into a new one.
	convo := mainContext("")
	stale := "old item"
	convo.CurrentExpenseItem = &stale

	eng, _ := newEngine(intentPayload("add_expense"))
	result, err := eng.Process(context.Background(), newSession(convo, noExpenses))
	require.NoError(t, err)
	assert.Equal(t, "specify_expense_item", result.Context.State)
	assert.Nil(t, result.Context.CurrentExpenseItem)
}

func TestProcess_Summary(t *testing.T) {
	t.Run("lists expenses and total", func(t *testing.T) {
		query := func(_ context.Context, _, _ time.Time) ([]domain.Expense, error) {
			return []domain.Expense{
				{Item: "coffee", Value: 5.5, IncurredOn: time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)},
				{Item: "lunch", Value: 14, IncurredOn: time.Date(2026, 8, 25, 13, 0, 0, 0, time.UTC)},
			}, nil
		}
		eng, _ := newEngine(intentPayload("query_summary"))
		result, err := eng.Process(context.Background(), newSession(mainContext(""), query))
		require.NoError(t, err)

		require.Len(t, result.Messages, 2)
		lines := strings.Split(result.Messages[0], "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "summary_line[date=Mon, Aug 24 item=coffee value=5.50]", lines[0])
		assert.Equal(t, "summary_line[date=Tue, Aug 25 item=lunch value=14]", lines[1])
		assert.Equal(t, "summary_total[total=19.50]", result.Messages[1])
	})

	t.Run("empty window", func(t *testing.T) {
		eng, _ := newEngine(intentPayload("query_summary"))
		result, err := eng.Process(context.Background(), newSession(mainContext(""), noExpenses))
		require.NoError(t, err)
		assert.Equal(t, []string{"summary_empty"}, result.Messages)
	})

	t.Run("explicit interval drives the window", func(t *testing.T) {
		payload := intentPayload("query_summary")
		payload.Entities = map[string][]nlu.Entity{
			"wit$datetime:datetime": {{
				Name: nlu.EntityDatetime,
				Type: "interval",
				From: &nlu.DatetimeBound{Value: "2026-07-01T00:00:00Z", Grain: "month"},
				To:   &nlu.DatetimeBound{Value: "2026-08-01T00:00:00Z", Grain: "month"},
			}},
		}
		var gotFrom, gotTo time.Time
		query := func(_ context.Context, from, to time.Time) ([]domain.Expense, error) {
			gotFrom, gotTo = from, to
			return nil, nil
		}
		eng, _ := newEngine(payload)
		_, err := eng.Process(context.Background(), newSession(mainContext(""), query))
		require.NoError(t, err)
		assert.Equal(t, time.July, gotFrom.Month())
		assert.Equal(t, time.August, gotTo.Month())
	})

	t.Run("moment expands to its grain", func(t *testing.T) {
		payload := intentPayload("query_summary")
		payload.Entities = map[string][]nlu.Entity{
			"wit$datetime:datetime": {{
				Name:  nlu.EntityDatetime,
				Type:  "value",
				Grain: "month",
				Value: "2026-07-15T00:00:00Z",
			}},
		}
		var gotFrom, gotTo time.Time
		query := func(_ context.Context, from, to time.Time) ([]domain.Expense, error) {
			gotFrom, gotTo = from, to
			return nil, nil
		}
		eng, _ := newEngine(payload)
		_, err := eng.Process(context.Background(), newSession(mainContext(""), query))
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), gotFrom)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), gotTo)
	})
}

func TestProcess_EpsilonHopBound(t *testing.T) {
	// A bare add_expense intent needs two hops (into add_expense, then
	// into the item prompt); a bound of one must trip the guard.
	eng, _ := newEngine(intentPayload("add_expense"), engine.WithMaxEpsilonHops(1))

	_, err := eng.Process(context.Background(), newSession(mainContext(""), noExpenses))
	assert.ErrorIs(t, err, domain.ErrEpsilonOverflow)
}

func TestProcess_LifecycleHooks(t *testing.T) {
	var events []string
	hooks := domain.LifecycleHooks{
		OnTurnStart:  func(_ context.Context, e *domain.TurnEvent) { events = append(events, "start:"+e.State) },
		OnRuleMatch:  func(_ context.Context, e *domain.RuleEvent) { events = append(events, "rule:"+e.Rule) },
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) { events = append(events, "move:"+e.To) },
		OnActionEmit: func(_ context.Context, e *domain.ActionEvent) { events = append(events, "action:"+e.ActionType) },
		OnTurnEnd:    func(_ context.Context, e *domain.TurnEvent) { events = append(events, "end:"+e.State) },
	}

	eng, _ := newEngine(intentPayload("request_help"), engine.WithLifecycleHooks(hooks))
	_, err := eng.Process(context.Background(), newSession(mainContext(""), noExpenses))
	require.NoError(t, err)

	assert.Equal(t, []string{"start:main", "rule:request_help", "move:main", "end:main"}, events)
}
