package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/mintaka-labs/pennywise/pkg/adapters/http"
	"github.com/mintaka-labs/pennywise/pkg/adapters/memory"
	"github.com/mintaka-labs/pennywise/pkg/domain"
	"github.com/mintaka-labs/pennywise/pkg/runner"
	"github.com/mintaka-labs/pennywise/pkg/session"
)

// scriptedBot replies with a fixed result, or fails with err.
type scriptedBot struct {
	result *domain.Result
	err    error
}

func (b *scriptedBot) Process(_ context.Context, s domain.Session) (*domain.Result, error) {
	if b.err != nil {
		return nil, b.err
	}
	convo := s.Context
	convo.State = "main"
	convo.MessageCounter++

	res := *b.result
	res.Context = convo
	return &res, nil
}

func newTestServer(t *testing.T, bot runner.Bot) (http.Handler, *runner.Runner) {
	t.Helper()
	r := runner.New(bot, session.NewManager(memory.NewStore()), memory.NewLedger())
	return httpadapter.NewHandler(r, nil), r
}

func postMessage(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/messages", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleMessage(t *testing.T) {
	bot := &scriptedBot{result: &domain.Result{
		TurnID:   "turn-1",
		Messages: []string{"hello"},
	}}
	handler, _ := newTestServer(t, bot)

	t.Run("processes a turn", func(t *testing.T) {
		rec := postMessage(t, handler, `{"user_id": "u1", "user_name": "Ana", "text": "hi"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp httpadapter.MessageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "turn-1", resp.TurnID)
		assert.Equal(t, []string{"hello"}, resp.Messages)
		assert.Equal(t, "main", resp.Context.State)
	})

	t.Run("requires user_id", func(t *testing.T) {
		rec := postMessage(t, handler, `{"text": "hi"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires text", func(t *testing.T) {
		rec := postMessage(t, handler, `{"user_id": "u1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		rec := postMessage(t, handler, `{broken`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleMessage_InactiveContext(t *testing.T) {
	bot := &scriptedBot{result: &domain.Result{}}
	handler, r := newTestServer(t, bot)

	convo := domain.NewContext("Ana")
	convo.IsActive = false
	require.NoError(t, r.Sessions().Save(context.Background(), "u1", convo))

	rec := postMessage(t, handler, `{"user_id": "u1", "text": "hi"}`)
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestHandleMessage_UpstreamFailure(t *testing.T) {
	handler, _ := newTestServer(t, &scriptedBot{err: fmt.Errorf("nlu down")})

	rec := postMessage(t, handler, `{"user_id": "u1", "text": "hi"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleContexts(t *testing.T) {
	bot := &scriptedBot{result: &domain.Result{Messages: []string{"hello"}}}
	handler, r := newTestServer(t, bot)
	ctx := context.Background()

	t.Run("get missing context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/contexts/nobody", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("get stored context", func(t *testing.T) {
		convo := domain.NewContext("Ana")
		convo.State = "main"
		require.NoError(t, r.Sessions().Save(ctx, "u1", convo))

		req := httptest.NewRequest(http.MethodGet, "/v1/contexts/u1", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var got domain.Context
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "main", got.State)
		assert.Equal(t, "Ana", got.UserName)
	})

	t.Run("delete context", func(t *testing.T) {
		require.NoError(t, r.Sessions().Save(ctx, "u2", domain.NewContext("")))

		req := httptest.NewRequest(http.MethodDelete, "/v1/contexts/u2", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err := r.Sessions().Load(ctx, "u2")
		assert.ErrorIs(t, err, domain.ErrContextNotFound)
	})
}

func TestHandleListExpenses(t *testing.T) {
	bot := &scriptedBot{result: &domain.Result{}}
	handler, r := newTestServer(t, bot)
	ctx := context.Background()

	incurred := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.Ledger().AddExpense(ctx, "u1", domain.Expense{Item: "coffee", Value: 5, IncurredOn: incurred}))

	t.Run("explicit window", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/v1/expenses/u1?from=2026-08-24T00:00:00Z&to=2026-08-26T00:00:00Z", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp httpadapter.ExpensesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Expenses, 1)
		assert.Equal(t, "coffee", resp.Expenses[0].Item)
	})

	t.Run("empty result is a JSON array", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/v1/expenses/nobody?from=2026-08-24T00:00:00Z&to=2026-08-26T00:00:00Z", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"expenses":[]`)
	})

	t.Run("invalid window", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/expenses/u1?from=yesterday", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealthz(t *testing.T) {
	handler, _ := newTestServer(t, &scriptedBot{result: &domain.Result{}})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
