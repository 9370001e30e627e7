// Package http exposes the engine as a JSON API, in the shape described
// by api/openapi.yaml.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mintaka-labs/pennywise/internal/logging"
	"github.com/mintaka-labs/pennywise/pkg/domain"
	"github.com/mintaka-labs/pennywise/pkg/runner"
)

// MessageRequest is the body of POST /v1/messages.
type MessageRequest struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name,omitempty"`
	Text     string `json:"text"`
}

// MessageResponse is the result bundle of one processed turn.
type MessageResponse struct {
	TurnID   string          `json:"turn_id"`
	Messages []string        `json:"messages"`
	Actions  []domain.Action `json:"actions"`
	Context  domain.Context  `json:"context"`
}

// ExpensesResponse lists a user's expenses for a window.
type ExpensesResponse struct {
	Expenses []domain.Expense `json:"expenses"`
	From     time.Time        `json:"from"`
	To       time.Time        `json:"to"`
}

// Server handles the message API over a turn runner.
type Server struct {
	runner *runner.Runner
	logger *slog.Logger
}

// NewHandler creates the HTTP handler for the message API.
func NewHandler(r *runner.Runner, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{runner: r, logger: logger}

	mux := chi.NewRouter()
	mux.Get("/healthz", s.handleHealth)
	mux.Post("/v1/messages", s.handleMessage)
	mux.Get("/v1/contexts/{userID}", s.handleGetContext)
	mux.Delete("/v1/contexts/{userID}", s.handleDeleteContext)
	mux.Get("/v1/expenses/{userID}", s.handleListExpenses)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var body MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.UserID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if body.Text == "" {
		s.writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := s.runner.Turn(r.Context(), runner.Message{
		UserID:   body.UserID,
		UserName: body.UserName,
		Text:     body.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInactiveContext):
			s.writeError(w, http.StatusGone, "account is deactivated")
		case errors.Is(err, domain.ErrNoInput):
			s.writeError(w, http.StatusBadRequest, "no input")
		default:
			s.logger.Error("Turn failed", "user_id", body.UserID, "err", err)
			s.writeError(w, http.StatusBadGateway, "turn failed")
		}
		return
	}

	s.writeJSON(w, http.StatusOK, MessageResponse{
		TurnID:   result.TurnID,
		Messages: result.Messages,
		Actions:  result.Actions,
		Context:  result.Context,
	})
}

func (s *Server) handleGetContext(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	convo, err := s.runner.Sessions().Load(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrContextNotFound) {
			s.writeError(w, http.StatusNotFound, "context not found")
			return
		}
		s.logger.Error("Load context failed", "user_id", userID, "err", err)
		s.writeError(w, http.StatusInternalServerError, "load failed")
		return
	}
	s.writeJSON(w, http.StatusOK, convo)
}

func (s *Server) handleDeleteContext(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := s.runner.Sessions().Delete(r.Context(), userID); err != nil {
		s.logger.Error("Delete context failed", "user_id", userID, "err", err)
		s.writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListExpenses returns the user's expenses for an optional
// from/to window (RFC 3339); it defaults to the last 30 days.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid from")
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid to")
			return
		}
		to = parsed
	}

	expenses, err := s.runner.Ledger().QueryExpenses(r.Context(), userID, from, to)
	if err != nil {
		s.logger.Error("Query expenses failed", "user_id", userID, "err", err)
		s.writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}

	s.writeJSON(w, http.StatusOK, ExpensesResponse{Expenses: expenses, From: from, To: to})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Encode response failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
