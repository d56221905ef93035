package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"finzen/internal/coach"
	"finzen/internal/core"
	"finzen/internal/dashboard"
	"finzen/internal/ledger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	w.WriteHeader(http.StatusMethodNotAllowed)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req struct {
		Name          string `json:"name"`
		MonthlyIncome string `json:"monthlyIncome"`
		Goal          string `json:"goal"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	cents, err := core.ParseNonNegativeCents(strings.TrimSpace(req.MonthlyIncome))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid monthly income")
		return
	}

	p, err := s.ledger.CreateProfile(r.Context(), sanitizeInput(req.Name), cents, core.Goal(req.Goal))
	if err != nil {
		slog.WarnContext(r.Context(), "Profile creation rejected", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dashboard.Build(p))
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req struct {
		Description string `json:"description"`
		Amount      string `json:"amount"`
		Type        string `json:"type"`
		Category    string `json:"category"`
		IsGig       bool   `json:"isGig"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	_, err = s.ledger.AddTransaction(r.Context(),
		sanitizeInput(req.Description), cents,
		core.TransactionType(req.Type), sanitizeInput(req.Category), req.IsGig)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no profile")
			return
		}
		slog.WarnContext(r.Context(), "Transaction rejected", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	p, err := s.ledger.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Load after add failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, dashboard.Build(p))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, "PUT")
		return
	}

	var req struct {
		Goal string `json:"goal"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	p, err := s.ledger.UpdateGoal(r.Context(), core.Goal(req.Goal))
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no profile")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dashboard.Build(p))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	p, err := s.ledger.Load(r.Context())
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no profile")
			return
		}
		slog.ErrorContext(r.Context(), "Dashboard load failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, dashboard.Build(p))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	if err := s.ledger.Reset(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Reset failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		theme, err := s.themes.LoadTheme(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Theme load failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
	case http.MethodPut:
		var req struct {
			Theme string `json:"theme"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		if req.Theme != "light" && req.Theme != "dark" {
			writeError(w, http.StatusUnprocessableEntity, "theme must be light or dark")
			return
		}
		if err := s.themes.SaveTheme(r.Context(), req.Theme); err != nil {
			slog.ErrorContext(r.Context(), "Theme save failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusUnprocessableEntity, "empty message")
		return
	}

	p, err := s.ledger.Load(r.Context())
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no profile")
			return
		}
		slog.ErrorContext(r.Context(), "Chat profile load failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	reply, err := s.coach.Chat(r.Context(), req.Message, p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Coach relay failed", "error", err)
		// The client renders the fallback as a normal coach message.
		writeJSON(w, http.StatusInternalServerError, map[string]string{"reply": coach.FallbackReply})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) handleTip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	p, err := s.ledger.Load(r.Context())
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no profile")
			return
		}
		slog.ErrorContext(r.Context(), "Tip profile load failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	tip, err := s.coach.DailyTip(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Daily tip failed", "error", err)
		writeError(w, http.StatusBadGateway, "tip unavailable")
		return
	}

	writeJSON(w, http.StatusOK, tip)
}
