package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"duwit/internal/backend"
	"duwit/internal/core"
)

type accountRequest struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	InitialBalance string `json:"initial_balance"`
}

func (r accountRequest) account() (core.Account, error) {
	cents, err := parseAmount(r.InitialBalance)
	if err != nil {
		return core.Account{}, err
	}
	return core.Account{
		Name:           sanitizeInput(r.Name),
		Type:           core.AccountType(r.Type),
		InitialBalance: core.Money{Cents: cents},
	}, nil
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		accounts := s.tracker.Accounts()
		rows := make([]backend.AccountRow, 0, len(accounts))
		for _, a := range accounts {
			rows = append(rows, backend.AccountToRow(a))
		}
		writeJSON(w, http.StatusOK, rows)

	case http.MethodPost:
		var req accountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		a, err := req.account()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		stored, err := s.tracker.AddAccount(r.Context(), a)
		if err != nil {
			slog.ErrorContext(r.Context(), "Account create failed", "error", err)
			writeError(w, statusForError(err), err.Error())
			return
		}

		s.invalidateDerived()
		writeJSON(w, http.StatusCreated, backend.AccountToRow(stored))

	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleAccountByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/accounts/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req accountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		a, err := req.account()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.ID = id
		if err := a.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := s.tracker.UpdateAccount(r.Context(), a); err != nil {
			slog.ErrorContext(r.Context(), "Account update failed", "error", err, "id", id)
			writeError(w, statusForError(err), err.Error())
			return
		}

		s.invalidateDerived()
		writeJSON(w, http.StatusOK, backend.AccountToRow(a))

	case http.MethodDelete:
		if err := s.tracker.DeleteAccount(r.Context(), id); err != nil {
			slog.ErrorContext(r.Context(), "Account delete failed", "error", err, "id", id)
			writeError(w, statusForError(err), err.Error())
			return
		}

		s.invalidateDerived()
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
