package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"duwit/internal/backend"
	"duwit/internal/core"
)

type transactionRequest struct {
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
	AccountID   string `json:"account_id"`
}

func (r transactionRequest) transaction() (core.Transaction, error) {
	cents, err := core.ParseAmountToCents(r.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := parseDate(r.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Amount:      core.Money{Cents: cents},
		Type:        core.TransactionType(r.Type),
		Category:    core.Category(r.Category),
		Description: sanitizeInput(r.Description),
		Date:        date,
		AccountID:   r.AccountID,
	}, nil
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		transactions := s.tracker.Transactions()

		// Optional month scoping for charts, newest-first limit for the
		// recent list. Year and month only work as a pair.
		q := r.URL.Query()
		if q.Get("year") != "" || q.Get("month") != "" {
			year, errY := strconv.Atoi(q.Get("year"))
			month, errM := strconv.Atoi(q.Get("month"))
			if errY != nil || errM != nil || month < 1 || month > 12 {
				writeError(w, http.StatusBadRequest, "year and month must be given together, month 1-12")
				return
			}
			ref := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
			filtered := transactions[:0]
			for _, t := range transactions {
				if t.Date.SameMonth(ref) {
					filtered = append(filtered, t)
				}
			}
			transactions = filtered
		}
		if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit >= 0 && limit < len(transactions) {
			transactions = transactions[:limit]
		}

		rows := make([]backend.TransactionRow, 0, len(transactions))
		for _, t := range transactions {
			rows = append(rows, backend.TransactionToRow(t))
		}
		writeJSON(w, http.StatusOK, rows)

	case http.MethodPost:
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		t, err := req.transaction()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := t.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		stored, err := s.tracker.AddTransaction(r.Context(), t)
		if err != nil {
			slog.ErrorContext(r.Context(), "Transaction create failed", "error", err)
			writeError(w, statusForError(err), err.Error())
			return
		}

		s.invalidateDerived()
		writeJSON(w, http.StatusCreated, backend.TransactionToRow(stored))

	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/transactions/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.tracker.DeleteTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Transaction delete failed", "error", err, "id", id)
		writeError(w, statusForError(err), err.Error())
		return
	}

	s.invalidateDerived()
	w.WriteHeader(http.StatusNoContent)
}
