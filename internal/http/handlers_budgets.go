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

type budgetRequest struct {
	LimitAmount string `json:"limit_amount"`
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	budgets := s.tracker.Budgets()
	rows := make([]backend.BudgetRow, 0, len(budgets))
	for _, b := range budgets {
		rows = append(rows, backend.BudgetToRow(b))
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleBudgetByCategory upserts the one budget row for the category in the
// path. A zero limit clears the budget without deleting the row.
func (s *Server) handleBudgetByCategory(w http.ResponseWriter, r *http.Request) {
	category := pathID(r.URL.Path, "/api/budgets/")
	if category == "" {
		writeError(w, http.StatusBadRequest, "missing budget category")
		return
	}

	if r.Method != http.MethodPut {
		w.Header().Set("Allow", "PUT")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := parseAmount(req.LimitAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b := core.Budget{Category: core.Category(category), Limit: core.Money{Cents: cents}}
	if err := b.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.tracker.SetBudget(r.Context(), b); err != nil {
		slog.ErrorContext(r.Context(), "Budget upsert failed", "error", err, "category", category)
		writeError(w, statusForError(err), err.Error())
		return
	}

	s.invalidateDerived()
	writeJSON(w, http.StatusOK, backend.BudgetToRow(b))
}

type categoryBudgetResponse struct {
	Category    string  `json:"category"`
	Spent       int64   `json:"spent"`
	LimitAmount int64   `json:"limit_amount"`
	Percent     float64 `json:"percent"`
	Status      string  `json:"status"`
}

type budgetReportResponse struct {
	Year           int                      `json:"year"`
	Month          int                      `json:"month"`
	Categories     []categoryBudgetResponse `json:"categories"`
	TotalAllocated int64                    `json:"total_allocated"`
	TotalSpent     int64                    `json:"total_spent"`
	Percent        float64                  `json:"percent"`
	TotalSpentText string                   `json:"total_spent_display"`
}

func reportCacheKey(year, month int) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(month)
}

func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	now := time.Now()
	key := reportCacheKey(now.Year(), int(now.Month()))

	overview, found := s.reportCache.Get(key)
	if !found {
		overview = s.tracker.BudgetReport(now)
		s.reportCache.Set(key, overview)
	} else {
		slog.DebugContext(r.Context(), "Budget report cache hit", "key", key)
	}

	resp := budgetReportResponse{
		Year:           overview.Year,
		Month:          overview.Month,
		Categories:     make([]categoryBudgetResponse, 0, len(overview.Categories)),
		TotalAllocated: overview.TotalAllocated.Cents,
		TotalSpent:     overview.TotalSpent.Cents,
		Percent:        overview.Percent,
		TotalSpentText: formatRupiah(overview.TotalSpent.Cents),
	}
	for _, cb := range overview.Categories {
		resp.Categories = append(resp.Categories, categoryBudgetResponse{
			Category:    string(cb.Category),
			Spent:       cb.Spent.Cents,
			LimitAmount: cb.Limit.Cents,
			Percent:     cb.Percent,
			Status:      string(cb.Status),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
