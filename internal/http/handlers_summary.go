package http

import (
	"log/slog"
	"net/http"
)

const summaryCacheKey = "summary"

type categoryAmountResponse struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

type summaryResponse struct {
	TotalIncome       int64                    `json:"total_income"`
	TotalExpense      int64                    `json:"total_expense"`
	TotalBalance      int64                    `json:"total_balance"`
	TotalBalanceText  string                   `json:"total_balance_display"`
	AccountBalances   map[string]int64         `json:"account_balances"`
	ExpenseByCategory []categoryAmountResponse `json:"expense_by_category"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	summary, found := s.summaryCache.Get(summaryCacheKey)
	if !found {
		summary = s.tracker.Summary()
		s.summaryCache.Set(summaryCacheKey, summary)
	} else {
		slog.DebugContext(r.Context(), "Summary cache hit")
	}

	resp := summaryResponse{
		TotalIncome:      summary.TotalIncome.Cents,
		TotalExpense:     summary.TotalExpense.Cents,
		TotalBalance:     summary.TotalBalance.Cents,
		TotalBalanceText: formatRupiah(summary.TotalBalance.Cents),
		AccountBalances:  make(map[string]int64, len(summary.AccountBalances)),
	}
	for id, b := range summary.AccountBalances {
		resp.AccountBalances[id] = b.Cents
	}
	for _, ca := range s.tracker.ExpenseBreakdown() {
		resp.ExpenseByCategory = append(resp.ExpenseByCategory, categoryAmountResponse{
			Category: string(ca.Category),
			Amount:   ca.Amount.Cents,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
