package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"duwit/internal/core"
)

const dateLayout = "2006-01-02"

// validationErrs are the core errors that map to a 400 instead of a 502.
var validationErrs = []error{
	core.ErrInvalidAmount,
	core.ErrInvalidType,
	core.ErrInvalidAccountType,
	core.ErrInvalidCategory,
	core.ErrEmptyName,
	core.ErrEmptyAccountID,
	core.ErrInvalidDate,
}

// statusForError maps tracker errors to HTTP status codes: input problems are
// the caller's fault, everything else means the backend write failed.
func statusForError(err error) int {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return http.StatusBadRequest
		}
	}
	return http.StatusBadGateway
}

// parseAmount converts user-entered amount text to cents. An empty or "0"
// input yields zero, which only budget limits accept. The sign is kept:
// initial balances may be negative, budget limits fail validation on it.
func parseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	return core.ParseSignedAmountToCents(s)
}

// parseDate parses the day-precision effective date from the wire format.
// An empty input defaults to today, matching the entry form.
func parseDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		now := time.Now().UTC()
		return core.NewDate(now.Year(), int(now.Month()), now.Day()), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, core.ErrInvalidDate
	}
	return core.Date{Time: t}, nil
}
