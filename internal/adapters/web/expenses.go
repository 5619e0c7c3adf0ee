package web

import (
	"net/http"
	"time"

	"sales-ledger/internal/app"

	"github.com/shopspring/decimal"
)

// createExpense handles POST /api/expenses.
// Body: { description, amount, date? }
func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Description string `json:"description"`
		Amount      string `json:"amount"`
		Date        string `json:"date"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		writeError(w, r, "invalid amount", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	req := app.ExpenseRequest{Description: body.Description, Amount: amount}
	if body.Date != "" {
		d, err := time.Parse(time.RFC3339, body.Date)
		if err != nil {
			writeError(w, r, "date must be RFC 3339", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		req.Date = d
	}
	result, err := h.svc.CreateExpense(r.Context(), req)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result.Expense)
}

// deleteExpense handles DELETE /api/expenses/{id}.
func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteExpense(r.Context(), id); err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

// listExpenses handles GET /api/expenses. Query: skip, take, from, to.
func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := app.ListExpensesRequest{}
	req.Skip, req.Take = pageParams(r)

	if from, to := q.Get("from"), q.Get("to"); from != "" && to != "" {
		f, err := time.Parse(time.RFC3339, from)
		if err != nil {
			writeError(w, r, "from must be RFC 3339", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			writeError(w, r, "to must be RFC 3339", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		req.From, req.To = &f, &t
	}

	result, err := h.svc.ListExpenses(r.Context(), req)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result)
}
