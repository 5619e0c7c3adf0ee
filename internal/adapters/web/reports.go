package web

import (
	"net/http"
	"time"
)

// statsPeriod parses the required from/to query parameters.
func statsPeriod(w http.ResponseWriter, r *http.Request) (from, to time.Time, ok bool) {
	q := r.URL.Query()
	from, err := time.Parse(time.RFC3339, q.Get("from"))
	if err != nil {
		writeError(w, r, "from must be RFC 3339", "BAD_REQUEST", http.StatusBadRequest)
		return from, to, false
	}
	to, err = time.Parse(time.RFC3339, q.Get("to"))
	if err != nil {
		writeError(w, r, "to must be RFC 3339", "BAD_REQUEST", http.StatusBadRequest)
		return from, to, false
	}
	return from, to, true
}

// salesStats handles GET /api/stats/sales?from=...&to=...
func (h *Handler) salesStats(w http.ResponseWriter, r *http.Request) {
	from, to, ok := statsPeriod(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.GetSalesStats(r.Context(), from, to)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, stats)
}

// salesCount handles GET /api/stats/sales-count.
func (h *Handler) salesCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.GetSalesCount(r.Context())
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, map[string]int{"count": count})
}

// expenseStats handles GET /api/stats/expenses?from=...&to=...
func (h *Handler) expenseStats(w http.ResponseWriter, r *http.Request) {
	from, to, ok := statsPeriod(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.GetExpenseStats(r.Context(), from, to)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, stats)
}
