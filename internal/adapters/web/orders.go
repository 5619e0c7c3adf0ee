package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"sales-ledger/internal/app"

	"github.com/shopspring/decimal"
)

// orderBody is the JSON shape shared by create and update.
// Body: { customer_id, created_at?, bill_number?, discount?, amount_received?, lines: [{product_id, quantity, price_per_unit}] }
type orderBody struct {
	CustomerID     int     `json:"customer_id"`
	CreatedAt      string  `json:"created_at"` // RFC 3339; empty means now
	BillNumber     *string `json:"bill_number"`
	Discount       string  `json:"discount"`
	AmountReceived string  `json:"amount_received"`
	Lines          []struct {
		ProductID    int    `json:"product_id"`
		Quantity     string `json:"quantity"`
		PricePerUnit string `json:"price_per_unit"`
	} `json:"lines"`
}

// parseOrderBody converts the wire shape into an app request, validating
// the decimal fields. Engine-level validation (positive quantities, known
// customer) happens in the service.
func parseOrderBody(w http.ResponseWriter, r *http.Request, body orderBody) (app.OrderRequest, bool) {
	var req app.OrderRequest
	req.CustomerID = body.CustomerID
	req.BillNumber = body.BillNumber

	if body.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, body.CreatedAt)
		if err != nil {
			writeError(w, r, "created_at must be RFC 3339", "BAD_REQUEST", http.StatusBadRequest)
			return req, false
		}
		req.CreatedAt = t
	}

	var err error
	if body.Discount != "" {
		if req.Discount, err = decimal.NewFromString(body.Discount); err != nil {
			writeError(w, r, "invalid discount", "BAD_REQUEST", http.StatusBadRequest)
			return req, false
		}
	}
	if body.AmountReceived != "" {
		if req.AmountReceived, err = decimal.NewFromString(body.AmountReceived); err != nil {
			writeError(w, r, "invalid amount_received", "BAD_REQUEST", http.StatusBadRequest)
			return req, false
		}
	}

	for i, l := range body.Lines {
		qty, err := decimal.NewFromString(l.Quantity)
		if err != nil {
			writeError(w, r, fmt.Sprintf("line %d: invalid quantity", i+1), "BAD_REQUEST", http.StatusBadRequest)
			return req, false
		}
		price, err := decimal.NewFromString(l.PricePerUnit)
		if err != nil {
			writeError(w, r, fmt.Sprintf("line %d: invalid price_per_unit", i+1), "BAD_REQUEST", http.StatusBadRequest)
			return req, false
		}
		req.Lines = append(req.Lines, app.OrderLineInput{
			ProductID:    l.ProductID,
			Quantity:     qty,
			PricePerUnit: price,
		})
	}
	return req, true
}

// createOrder handles POST /api/orders.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var body orderBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req, ok := parseOrderBody(w, r, body)
	if !ok {
		return
	}
	result, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// updateOrder handles PUT /api/orders/{id}.
func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body orderBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req, ok := parseOrderBody(w, r, body)
	if !ok {
		return
	}
	result, err := h.svc.UpdateOrder(r.Context(), id, req)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// getOrder handles GET /api/orders/{id}.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// deleteOrder handles DELETE /api/orders/{id}.
func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.DeleteOrder(r.Context(), id)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// returnOrder handles POST /api/orders/{id}/return.
func (h *Handler) returnOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.ReturnOrder(r.Context(), id); err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "returned"})
}

// unreturnOrder handles POST /api/orders/{id}/unreturn.
func (h *Handler) unreturnOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.UnreturnOrder(r.Context(), id); err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "active"})
}

// listOrders handles GET /api/orders.
// Query: skip, take, customer_id, from, to, status (due|paid), returned (true|false).
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := app.ListOrdersRequest{}
	req.Skip, req.Take = pageParams(r)

	if v := q.Get("customer_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, "invalid customer_id", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		req.CustomerID = &id
	}
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
	if v := q.Get("status"); v != "" {
		if v != "due" && v != "paid" {
			writeError(w, r, "status must be due or paid", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		req.Status = &v
	}
	if v := q.Get("returned"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, "returned must be true or false", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		req.Returned = &b
	}

	result, err := h.svc.ListOrders(r.Context(), req)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result)
}
