package web

import (
	"net/http"

	"sales-ledger/internal/app"
)

type customerBody struct {
	Name   string  `json:"name"`
	Phone  *string `json:"phone"`
	AreaID *int    `json:"area_id"`
}

// createCustomer handles POST /api/customers.
func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var body customerBody
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.CreateCustomer(r.Context(), app.CustomerRequest{
		Name: body.Name, Phone: body.Phone, AreaID: body.AreaID,
	})
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result.Customer)
}

// updateCustomer handles PUT /api/customers/{id}.
func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body customerBody
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.UpdateCustomer(r.Context(), id, app.CustomerRequest{
		Name: body.Name, Phone: body.Phone, AreaID: body.AreaID,
	})
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result.Customer)
}

// deleteCustomer handles DELETE /api/customers/{id}. The customer's orders
// go with them.
func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(r.Context(), id); err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

// listCustomers handles GET /api/customers. Query: skip, take, q.
func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	req := app.ListCustomersRequest{Query: r.URL.Query().Get("q")}
	req.Skip, req.Take = pageParams(r)

	result, err := h.svc.ListCustomers(r.Context(), req)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// createArea handles POST /api/areas.
func (h *Handler) createArea(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	area, err := h.svc.CreateArea(r.Context(), body.Name)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, area)
}

// deleteArea handles DELETE /api/areas/{id}.
func (h *Handler) deleteArea(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteArea(r.Context(), id); err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

// listAreas handles GET /api/areas. Query: skip, take.
func (h *Handler) listAreas(w http.ResponseWriter, r *http.Request) {
	skip, take := pageParams(r)
	result, err := h.svc.ListAreas(r.Context(), skip, take)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result)
}
