package web

import (
	"net/http"
	"time"

	"sales-ledger/internal/app"

	"github.com/shopspring/decimal"
)

type productBody struct {
	Name      string `json:"name"`
	Price     string `json:"price"`
	Inventory string `json:"inventory"` // opening quantity; create only
}

// createProduct handles POST /api/products.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body productBody
	if !decodeJSON(w, r, &body) {
		return
	}
	price, err := decimal.NewFromString(body.Price)
	if err != nil {
		writeError(w, r, "invalid price", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	opening := decimal.Zero
	if body.Inventory != "" {
		if opening, err = decimal.NewFromString(body.Inventory); err != nil {
			writeError(w, r, "invalid inventory", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
	}
	result, err := h.svc.CreateProduct(r.Context(), app.ProductRequest{
		Name: body.Name, Price: price, OpeningInventory: opening,
	})
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result.Product)
}

// updateProduct handles PUT /api/products/{id}. Inventory is not editable
// here; stock moves through orders and the inventory endpoint.
func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body productBody
	if !decodeJSON(w, r, &body) {
		return
	}
	price, err := decimal.NewFromString(body.Price)
	if err != nil {
		writeError(w, r, "invalid price", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.UpdateProduct(r.Context(), id, app.ProductRequest{
		Name: body.Name, Price: price,
	})
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result.Product)
}

// deleteProduct handles DELETE /api/products/{id}.
func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

// listProducts handles GET /api/products. Query: skip, take.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	skip, take := pageParams(r)
	result, err := h.svc.ListProducts(r.Context(), skip, take)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// addInventory handles POST /api/products/{id}/inventory.
// Body: { quantity, date? }
func (h *Handler) addInventory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Quantity string `json:"quantity"`
		Date     string `json:"date"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	qty, err := decimal.NewFromString(body.Quantity)
	if err != nil {
		writeError(w, r, "invalid quantity", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	req := app.AddInventoryRequest{ProductID: id, Quantity: qty}
	if body.Date != "" {
		d, err := time.Parse(time.RFC3339, body.Date)
		if err != nil {
			writeError(w, r, "date must be RFC 3339", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		req.Date = d
	}
	result, err := h.svc.AddInventory(r.Context(), req)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result.Product)
}

// inventoryHistory handles GET /api/products/{id}/inventory. Query: skip, take.
func (h *Handler) inventoryHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	skip, take := pageParams(r)
	result, err := h.svc.GetInventoryHistory(r.Context(), id, skip, take)
	if err != nil {
		writeCoreError(w, r, err)
		return
	}
	writeJSON(w, result)
}
