package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"sales-ledger/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitAndTrim(allowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// ── Health (public) ───────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Auth (public) ─────────────────────────────────────────────────────────
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// Auth
		r.Get("/api/auth/me", h.me)

		// Orders
		r.Get("/api/orders", h.listOrders)
		r.Post("/api/orders", h.createOrder)
		r.Get("/api/orders/{id}", h.getOrder)
		r.Put("/api/orders/{id}", h.updateOrder)
		r.Delete("/api/orders/{id}", h.deleteOrder)
		r.Post("/api/orders/{id}/return", h.returnOrder)
		r.Post("/api/orders/{id}/unreturn", h.unreturnOrder)

		// Customers and areas
		r.Get("/api/customers", h.listCustomers)
		r.Post("/api/customers", h.createCustomer)
		r.Put("/api/customers/{id}", h.updateCustomer)
		r.Delete("/api/customers/{id}", h.deleteCustomer)
		r.Get("/api/areas", h.listAreas)
		r.Post("/api/areas", h.createArea)
		r.Delete("/api/areas/{id}", h.deleteArea)

		// Products and inventory
		r.Get("/api/products", h.listProducts)
		r.Post("/api/products", h.createProduct)
		r.Put("/api/products/{id}", h.updateProduct)
		r.Delete("/api/products/{id}", h.deleteProduct)
		r.Post("/api/products/{id}/inventory", h.addInventory)
		r.Get("/api/products/{id}/inventory", h.inventoryHistory)

		// Expenses
		r.Get("/api/expenses", h.listExpenses)
		r.Post("/api/expenses", h.createExpense)
		r.Delete("/api/expenses/{id}", h.deleteExpense)

		// Stats
		r.Get("/api/stats/sales", h.salesStats)
		r.Get("/api/stats/sales-count", h.salesCount)
		r.Get("/api/stats/expenses", h.expenseStats)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// idParam extracts the numeric {id} URL parameter. Returns false after
// writing a 400 response if the parameter is not a positive integer.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id parameter", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// pageParams extracts optional skip/take query parameters.
func pageParams(r *http.Request) (skip, take int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	take, _ = strconv.Atoi(r.URL.Query().Get("take"))
	if skip < 0 {
		skip = 0
	}
	if take < 0 {
		take = 0
	}
	return skip, take
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
