package web

import (
	"encoding/json"
	"net/http"

	"sales-ledger/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeCoreError maps service-layer errors to HTTP statuses:
//
//	validation          400
//	not found           404
//	return-state guard  409
//	serialization       409 with RETRY code
//	anything else       500
func writeCoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsValidation(err):
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
	case core.IsNotFound(err):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case core.IsStateConflict(err):
		writeError(w, r, err.Error(), "CONFLICT", http.StatusConflict)
	case core.IsSerializationFailure(err):
		writeError(w, r, "concurrent modification, please retry", "RETRY", http.StatusConflict)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
