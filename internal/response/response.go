package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
	"github.com/gauravv-jainn/oneup-sub000/internal/planning"
)

// JSON writes a successful API response with the given data.
func JSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.APIResponse{Data: data})
}

// Created writes a 201 API response with the given data.
func Created(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.APIResponse{Data: data})
}

// JSONMeta writes a successful API response with pagination metadata.
func JSONMeta(w http.ResponseWriter, data interface{}, total, page, limit int) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.APIResponse{
		Data: data,
		Meta: &models.Meta{Total: total, Page: page, Limit: limit},
	})
}

// Err writes a JSON error response with the given message and HTTP status code.
func Err(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// shortageBody is the error body of an execution rejected for stock.
type shortageBody struct {
	Error      string               `json:"error"`
	Code       string               `json:"code"`
	Shortfalls []planning.Shortfall `json:"shortfalls"`
}

// Error maps a planner error to its HTTP status and writes it.
func Error(w http.ResponseWriter, err error) {
	var short *planning.InsufficientStockError
	switch {
	case errors.As(err, &short):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(shortageBody{Error: err.Error(), Code: "INSUFFICIENT_STOCK", Shortfalls: short.Shortfalls})
	case errors.Is(err, planning.ErrInvalidInput):
		Err(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, planning.ErrNotFound):
		Err(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, planning.ErrAlreadyCompleted),
		errors.Is(err, planning.ErrOrderLocked),
		errors.Is(err, planning.ErrConflict):
		Err(w, err.Error(), http.StatusConflict)
	case errors.Is(err, planning.ErrTransaction):
		w.Header().Set("Retry-After", "1")
		Err(w, "temporarily unavailable, retry: "+err.Error(), http.StatusServiceUnavailable)
	default:
		Err(w, err.Error(), http.StatusInternalServerError)
	}
}

// DecodeBody decodes a JSON request body into the given value.
func DecodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
