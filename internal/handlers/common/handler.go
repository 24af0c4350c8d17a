// Package common holds request helpers shared by the API handler packages.
package common

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gauravv-jainn/oneup-sub000/internal/planning"
	"github.com/gauravv-jainn/oneup-sub000/internal/response"
	"github.com/gauravv-jainn/oneup-sub000/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// ParseID parses a positive numeric path id, writing a 400 when it is not one.
func ParseID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Err(w, "invalid id "+strconv.Quote(raw), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// Decode reads a JSON body into v, writing a 400 when it is malformed.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := response.DecodeBody(r, v); err != nil {
		response.Err(w, "invalid body", http.StatusBadRequest)
		return false
	}
	return true
}

// QueryInt64 reads an optional positive integer query parameter. Missing means 0.
func QueryInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		response.Err(w, name+" must be a non-negative integer", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

// QueryDate reads an optional YYYY-MM-DD query parameter. Missing means def.
func QueryDate(w http.ResponseWriter, r *http.Request, name string, def time.Time) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	ve := &validation.ValidationErrors{}
	validation.ValidateDate(ve, name, raw)
	if ve.HasErrors() {
		response.Err(w, ve.Error(), http.StatusBadRequest)
		return def, false
	}
	d, err := planning.ParseDate(raw)
	if err != nil {
		response.Error(w, err)
		return def, false
	}
	return d, true
}
