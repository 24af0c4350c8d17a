package admin

import (
	"net/http"
	"strconv"

	"github.com/gauravv-jainn/oneup-sub000/internal/audit"
	"github.com/gauravv-jainn/oneup-sub000/internal/response"
)

// Handler holds dependencies for admin handlers.
type Handler struct {
	Audit *audit.Logger
}

// ListAuditLog handles GET /api/v1/audit?module=&limit=.
func (h *Handler) ListAuditLog(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	limit = audit.ClampLimit(limit)
	entries, err := h.Audit.Recent(r.Context(), r.URL.Query().Get("module"), limit)
	if err != nil {
		response.Err(w, err.Error(), http.StatusInternalServerError)
		return
	}
	response.JSONMeta(w, entries, len(entries), 1, limit)
}
