package procurement

import (
	"net/http"

	"github.com/gauravv-jainn/oneup-sub000/internal/audit"
	"github.com/gauravv-jainn/oneup-sub000/internal/handlers/common"
	"github.com/gauravv-jainn/oneup-sub000/internal/planning"
	"github.com/gauravv-jainn/oneup-sub000/internal/response"
)

// Handler holds dependencies for procurement trigger handlers.
type Handler struct {
	Planner *planning.Planner
}

// ListTriggers handles GET /api/v1/procurement-triggers?status=&component_id=.
func (h *Handler) ListTriggers(w http.ResponseWriter, r *http.Request) {
	componentID, ok := common.QueryInt64(w, r, "component_id")
	if !ok {
		return
	}
	items, err := h.Planner.ListTriggers(r.Context(), r.URL.Query().Get("status"), componentID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, items)
}

// GetTrigger handles GET /api/v1/procurement-triggers/:id.
func (h *Handler) GetTrigger(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := common.ParseID(w, idStr)
	if !ok {
		return
	}
	t, err := h.Planner.GetTrigger(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, t)
}

// CreateTrigger handles POST /api/v1/procurement-triggers.
func (h *Handler) CreateTrigger(w http.ResponseWriter, r *http.Request) {
	var in planning.TriggerInput
	if !common.Decode(w, r, &in) {
		return
	}
	t, err := h.Planner.CreateTrigger(r.Context(), in, audit.Actor(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, t)
}

// OrderTrigger handles POST /api/v1/procurement-triggers/:id/order.
func (h *Handler) OrderTrigger(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := common.ParseID(w, idStr)
	if !ok {
		return
	}
	var in planning.PlaceOrderInput
	if !common.Decode(w, r, &in) {
		return
	}
	t, err := h.Planner.OrderTrigger(r.Context(), id, in, audit.Actor(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, t)
}

// ReceiveTrigger handles POST /api/v1/procurement-triggers/:id/receive.
func (h *Handler) ReceiveTrigger(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := common.ParseID(w, idStr)
	if !ok {
		return
	}
	rc, err := h.Planner.ReceiveTrigger(r.Context(), id, audit.Actor(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, rc)
}
