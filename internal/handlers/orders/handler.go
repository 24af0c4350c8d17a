package orders

import (
	"net/http"

	"github.com/gauravv-jainn/oneup-sub000/internal/audit"
	"github.com/gauravv-jainn/oneup-sub000/internal/handlers/common"
	"github.com/gauravv-jainn/oneup-sub000/internal/planning"
	"github.com/gauravv-jainn/oneup-sub000/internal/response"
)

// Handler serves the future-order endpoints.
type Handler struct {
	Planner *planning.Planner
}

type linesRequest struct {
	Items                   []planning.LineItem `json:"items"`
	ScheduledProductionDate string              `json:"scheduled_production_date"`
}

// Estimate handles POST /api/v1/future-orders/estimate.
func (h *Handler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req linesRequest
	if !common.Decode(w, r, &req) {
		return
	}
	est, err := h.Planner.EstimateDate(r.Context(), req.Items)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, est)
}

// CheckAvailability handles POST /api/v1/future-orders/check-availability.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req linesRequest
	if !common.Decode(w, r, &req) {
		return
	}
	if req.ScheduledProductionDate == "" {
		response.Err(w, "scheduled_production_date: is required", http.StatusBadRequest)
		return
	}
	target, err := planning.ParseDate(req.ScheduledProductionDate)
	if err != nil {
		response.Error(w, err)
		return
	}
	av, err := h.Planner.CheckAvailability(r.Context(), req.Items, target)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, av)
}

// ListOrders handles GET /api/v1/future-orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Planner.ListOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, orders)
}

// CreateOrder handles POST /api/v1/future-orders.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in planning.OrderInput
	if !common.Decode(w, r, &in) {
		return
	}
	plan, err := h.Planner.CreateOrder(r.Context(), in, audit.Actor(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, plan)
}

// GetOrder handles GET /api/v1/future-orders/:id.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := common.ParseID(w, idStr)
	if !ok {
		return
	}
	o, err := h.Planner.GetOrder(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, o)
}

// UpdateOrder handles PUT /api/v1/future-orders/:id.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := common.ParseID(w, idStr)
	if !ok {
		return
	}
	var in planning.OrderInput
	if !common.Decode(w, r, &in) {
		return
	}
	plan, err := h.Planner.UpdateOrder(r.Context(), id, in, audit.Actor(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, plan)
}

// CancelOrder handles POST /api/v1/future-orders/:id/cancel.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := common.ParseID(w, idStr)
	if !ok {
		return
	}
	o, err := h.Planner.CancelOrder(r.Context(), id, audit.Actor(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, o)
}

// RecheckOrder handles POST /api/v1/future-orders/:id/recheck.
func (h *Handler) RecheckOrder(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := common.ParseID(w, idStr)
	if !ok {
		return
	}
	plan, err := h.Planner.RecheckOrder(r.Context(), id, audit.Actor(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, plan)
}

// ExecuteOrder handles POST /api/v1/future-orders/:id/execute.
func (h *Handler) ExecuteOrder(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := common.ParseID(w, idStr)
	if !ok {
		return
	}
	res, err := h.Planner.ExecuteOrder(r.Context(), id, audit.Actor(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, res)
}

// OrderProduction handles GET /api/v1/future-orders/:id/production.
func (h *Handler) OrderProduction(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := common.ParseID(w, idStr)
	if !ok {
		return
	}
	records, err := h.Planner.OrderProduction(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, records)
}
