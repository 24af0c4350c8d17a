package inventory

import (
	"net/http"

	"github.com/gauravv-jainn/oneup-sub000/internal/audit"
	"github.com/gauravv-jainn/oneup-sub000/internal/handlers/common"
	"github.com/gauravv-jainn/oneup-sub000/internal/planning"
	"github.com/gauravv-jainn/oneup-sub000/internal/response"
)

// Handler holds dependencies for component and PCB type handlers.
type Handler struct {
	Planner *planning.Planner
}

// ListComponents handles GET /api/v1/components.
func (h *Handler) ListComponents(w http.ResponseWriter, r *http.Request) {
	items, err := h.Planner.ListComponents(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, items)
}

// GetComponent handles GET /api/v1/components/:id.
func (h *Handler) GetComponent(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := common.ParseID(w, idStr)
	if !ok {
		return
	}
	c, err := h.Planner.GetComponent(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, c)
}

// CreateComponent handles POST /api/v1/components.
func (h *Handler) CreateComponent(w http.ResponseWriter, r *http.Request) {
	var in planning.ComponentInput
	if !common.Decode(w, r, &in) {
		return
	}
	c, err := h.Planner.CreateComponent(r.Context(), in, audit.Actor(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, c)
}

// Projection handles GET /api/v1/components/:id/projection?date=YYYY-MM-DD&exclude_order=.
// The date defaults to today.
func (h *Handler) Projection(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := common.ParseID(w, idStr)
	if !ok {
		return
	}
	exclude, ok := common.QueryInt64(w, r, "exclude_order")
	if !ok {
		return
	}
	target, ok := common.QueryDate(w, r, "date", h.Planner.Now())
	if !ok {
		return
	}
	pr, err := h.Planner.ProjectExcluding(r.Context(), id, target, exclude)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, pr)
}

// ListPCBTypes handles GET /api/v1/pcb-types.
func (h *Handler) ListPCBTypes(w http.ResponseWriter, r *http.Request) {
	items, err := h.Planner.ListPCBTypes(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, items)
}

// CreatePCBType handles POST /api/v1/pcb-types.
func (h *Handler) CreatePCBType(w http.ResponseWriter, r *http.Request) {
	var in planning.PCBTypeInput
	if !common.Decode(w, r, &in) {
		return
	}
	pt, err := h.Planner.CreatePCBType(r.Context(), in, audit.Actor(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, pt)
}

// GetBOM handles GET /api/v1/pcb-types/:id/bom.
func (h *Handler) GetBOM(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := common.ParseID(w, idStr)
	if !ok {
		return
	}
	bom, err := h.Planner.ResolveBOM(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, bom)
}

// SetBOMLine handles PUT /api/v1/pcb-types/:id/bom.
func (h *Handler) SetBOMLine(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := common.ParseID(w, idStr)
	if !ok {
		return
	}
	var in planning.BOMLineInput
	if !common.Decode(w, r, &in) {
		return
	}
	line, err := h.Planner.SetBOMLine(r.Context(), id, in, audit.Actor(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, line)
}

// StockReport handles GET /api/v1/components/projections?date=YYYY-MM-DD.
// Every component is projected to the date, which defaults to today.
func (h *Handler) StockReport(w http.ResponseWriter, r *http.Request) {
	target, ok := common.QueryDate(w, r, "date", h.Planner.Now())
	if !ok {
		return
	}
	lines, err := h.Planner.StockReport(r.Context(), target)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, lines)
}
