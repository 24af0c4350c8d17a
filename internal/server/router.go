package server

import (
	"net/http"
	"strings"

	"github.com/gauravv-jainn/oneup-sub000/internal/response"
)

// routeAPI dispatches /api/v1/ requests by path segment.
func (a *App) routeAPI(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/"), "/")
	parts := strings.Split(path, "/")

	switch {
	// Future orders
	case path == "future-orders/estimate" && r.Method == "POST":
		a.orders.Estimate(w, r)
	case path == "future-orders/check-availability" && r.Method == "POST":
		a.orders.CheckAvailability(w, r)
	case parts[0] == "future-orders" && len(parts) == 1 && r.Method == "GET":
		a.orders.ListOrders(w, r)
	case parts[0] == "future-orders" && len(parts) == 1 && r.Method == "POST":
		a.orders.CreateOrder(w, r)
	case parts[0] == "future-orders" && len(parts) == 2 && r.Method == "GET":
		a.orders.GetOrder(w, r, parts[1])
	case parts[0] == "future-orders" && len(parts) == 2 && r.Method == "PUT":
		a.orders.UpdateOrder(w, r, parts[1])
	case parts[0] == "future-orders" && len(parts) == 3 && parts[2] == "cancel" && r.Method == "POST":
		a.orders.CancelOrder(w, r, parts[1])
	case parts[0] == "future-orders" && len(parts) == 3 && parts[2] == "recheck" && r.Method == "POST":
		a.orders.RecheckOrder(w, r, parts[1])
	case parts[0] == "future-orders" && len(parts) == 3 && parts[2] == "execute" && r.Method == "POST":
		a.orders.ExecuteOrder(w, r, parts[1])
	case parts[0] == "future-orders" && len(parts) == 3 && parts[2] == "production" && r.Method == "GET":
		a.orders.OrderProduction(w, r, parts[1])

	// Components
	case parts[0] == "components" && len(parts) == 1 && r.Method == "GET":
		a.inventory.ListComponents(w, r)
	case parts[0] == "components" && len(parts) == 1 && r.Method == "POST":
		a.inventory.CreateComponent(w, r)
	case path == "components/projections" && r.Method == "GET":
		a.inventory.StockReport(w, r)
	case parts[0] == "components" && len(parts) == 2 && r.Method == "GET":
		a.inventory.GetComponent(w, r, parts[1])
	case parts[0] == "components" && len(parts) == 3 && parts[2] == "projection" && r.Method == "GET":
		a.inventory.Projection(w, r, parts[1])

	// PCB types and BOMs
	case parts[0] == "pcb-types" && len(parts) == 1 && r.Method == "GET":
		a.inventory.ListPCBTypes(w, r)
	case parts[0] == "pcb-types" && len(parts) == 1 && r.Method == "POST":
		a.inventory.CreatePCBType(w, r)
	case parts[0] == "pcb-types" && len(parts) == 3 && parts[2] == "bom" && r.Method == "GET":
		a.inventory.GetBOM(w, r, parts[1])
	case parts[0] == "pcb-types" && len(parts) == 3 && parts[2] == "bom" && r.Method == "PUT":
		a.inventory.SetBOMLine(w, r, parts[1])

	// Procurement
	case parts[0] == "procurement-triggers" && len(parts) == 1 && r.Method == "GET":
		a.procurement.ListTriggers(w, r)
	case parts[0] == "procurement-triggers" && len(parts) == 1 && r.Method == "POST":
		a.procurement.CreateTrigger(w, r)
	case parts[0] == "procurement-triggers" && len(parts) == 2 && r.Method == "GET":
		a.procurement.GetTrigger(w, r, parts[1])
	case parts[0] == "procurement-triggers" && len(parts) == 3 && parts[2] == "order" && r.Method == "POST":
		a.procurement.OrderTrigger(w, r, parts[1])
	case parts[0] == "procurement-triggers" && len(parts) == 3 && parts[2] == "receive" && r.Method == "POST":
		a.procurement.ReceiveTrigger(w, r, parts[1])

	// Audit
	case path == "audit" && r.Method == "GET":
		a.admin.ListAuditLog(w, r)

	default:
		response.Err(w, "not found", http.StatusNotFound)
	}
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	if err := a.DB.PingContext(r.Context()); err != nil {
		response.Err(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	response.JSON(w, map[string]any{"status": "ok", "ws_clients": a.Hub.Clients()})
}
