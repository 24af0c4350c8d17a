package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
	"github.com/gauravv-jainn/oneup-sub000/internal/planning"
	"github.com/gauravv-jainn/oneup-sub000/internal/testutil"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	return New(testutil.SetupTestDB(t), nil, planning.Options{Now: func() time.Time { return now }})
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	w := testutil.MakeRequest(t, app.Handler(), "GET", "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRouteAPI_UnknownRoute(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/api/v1/widgets", "/api/v1/future-orders/1/ship"} {
		w := testutil.MakeRequest(t, app.Handler(), "POST", path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
	w := testutil.MakeRequest(t, app.Handler(), "DELETE", "/api/v1/components", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestRouteAPI_PlanAndBuild drives a full order through the HTTP surface.
func TestRouteAPI_PlanAndBuild(t *testing.T) {
	app := newTestApp(t)
	h := app.Handler()

	w := testutil.MakeRequest(t, h, "POST", "/api/v1/components", map[string]any{
		"name": "Regulator", "part_number": "LDO-33", "current_stock": 30, "monthly_required_quantity": 20,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var comp models.Component
	testutil.DecodeData(t, w, &comp)

	w = testutil.MakeRequest(t, h, "POST", "/api/v1/pcb-types", map[string]any{"name": "Power"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var pt models.PCBType
	testutil.DecodeData(t, w, &pt)

	w = testutil.MakeRequest(t, h, "PUT", fmt.Sprintf("/api/v1/pcb-types/%d/bom", pt.ID), map[string]any{
		"component_id": comp.ID, "quantity_per_pcb": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	items := []map[string]any{{"pcb_type_id": pt.ID, "quantity_required": 10}}
	w = testutil.MakeRequest(t, h, "POST", "/api/v1/future-orders/check-availability", map[string]any{
		"items": items, "scheduled_production_date": "2026-03-01",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var av planning.Availability
	testutil.DecodeData(t, w, &av)
	assert.True(t, av.CanFulfill)

	w = testutil.MakeRequest(t, h, "POST", "/api/v1/future-orders", map[string]any{
		"order_name": "Pilot", "scheduled_production_date": "2026-03-01", "items": items,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var plan planning.OrderPlan
	testutil.DecodeData(t, w, &plan)
	assert.Equal(t, models.OrderConfirmed, plan.Order.Status)

	w = testutil.MakeRequest(t, h, "POST", fmt.Sprintf("/api/v1/future-orders/%d/execute", plan.Order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res planning.ExecutionResult
	testutil.DecodeData(t, w, &res)
	assert.Len(t, res.ProductionEntryIDs, 1)
	// 30 - 20 = 10 is below the monthly requirement of 20.
	assert.Len(t, res.TriggerIDs, 1)

	w = testutil.MakeRequest(t, h, "GET", fmt.Sprintf("/api/v1/components/%d/projection?date=2026-03-01", comp.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pr planning.Projection
	testutil.DecodeData(t, w, &pr)
	assert.Equal(t, 10, pr.Current)
	assert.Equal(t, 0, pr.Reserved)

	w = testutil.MakeRequest(t, h, "GET", fmt.Sprintf("/api/v1/procurement-triggers/%d", res.TriggerIDs[0]), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.MakeRequest(t, h, "GET", "/api/v1/audit?module=future_order", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []models.AuditEntry
	testutil.DecodeData(t, w, &entries)
	require.Len(t, entries, 2)
	assert.Equal(t, "EXECUTE", entries[0].Action)
	assert.Equal(t, "tester", entries[0].Username)

	w = testutil.MakeRequest(t, h, "POST", fmt.Sprintf("/api/v1/future-orders/%d/execute", plan.Order.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	var errBody map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	assert.Contains(t, errBody["error"], "already completed")
}
