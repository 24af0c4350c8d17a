package procurement_test

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gauravv-jainn/oneup-sub000/internal/handlers/procurement"
	"github.com/gauravv-jainn/oneup-sub000/internal/models"
	"github.com/gauravv-jainn/oneup-sub000/internal/planning"
	"github.com/gauravv-jainn/oneup-sub000/internal/store"
	"github.com/gauravv-jainn/oneup-sub000/internal/testutil"
)

func TestTriggerLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	h := &procurement.Handler{Planner: planning.New(store.New(db), nil, nil, planning.Options{Now: func() time.Time { return now }})}
	seed := testutil.NewSeed(t, db)
	c := seed.Component("DIODE", 3)
	cid := strconv.FormatInt(c.ID, 10)

	w := httptest.NewRecorder()
	h.CreateTrigger(w, httptest.NewRequest("POST", "/api/v1/procurement-triggers", strings.NewReader(`{"component_id":`+cid+`,"required_threshold":50}`)))
	if w.Code != 201 {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var trig models.ProcurementTrigger
	testutil.DecodeData(t, w, &trig)
	if trig.Status != models.TriggerPending || trig.TriggerDate != "2026-02-01" || trig.CurrentStock != 3 {
		t.Errorf("Unexpected trigger %+v", trig)
	}
	id := strconv.FormatInt(trig.ID, 10)

	w = httptest.NewRecorder()
	h.ReceiveTrigger(w, httptest.NewRequest("POST", "/api/v1/procurement-triggers/"+id+"/receive", nil), id)
	if w.Code != 400 {
		t.Errorf("Expected 400 receiving a pending trigger, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.OrderTrigger(w, httptest.NewRequest("POST", "/api/v1/procurement-triggers/"+id+"/order",
		strings.NewReader(`{"quantity_ordered":200,"expected_delivery_date":"2026-02-12","supplier_name":"Digi"}`)), id)
	if w.Code != 200 {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	h.ListTriggers(w, httptest.NewRequest("GET", "/api/v1/procurement-triggers?status=ordered&component_id="+cid, nil))
	var list []models.ProcurementTrigger
	testutil.DecodeData(t, w, &list)
	if len(list) != 1 || list[0].QuantityOrdered != 200 {
		t.Errorf("Expected the ordered trigger, got %+v", list)
	}

	w = httptest.NewRecorder()
	h.ReceiveTrigger(w, httptest.NewRequest("POST", "/api/v1/procurement-triggers/"+id+"/receive", nil), id)
	if w.Code != 200 {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var rc planning.Receipt
	testutil.DecodeData(t, w, &rc)
	if rc.CurrentStock != 203 || rc.Trigger.Status != models.TriggerReceived {
		t.Errorf("Unexpected receipt %+v", rc)
	}
	if got := testutil.Stock(t, db, c.ID); got != 203 {
		t.Errorf("Expected stock 203, got %d", got)
	}

	w = httptest.NewRecorder()
	h.GetTrigger(w, httptest.NewRequest("GET", "/api/v1/procurement-triggers/"+id, nil), id)
	if w.Code != 200 {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestTriggerValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := &procurement.Handler{Planner: planning.New(store.New(db), nil, nil, planning.Options{})}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing component", `{}`, 400},
		{"unknown component", `{"component_id":42}`, 404},
		{"negative threshold", `{"component_id":1,"required_threshold":-1}`, 400},
		{"not json", `component`, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.CreateTrigger(w, httptest.NewRequest("POST", "/api/v1/procurement-triggers", strings.NewReader(tt.body)))
			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}

	w := httptest.NewRecorder()
	h.ListTriggers(w, httptest.NewRequest("GET", "/api/v1/procurement-triggers?status=lost", nil))
	if w.Code != 400 {
		t.Errorf("Expected 400 for unknown status, got %d", w.Code)
	}
	w = httptest.NewRecorder()
	h.ListTriggers(w, httptest.NewRequest("GET", "/api/v1/procurement-triggers?component_id=x", nil))
	if w.Code != 400 {
		t.Errorf("Expected 400 for bad component_id, got %d", w.Code)
	}
}
