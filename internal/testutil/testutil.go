package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gauravv-jainn/oneup-sub000/internal/database"
	"github.com/gauravv-jainn/oneup-sub000/internal/models"
	"github.com/gauravv-jainn/oneup-sub000/internal/store"
)

// SetupTestDB opens a migrated SQLite database in a temporary file. A file is used instead of
// :memory: so every pooled connection sees the same data.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	testDB, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	t.Cleanup(func() { testDB.Close() })
	return testDB
}

// Seed writes fixtures through a store transaction.
type Seed struct {
	t     *testing.T
	Store *store.Store
}

// NewSeed wraps db for fixture creation.
func NewSeed(t *testing.T, db *sql.DB) *Seed {
	return &Seed{t: t, Store: store.New(db)}
}

func (s *Seed) tx(fn func(tx *store.Tx) error) {
	s.t.Helper()
	if err := s.Store.WithTx(context.Background(), fn); err != nil {
		s.t.Fatalf("seed: %v", err)
	}
}

// Component inserts a component with the given stock. Monthly requirement defaults to 1.
func (s *Seed) Component(partNumber string, stock int) models.Component {
	s.t.Helper()
	return s.ComponentWith(models.Component{Name: partNumber, PartNumber: partNumber, CurrentStock: stock, MonthlyRequiredQuantity: 1})
}

// ComponentWith inserts c as given.
func (s *Seed) ComponentWith(c models.Component) models.Component {
	s.t.Helper()
	if c.Name == "" {
		c.Name = c.PartNumber
	}
	if c.MonthlyRequiredQuantity == 0 {
		c.MonthlyRequiredQuantity = 1
	}
	var out models.Component
	s.tx(func(tx *store.Tx) error {
		var err error
		out, err = tx.CreateComponent(context.Background(), c)
		return err
	})
	return out
}

// PCB inserts a PCB type whose BOM maps component id to quantity per board.
func (s *Seed) PCB(name string, bom map[int64]int) models.PCBType {
	s.t.Helper()
	var out models.PCBType
	s.tx(func(tx *store.Tx) error {
		var err error
		if out, err = tx.CreatePCBType(context.Background(), models.PCBType{Name: name}); err != nil {
			return err
		}
		for compID, qty := range bom {
			if _, err := tx.UpsertBOMLine(context.Background(), models.BOMLine{PCBTypeID: out.ID, ComponentID: compID, QuantityPerPCB: qty}); err != nil {
				return err
			}
		}
		return nil
	})
	return out
}

// Order inserts an item-based order in status scheduled on date.
func (s *Seed) Order(name, status, date string, items ...models.OrderItem) models.FutureOrder {
	s.t.Helper()
	var out models.FutureOrder
	s.tx(func(tx *store.Tx) error {
		var err error
		out, err = tx.CreateOrder(context.Background(), models.FutureOrder{
			OrderName:               name,
			Status:                  status,
			ScheduledProductionDate: date,
			CreatedBy:               "test",
			Items:                   items,
		})
		return err
	})
	return out
}

// LegacyOrder inserts an order in the single-PCB shape.
func (s *Seed) LegacyOrder(name, status, date string, pcbTypeID int64, qty int) int64 {
	s.t.Helper()
	var id int64
	s.tx(func(tx *store.Tx) error {
		var err error
		id, err = tx.InsertLegacyOrder(context.Background(), models.FutureOrder{
			OrderName:               name,
			Status:                  status,
			ScheduledProductionDate: date,
		}, pcbTypeID, qty)
		return err
	})
	return id
}

// Trigger inserts a procurement trigger as given.
func (s *Seed) Trigger(p models.ProcurementTrigger) models.ProcurementTrigger {
	s.t.Helper()
	var out models.ProcurementTrigger
	s.tx(func(tx *store.Tx) error {
		var err error
		out, err = tx.CreateTrigger(context.Background(), p)
		return err
	})
	return out
}

// Item builds an order item.
func Item(pcbTypeID int64, qty int) models.OrderItem {
	return models.OrderItem{PCBTypeID: pcbTypeID, QuantityRequired: qty}
}

// Date returns a pointer to a date string.
func Date(s string) *string { return &s }

// Stock reads a component's current stock.
func Stock(t *testing.T, db *sql.DB, componentID int64) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT current_stock FROM components WHERE id=?", componentID).Scan(&n); err != nil {
		t.Fatalf("stock of component %d: %v", componentID, err)
	}
	return n
}

// Count returns the number of rows in table.
func Count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// MakeRequest sends a request to handler and returns the recorder.
func MakeRequest(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody []byte
	if body != nil {
		var err error
		reqBody, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", "tester")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// DecodeData unmarshals the data field of an API envelope into v.
func DecodeData(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("Failed to decode data %q: %v", string(env.Data), err)
	}
}
