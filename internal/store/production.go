package store

import (
	"context"
	"database/sql"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
)

// CreateProductionEntry records a production run of quantity boards of a PCB type.
func (t *Tx) CreateProductionEntry(ctx context.Context, pcbTypeID int64, quantity int, orderID int64) (int64, error) {
	var order any
	if orderID > 0 {
		order = orderID
	}
	res, err := t.exec(ctx, "create production entry",
		"INSERT INTO production_entries (pcb_type_id,quantity_produced,order_id,produced_at) VALUES (?,?,?,?)",
		pcbTypeID, quantity, order, t.stamp())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordConsumption appends one consumption history row for a production entry.
func (t *Tx) RecordConsumption(ctx context.Context, entryID, componentID int64, quantity int) error {
	_, err := t.exec(ctx, "record consumption",
		"INSERT INTO consumption_history (production_entry_id,component_id,quantity_consumed,consumed_at) VALUES (?,?,?,?)",
		entryID, componentID, quantity, t.stamp())
	return err
}

// ProductionForOrder returns the production entries created when an order was executed.
func (r Reader) ProductionForOrder(ctx context.Context, orderID int64) ([]models.ProductionEntry, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT id,pcb_type_id,quantity_produced,order_id,produced_at FROM production_entries WHERE order_id=? ORDER BY id", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []models.ProductionEntry{}
	for rows.Next() {
		var p models.ProductionEntry
		var order sql.NullInt64
		if err := rows.Scan(&p.ID, &p.PCBTypeID, &p.QuantityProduced, &order, &p.ProducedAt); err != nil {
			return nil, err
		}
		if order.Valid {
			id := order.Int64
			p.OrderID = &id
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// Consumption returns the consumption rows of one production entry.
func (r Reader) Consumption(ctx context.Context, entryID int64) ([]models.ConsumptionRecord, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT id,production_entry_id,component_id,quantity_consumed,consumed_at FROM consumption_history WHERE production_entry_id=? ORDER BY id", entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []models.ConsumptionRecord{}
	for rows.Next() {
		var c models.ConsumptionRecord
		if err := rows.Scan(&c.ID, &c.ProductionEntryID, &c.ComponentID, &c.QuantityConsumed, &c.ConsumedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
