package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
)

// LeadTimeSample is the trigger and delivery date of one received procurement.
type LeadTimeSample struct {
	TriggerDate  string
	DeliveryDate string
}

const triggerColumns = `t.id,t.component_id,COALESCE(c.name,''),t.current_stock,t.required_threshold,t.status,t.trigger_date,
	t.expected_delivery_date,t.quantity_ordered,COALESCE(t.supplier_name,''),t.received_at`

func scanTrigger(row interface{ Scan(...any) error }) (models.ProcurementTrigger, error) {
	var p models.ProcurementTrigger
	var expected, received sql.NullString
	err := row.Scan(&p.ID, &p.ComponentID, &p.ComponentName, &p.CurrentStock, &p.RequiredThreshold, &p.Status,
		&p.TriggerDate, &expected, &p.QuantityOrdered, &p.SupplierName, &received)
	p.ExpectedDeliveryDate = nullString(expected)
	p.ReceivedAt = nullString(received)
	return p, err
}

// IncomingQuantity sums quantity_ordered over ordered triggers for a component whose expected
// delivery falls on or before target. Triggers without a delivery date never count.
func (r Reader) IncomingQuantity(ctx context.Context, componentID int64, target time.Time) (int, error) {
	var incoming int
	err := r.q.QueryRowContext(ctx, `SELECT COALESCE(SUM(quantity_ordered), 0) FROM procurement_triggers
		WHERE component_id = ? AND status = 'ordered'
			AND expected_delivery_date IS NOT NULL AND expected_delivery_date <> ''
			AND expected_delivery_date <= ?`,
		componentID, target.Format(DateLayout)).Scan(&incoming)
	return incoming, err
}

// ReceivedHistory returns the trigger/delivery dates of a component's received triggers.
func (r Reader) ReceivedHistory(ctx context.Context, componentID int64) ([]LeadTimeSample, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT trigger_date, expected_delivery_date FROM procurement_triggers
		WHERE component_id = ? AND status = 'received'
			AND expected_delivery_date IS NOT NULL AND expected_delivery_date <> ''
		ORDER BY id`, componentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var samples []LeadTimeSample
	for rows.Next() {
		var s LeadTimeSample
		if err := rows.Scan(&s.TriggerDate, &s.DeliveryDate); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// Trigger loads one procurement trigger.
func (r Reader) Trigger(ctx context.Context, id int64) (models.ProcurementTrigger, error) {
	p, err := scanTrigger(r.q.QueryRowContext(ctx, "SELECT "+triggerColumns+
		" FROM procurement_triggers t LEFT JOIN components c ON c.id = t.component_id WHERE t.id=?", id))
	if err != nil {
		return p, notFound("procurement trigger", id, err)
	}
	return p, nil
}

// ListTriggers returns triggers newest first, optionally filtered by status and component.
func (r Reader) ListTriggers(ctx context.Context, status string, componentID int64) ([]models.ProcurementTrigger, error) {
	query := "SELECT " + triggerColumns + " FROM procurement_triggers t LEFT JOIN components c ON c.id = t.component_id WHERE 1=1"
	var args []any
	if status != "" {
		query += " AND t.status=?"
		args = append(args, status)
	}
	if componentID > 0 {
		query += " AND t.component_id=?"
		args = append(args, componentID)
	}
	query += " ORDER BY t.id DESC"
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []models.ProcurementTrigger{}
	for rows.Next() {
		p, err := scanTrigger(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// HasOpenTrigger reports whether a component already has a pending or ordered trigger.
func (r Reader) HasOpenTrigger(ctx context.Context, componentID int64) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM procurement_triggers WHERE component_id=? AND status IN ('pending','ordered')", componentID).Scan(&n)
	return n > 0, err
}

// CreateTrigger inserts a trigger. An empty TriggerDate defaults to the transaction date.
func (t *Tx) CreateTrigger(ctx context.Context, p models.ProcurementTrigger) (models.ProcurementTrigger, error) {
	if p.TriggerDate == "" {
		p.TriggerDate = t.now.Format(DateLayout)
	}
	if p.Status == "" {
		p.Status = models.TriggerPending
	}
	var expected any
	if p.ExpectedDeliveryDate != nil {
		expected = *p.ExpectedDeliveryDate
	}
	res, err := t.exec(ctx, "create trigger",
		`INSERT INTO procurement_triggers (component_id,current_stock,required_threshold,status,trigger_date,expected_delivery_date,quantity_ordered,supplier_name)
		VALUES (?,?,?,?,?,?,?,?)`,
		p.ComponentID, p.CurrentStock, p.RequiredThreshold, p.Status, p.TriggerDate, expected, p.QuantityOrdered, p.SupplierName)
	if err != nil {
		return p, err
	}
	id, _ := res.LastInsertId()
	return t.Trigger(ctx, id)
}

// MarkTriggerOrdered moves a pending trigger to ordered. It reports false if the trigger was
// not pending.
func (t *Tx) MarkTriggerOrdered(ctx context.Context, id int64, quantity int, expectedDelivery, supplier string) (bool, error) {
	res, err := t.exec(ctx, "mark trigger ordered",
		`UPDATE procurement_triggers SET status='ordered', quantity_ordered=?, expected_delivery_date=?, supplier_name=?
		WHERE id=? AND status='pending'`,
		quantity, expectedDelivery, supplier, id)
	if err != nil {
		return false, err
	}
	return affectedOne(res)
}

// MarkTriggerReceived moves an ordered trigger to received. It reports false if the trigger
// was not ordered.
func (t *Tx) MarkTriggerReceived(ctx context.Context, id int64) (bool, error) {
	res, err := t.exec(ctx, "mark trigger received",
		"UPDATE procurement_triggers SET status='received', received_at=? WHERE id=? AND status='ordered'",
		t.stamp(), id)
	if err != nil {
		return false, err
	}
	return affectedOne(res)
}

func affectedOne(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w: %w", ErrTransaction, err)
	}
	return n == 1, nil
}
