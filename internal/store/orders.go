package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
)

const orderColumns = `id,order_name,status,scheduled_production_date,COALESCE(delivery_date,''),COALESCE(created_by,''),
	created_at,updated_at,completed_at,pcb_type_id,quantity_required`

func scanOrder(row interface{ Scan(...any) error }) (models.FutureOrder, error) {
	var o models.FutureOrder
	var completed sql.NullString
	var legacyPCB, legacyQty sql.NullInt64
	err := row.Scan(&o.ID, &o.OrderName, &o.Status, &o.ScheduledProductionDate, &o.DeliveryDate, &o.CreatedBy,
		&o.CreatedAt, &o.UpdatedAt, &completed, &legacyPCB, &legacyQty)
	o.CompletedAt = nullString(completed)
	if legacyPCB.Valid && legacyQty.Valid {
		id := legacyPCB.Int64
		qty := int(legacyQty.Int64)
		o.LegacyPCBTypeID, o.LegacyQuantity = &id, &qty
	}
	o.Items = []models.OrderItem{}
	return o, err
}

// Order loads a future order together with its item rows.
func (r Reader) Order(ctx context.Context, id int64) (models.FutureOrder, error) {
	o, err := scanOrder(r.q.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM future_orders WHERE id=?", id))
	if err != nil {
		return o, notFound("future order", id, err)
	}
	items, err := r.orderItems(ctx, []int64{id})
	if err != nil {
		return o, err
	}
	o.Items = append(o.Items, items[id]...)
	return o, nil
}

// ListOrders returns orders newest first, optionally filtered by status.
func (r Reader) ListOrders(ctx context.Context, status string) ([]models.FutureOrder, error) {
	query := "SELECT " + orderColumns + " FROM future_orders"
	var args []any
	if status != "" {
		query += " WHERE status=?"
		args = append(args, status)
	}
	query += " ORDER BY scheduled_production_date DESC, id DESC"
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	orders := []models.FutureOrder{}
	var ids []int64
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}
	items, err := r.orderItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = append(orders[i].Items, items[orders[i].ID]...)
	}
	return orders, nil
}

func (r Reader) orderItems(ctx context.Context, orderIDs []int64) (map[int64][]models.OrderItem, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(orderIDs)), ",")
	args := make([]any, len(orderIDs))
	for i, id := range orderIDs {
		args[i] = id
	}
	rows, err := r.q.QueryContext(ctx, `SELECT i.id, i.order_id, i.pcb_type_id, COALESCE(p.name,''), i.quantity_required
		FROM future_order_items i LEFT JOIN pcb_types p ON p.id = i.pcb_type_id
		WHERE i.order_id IN (`+placeholders+`) ORDER BY i.order_id, i.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64][]models.OrderItem)
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.PCBTypeID, &it.PCBName, &it.QuantityRequired); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

// ReservedQuantity sums the demand for a component placed by active (confirmed or at_risk)
// orders scheduled on or before target. excludeOrderID, when non-zero, is left out.
func (r Reader) ReservedQuantity(ctx context.Context, componentID int64, target time.Time, excludeOrderID int64) (int, error) {
	var reserved int
	err := r.q.QueryRowContext(ctx, `SELECT COALESCE(SUM(pc.quantity_per_pcb * ol.quantity), 0)
		FROM order_lines ol JOIN pcb_components pc ON pc.pcb_type_id = ol.pcb_type_id
		WHERE pc.component_id = ?
			AND ol.status IN ('confirmed','at_risk')
			AND ol.scheduled_production_date <= ?
			AND ol.order_id <> ?`,
		componentID, target.Format(DateLayout), excludeOrderID).Scan(&reserved)
	return reserved, err
}

// CreateOrder inserts an order and its items.
func (t *Tx) CreateOrder(ctx context.Context, o models.FutureOrder) (models.FutureOrder, error) {
	res, err := t.exec(ctx, "create order",
		`INSERT INTO future_orders (order_name,status,scheduled_production_date,delivery_date,created_by,created_at,updated_at)
		VALUES (?,?,?,?,?,?,?)`,
		o.OrderName, o.Status, o.ScheduledProductionDate, o.DeliveryDate, o.CreatedBy, t.stamp(), t.stamp())
	if err != nil {
		return o, err
	}
	o.ID, _ = res.LastInsertId()
	o.CreatedAt, o.UpdatedAt = t.stamp(), t.stamp()
	if err := t.insertItems(ctx, o.ID, o.Items); err != nil {
		return o, err
	}
	return t.Order(ctx, o.ID)
}

// UpdateOrder rewrites an order's header fields and replaces its items. The legacy embedded
// pair is cleared so the order is represented by items only from here on.
func (t *Tx) UpdateOrder(ctx context.Context, o models.FutureOrder) (models.FutureOrder, error) {
	_, err := t.exec(ctx, "update order",
		`UPDATE future_orders SET order_name=?,status=?,scheduled_production_date=?,delivery_date=?,
			pcb_type_id=NULL,quantity_required=NULL,updated_at=? WHERE id=?`,
		o.OrderName, o.Status, o.ScheduledProductionDate, o.DeliveryDate, t.stamp(), o.ID)
	if err != nil {
		return o, err
	}
	if _, err := t.exec(ctx, "clear order items", "DELETE FROM future_order_items WHERE order_id=?", o.ID); err != nil {
		return o, err
	}
	if err := t.insertItems(ctx, o.ID, o.Items); err != nil {
		return o, err
	}
	return t.Order(ctx, o.ID)
}

func (t *Tx) insertItems(ctx context.Context, orderID int64, items []models.OrderItem) error {
	for _, it := range items {
		if _, err := t.exec(ctx, "insert order item",
			"INSERT INTO future_order_items (order_id,pcb_type_id,quantity_required) VALUES (?,?,?)",
			orderID, it.PCBTypeID, it.QuantityRequired); err != nil {
			return err
		}
	}
	return nil
}

// SetOrderStatus moves an order that is not yet completed or cancelled to status. It reports
// false when the order was already terminal, which makes the move safe against a concurrent
// transition of the same order.
func (t *Tx) SetOrderStatus(ctx context.Context, orderID int64, status string) (bool, error) {
	var completedAt any
	if status == models.OrderCompleted {
		completedAt = t.stamp()
	}
	res, err := t.exec(ctx, "set order status",
		`UPDATE future_orders SET status=?, updated_at=?, completed_at=COALESCE(?, completed_at)
		WHERE id=? AND status NOT IN ('completed','cancelled')`,
		status, t.stamp(), completedAt, orderID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set order status: %w: %w", ErrTransaction, err)
	}
	return n == 1, nil
}

// InsertLegacyOrder writes an order in the single-PCB shape used before line items existed.
// Only imports of historical data and tests create orders this way.
func (t *Tx) InsertLegacyOrder(ctx context.Context, o models.FutureOrder, pcbTypeID int64, quantity int) (int64, error) {
	res, err := t.exec(ctx, "insert legacy order",
		`INSERT INTO future_orders (order_name,pcb_type_id,quantity_required,status,scheduled_production_date,delivery_date,created_by,created_at,updated_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		o.OrderName, pcbTypeID, quantity, o.Status, o.ScheduledProductionDate, o.DeliveryDate, o.CreatedBy, t.stamp(), t.stamp())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
