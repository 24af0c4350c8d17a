package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
)

const componentColumns = "id,name,part_number,current_stock,monthly_required_quantity,estimated_arrival_days,created_at,updated_at"

func scanComponent(row interface{ Scan(...any) error }) (models.Component, error) {
	var c models.Component
	var arrival sql.NullInt64
	err := row.Scan(&c.ID, &c.Name, &c.PartNumber, &c.CurrentStock, &c.MonthlyRequiredQuantity, &arrival, &c.CreatedAt, &c.UpdatedAt)
	c.EstimatedArrivalDays = nullInt(arrival)
	return c, err
}

// Component loads one component.
func (r Reader) Component(ctx context.Context, id int64) (models.Component, error) {
	c, err := scanComponent(r.q.QueryRowContext(ctx, "SELECT "+componentColumns+" FROM components WHERE id=?", id))
	if err != nil {
		return c, notFound("component", id, err)
	}
	return c, nil
}

// ListComponents returns every component ordered by part number.
func (r Reader) ListComponents(ctx context.Context) ([]models.Component, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT "+componentColumns+" FROM components ORDER BY part_number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []models.Component{}
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// CreateComponent inserts a component and returns it with its generated id.
func (t *Tx) CreateComponent(ctx context.Context, c models.Component) (models.Component, error) {
	var arrival any
	if c.EstimatedArrivalDays != nil {
		arrival = *c.EstimatedArrivalDays
	}
	res, err := t.exec(ctx, "create component",
		"INSERT INTO components (name,part_number,current_stock,monthly_required_quantity,estimated_arrival_days,created_at,updated_at) VALUES (?,?,?,?,?,?,?)",
		c.Name, c.PartNumber, c.CurrentStock, c.MonthlyRequiredQuantity, arrival, t.stamp(), t.stamp())
	if err != nil {
		return c, err
	}
	c.ID, _ = res.LastInsertId()
	c.CreatedAt, c.UpdatedAt = t.stamp(), t.stamp()
	return c, nil
}

// DeductStock subtracts amount from a component's stock and returns the new level.
// It does not enforce a floor; callers decide the negative-stock policy.
func (t *Tx) DeductStock(ctx context.Context, componentID int64, amount int) (int, error) {
	return t.adjustStock(ctx, "deduct stock", componentID, -amount)
}

// IncrementStock adds amount to a component's stock and returns the new level.
func (t *Tx) IncrementStock(ctx context.Context, componentID int64, amount int) (int, error) {
	return t.adjustStock(ctx, "increment stock", componentID, amount)
}

func (t *Tx) adjustStock(ctx context.Context, op string, componentID int64, delta int) (int, error) {
	var stock int
	err := t.tx.QueryRowContext(ctx,
		"UPDATE components SET current_stock=current_stock+?, updated_at=? WHERE id=? RETURNING current_stock",
		delta, t.stamp(), componentID).Scan(&stock)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%s: component %d: %w", op, componentID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
	}
	return stock, nil
}
