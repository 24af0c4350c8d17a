package planning

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
	"github.com/gauravv-jainn/oneup-sub000/internal/store"
	"github.com/gauravv-jainn/oneup-sub000/internal/validation"
)

// OrderInput is the editable part of a future order.
type OrderInput struct {
	OrderName               string     `json:"order_name" validate:"max=255"`
	ScheduledProductionDate string     `json:"scheduled_production_date" validate:"required,datetime=2006-01-02"`
	DeliveryDate            string     `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Status                  string     `json:"status"`
	Items                   []LineItem `json:"items" validate:"required,min=1,dive"`
}

func (in OrderInput) validate() error {
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "order_name", in.OrderName)
	validation.ValidateStruct(ve, in)
	validation.ValidateEnum(ve, "status", in.Status, validation.ValidNewOrderStatuses)
	return invalid(ve)
}

// OrderPlan is an order together with the availability its status was derived from.
type OrderPlan struct {
	Order        models.FutureOrder `json:"order"`
	Availability Availability       `json:"availability"`
}

// ProductionRecord is one production entry created by executing an order.
type ProductionRecord struct {
	models.ProductionEntry
	Consumption []models.ConsumptionRecord `json:"consumption"`
}

// derivedStatus is requested when set, else confirmed if every component is available on the
// scheduled date and at_risk otherwise.
func derivedStatus(requested string, av Availability) string {
	if requested != "" {
		return requested
	}
	if av.CanFulfill {
		return models.OrderConfirmed
	}
	return models.OrderAtRisk
}

// CreateOrder stores a new order. Its status is derived from availability at the scheduled
// date unless the input names one.
func (p *Planner) CreateOrder(ctx context.Context, in OrderInput, actor string) (OrderPlan, error) {
	var plan OrderPlan
	if err := in.validate(); err != nil {
		return plan, err
	}
	target, err := ParseDate(in.ScheduledProductionDate)
	if err != nil {
		return plan, err
	}
	err = p.inTx(ctx, func(tx *store.Tx) error {
		av, err := checkAvailability(ctx, tx.Reader, in.Items, target, 0)
		if err != nil {
			return err
		}
		o, err := tx.CreateOrder(ctx, models.FutureOrder{
			OrderName:               in.OrderName,
			Status:                  derivedStatus(in.Status, av),
			ScheduledProductionDate: in.ScheduledProductionDate,
			DeliveryDate:            in.DeliveryDate,
			CreatedBy:               actor,
			Items:                   toItems(in.Items),
		})
		if err != nil {
			return err
		}
		plan = OrderPlan{Order: o, Availability: av}
		return nil
	})
	if err != nil {
		return OrderPlan{}, err
	}
	p.Audit.Log(ctx, actor, "CREATE", "future_order", strconv.FormatInt(plan.Order.ID, 10),
		fmt.Sprintf("Created future order %q (%s)", plan.Order.OrderName, plan.Order.Status), plan.Order)
	return plan, nil
}

// UpdateOrder replaces an order's name, dates and items. Completed and cancelled orders are
// locked. The status is re-derived unless the input names one.
func (p *Planner) UpdateOrder(ctx context.Context, id int64, in OrderInput, actor string) (OrderPlan, error) {
	var plan OrderPlan
	if err := in.validate(); err != nil {
		return plan, err
	}
	target, err := ParseDate(in.ScheduledProductionDate)
	if err != nil {
		return plan, err
	}
	var before models.FutureOrder
	err = p.inTx(ctx, func(tx *store.Tx) error {
		cur, err := tx.Order(ctx, id)
		if err != nil {
			return err
		}
		before = cur
		if err := editable(cur); err != nil {
			return err
		}
		av, err := checkAvailability(ctx, tx.Reader, in.Items, target, id)
		if err != nil {
			return err
		}
		o, err := tx.UpdateOrder(ctx, models.FutureOrder{
			ID:                      id,
			OrderName:               in.OrderName,
			Status:                  derivedStatus(in.Status, av),
			ScheduledProductionDate: in.ScheduledProductionDate,
			DeliveryDate:            in.DeliveryDate,
			Items:                   toItems(in.Items),
		})
		if err != nil {
			return err
		}
		plan = OrderPlan{Order: o, Availability: av}
		return nil
	})
	if err != nil {
		return OrderPlan{}, err
	}
	p.Audit.Log(ctx, actor, "UPDATE", "future_order", strconv.FormatInt(id, 10),
		fmt.Sprintf("Updated future order %q", plan.Order.OrderName),
		map[string]any{"before": before, "after": plan.Order})
	return plan, nil
}

// CancelOrder moves a pending, confirmed or at_risk order to cancelled.
func (p *Planner) CancelOrder(ctx context.Context, id int64, actor string) (models.FutureOrder, error) {
	var o models.FutureOrder
	err := p.inTx(ctx, func(tx *store.Tx) error {
		cur, err := tx.Order(ctx, id)
		if err != nil {
			return err
		}
		if err := editable(cur); err != nil {
			return err
		}
		ok, err := tx.SetOrderStatus(ctx, id, models.OrderCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("order %d: %w", id, ErrOrderLocked)
		}
		o, err = tx.Order(ctx, id)
		return err
	})
	if err != nil {
		return models.FutureOrder{}, err
	}
	normalizeItems(&o)
	p.Audit.Log(ctx, actor, "CANCEL", "future_order", strconv.FormatInt(id, 10),
		fmt.Sprintf("Cancelled future order %q", o.OrderName), nil)
	return o, nil
}

// RecheckOrder re-runs availability for an order at its scheduled date, leaving the order's
// own reservation out, and flips confirmed and at_risk to match. Pending orders keep their
// status.
func (p *Planner) RecheckOrder(ctx context.Context, id int64, actor string) (OrderPlan, error) {
	var plan OrderPlan
	var changed bool
	err := p.inTx(ctx, func(tx *store.Tx) error {
		o, err := tx.Order(ctx, id)
		if err != nil {
			return err
		}
		if err := editable(o); err != nil {
			return err
		}
		target, err := ParseDate(o.ScheduledProductionDate)
		if err != nil {
			return err
		}
		av, err := checkAvailability(ctx, tx.Reader, LinesOf(o).Lines(), target, id)
		if err != nil {
			return err
		}
		if o.Status != models.OrderPending {
			next := derivedStatus("", av)
			if next != o.Status {
				ok, err := tx.SetOrderStatus(ctx, id, next)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("order %d: %w", id, ErrOrderLocked)
				}
				changed = true
				if o, err = tx.Order(ctx, id); err != nil {
					return err
				}
			}
		}
		plan = OrderPlan{Order: o, Availability: av}
		return nil
	})
	if err != nil {
		return OrderPlan{}, err
	}
	normalizeItems(&plan.Order)
	if changed {
		p.Audit.Log(ctx, actor, "UPDATE", "future_order", strconv.FormatInt(id, 10),
			fmt.Sprintf("Future order %q is now %s", plan.Order.OrderName, plan.Order.Status), nil)
	}
	return plan, nil
}

// GetOrder loads one order with its items.
func (p *Planner) GetOrder(ctx context.Context, id int64) (models.FutureOrder, error) {
	o, err := p.Store.Order(ctx, id)
	if err != nil {
		return o, err
	}
	normalizeItems(&o)
	return o, nil
}

// ListOrders returns orders, optionally only those in status.
func (p *Planner) ListOrders(ctx context.Context, status string) ([]models.FutureOrder, error) {
	ve := &validation.ValidationErrors{}
	validation.ValidateEnum(ve, "status", status, validation.ValidOrderStatuses)
	if err := invalid(ve); err != nil {
		return nil, err
	}
	orders, err := p.Store.ListOrders(ctx, status)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		normalizeItems(&orders[i])
	}
	return orders, nil
}

// OrderProduction returns the production entries and consumption recorded when an order ran.
func (p *Planner) OrderProduction(ctx context.Context, id int64) ([]ProductionRecord, error) {
	if _, err := p.Store.Order(ctx, id); err != nil {
		return nil, err
	}
	entries, err := p.Store.ProductionForOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]ProductionRecord, 0, len(entries))
	for _, e := range entries {
		cons, err := p.Store.Consumption(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ProductionRecord{ProductionEntry: e, Consumption: cons})
	}
	return out, nil
}

func editable(o models.FutureOrder) error {
	if o.Status == models.OrderCompleted || o.Status == models.OrderCancelled {
		return fmt.Errorf("order %d is %s: %w", o.ID, o.Status, ErrOrderLocked)
	}
	return nil
}
