package planning

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
	"github.com/gauravv-jainn/oneup-sub000/internal/store"
	"github.com/gauravv-jainn/oneup-sub000/internal/validation"
)

// TriggerInput opens a replenishment trigger for a component.
type TriggerInput struct {
	ComponentID int64 `json:"component_id" validate:"gt=0"`
	// RequiredThreshold defaults to the component's monthly requirement.
	RequiredThreshold int `json:"required_threshold" validate:"gte=0"`
}

// PlaceOrderInput records the purchase placed for a pending trigger.
type PlaceOrderInput struct {
	QuantityOrdered      int    `json:"quantity_ordered" validate:"gt=0,lte=1000000"`
	ExpectedDeliveryDate string `json:"expected_delivery_date" validate:"required,datetime=2006-01-02"`
	SupplierName         string `json:"supplier_name" validate:"max=255"`
}

// Receipt is a received trigger and the stock it left the component with.
type Receipt struct {
	Trigger      models.ProcurementTrigger `json:"trigger"`
	CurrentStock int                       `json:"current_stock"`
}

// CreateTrigger opens a pending trigger with a snapshot of the component's stock.
func (p *Planner) CreateTrigger(ctx context.Context, in TriggerInput, actor string) (models.ProcurementTrigger, error) {
	ve := &validation.ValidationErrors{}
	validation.ValidateStruct(ve, in)
	if err := invalid(ve); err != nil {
		return models.ProcurementTrigger{}, err
	}
	var t models.ProcurementTrigger
	err := p.inTx(ctx, func(tx *store.Tx) error {
		c, err := tx.Component(ctx, in.ComponentID)
		if err != nil {
			return err
		}
		threshold := in.RequiredThreshold
		if threshold == 0 {
			threshold = c.MonthlyRequiredQuantity
		}
		t, err = tx.CreateTrigger(ctx, models.ProcurementTrigger{
			ComponentID:       c.ID,
			CurrentStock:      c.CurrentStock,
			RequiredThreshold: threshold,
			TriggerDate:       p.today().Format(store.DateLayout),
		})
		return err
	})
	if err != nil {
		return models.ProcurementTrigger{}, err
	}
	p.Audit.Log(ctx, actor, "CREATE", "procurement", strconv.FormatInt(t.ID, 10),
		fmt.Sprintf("Opened procurement trigger for %s", t.ComponentName), t)
	return t, nil
}

// OrderTrigger moves a pending trigger to ordered. From then on its quantity counts as
// incoming stock on and after the expected delivery date.
func (p *Planner) OrderTrigger(ctx context.Context, id int64, in PlaceOrderInput, actor string) (models.ProcurementTrigger, error) {
	ve := &validation.ValidationErrors{}
	validation.ValidateStruct(ve, in)
	if err := invalid(ve); err != nil {
		return models.ProcurementTrigger{}, err
	}
	var t models.ProcurementTrigger
	err := p.inTx(ctx, func(tx *store.Tx) error {
		cur, err := tx.Trigger(ctx, id)
		if err != nil {
			return err
		}
		ok, err := tx.MarkTriggerOrdered(ctx, id, in.QuantityOrdered, in.ExpectedDeliveryDate, in.SupplierName)
		if err != nil {
			return err
		}
		if !ok {
			return invalidf("procurement trigger %d is %s, not pending", id, cur.Status)
		}
		t, err = tx.Trigger(ctx, id)
		return err
	})
	if err != nil {
		return models.ProcurementTrigger{}, err
	}
	p.Audit.Log(ctx, actor, "UPDATE", "procurement", strconv.FormatInt(id, 10),
		fmt.Sprintf("Ordered %d of %s from %s", t.QuantityOrdered, t.ComponentName, t.SupplierName), t)
	return t, nil
}

// ReceiveTrigger moves an ordered trigger to received and adds its quantity to the
// component's stock in the same transaction.
func (p *Planner) ReceiveTrigger(ctx context.Context, id int64, actor string) (Receipt, error) {
	var rc Receipt
	err := p.inTx(ctx, func(tx *store.Tx) error {
		cur, err := tx.Trigger(ctx, id)
		if err != nil {
			return err
		}
		ok, err := tx.MarkTriggerReceived(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return invalidf("procurement trigger %d is %s, not ordered", id, cur.Status)
		}
		if rc.CurrentStock, err = tx.IncrementStock(ctx, cur.ComponentID, cur.QuantityOrdered); err != nil {
			return err
		}
		rc.Trigger, err = tx.Trigger(ctx, id)
		return err
	})
	if err != nil {
		return Receipt{}, err
	}
	p.Audit.Log(ctx, actor, "RECEIVE", "procurement", strconv.FormatInt(id, 10),
		fmt.Sprintf("Received %d of %s", rc.Trigger.QuantityOrdered, rc.Trigger.ComponentName), rc)
	return rc, nil
}

// GetTrigger loads one procurement trigger.
func (p *Planner) GetTrigger(ctx context.Context, id int64) (models.ProcurementTrigger, error) {
	return p.Store.Trigger(ctx, id)
}

// ListTriggers returns triggers, optionally filtered by status and component.
func (p *Planner) ListTriggers(ctx context.Context, status string, componentID int64) ([]models.ProcurementTrigger, error) {
	ve := &validation.ValidationErrors{}
	validation.ValidateEnum(ve, "status", status, validation.ValidTriggerStatuses)
	if err := invalid(ve); err != nil {
		return nil, err
	}
	return p.Store.ListTriggers(ctx, status, componentID)
}
