package planning

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
	"github.com/gauravv-jainn/oneup-sub000/internal/store"
)

// StockWarning is a component that execution drove below zero under the negative-stock policy.
type StockWarning struct {
	ComponentID int64  `json:"component_id"`
	Name        string `json:"name"`
	Stock       int    `json:"stock"`
}

// ExecutionResult describes a committed order execution.
type ExecutionResult struct {
	OrderID            int64          `json:"order_id"`
	Message            string         `json:"message"`
	ProductionEntryIDs []int64        `json:"production_entry_ids"`
	TriggerIDs         []int64        `json:"procurement_trigger_ids,omitempty"`
	Warnings           []StockWarning `json:"warnings,omitempty"`
}

// ExecuteOrder produces every line of an order in one transaction: it checks stock, deducts
// it, records consumption and production entries and completes the order. On any error
// nothing is applied. Components left below their monthly requirement get a pending
// procurement trigger unless one is already open.
func (p *Planner) ExecuteOrder(ctx context.Context, orderID int64, actor string) (ExecutionResult, error) {
	var res ExecutionResult
	err := p.inTx(ctx, func(tx *store.Tx) error {
		var err error
		res, err = p.execute(ctx, tx, orderID)
		return err
	})
	if err != nil {
		p.Log.Info("order execution rejected", zap.Int64("order_id", orderID), zap.Error(err))
		return ExecutionResult{}, err
	}

	p.Log.Info("order executed",
		zap.Int64("order_id", orderID),
		zap.Int("production_entries", len(res.ProductionEntryIDs)),
		zap.Int("procurement_triggers", len(res.TriggerIDs)),
		zap.String("actor", actor))
	p.Audit.Log(ctx, actor, "EXECUTE", "future_order", strconv.FormatInt(orderID, 10), res.Message, res)
	return res, nil
}

func (p *Planner) execute(ctx context.Context, tx *store.Tx, orderID int64) (ExecutionResult, error) {
	res := ExecutionResult{OrderID: orderID}
	o, err := tx.Order(ctx, orderID)
	if err != nil {
		return res, err
	}
	if err := executable(o); err != nil {
		return res, err
	}
	lines := LinesOf(o).Lines()
	if len(lines) == 0 {
		return res, invalidf("order %d has no line items", orderID)
	}
	ex, err := explode(ctx, tx.Reader, lines)
	if err != nil {
		return res, err
	}

	components := make(map[int64]models.Component, len(ex.requirements))
	var shortfalls []Shortfall
	for _, req := range ex.requirements {
		c, err := tx.Component(ctx, req.ComponentID)
		if err != nil {
			return res, err
		}
		components[c.ID] = c
		if c.CurrentStock < req.Quantity {
			shortfalls = append(shortfalls, Shortfall{
				ComponentID: c.ID,
				Name:        c.Name,
				PartNumber:  c.PartNumber,
				Required:    req.Quantity,
				Available:   c.CurrentStock,
				Shortfall:   req.Quantity - c.CurrentStock,
			})
		}
	}
	if len(shortfalls) > 0 && !p.AllowNegativeStock {
		return res, &InsufficientStockError{Shortfalls: shortfalls}
	}

	stock := make(map[int64]int, len(components))
	for _, line := range lines {
		entryID, err := tx.CreateProductionEntry(ctx, line.PCBTypeID, line.QuantityRequired, o.ID)
		if err != nil {
			return res, err
		}
		res.ProductionEntryIDs = append(res.ProductionEntryIDs, entryID)
		for _, b := range ex.boms[line.PCBTypeID] {
			qty := b.QuantityPerUnit * line.QuantityRequired
			left, err := tx.DeductStock(ctx, b.ComponentID, qty)
			if err != nil {
				return res, err
			}
			stock[b.ComponentID] = left
			if err := tx.RecordConsumption(ctx, entryID, b.ComponentID, qty); err != nil {
				return res, err
			}
		}
	}

	for _, req := range ex.requirements {
		c := components[req.ComponentID]
		left := stock[c.ID]
		if left < 0 {
			p.Log.Warn("stock driven negative",
				zap.Int64("order_id", orderID),
				zap.Int64("component_id", c.ID),
				zap.String("part_number", c.PartNumber),
				zap.Int("stock", left))
			res.Warnings = append(res.Warnings, StockWarning{ComponentID: c.ID, Name: c.Name, Stock: left})
		}
		if left >= c.MonthlyRequiredQuantity {
			continue
		}
		open, err := tx.HasOpenTrigger(ctx, c.ID)
		if err != nil {
			return res, fmt.Errorf("open trigger for component %d: %w", c.ID, err)
		}
		if open {
			continue
		}
		t, err := tx.CreateTrigger(ctx, models.ProcurementTrigger{
			ComponentID:       c.ID,
			CurrentStock:      left,
			RequiredThreshold: c.MonthlyRequiredQuantity,
			TriggerDate:       p.today().Format(store.DateLayout),
		})
		if err != nil {
			return res, err
		}
		res.TriggerIDs = append(res.TriggerIDs, t.ID)
	}

	ok, err := tx.SetOrderStatus(ctx, o.ID, models.OrderCompleted)
	if err != nil {
		return res, err
	}
	if !ok {
		return res, fmt.Errorf("order %d: %w", orderID, ErrAlreadyCompleted)
	}
	res.Message = fmt.Sprintf("Order %q executed: %d production entries created", o.OrderName, len(res.ProductionEntryIDs))
	return res, nil
}

func executable(o models.FutureOrder) error {
	switch o.Status {
	case models.OrderCompleted:
		return fmt.Errorf("order %d: %w", o.ID, ErrAlreadyCompleted)
	case models.OrderCancelled:
		return fmt.Errorf("order %d is cancelled: %w: %w", o.ID, ErrAlreadyCompleted, ErrOrderLocked)
	}
	return nil
}
