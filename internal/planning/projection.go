package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
	"github.com/gauravv-jainn/oneup-sub000/internal/store"
)

// Projection is the expected stock of a component on a date.
type Projection struct {
	ComponentID int64  `json:"component_id"`
	TargetDate  string `json:"target_date"`
	Current     int    `json:"current"`
	Incoming    int    `json:"incoming"`
	Reserved    int    `json:"reserved"`
	Projected   int    `json:"projected"`
}

// Project computes current + incoming - reserved for a component at target. Incoming is
// ordered procurement due by target; reserved is the demand of confirmed and at_risk orders
// scheduled by target. An unknown component is ErrNotFound.
func (p *Planner) Project(ctx context.Context, componentID int64, target time.Time) (Projection, error) {
	return project(ctx, p.Store.Reader, componentID, target, 0)
}

// ProjectExcluding is Project with one order's reservation left out.
func (p *Planner) ProjectExcluding(ctx context.Context, componentID int64, target time.Time, orderID int64) (Projection, error) {
	return project(ctx, p.Store.Reader, componentID, target, orderID)
}

func project(ctx context.Context, r store.Reader, componentID int64, target time.Time, excludeOrderID int64) (Projection, error) {
	pr := Projection{ComponentID: componentID, TargetDate: target.Format(store.DateLayout)}
	c, err := r.Component(ctx, componentID)
	if err != nil {
		return pr, err
	}
	pr.Current = c.CurrentStock
	if pr.Incoming, err = r.IncomingQuantity(ctx, componentID, target); err != nil {
		return pr, fmt.Errorf("incoming for component %d: %w", componentID, err)
	}
	if pr.Reserved, err = r.ReservedQuantity(ctx, componentID, target, excludeOrderID); err != nil {
		return pr, fmt.Errorf("reserved for component %d: %w", componentID, err)
	}
	pr.Projected = pr.Current + pr.Incoming - pr.Reserved
	return pr, nil
}

// StockLine is one component's row of a stock report.
type StockLine struct {
	Component models.Component `json:"component"`
	Projection
	// BelowMonthly is set when the projection falls short of the monthly requirement.
	BelowMonthly bool `json:"below_monthly_requirement"`
}

// StockReport projects every component to target, in part number order.
func (p *Planner) StockReport(ctx context.Context, target time.Time) ([]StockLine, error) {
	comps, err := p.Store.ListComponents(ctx)
	if err != nil {
		return nil, err
	}
	lines := make([]StockLine, 0, len(comps))
	for _, c := range comps {
		pr, err := project(ctx, p.Store.Reader, c.ID, target, 0)
		if err != nil {
			return nil, err
		}
		lines = append(lines, StockLine{
			Component:    c,
			Projection:   pr,
			BelowMonthly: pr.Projected < c.MonthlyRequiredQuantity,
		})
	}
	return lines, nil
}
