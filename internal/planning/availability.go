package planning

import (
	"context"
	"time"

	"github.com/gauravv-jainn/oneup-sub000/internal/store"
)

// Component availability statuses.
const (
	StatusSufficient = "sufficient"
	StatusShortage   = "shortage"
)

// ComponentAvailability compares one component's requirement with its projection.
type ComponentAvailability struct {
	ComponentID      int64  `json:"component_id"`
	Name             string `json:"name"`
	PartNumber       string `json:"part_number"`
	RequiredQuantity int    `json:"required_quantity"`
	Current          int    `json:"current"`
	Incoming         int    `json:"incoming"`
	Reserved         int    `json:"reserved"`
	Projected        int    `json:"projected"`
	Status           string `json:"status"`
	Shortfall        int    `json:"shortfall"`
}

// Availability is the result of checking a set of lines on a date.
type Availability struct {
	CanFulfill bool                    `json:"can_fulfill"`
	TargetDate string                  `json:"target_date"`
	Components []ComponentAvailability `json:"components"`
}

// CheckAvailability sums the BOM needs of lines per component and compares each against its
// projection at target. No lines means nothing is missing, so the result can be fulfilled.
// The answer is advisory; nothing is reserved.
func (p *Planner) CheckAvailability(ctx context.Context, lines []LineItem, target time.Time) (Availability, error) {
	if err := ValidateLines(lines); err != nil {
		return Availability{}, err
	}
	return checkAvailability(ctx, p.Store.Reader, lines, target, 0)
}

func checkAvailability(ctx context.Context, r store.Reader, lines []LineItem, target time.Time, excludeOrderID int64) (Availability, error) {
	av := Availability{
		CanFulfill: true,
		TargetDate: target.Format(store.DateLayout),
		Components: []ComponentAvailability{},
	}
	ex, err := explode(ctx, r, lines)
	if err != nil {
		return av, err
	}
	for _, req := range ex.requirements {
		pr, err := project(ctx, r, req.ComponentID, target, excludeOrderID)
		if err != nil {
			return av, err
		}
		ca := ComponentAvailability{
			ComponentID:      req.ComponentID,
			Name:             req.Name,
			PartNumber:       req.PartNumber,
			RequiredQuantity: req.Quantity,
			Current:          pr.Current,
			Incoming:         pr.Incoming,
			Reserved:         pr.Reserved,
			Projected:        pr.Projected,
			Status:           StatusSufficient,
		}
		if pr.Projected < req.Quantity {
			ca.Status = StatusShortage
			ca.Shortfall = req.Quantity - pr.Projected
			av.CanFulfill = false
		}
		av.Components = append(av.Components, ca)
	}
	return av, nil
}
