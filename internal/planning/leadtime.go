package planning

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
	"github.com/gauravv-jainn/oneup-sub000/internal/store"
)

// Where a component's wait came from.
const (
	LeadSourceDeclared = "declared"
	LeadSourceHistory  = "history"
	LeadSourceDefault  = "default"
)

// WaitDetail is the expected wait of one component that is short of its requirement.
type WaitDetail struct {
	ComponentID   int64  `json:"component_id"`
	Name          string `json:"name"`
	PartNumber    string `json:"part_number"`
	Shortage      int    `json:"shortage"`
	EstimatedDays int    `json:"estimated_days"`
	Source        string `json:"source"`
	CurrentStock  int    `json:"current_stock"`
	Required      int    `json:"required"`
}

// Estimate is the earliest date an order could be produced.
type Estimate struct {
	Feasible                bool         `json:"feasible"`
	EstimatedProductionDate string       `json:"estimated_production_date"`
	MaxWaitDays             int          `json:"max_wait_days"`
	BindingComponent        *WaitDetail  `json:"binding_component,omitempty"`
	Details                 []WaitDetail `json:"details"`
}

// EstimateDate works out how long until every component of lines physically exists in the
// needed quantity. Only current stock counts; reservations and incoming procurement are
// ignored. The slowest short component sets the date.
func (p *Planner) EstimateDate(ctx context.Context, lines []LineItem) (Estimate, error) {
	today := p.today()
	est := Estimate{
		Feasible:                true,
		EstimatedProductionDate: today.Format(store.DateLayout),
		Details:                 []WaitDetail{},
	}
	if err := ValidateLines(lines); err != nil {
		return est, err
	}
	r := p.Store.Reader
	ex, err := explode(ctx, r, lines)
	if err != nil {
		return est, err
	}
	binding := -1
	for _, req := range ex.requirements {
		c, err := r.Component(ctx, req.ComponentID)
		if err != nil {
			return est, err
		}
		shortage := req.Quantity - c.CurrentStock
		if shortage <= 0 {
			continue
		}
		days, source, err := p.leadDays(ctx, r, c)
		if err != nil {
			return est, err
		}
		est.Details = append(est.Details, WaitDetail{
			ComponentID:   c.ID,
			Name:          c.Name,
			PartNumber:    c.PartNumber,
			Shortage:      shortage,
			EstimatedDays: days,
			Source:        source,
			CurrentStock:  c.CurrentStock,
			Required:      req.Quantity,
		})
		if binding < 0 || days > est.MaxWaitDays {
			binding = len(est.Details) - 1
			est.MaxWaitDays = days
		}
	}
	if binding >= 0 {
		b := est.Details[binding]
		est.BindingComponent = &b
	}
	est.Feasible = est.MaxWaitDays == 0
	est.EstimatedProductionDate = today.AddDate(0, 0, est.MaxWaitDays).Format(store.DateLayout)
	return est, nil
}

// leadDays is the declared arrival time of a component, else the rounded-up mean gap of its
// received procurement, else the configured default.
func (p *Planner) leadDays(ctx context.Context, r store.Reader, c models.Component) (int, string, error) {
	if c.EstimatedArrivalDays != nil {
		return *c.EstimatedArrivalDays, LeadSourceDeclared, nil
	}
	history, err := r.ReceivedHistory(ctx, c.ID)
	if err != nil {
		return 0, "", err
	}
	if days, ok := averageGapDays(history); ok {
		return days, LeadSourceHistory, nil
	}
	return p.DefaultLeadDays, LeadSourceDefault, nil
}

// averageGapDays is ceil(mean(delivery - trigger)) in days. Samples with unreadable dates are
// skipped; it reports false when none remain.
func averageGapDays(samples []store.LeadTimeSample) (int, bool) {
	total := decimal.Zero
	n := 0
	for _, s := range samples {
		from, err1 := ParseDate(dateOnly(s.TriggerDate))
		to, err2 := ParseDate(dateOnly(s.DeliveryDate))
		if err1 != nil || err2 != nil {
			continue
		}
		gap := int64(to.Sub(from).Hours() / 24)
		if gap < 0 {
			gap = 0
		}
		total = total.Add(decimal.NewFromInt(gap))
		n++
	}
	if n == 0 {
		return 0, false
	}
	return int(total.Div(decimal.NewFromInt(int64(n))).Ceil().IntPart()), true
}

func dateOnly(s string) string {
	if len(s) > len(store.DateLayout) {
		return s[:len(store.DateLayout)]
	}
	return s
}
