package planning

import (
	"context"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
	"github.com/gauravv-jainn/oneup-sub000/internal/store"
)

// ResolveBOM returns the components of a PCB type with their per-board quantities. An unknown
// PCB type is ErrNotFound; a PCB type without lines yields an empty list.
func (p *Planner) ResolveBOM(ctx context.Context, pcbTypeID int64) ([]models.BOMComponent, error) {
	return resolveBOM(ctx, p.Store.Reader, pcbTypeID)
}

func resolveBOM(ctx context.Context, r store.Reader, pcbTypeID int64) ([]models.BOMComponent, error) {
	if _, err := r.PCBType(ctx, pcbTypeID); err != nil {
		return nil, err
	}
	return r.BOM(ctx, pcbTypeID)
}

// requirement is the total quantity of one component needed by a set of lines.
type requirement struct {
	ComponentID int64
	Name        string
	PartNumber  string
	Quantity    int
}

// explosion is the per-component total of a set of lines plus the BOM of each PCB type used.
type explosion struct {
	requirements []requirement
	boms         map[int64][]models.BOMComponent
}

// explode resolves the BOM of every line and sums component needs across lines. Components
// keep the order they are first met in: line order, then component id within a BOM.
func explode(ctx context.Context, r store.Reader, lines []LineItem) (explosion, error) {
	ex := explosion{boms: make(map[int64][]models.BOMComponent)}
	index := make(map[int64]int)
	for _, line := range lines {
		bom, ok := ex.boms[line.PCBTypeID]
		if !ok {
			var err error
			if bom, err = resolveBOM(ctx, r, line.PCBTypeID); err != nil {
				return ex, err
			}
			ex.boms[line.PCBTypeID] = bom
		}
		for _, b := range bom {
			need := b.QuantityPerUnit * line.QuantityRequired
			if i, seen := index[b.ComponentID]; seen {
				ex.requirements[i].Quantity += need
				continue
			}
			index[b.ComponentID] = len(ex.requirements)
			ex.requirements = append(ex.requirements, requirement{
				ComponentID: b.ComponentID,
				Name:        b.Name,
				PartNumber:  b.PartNumber,
				Quantity:    need,
			})
		}
	}
	return ex, nil
}
