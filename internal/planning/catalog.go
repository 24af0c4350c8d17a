package planning

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
	"github.com/gauravv-jainn/oneup-sub000/internal/store"
	"github.com/gauravv-jainn/oneup-sub000/internal/validation"
)

// ComponentInput describes a new component.
type ComponentInput struct {
	Name                    string `json:"name" validate:"max=255"`
	PartNumber              string `json:"part_number" validate:"max=100"`
	CurrentStock            int    `json:"current_stock" validate:"gte=0,lte=1000000"`
	MonthlyRequiredQuantity int    `json:"monthly_required_quantity" validate:"gt=0,lte=1000000"`
	EstimatedArrivalDays    *int   `json:"estimated_arrival_days" validate:"omitempty,gte=0,lte=730"`
}

// PCBTypeInput describes a new PCB type.
type PCBTypeInput struct {
	Name        string `json:"name" validate:"max=255"`
	Description string `json:"description" validate:"max=10000"`
}

// BOMLineInput sets one component's per-board quantity on a PCB type.
type BOMLineInput struct {
	ComponentID    int64 `json:"component_id" validate:"gt=0"`
	QuantityPerPCB int   `json:"quantity_per_pcb" validate:"gt=0,lte=1000000"`
}

// CreateComponent adds a component to the inventory.
func (p *Planner) CreateComponent(ctx context.Context, in ComponentInput, actor string) (models.Component, error) {
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "name", in.Name)
	validation.RequireField(ve, "part_number", in.PartNumber)
	validation.ValidateStruct(ve, in)
	if err := invalid(ve); err != nil {
		return models.Component{}, err
	}
	var c models.Component
	err := p.inTx(ctx, func(tx *store.Tx) error {
		var err error
		c, err = tx.CreateComponent(ctx, models.Component{
			Name:                    in.Name,
			PartNumber:              in.PartNumber,
			CurrentStock:            in.CurrentStock,
			MonthlyRequiredQuantity: in.MonthlyRequiredQuantity,
			EstimatedArrivalDays:    in.EstimatedArrivalDays,
		})
		return err
	})
	if err != nil {
		return c, err
	}
	p.Audit.Log(ctx, actor, "CREATE", "component", strconv.FormatInt(c.ID, 10),
		fmt.Sprintf("Created component %s", c.PartNumber), c)
	return c, nil
}

// GetComponent loads one component.
func (p *Planner) GetComponent(ctx context.Context, id int64) (models.Component, error) {
	return p.Store.Component(ctx, id)
}

// ListComponents returns every component.
func (p *Planner) ListComponents(ctx context.Context) ([]models.Component, error) {
	return p.Store.ListComponents(ctx)
}

// CreatePCBType adds a PCB type without BOM lines.
func (p *Planner) CreatePCBType(ctx context.Context, in PCBTypeInput, actor string) (models.PCBType, error) {
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "name", in.Name)
	validation.ValidateStruct(ve, in)
	if err := invalid(ve); err != nil {
		return models.PCBType{}, err
	}
	var pt models.PCBType
	err := p.inTx(ctx, func(tx *store.Tx) error {
		var err error
		pt, err = tx.CreatePCBType(ctx, models.PCBType{Name: in.Name, Description: in.Description})
		return err
	})
	if err != nil {
		return pt, err
	}
	p.Audit.Log(ctx, actor, "CREATE", "pcb_type", strconv.FormatInt(pt.ID, 10),
		fmt.Sprintf("Created PCB type %s", pt.Name), pt)
	return pt, nil
}

// ListPCBTypes returns every PCB type.
func (p *Planner) ListPCBTypes(ctx context.Context) ([]models.PCBType, error) {
	return p.Store.ListPCBTypes(ctx)
}

// SetBOMLine adds or changes a component line of a PCB type.
func (p *Planner) SetBOMLine(ctx context.Context, pcbTypeID int64, in BOMLineInput, actor string) (models.BOMLine, error) {
	ve := &validation.ValidationErrors{}
	validation.ValidateStruct(ve, in)
	if err := invalid(ve); err != nil {
		return models.BOMLine{}, err
	}
	var line models.BOMLine
	err := p.inTx(ctx, func(tx *store.Tx) error {
		if _, err := tx.PCBType(ctx, pcbTypeID); err != nil {
			return err
		}
		if _, err := tx.Component(ctx, in.ComponentID); err != nil {
			return err
		}
		var err error
		line, err = tx.UpsertBOMLine(ctx, models.BOMLine{
			PCBTypeID:      pcbTypeID,
			ComponentID:    in.ComponentID,
			QuantityPerPCB: in.QuantityPerPCB,
		})
		return err
	})
	if err != nil {
		return line, err
	}
	p.Audit.Log(ctx, actor, "UPDATE", "pcb_type", strconv.FormatInt(pcbTypeID, 10),
		fmt.Sprintf("Set %d x component %d on PCB type %d", in.QuantityPerPCB, in.ComponentID, pcbTypeID), line)
	return line, nil
}
