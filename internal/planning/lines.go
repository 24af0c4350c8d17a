package planning

import (
	"github.com/gauravv-jainn/oneup-sub000/internal/models"
	"github.com/gauravv-jainn/oneup-sub000/internal/validation"
)

// LineItem is one PCB type and how many boards of it an order needs.
type LineItem struct {
	PCBTypeID        int64 `json:"pcb_type_id" validate:"gt=0"`
	QuantityRequired int   `json:"quantity_required" validate:"gt=0,lte=1000000"`
}

// OrderLines is the set of lines an order is made of. An order stores its lines in exactly one
// shape: the single PCB/quantity pair of orders created before items existed, or an item list.
type OrderLines interface {
	Lines() []LineItem
	orderLines()
}

// LegacySingle is the embedded PCB type and quantity of an order without item rows.
type LegacySingle struct {
	PCBTypeID int64
	Quantity  int
}

func (l LegacySingle) Lines() []LineItem {
	return []LineItem{{PCBTypeID: l.PCBTypeID, QuantityRequired: l.Quantity}}
}

func (LegacySingle) orderLines() {}

// ItemList is the line items of an order.
type ItemList []LineItem

func (l ItemList) Lines() []LineItem { return []LineItem(l) }

func (ItemList) orderLines() {}

// LinesOf picks the one representation an order is stored in. Item rows win; the legacy pair
// is used only when there are none.
func LinesOf(o models.FutureOrder) OrderLines {
	if len(o.Items) > 0 {
		items := make(ItemList, len(o.Items))
		for i, it := range o.Items {
			items[i] = LineItem{PCBTypeID: it.PCBTypeID, QuantityRequired: it.QuantityRequired}
		}
		return items
	}
	if o.LegacyPCBTypeID != nil && o.LegacyQuantity != nil {
		return LegacySingle{PCBTypeID: *o.LegacyPCBTypeID, Quantity: *o.LegacyQuantity}
	}
	return ItemList(nil)
}

// normalizeItems fills the item list of a legacy order from its embedded pair so callers
// always see items.
func normalizeItems(o *models.FutureOrder) {
	if single, ok := LinesOf(*o).(LegacySingle); ok {
		o.Items = []models.OrderItem{{OrderID: o.ID, PCBTypeID: single.PCBTypeID, QuantityRequired: single.Quantity}}
	}
}

type lineSet struct {
	Items []LineItem `json:"items" validate:"dive"`
}

// ValidateLines checks every line has a PCB type and a positive quantity.
func ValidateLines(lines []LineItem) error {
	ve := &validation.ValidationErrors{}
	validation.ValidateStruct(ve, lineSet{Items: lines})
	return invalid(ve)
}

func toItems(lines []LineItem) []models.OrderItem {
	items := make([]models.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = models.OrderItem{PCBTypeID: l.PCBTypeID, QuantityRequired: l.QuantityRequired}
	}
	return items
}
