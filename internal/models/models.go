package models

// APIResponse is the standard JSON envelope for all API responses.
type APIResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Total int `json:"total,omitempty"`
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// Order statuses.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderAtRisk    = "at_risk"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// Procurement trigger statuses.
const (
	TriggerPending  = "pending"
	TriggerOrdered  = "ordered"
	TriggerReceived = "received"
)

type Component struct {
	ID                      int64  `json:"id"`
	Name                    string `json:"name"`
	PartNumber              string `json:"part_number"`
	CurrentStock            int    `json:"current_stock"`
	MonthlyRequiredQuantity int    `json:"monthly_required_quantity"`
	EstimatedArrivalDays    *int   `json:"estimated_arrival_days"`
	CreatedAt               string `json:"created_at"`
	UpdatedAt               string `json:"updated_at"`
}

type PCBType struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// BOMLine links a PCB type to one component and how many of it a single board consumes.
type BOMLine struct {
	ID             int64 `json:"id"`
	PCBTypeID      int64 `json:"pcb_type_id"`
	ComponentID    int64 `json:"component_id"`
	QuantityPerPCB int   `json:"quantity_per_pcb"`
}

// BOMComponent is one resolved BOM line of a PCB type.
type BOMComponent struct {
	ComponentID     int64  `json:"component_id"`
	Name            string `json:"name"`
	PartNumber      string `json:"part_number"`
	QuantityPerUnit int    `json:"quantity_per_unit"`
}

type FutureOrder struct {
	ID                      int64       `json:"id"`
	OrderName               string      `json:"order_name"`
	Status                  string      `json:"status"`
	ScheduledProductionDate string      `json:"scheduled_production_date"`
	DeliveryDate            string      `json:"delivery_date"`
	CreatedBy               string      `json:"created_by"`
	CreatedAt               string      `json:"created_at"`
	UpdatedAt               string      `json:"updated_at"`
	CompletedAt             *string     `json:"completed_at"`
	Items                   []OrderItem `json:"items"`

	// Orders created before line items existed carry a single embedded PCB/quantity pair.
	// These are only ever read; new orders are written as items.
	LegacyPCBTypeID *int64 `json:"-"`
	LegacyQuantity  *int   `json:"-"`
}

type OrderItem struct {
	ID               int64  `json:"id,omitempty"`
	OrderID          int64  `json:"order_id,omitempty"`
	PCBTypeID        int64  `json:"pcb_type_id"`
	PCBName          string `json:"pcb_name,omitempty"`
	QuantityRequired int    `json:"quantity_required"`
}

type ProcurementTrigger struct {
	ID                   int64   `json:"id"`
	ComponentID          int64   `json:"component_id"`
	ComponentName        string  `json:"component_name,omitempty"`
	CurrentStock         int     `json:"current_stock"`
	RequiredThreshold    int     `json:"required_threshold"`
	Status               string  `json:"status"`
	TriggerDate          string  `json:"trigger_date"`
	ExpectedDeliveryDate *string `json:"expected_delivery_date"`
	QuantityOrdered      int     `json:"quantity_ordered"`
	SupplierName         string  `json:"supplier_name"`
	ReceivedAt           *string `json:"received_at"`
}

type ProductionEntry struct {
	ID               int64  `json:"id"`
	PCBTypeID        int64  `json:"pcb_type_id"`
	QuantityProduced int    `json:"quantity_produced"`
	OrderID          *int64 `json:"order_id"`
	ProducedAt       string `json:"produced_at"`
}

type ConsumptionRecord struct {
	ID                int64  `json:"id"`
	ProductionEntryID int64  `json:"production_entry_id"`
	ComponentID       int64  `json:"component_id"`
	QuantityConsumed  int    `json:"quantity_consumed"`
	ConsumedAt        string `json:"consumed_at"`
}

// AuditEntry represents a single audit log record.
type AuditEntry struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	Module    string `json:"module"`
	RecordID  string `json:"record_id"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}
