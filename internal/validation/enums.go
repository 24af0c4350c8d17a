package validation

// Common enum values - these MUST match DB CHECK constraints in the database package.
var (
	ValidOrderStatuses   = []string{"pending", "confirmed", "at_risk", "completed", "cancelled"}
	ValidTriggerStatuses = []string{"pending", "ordered", "received"}

	// ValidNewOrderStatuses are the statuses a client may request when creating or editing an order.
	ValidNewOrderStatuses = []string{"pending", "confirmed", "at_risk"}
)
