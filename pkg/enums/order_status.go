package enums

import "fmt"

// OrderStatus tracks the lifecycle of a service order.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusConfirmed,
	OrderStatusInProgress,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusNew:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusInProgress, OrderStatusCancelled},
	OrderStatusInProgress: {OrderStatusCompleted, OrderStatusCancelled},
}

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusNew:        "New",
	OrderStatusConfirmed:  "Confirmed",
	OrderStatusInProgress: "In progress",
	OrderStatusCompleted:  "Completed",
	OrderStatusCancelled:  "Cancelled",
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// Label returns the human-readable status name.
func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s.IsValid() && len(orderStatusTransitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to next is permitted.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range orderStatusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
