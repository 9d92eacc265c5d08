package domain

import "strings"

// OrderStatus is the order lifecycle enumeration. Legal transitions form a
// directed acyclic graph; Cancelled and Refunded have no outgoing edges.
type OrderStatus string

const (
	StatusDraft      OrderStatus = "Draft"
	StatusPending    OrderStatus = "Pending"
	StatusConfirmed  OrderStatus = "Confirmed"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
	StatusRefunded   OrderStatus = "Refunded"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusDraft:      {StatusPending, StatusCancelled},
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusRefunded},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

// CanTransitionTo reports whether the transition graph has an edge to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		StatusDraft, StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded,
	}
}

// ParseOrderStatus parses a status name, case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, known := range AllOrderStatuses() {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", newValidationError("unknown order status: %q", s)
}
