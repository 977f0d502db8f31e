package model

// OrderStatus is the order workflow state. Wire values are fixed.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusAccepted       OrderStatus = "accepted"
	StatusProcessing     OrderStatus = "processing"
	StatusPacked         OrderStatus = "packed"
	StatusShipped        OrderStatus = "shipped"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
	StatusRejected       OrderStatus = "rejected"
)

// statusTransitions is the authoritative adjacency table. Every status
// write is validated against it server-side, regardless of what the
// client dropdown offered.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusConfirmed, StatusAccepted, StatusRejected, StatusCancelled},
	StatusConfirmed:      {StatusAccepted, StatusProcessing, StatusRejected, StatusCancelled},
	StatusAccepted:       {StatusProcessing, StatusPacked, StatusRejected, StatusCancelled},
	StatusProcessing:     {StatusPacked, StatusShipped, StatusRejected, StatusCancelled},
	StatusPacked:         {StatusShipped, StatusOutForDelivery, StatusRejected, StatusCancelled},
	StatusShipped:        {StatusOutForDelivery, StatusDelivered, StatusRejected, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusRejected, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
	StatusRejected:       {},
}

func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is permitted.
func (s OrderStatus) IsTerminal() bool {
	next, ok := statusTransitions[s]
	return ok && len(next) == 0
}

// ReleasesStock reports whether entering the status returns the
// reservation made at order creation to the ledger.
func (s OrderStatus) ReleasesStock() bool {
	return s == StatusCancelled || s == StatusRejected
}

// ConsumesStock reports whether entering the status turns the
// reservation into fulfilled goods: both the total and the reserved
// count drop, and the units leave the ledger for good.
func (s OrderStatus) ConsumesStock() bool {
	return s == StatusDelivered
}

// NextStatuses returns the allowed targets from s, in workflow order.
func (s OrderStatus) NextStatuses() []OrderStatus {
	next := statusTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}
