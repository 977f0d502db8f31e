package dto

import "github.com/auromart/commerce-service/internal/model"

type OrderFilters struct {
	Status   string
	Role     string // "requester", "fulfiller" or empty for both
	Page     int
	PageSize int
}

// StatusUpdate is the transactional payload for one status transition.
// ExpectedStatus guards against concurrent transitions: the repository
// updates the row only when the status still matches.
type StatusUpdate struct {
	OrderID        string
	ExpectedStatus model.OrderStatus
	NewStatus      model.OrderStatus
	History        *model.OrderStatusHistory
	ReleaseStock   bool
	ConsumeStock   bool
	FulfillerID    string
	Items          []model.OrderItem
}
