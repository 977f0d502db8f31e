package order

import (
	"context"

	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/internal/order/dto"
)

type Repository interface {
	// CreateWithItems writes the order, its line items, the initial
	// history row and the stock reservations in one transaction. It
	// fails with InsufficientStock when any line cannot be reserved,
	// leaving no partial state behind.
	CreateWithItems(ctx context.Context, order *model.Order, history *model.OrderStatusHistory) error

	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetDetail(ctx context.Context, id string) (*model.Order, error)
	GetItems(ctx context.Context, orderID string) ([]model.OrderItem, error)
	FindAllForUser(ctx context.Context, userID string, filters *dto.OrderFilters) ([]model.Order, int, error)

	// TransitionStatus performs the guarded status update, appends the
	// history row and, when requested, releases the per-line stock
	// reservations, all in one transaction. Zero rows updated means a
	// concurrent transition won.
	TransitionStatus(ctx context.Context, update *dto.StatusUpdate) error
}

// StockReader resolves the fulfiller's ledger rows for price snapshots
// and availability checks at order creation.
type StockReader interface {
	GetByProduct(ctx context.Context, distributorID, productID string) (*model.Inventory, error)
}

// PartnershipChecker gates which fulfillers an actor may order from.
type PartnershipChecker interface {
	ArePartners(ctx context.Context, userA, userB string) (bool, error)
}

// UserReader validates the fulfiller referenced by a new order.
type UserReader interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}
