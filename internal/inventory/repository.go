package inventory

import (
	"context"

	"github.com/auromart/commerce-service/internal/inventory/dto"
	"github.com/auromart/commerce-service/internal/model"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*model.Inventory, error)
	GetByProduct(ctx context.Context, distributorID, productID string) (*model.Inventory, error)
	FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error)

	// CreateWithMovement inserts a new ledger entry and its initial
	// audit row in one transaction.
	CreateWithMovement(ctx context.Context, inv *model.Inventory, movement *model.StockMovement) error

	// ApplyDelta adds delta.Delta to the total and recomputes available
	// from the live reserved count in one guarded UPDATE, appending the
	// audit row in the same transaction. Returns InsufficientStock when
	// the total would fall below the reserved count. The movement's
	// inventory fields and before/after quantities are filled from the
	// updated row.
	ApplyDelta(ctx context.Context, delta *dto.QuantityDelta, movement *model.StockMovement) (*model.Inventory, error)

	Analytics(ctx context.Context, distributorID string) (*dto.Analytics, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}

// ProductReader is the slice of the product repository the inventory
// usecase needs for row validation.
type ProductReader interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}
