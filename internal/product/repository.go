package product

import (
	"context"

	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindBySKU(ctx context.Context, ownerID, sku string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, p *model.Product) error

	// Catalog returns the owner's active products left-joined with the
	// owner's ledger rows for selling price and availability.
	Catalog(ctx context.Context, ownerID string) ([]model.CatalogEntry, error)
}
