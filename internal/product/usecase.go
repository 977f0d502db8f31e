package product

import (
	"context"

	"github.com/auromart/commerce-service/internal/auth"
	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/internal/product/dto"
)

type UseCase interface {
	Create(ctx context.Context, actor auth.Actor, input *dto.CreateProductInput) (*model.Product, error)
	Get(ctx context.Context, actor auth.Actor, id string) (*model.Product, error)
	List(ctx context.Context, actor auth.Actor, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, actor auth.Actor, input *dto.UpdateProductInput) (*model.Product, error)
	Deactivate(ctx context.Context, actor auth.Actor, id string) error

	// BrowseCatalog lists a partner's catalog. It fails with
	// Unauthorized unless an approved partnership links the actor and
	// the catalog owner.
	BrowseCatalog(ctx context.Context, actor auth.Actor, partnerID string) ([]model.CatalogEntry, error)
}

// PartnershipChecker gates catalog visibility between two users.
type PartnershipChecker interface {
	ArePartners(ctx context.Context, userA, userB string) (bool, error)
}
