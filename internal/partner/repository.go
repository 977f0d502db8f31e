package partner

import (
	"context"

	"github.com/auromart/commerce-service/internal/model"
)

type Repository interface {
	CreatePartnership(ctx context.Context, p *model.Partnership) error
	GetPartnership(ctx context.Context, id string) (*model.Partnership, error)
	// GetByPair returns the partnership for the ordered pair, trying
	// both directions.
	GetByPair(ctx context.Context, userA, userB string) (*model.Partnership, error)
	UpdatePartnershipStatus(ctx context.Context, id string, status model.PartnershipStatus) error
	// ResetPartnership rewrites a rejected row in place as a fresh
	// pending invite, keeping the pair down to a single row.
	ResetPartnership(ctx context.Context, p *model.Partnership) error
	ListPartnerships(ctx context.Context, userID string, status model.PartnershipStatus) ([]model.Partnership, error)
	ListPendingFor(ctx context.Context, partnerID string) ([]model.Partnership, error)

	CreateFavorite(ctx context.Context, f *model.Favorite) error
	GetFavorite(ctx context.Context, id string) (*model.Favorite, error)
	GetFavoriteByPair(ctx context.Context, ownerID, favoriteID string) (*model.Favorite, error)
	DeleteFavorite(ctx context.Context, id string) error
	ListFavorites(ctx context.Context, ownerID string) ([]model.Favorite, error)
}

// UserReader validates invite and favorite targets.
type UserReader interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}
