package partner

import (
	"context"

	"github.com/auromart/commerce-service/internal/auth"
	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/internal/partner/dto"
)

type UseCase interface {
	Invite(ctx context.Context, actor auth.Actor, input *dto.InviteInput) (*model.Partnership, error)
	Respond(ctx context.Context, actor auth.Actor, input *dto.RespondInput) (*model.Partnership, error)
	ListApproved(ctx context.Context, actor auth.Actor) ([]model.Partnership, error)
	ListPendingRequests(ctx context.Context, actor auth.Actor) ([]model.Partnership, error)

	// ArePartners reports whether an approved partnership exists
	// between the two users, in either direction.
	ArePartners(ctx context.Context, userA, userB string) (bool, error)

	AddFavorite(ctx context.Context, actor auth.Actor, input *dto.AddFavoriteInput) (*model.Favorite, error)
	RemoveFavorite(ctx context.Context, actor auth.Actor, favoriteID string) error
	ListFavorites(ctx context.Context, actor auth.Actor) ([]model.Favorite, error)
}
