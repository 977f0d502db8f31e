package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/auromart/commerce-service/internal/auth"
	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/internal/partner"
	"github.com/auromart/commerce-service/internal/partner/dto"
	"github.com/auromart/commerce-service/pkg/apperrors"
	"github.com/auromart/commerce-service/pkg/logger"
)

type partnerUseCase struct {
	repo   partner.Repository
	users  partner.UserReader
	logger logger.Logger
}

func NewPartnerUseCase(repo partner.Repository, users partner.UserReader, log logger.Logger) partner.UseCase {
	return &partnerUseCase{
		repo:   repo,
		users:  users,
		logger: log,
	}
}

func (uc *partnerUseCase) Invite(ctx context.Context, actor auth.Actor, input *dto.InviteInput) (*model.Partnership, error) {
	if input.PartnerID == "" {
		return nil, apperrors.Validation("partner_id is required")
	}
	if input.PartnerID == actor.UserID {
		return nil, apperrors.Validation("cannot invite yourself")
	}
	partnerType := model.PartnerType(input.PartnerType)
	if !partnerType.Valid() {
		return nil, apperrors.Validation("unknown partner_type %q", input.PartnerType)
	}

	target, err := uc.users.FindByID(ctx, input.PartnerID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.NotFound("user %s not found", input.PartnerID)
	}

	existing, err := uc.repo.GetByPair(ctx, actor.UserID, input.PartnerID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != model.PartnershipRejected {
		return nil, apperrors.Validation("a partnership with %s already exists", input.PartnerID)
	}

	now := time.Now()
	p := &model.Partnership{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RequesterID: actor.UserID,
		PartnerID:   input.PartnerID,
		Status:      model.PartnershipPending,
		PartnerType: partnerType,
	}
	if existing != nil {
		// A rejected pair keeps its row; the unique pair constraint
		// would refuse a second INSERT. Rewrite it as a fresh pending
		// invite, possibly flipping who asks whom.
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		if err := uc.repo.ResetPartnership(ctx, p); err != nil {
			return nil, err
		}
	} else if err := uc.repo.CreatePartnership(ctx, p); err != nil {
		return nil, err
	}

	uc.logger.Info("partnership invite sent",
		zap.String("partnership_id", p.ID),
		zap.String("requester_id", p.RequesterID),
		zap.String("partner_id", p.PartnerID))
	return p, nil
}

func (uc *partnerUseCase) Respond(ctx context.Context, actor auth.Actor, input *dto.RespondInput) (*model.Partnership, error) {
	p, err := uc.repo.GetPartnership(ctx, input.PartnershipID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NotFound("partnership %s not found", input.PartnershipID)
	}
	// Only the invited side decides.
	if p.PartnerID != actor.UserID {
		return nil, apperrors.Unauthorized("only the invited partner may respond")
	}
	if p.Status != model.PartnershipPending {
		return nil, apperrors.Validation("partnership is already %s", p.Status)
	}

	status := model.PartnershipRejected
	if input.Accept {
		status = model.PartnershipApproved
	}
	if err := uc.repo.UpdatePartnershipStatus(ctx, p.ID, status); err != nil {
		return nil, err
	}
	p.Status = status

	uc.logger.Info("partnership responded",
		zap.String("partnership_id", p.ID),
		zap.String("status", string(status)))
	return p, nil
}

func (uc *partnerUseCase) ListApproved(ctx context.Context, actor auth.Actor) ([]model.Partnership, error) {
	return uc.repo.ListPartnerships(ctx, actor.UserID, model.PartnershipApproved)
}

func (uc *partnerUseCase) ListPendingRequests(ctx context.Context, actor auth.Actor) ([]model.Partnership, error) {
	return uc.repo.ListPendingFor(ctx, actor.UserID)
}

func (uc *partnerUseCase) ArePartners(ctx context.Context, userA, userB string) (bool, error) {
	p, err := uc.repo.GetByPair(ctx, userA, userB)
	if err != nil {
		return false, err
	}
	return p != nil && p.Status == model.PartnershipApproved, nil
}

func (uc *partnerUseCase) AddFavorite(ctx context.Context, actor auth.Actor, input *dto.AddFavoriteInput) (*model.Favorite, error) {
	if input.FavoriteID == "" {
		return nil, apperrors.Validation("favorite_id is required")
	}
	if input.FavoriteID == actor.UserID {
		return nil, apperrors.Validation("cannot favorite yourself")
	}
	favoriteType := model.PartnerType(input.FavoriteType)
	if !favoriteType.Valid() {
		return nil, apperrors.Validation("unknown favorite_type %q", input.FavoriteType)
	}

	target, err := uc.users.FindByID(ctx, input.FavoriteID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.NotFound("user %s not found", input.FavoriteID)
	}

	existing, err := uc.repo.GetFavoriteByPair(ctx, actor.UserID, input.FavoriteID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Validation("user %s is already a favorite", input.FavoriteID)
	}

	now := time.Now()
	f := &model.Favorite{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OwnerID:      actor.UserID,
		FavoriteID:   input.FavoriteID,
		FavoriteType: favoriteType,
	}
	if err := uc.repo.CreateFavorite(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (uc *partnerUseCase) RemoveFavorite(ctx context.Context, actor auth.Actor, favoriteID string) error {
	f, err := uc.repo.GetFavorite(ctx, favoriteID)
	if err != nil {
		return err
	}
	if f == nil {
		return apperrors.NotFound("favorite %s not found", favoriteID)
	}
	if f.OwnerID != actor.UserID {
		return apperrors.Unauthorized("favorite belongs to another user")
	}
	return uc.repo.DeleteFavorite(ctx, favoriteID)
}

func (uc *partnerUseCase) ListFavorites(ctx context.Context, actor auth.Actor) ([]model.Favorite, error) {
	return uc.repo.ListFavorites(ctx, actor.UserID)
}
