package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auromart/commerce-service/internal/auth"
	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/internal/partner/dto"
	"github.com/auromart/commerce-service/pkg/apperrors"
	"github.com/auromart/commerce-service/pkg/logger"
)

type fakeRepo struct {
	partnerships map[string]*model.Partnership
	favorites    map[string]*model.Favorite
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		partnerships: map[string]*model.Partnership{},
		favorites:    map[string]*model.Favorite{},
	}
}

func (r *fakeRepo) CreatePartnership(_ context.Context, p *model.Partnership) error {
	// Mirrors the unique pair constraint on the partnerships table.
	for _, existing := range r.partnerships {
		if existing.RequesterID == p.RequesterID && existing.PartnerID == p.PartnerID {
			return fmt.Errorf("duplicate key value violates unique constraint %q", "partnerships_requester_id_partner_id_key")
		}
	}
	cp := *p
	r.partnerships[p.ID] = &cp
	return nil
}

func (r *fakeRepo) ResetPartnership(_ context.Context, p *model.Partnership) error {
	if _, ok := r.partnerships[p.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *p
	r.partnerships[p.ID] = &cp
	return nil
}

func (r *fakeRepo) GetPartnership(_ context.Context, id string) (*model.Partnership, error) {
	p, ok := r.partnerships[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) GetByPair(_ context.Context, userA, userB string) (*model.Partnership, error) {
	for _, p := range r.partnerships {
		if (p.RequesterID == userA && p.PartnerID == userB) ||
			(p.RequesterID == userB && p.PartnerID == userA) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) UpdatePartnershipStatus(_ context.Context, id string, status model.PartnershipStatus) error {
	r.partnerships[id].Status = status
	return nil
}

func (r *fakeRepo) ListPartnerships(_ context.Context, userID string, status model.PartnershipStatus) ([]model.Partnership, error) {
	var out []model.Partnership
	for _, p := range r.partnerships {
		if p.Status == status && (p.RequesterID == userID || p.PartnerID == userID) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListPendingFor(_ context.Context, partnerID string) ([]model.Partnership, error) {
	var out []model.Partnership
	for _, p := range r.partnerships {
		if p.Status == model.PartnershipPending && p.PartnerID == partnerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateFavorite(_ context.Context, f *model.Favorite) error {
	cp := *f
	r.favorites[f.ID] = &cp
	return nil
}

func (r *fakeRepo) GetFavorite(_ context.Context, id string) (*model.Favorite, error) {
	f, ok := r.favorites[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (r *fakeRepo) GetFavoriteByPair(_ context.Context, ownerID, favoriteID string) (*model.Favorite, error) {
	for _, f := range r.favorites {
		if f.OwnerID == ownerID && f.FavoriteID == favoriteID {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) DeleteFavorite(_ context.Context, id string) error {
	delete(r.favorites, id)
	return nil
}

func (r *fakeRepo) ListFavorites(_ context.Context, ownerID string) ([]model.Favorite, error) {
	var out []model.Favorite
	for _, f := range r.favorites {
		if f.OwnerID == ownerID {
			out = append(out, *f)
		}
	}
	return out, nil
}

type fakeUsers struct {
	users map[string]*model.User
}

func (r *fakeUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func testLogger() logger.Logger {
	return logger.NewZapLogger(&logger.Config{Level: "error", Encoding: "console"})
}

func testUser(id string, role model.Role) *model.User {
	return &model.User{
		BaseModel:   model.BaseModel{ID: id},
		Name:        id,
		CompanyName: id + " co",
		Role:        role,
		IsActive:    true,
	}
}

func newFixture() (*fakeRepo, *partnerUseCase) {
	repo := newFakeRepo()
	users := &fakeUsers{users: map[string]*model.User{
		"ret-1":  testUser("ret-1", model.RoleRetailer),
		"dist-1": testUser("dist-1", model.RoleDistributor),
		"manu-1": testUser("manu-1", model.RoleManufacturer),
	}}
	uc := NewPartnerUseCase(repo, users, testLogger()).(*partnerUseCase)
	return repo, uc
}

func retailer() auth.Actor {
	return auth.Actor{UserID: "ret-1", Role: model.RoleRetailer, CompanyName: "ret-1 co"}
}

func distributor() auth.Actor {
	return auth.Actor{UserID: "dist-1", Role: model.RoleDistributor, CompanyName: "dist-1 co"}
}

func TestInviteCreatesPendingPartnership(t *testing.T) {
	_, uc := newFixture()
	ctx := context.Background()

	p, err := uc.Invite(ctx, retailer(), &dto.InviteInput{
		RequesterID: "ret-1",
		PartnerID:   "dist-1",
		PartnerType: "distributor",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PartnershipPending, p.Status)
	assert.Equal(t, "ret-1", p.RequesterID)
	assert.Equal(t, "dist-1", p.PartnerID)

	ok, err := uc.ArePartners(ctx, "ret-1", "dist-1")
	require.NoError(t, err)
	assert.False(t, ok, "pending invite must not grant partner access")
}

func TestInviteValidation(t *testing.T) {
	_, uc := newFixture()
	ctx := context.Background()

	cases := []struct {
		name  string
		input *dto.InviteInput
		code  string
	}{
		{"missing partner", &dto.InviteInput{PartnerType: "distributor"}, apperrors.CodeValidation},
		{"self invite", &dto.InviteInput{PartnerID: "ret-1", PartnerType: "distributor"}, apperrors.CodeValidation},
		{"bad type", &dto.InviteInput{PartnerID: "dist-1", PartnerType: "wholesaler"}, apperrors.CodeValidation},
		{"unknown user", &dto.InviteInput{PartnerID: "ghost", PartnerType: "distributor"}, apperrors.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Invite(ctx, retailer(), tc.input)
			assert.True(t, apperrors.IsCode(err, tc.code), "got %v", err)
		})
	}
}

func TestInviteDuplicatePairRejected(t *testing.T) {
	_, uc := newFixture()
	ctx := context.Background()

	_, err := uc.Invite(ctx, retailer(), &dto.InviteInput{PartnerID: "dist-1", PartnerType: "distributor"})
	require.NoError(t, err)

	// Same pair again, and the reverse direction too.
	_, err = uc.Invite(ctx, retailer(), &dto.InviteInput{PartnerID: "dist-1", PartnerType: "distributor"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = uc.Invite(ctx, distributor(), &dto.InviteInput{PartnerID: "ret-1", PartnerType: "retailer"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestInviteAgainAfterRejection(t *testing.T) {
	repo, uc := newFixture()
	ctx := context.Background()

	p, err := uc.Invite(ctx, retailer(), &dto.InviteInput{PartnerID: "dist-1", PartnerType: "distributor"})
	require.NoError(t, err)

	_, err = uc.Respond(ctx, distributor(), &dto.RespondInput{PartnershipID: p.ID, Accept: false})
	require.NoError(t, err)

	// The rejected row is rewritten in place; a second INSERT would trip
	// the unique pair constraint.
	again, err := uc.Invite(ctx, retailer(), &dto.InviteInput{PartnerID: "dist-1", PartnerType: "distributor"})
	require.NoError(t, err, "a rejected pair may be invited again")
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, model.PartnershipPending, again.Status)
	assert.Len(t, repo.partnerships, 1)
}

func TestReinviteAfterRejectionFlipsDirection(t *testing.T) {
	repo, uc := newFixture()
	ctx := context.Background()

	p, err := uc.Invite(ctx, retailer(), &dto.InviteInput{PartnerID: "dist-1", PartnerType: "distributor"})
	require.NoError(t, err)
	_, err = uc.Respond(ctx, distributor(), &dto.RespondInput{PartnershipID: p.ID, Accept: false})
	require.NoError(t, err)

	// After declining, the distributor reaches out instead.
	again, err := uc.Invite(ctx, distributor(), &dto.InviteInput{PartnerID: "ret-1", PartnerType: "retailer"})
	require.NoError(t, err)
	assert.Equal(t, "dist-1", again.RequesterID)
	assert.Equal(t, "ret-1", again.PartnerID)
	assert.Len(t, repo.partnerships, 1)

	// The retailer is now the invited side and may approve.
	updated, err := uc.Respond(ctx, retailer(), &dto.RespondInput{PartnershipID: again.ID, Accept: true})
	require.NoError(t, err)
	assert.Equal(t, model.PartnershipApproved, updated.Status)

	ok, err := uc.ArePartners(ctx, "ret-1", "dist-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRespondApprove(t *testing.T) {
	_, uc := newFixture()
	ctx := context.Background()

	p, err := uc.Invite(ctx, retailer(), &dto.InviteInput{PartnerID: "dist-1", PartnerType: "distributor"})
	require.NoError(t, err)

	updated, err := uc.Respond(ctx, distributor(), &dto.RespondInput{PartnershipID: p.ID, Accept: true})
	require.NoError(t, err)
	assert.Equal(t, model.PartnershipApproved, updated.Status)

	// Approval is symmetric.
	for _, pair := range [][2]string{{"ret-1", "dist-1"}, {"dist-1", "ret-1"}} {
		ok, err := uc.ArePartners(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestRespondOnlyInvitedSide(t *testing.T) {
	_, uc := newFixture()
	ctx := context.Background()

	p, err := uc.Invite(ctx, retailer(), &dto.InviteInput{PartnerID: "dist-1", PartnerType: "distributor"})
	require.NoError(t, err)

	// The requester cannot approve their own invite.
	_, err = uc.Respond(ctx, retailer(), &dto.RespondInput{PartnershipID: p.ID, Accept: true})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	// Neither can a bystander.
	stranger := auth.Actor{UserID: "manu-1", Role: model.RoleManufacturer}
	_, err = uc.Respond(ctx, stranger, &dto.RespondInput{PartnershipID: p.ID, Accept: true})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestRespondTwiceFails(t *testing.T) {
	_, uc := newFixture()
	ctx := context.Background()

	p, err := uc.Invite(ctx, retailer(), &dto.InviteInput{PartnerID: "dist-1", PartnerType: "distributor"})
	require.NoError(t, err)

	_, err = uc.Respond(ctx, distributor(), &dto.RespondInput{PartnershipID: p.ID, Accept: true})
	require.NoError(t, err)

	_, err = uc.Respond(ctx, distributor(), &dto.RespondInput{PartnershipID: p.ID, Accept: false})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestListPendingRequests(t *testing.T) {
	_, uc := newFixture()
	ctx := context.Background()

	_, err := uc.Invite(ctx, retailer(), &dto.InviteInput{PartnerID: "dist-1", PartnerType: "distributor"})
	require.NoError(t, err)

	requests, err := uc.ListPendingRequests(ctx, distributor())
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "ret-1", requests[0].RequesterID)

	// The requester sees nothing pending on their own inbox.
	requests, err = uc.ListPendingRequests(ctx, retailer())
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestFavoritesLifecycle(t *testing.T) {
	_, uc := newFixture()
	ctx := context.Background()

	f, err := uc.AddFavorite(ctx, retailer(), &dto.AddFavoriteInput{
		FavoriteID:   "dist-1",
		FavoriteType: "distributor",
	})
	require.NoError(t, err)
	assert.Equal(t, "ret-1", f.OwnerID)

	// Duplicates are rejected.
	_, err = uc.AddFavorite(ctx, retailer(), &dto.AddFavoriteInput{
		FavoriteID:   "dist-1",
		FavoriteType: "distributor",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	list, err := uc.ListFavorites(ctx, retailer())
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Only the owner may remove it.
	err = uc.RemoveFavorite(ctx, distributor(), f.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	require.NoError(t, uc.RemoveFavorite(ctx, retailer(), f.ID))

	list, err = uc.ListFavorites(ctx, retailer())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddFavoriteValidation(t *testing.T) {
	_, uc := newFixture()
	ctx := context.Background()

	_, err := uc.AddFavorite(ctx, retailer(), &dto.AddFavoriteInput{FavoriteID: "ret-1", FavoriteType: "retailer"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = uc.AddFavorite(ctx, retailer(), &dto.AddFavoriteInput{FavoriteID: "ghost", FavoriteType: "distributor"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
