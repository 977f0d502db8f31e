package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/auromart/commerce-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const partnershipSelect = `
	SELECT p.id, p.requester_id, p.partner_id, p.status, p.partner_type,
	       p.created_at, p.updated_at,
	       ur.company_name AS requester_company,
	       up.company_name AS partner_company
	FROM partnerships p
	JOIN users ur ON ur.id = p.requester_id
	JOIN users up ON up.id = p.partner_id
`

func (r *PGRepository) CreatePartnership(ctx context.Context, p *model.Partnership) error {
	query := `
		INSERT INTO partnerships (id, requester_id, partner_id, status, partner_type, created_at, updated_at)
		VALUES (:id, :requester_id, :partner_id, :status, :partner_type, :created_at, :updated_at)
	`
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) GetPartnership(ctx context.Context, id string) (*model.Partnership, error) {
	var p model.Partnership
	err := r.DB.GetContext(ctx, &p, partnershipSelect+` WHERE p.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) GetByPair(ctx context.Context, userA, userB string) (*model.Partnership, error) {
	var p model.Partnership
	query := partnershipSelect + `
		WHERE (p.requester_id = $1 AND p.partner_id = $2)
		   OR (p.requester_id = $2 AND p.partner_id = $1)
		ORDER BY p.created_at DESC
		LIMIT 1
	`
	err := r.DB.GetContext(ctx, &p, query, userA, userB)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) UpdatePartnershipStatus(ctx context.Context, id string, status model.PartnershipStatus) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE partnerships SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update partnership: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PGRepository) ResetPartnership(ctx context.Context, p *model.Partnership) error {
	query := `
		UPDATE partnerships SET
			requester_id = :requester_id,
			partner_id = :partner_id,
			status = :status,
			partner_type = :partner_type,
			updated_at = :updated_at
		WHERE id = :id
	`
	res, err := r.DB.NamedExecContext(ctx, query, p)
	if err != nil {
		return fmt.Errorf("failed to reset partnership: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PGRepository) ListPartnerships(ctx context.Context, userID string, status model.PartnershipStatus) ([]model.Partnership, error) {
	var list []model.Partnership
	query := partnershipSelect + `
		WHERE (p.requester_id = $1 OR p.partner_id = $1) AND p.status = $2
		ORDER BY p.created_at DESC
	`
	err := r.DB.SelectContext(ctx, &list, query, userID, status)
	return list, err
}

func (r *PGRepository) ListPendingFor(ctx context.Context, partnerID string) ([]model.Partnership, error) {
	var list []model.Partnership
	query := partnershipSelect + `
		WHERE p.partner_id = $1 AND p.status = $2
		ORDER BY p.created_at DESC
	`
	err := r.DB.SelectContext(ctx, &list, query, partnerID, model.PartnershipPending)
	return list, err
}

const favoriteSelect = `
	SELECT f.id, f.owner_id, f.favorite_id, f.favorite_type,
	       f.created_at, f.updated_at,
	       u.company_name AS favorite_company
	FROM favorites f
	JOIN users u ON u.id = f.favorite_id
`

func (r *PGRepository) CreateFavorite(ctx context.Context, f *model.Favorite) error {
	query := `
		INSERT INTO favorites (id, owner_id, favorite_id, favorite_type, created_at, updated_at)
		VALUES (:id, :owner_id, :favorite_id, :favorite_type, :created_at, :updated_at)
	`
	_, err := r.DB.NamedExecContext(ctx, query, f)
	return err
}

func (r *PGRepository) GetFavorite(ctx context.Context, id string) (*model.Favorite, error) {
	var f model.Favorite
	err := r.DB.GetContext(ctx, &f, favoriteSelect+` WHERE f.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGRepository) GetFavoriteByPair(ctx context.Context, ownerID, favoriteID string) (*model.Favorite, error) {
	var f model.Favorite
	err := r.DB.GetContext(ctx, &f,
		favoriteSelect+` WHERE f.owner_id = $1 AND f.favorite_id = $2`, ownerID, favoriteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGRepository) DeleteFavorite(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM favorites WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PGRepository) ListFavorites(ctx context.Context, ownerID string) ([]model.Favorite, error) {
	var list []model.Favorite
	err := r.DB.SelectContext(ctx, &list,
		favoriteSelect+` WHERE f.owner_id = $1 ORDER BY f.created_at DESC`, ownerID)
	return list, err
}
