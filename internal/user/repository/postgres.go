package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/auromart/commerce-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const userSelect = `
	SELECT id, name, company_name, email, phone, role, is_active,
	       created_at, updated_at
	FROM users
`

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u, userSelect+` WHERE id = $1 AND is_active = TRUE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
