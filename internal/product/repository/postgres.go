package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/internal/product/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const productSelect = `
	SELECT id, owner_id, sku, name, description, category, unit,
	       base_price, image_url, is_active, created_at, updated_at
	FROM products
`

const insertProduct = `
	INSERT INTO products (
		id, owner_id, sku, name, description, category, unit,
		base_price, image_url, is_active, created_at, updated_at
	)
	VALUES (
		:id, :owner_id, :sku, :name, :description, :category, :unit,
		:base_price, :image_url, :is_active, :created_at, :updated_at
	)
`

const updateProduct = `
	UPDATE products SET
		name = :name,
		description = :description,
		category = :category,
		unit = :unit,
		base_price = :base_price,
		image_url = :image_url,
		is_active = :is_active,
		updated_at = :updated_at
	WHERE id = :id
`

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	_, err := r.DB.NamedExecContext(ctx, insertProduct, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.DB.GetContext(ctx, &p, productSelect+` WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindBySKU(ctx context.Context, ownerID, sku string) (*model.Product, error) {
	var p model.Product
	query := productSelect + ` WHERE owner_id = $1 AND sku = $2`
	err := r.DB.GetContext(ctx, &p, query, ownerID, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var items []model.Product
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.OwnerID != "" {
		conditions = append(conditions, "owner_id = :owner_id")
		args["owner_id"] = f.OwnerID
	}
	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}
	if f.Search != "" {
		conditions = append(conditions, "(name ILIKE :search OR sku ILIKE :search)")
		args["search"] = "%" + f.Search + "%"
	}
	if f.Active != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.Active
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := productSelect + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	_, err := r.DB.NamedExecContext(ctx, updateProduct, p)
	return err
}

const catalogSelect = `
	SELECT p.id, p.owner_id, p.sku, p.name, p.description, p.category,
	       p.unit, p.base_price, p.image_url, p.is_active, p.created_at,
	       p.updated_at,
	       i.selling_price, i.available_quantity, i.is_available
	FROM products p
	LEFT JOIN inventory i ON i.product_id = p.id AND i.distributor_id = p.owner_id
	WHERE p.owner_id = $1 AND p.is_active = TRUE
	ORDER BY p.name
`

func (r *PGRepository) Catalog(ctx context.Context, ownerID string) ([]model.CatalogEntry, error) {
	var entries []model.CatalogEntry
	err := r.DB.SelectContext(ctx, &entries, catalogSelect, ownerID)
	return entries, err
}
