package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/auromart/commerce-service/internal/inventory/dto"
	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/pkg/apperrors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const inventorySelect = `
	SELECT i.id, i.distributor_id, i.product_id, i.total_quantity,
	       i.reserved_quantity, i.available_quantity, i.low_stock_threshold,
	       i.auto_restock_quantity, i.selling_price, i.is_available,
	       i.last_restock_date, i.updated_at, p.name AS product_name
	FROM inventory i
	JOIN products p ON p.id = i.product_id
`

func (r *PGRepository) GetByID(ctx context.Context, id string) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.DB.GetContext(ctx, &inv, inventorySelect+` WHERE i.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) GetByProduct(ctx context.Context, distributorID, productID string) (*model.Inventory, error) {
	var inv model.Inventory
	query := inventorySelect + ` WHERE i.distributor_id = $1 AND i.product_id = $2`
	err := r.DB.GetContext(ctx, &inv, query, distributorID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.Inventory, int, error) {
	var items []model.Inventory
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.DistributorID != "" {
		conditions = append(conditions, "i.distributor_id = :distributor_id")
		args["distributor_id"] = f.DistributorID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "i.product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LowStock {
		conditions = append(conditions, "i.available_quantity <= i.low_stock_threshold")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory i" + whereClause
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

	query := inventorySelect + whereClause + " ORDER BY i.updated_at DESC"
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

const insertInventory = `
	INSERT INTO inventory (
		id, distributor_id, product_id, total_quantity, reserved_quantity,
		available_quantity, low_stock_threshold, auto_restock_quantity,
		selling_price, is_available, last_restock_date, updated_at
	)
	VALUES (
		:id, :distributor_id, :product_id, :total_quantity, :reserved_quantity,
		:available_quantity, :low_stock_threshold, :auto_restock_quantity,
		:selling_price, :is_available, :last_restock_date, :updated_at
	)
`

// applyDelta mutates the total relatively and recomputes available from
// the stored reserved count, so a reservation taken by a concurrent
// order transaction survives the write. The guard rejects a delta that
// would leave the total below the reserved count.
const applyDelta = `
	UPDATE inventory SET
		total_quantity = total_quantity + $2,
		available_quantity = total_quantity + $2 - reserved_quantity,
		low_stock_threshold = COALESCE($3, low_stock_threshold),
		auto_restock_quantity = COALESCE($4, auto_restock_quantity),
		selling_price = COALESCE($5, selling_price),
		last_restock_date = COALESCE($6, last_restock_date),
		updated_at = NOW()
	WHERE id = $1 AND total_quantity + $2 >= reserved_quantity
	RETURNING id, distributor_id, product_id, total_quantity,
	          reserved_quantity, available_quantity, low_stock_threshold,
	          auto_restock_quantity, selling_price, is_available,
	          last_restock_date, updated_at
`

const insertMovement = `
	INSERT INTO stock_movements (
		id, inventory_id, distributor_id, product_id, movement_type,
		quantity_change, quantity_before, quantity_after, reason,
		reference_id, created_by, created_at
	)
	VALUES (
		:id, :inventory_id, :distributor_id, :product_id, :movement_type,
		:quantity_change, :quantity_before, :quantity_after, :reason,
		:reference_id, :created_by, :created_at
	)
`

func (r *PGRepository) CreateWithMovement(ctx context.Context, inv *model.Inventory, movement *model.StockMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, insertInventory, inv); err != nil {
		return fmt.Errorf("failed to insert inventory: %w", err)
	}
	if _, err := tx.NamedExecContext(ctx, insertMovement, movement); err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) ApplyDelta(ctx context.Context, d *dto.QuantityDelta, movement *model.StockMovement) (*model.Inventory, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var inv model.Inventory
	err = tx.GetContext(ctx, &inv, applyDelta,
		d.InventoryID, d.Delta, d.LowStockThreshold, d.AutoRestockQuantity,
		d.SellingPrice, d.RestockedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.InsufficientStock(
				"cannot apply change of %d units: total would fall below reserved", d.Delta)
		}
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}

	movement.InventoryID = inv.ID
	movement.DistributorID = inv.DistributorID
	movement.ProductID = inv.ProductID
	movement.QuantityChange = d.Delta
	movement.QuantityBefore = inv.TotalQuantity - d.Delta
	movement.QuantityAfter = inv.TotalQuantity
	if _, err := tx.NamedExecContext(ctx, insertMovement, movement); err != nil {
		return nil, fmt.Errorf("failed to log movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) Analytics(ctx context.Context, distributorID string) (*dto.Analytics, error) {
	var a dto.Analytics
	query := `
		SELECT
			count(*) AS total_items,
			COALESCE(sum(total_quantity), 0) AS total_units,
			COALESCE(sum(reserved_quantity), 0) AS reserved_units,
			COALESCE(sum(available_quantity), 0) AS available_units,
			count(*) FILTER (WHERE available_quantity <= low_stock_threshold) AS low_stock_count,
			count(*) FILTER (WHERE available_quantity = 0) AS out_of_stock,
			COALESCE(sum(total_quantity * selling_price), 0) AS stock_value
		FROM inventory
		WHERE distributor_id = $1
	`
	if err := r.DB.GetContext(ctx, &a, query, distributorID); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var items []model.StockMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.DistributorID != "" {
		conditions = append(conditions, "distributor_id = :distributor_id")
		args["distributor_id"] = f.DistributorID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stock_movements" + whereClause
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

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
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
