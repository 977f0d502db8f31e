package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/internal/order/dto"
	"github.com/auromart/commerce-service/pkg/apperrors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const insertOrder = `
	INSERT INTO orders (
		id, order_number, requester_id, fulfiller_id, status,
		delivery_option, total_amount, notes, created_at, updated_at
	)
	VALUES (
		:id, :order_number, :requester_id, :fulfiller_id, :status,
		:delivery_option, :total_amount, :notes, :created_at, :updated_at
	)
`

const insertOrderItem = `
	INSERT INTO order_items (
		id, order_id, product_id, product_name, quantity, unit_price, total_price
	)
	VALUES (
		:id, :order_id, :product_id, :product_name, :quantity, :unit_price, :total_price
	)
`

const insertHistory = `
	INSERT INTO order_status_history (id, order_id, status, notes, changed_by, created_at)
	VALUES (:id, :order_id, :status, :notes, :changed_by, :created_at)
`

// reserveStock holds back available units for one line. The WHERE guard
// keeps available from going negative; zero rows affected means the
// stock ran out between the availability check and now.
const reserveStock = `
	UPDATE inventory
	SET reserved_quantity = reserved_quantity + $1,
	    available_quantity = available_quantity - $1,
	    updated_at = NOW()
	WHERE distributor_id = $2 AND product_id = $3 AND available_quantity >= $1
`

// releaseStock returns a reservation, clamped so reserved never drops
// below zero even if a release is replayed.
const releaseStock = `
	UPDATE inventory
	SET reserved_quantity = GREATEST(reserved_quantity - $1, 0),
	    available_quantity = total_quantity - GREATEST(reserved_quantity - $1, 0),
	    updated_at = NOW()
	WHERE distributor_id = $2 AND product_id = $3
`

// consumeStock converts a reservation into delivered goods: both the
// total and the reserved count drop by the line quantity, leaving
// available untouched. The guard refuses to consume more than is
// still reserved.
const consumeStock = `
	UPDATE inventory
	SET total_quantity = total_quantity - $1,
	    reserved_quantity = reserved_quantity - $1,
	    updated_at = NOW()
	WHERE distributor_id = $2 AND product_id = $3 AND reserved_quantity >= $1
`

const insertStockMovement = `
	INSERT INTO stock_movements (
		id, inventory_id, distributor_id, product_id, movement_type,
		quantity_change, quantity_before, quantity_after, reason,
		reference_id, created_by, created_at
	)
	SELECT $1, i.id, i.distributor_id, i.product_id, $2,
	       $3, i.total_quantity, i.total_quantity, $4, $5, $6, NOW()
	FROM inventory i
	WHERE i.distributor_id = $7 AND i.product_id = $8
`

func (r *PGRepository) CreateWithItems(ctx context.Context, order *model.Order, history *model.OrderStatusHistory) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, item := range order.Items {
		res, err := tx.ExecContext(ctx, reserveStock, item.Quantity, order.FulfillerID, item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to reserve stock for product %s: %w", item.ProductID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperrors.InsufficientStock("insufficient stock for product %s", item.ProductID)
		}

		_, err = tx.ExecContext(ctx, insertStockMovement,
			uuid.New().String(), model.MovementReservation, item.Quantity,
			"order placement", order.ID, order.RequesterID,
			order.FulfillerID, item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to log reservation for product %s: %w", item.ProductID, err)
		}
	}

	if _, err := tx.NamedExecContext(ctx, insertOrder, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	for i := range order.Items {
		if _, err := tx.NamedExecContext(ctx, insertOrderItem, order.Items[i]); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	if _, err := tx.NamedExecContext(ctx, insertHistory, history); err != nil {
		return fmt.Errorf("failed to insert status history: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.DB.GetContext(ctx, &order, `SELECT * FROM orders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *PGRepository) GetDetail(ctx context.Context, id string) (*model.Order, error) {
	order, err := r.GetByID(ctx, id)
	if err != nil || order == nil {
		return order, err
	}

	if order.Items, err = r.GetItems(ctx, id); err != nil {
		return nil, err
	}

	err = r.DB.SelectContext(ctx, &order.History,
		`SELECT * FROM order_status_history WHERE order_id = $1 ORDER BY created_at ASC`, id)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *PGRepository) GetItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.DB.SelectContext(ctx, &items,
		`SELECT * FROM order_items WHERE order_id = $1 ORDER BY product_name ASC`, orderID)
	return items, err
}

func (r *PGRepository) FindAllForUser(ctx context.Context, userID string, f *dto.OrderFilters) ([]model.Order, int, error) {
	var orders []model.Order
	var count int

	conditions := []string{}
	args := map[string]interface{}{"user_id": userID}

	switch f.Role {
	case "requester":
		conditions = append(conditions, "requester_id = :user_id")
	case "fulfiller":
		conditions = append(conditions, "fulfiller_id = :user_id")
	default:
		conditions = append(conditions, "(requester_id = :user_id OR fulfiller_id = :user_id)")
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM orders" + whereClause
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

	query := "SELECT * FROM orders" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &orders, args)
	return orders, count, err
}

func (r *PGRepository) TransitionStatus(ctx context.Context, update *dto.StatusUpdate) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		update.NewStatus, time.Now(), update.OrderID, update.ExpectedStatus)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.InvalidTransition("order %s was modified concurrently", update.OrderID)
	}

	if _, err := tx.NamedExecContext(ctx, insertHistory, update.History); err != nil {
		return fmt.Errorf("failed to insert status history: %w", err)
	}

	if update.ReleaseStock {
		for _, item := range update.Items {
			if _, err := tx.ExecContext(ctx, releaseStock, item.Quantity, update.FulfillerID, item.ProductID); err != nil {
				return fmt.Errorf("failed to release stock for product %s: %w", item.ProductID, err)
			}
			_, err = tx.ExecContext(ctx, insertStockMovement,
				uuid.New().String(), model.MovementRelease, item.Quantity,
				fmt.Sprintf("order %s", update.NewStatus), update.OrderID, update.History.ChangedBy,
				update.FulfillerID, item.ProductID)
			if err != nil {
				return fmt.Errorf("failed to log release for product %s: %w", item.ProductID, err)
			}
		}
	}

	if update.ConsumeStock {
		for _, item := range update.Items {
			res, err := tx.ExecContext(ctx, consumeStock, item.Quantity, update.FulfillerID, item.ProductID)
			if err != nil {
				return fmt.Errorf("failed to consume stock for product %s: %w", item.ProductID, err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("reservation missing for product %s on order %s", item.ProductID, update.OrderID)
			}
			_, err = tx.ExecContext(ctx, insertStockMovement,
				uuid.New().String(), model.MovementConsumption, -item.Quantity,
				fmt.Sprintf("order %s", update.NewStatus), update.OrderID, update.History.ChangedBy,
				update.FulfillerID, item.ProductID)
			if err != nil {
				return fmt.Errorf("failed to log consumption for product %s: %w", item.ProductID, err)
			}
		}
	}

	return tx.Commit()
}
