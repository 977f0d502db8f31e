package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/auromart/commerce-service/internal/auth"
	"github.com/auromart/commerce-service/internal/inventory"
	"github.com/auromart/commerce-service/internal/inventory/dto"
	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/pkg/apperrors"
	"github.com/auromart/commerce-service/pkg/cache"
	"github.com/auromart/commerce-service/pkg/logger"
)

const (
	lockTTL       = 5 * time.Second
	lockAttempts  = 3
	lockRetryWait = 100 * time.Millisecond
)

type inventoryUseCase struct {
	repo     inventory.Repository
	products inventory.ProductReader
	locker   cache.Locker
	logger   logger.Logger
}

func NewInventoryUseCase(repo inventory.Repository, products inventory.ProductReader, locker cache.Locker, log logger.Logger) inventory.UseCase {
	return &inventoryUseCase{
		repo:     repo,
		products: products,
		locker:   locker,
		logger:   log,
	}
}

// withRowLock serializes a ledger mutation per distributor-product pair.
// The database transaction is the correctness guarantee; the lock keeps
// concurrent writers from burning retries against each other.
func (uc *inventoryUseCase) withRowLock(ctx context.Context, distributorID, productID string, fn func() error) error {
	lockKey := fmt.Sprintf("lock:inventory:%s:%s", distributorID, productID)
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire inventory lock", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(lockRetryWait)
	}
	if !acquired {
		return apperrors.InsufficientStock("inventory row is busy, please retry")
	}
	defer uc.locker.ReleaseLock(ctx, lockKey, lockValue)

	return fn()
}

func (uc *inventoryUseCase) CreateEntry(ctx context.Context, actor auth.Actor, input *dto.CreateInventoryInput) (*model.Inventory, error) {
	if !actor.Role.CanFulfillOrders() {
		return nil, apperrors.Unauthorized("role %s cannot manage inventory", actor.Role)
	}
	if input.Quantity < 0 {
		return nil, apperrors.Validation("quantity must not be negative")
	}
	if input.SellingPrice.IsNegative() {
		return nil, apperrors.Validation("selling price must not be negative")
	}

	product, err := uc.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound("product %s not found", input.ProductID)
	}

	existing, err := uc.repo.GetByProduct(ctx, actor.UserID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Validation("product %s is already stocked", input.ProductID)
	}

	now := time.Now()
	inv := &model.Inventory{
		ID:                uuid.New().String(),
		DistributorID:     actor.UserID,
		ProductID:         input.ProductID,
		TotalQuantity:     input.Quantity,
		ReservedQuantity:  0,
		AvailableQuantity: input.Quantity,
		LowStockThreshold: input.LowStockThreshold,
		AutoRestockQty:    input.AutoRestockQuantity,
		SellingPrice:      input.SellingPrice,
		IsAvailable:       true,
		UpdatedAt:         now,
		ProductName:       product.Name,
	}

	movement := newMovement(inv, model.MovementAdjustment, input.Quantity, 0, "initial stock", nil, &actor.UserID, now)
	if err := uc.repo.CreateWithMovement(ctx, inv, movement); err != nil {
		return nil, err
	}

	uc.logger.Info("inventory entry created",
		zap.String("inventory_id", inv.ID),
		zap.String("product_id", inv.ProductID),
		zap.Int64("quantity", inv.TotalQuantity))
	return inv, nil
}

func (uc *inventoryUseCase) GetEntry(ctx context.Context, actor auth.Actor, id string) (*model.Inventory, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperrors.NotFound("inventory entry %s not found", id)
	}
	if inv.DistributorID != actor.UserID {
		return nil, apperrors.Unauthorized("inventory entry belongs to another seller")
	}
	return inv, nil
}

func (uc *inventoryUseCase) List(ctx context.Context, actor auth.Actor, filters *dto.InventoryFilters) ([]model.Inventory, int, error) {
	filters.DistributorID = actor.UserID
	return uc.repo.FindAll(ctx, filters)
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, actor auth.Actor, page, pageSize int) ([]model.Inventory, int, error) {
	return uc.repo.FindAll(ctx, &dto.InventoryFilters{
		DistributorID: actor.UserID,
		LowStock:      true,
		Page:          page,
		PageSize:      pageSize,
	})
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Inventory, error) {
	if input.Quantity <= 0 {
		return nil, apperrors.Validation("quantity must be positive")
	}
	if input.Reason == "" {
		return nil, apperrors.Validation("reason is required for stock adjustments")
	}
	if input.Direction != dto.DirectionAdd && input.Direction != dto.DirectionSubtract {
		return nil, apperrors.Validation("type must be %q or %q", dto.DirectionAdd, dto.DirectionSubtract)
	}

	inv, err := uc.repo.GetByID(ctx, input.InventoryID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperrors.NotFound("inventory entry %s not found", input.InventoryID)
	}
	if inv.DistributorID != input.DistributorID {
		return nil, apperrors.Unauthorized("inventory entry belongs to another seller")
	}

	change := input.Quantity
	if input.Direction == dto.DirectionSubtract {
		change = -input.Quantity
	}

	err = uc.withRowLock(ctx, inv.DistributorID, inv.ProductID, func() error {
		// The repository applies the delta relative to the stored row,
		// so a reservation taken between the read above and this write
		// is preserved.
		movement := movementRecord(model.MovementAdjustment, input.Reason, nil, &input.ActorID)
		inv, err = uc.repo.ApplyDelta(ctx, &dto.QuantityDelta{
			InventoryID: input.InventoryID,
			Delta:       change,
		}, movement)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("stock adjusted",
		zap.String("inventory_id", inv.ID),
		zap.String("direction", input.Direction),
		zap.Int64("quantity", input.Quantity),
		zap.Int64("available", inv.AvailableQuantity))
	return inv, nil
}

func (uc *inventoryUseCase) AutoRestockAll(ctx context.Context, actor auth.Actor) ([]model.Inventory, error) {
	if !actor.Role.CanFulfillOrders() {
		return nil, apperrors.Unauthorized("role %s cannot manage inventory", actor.Role)
	}

	lowStock, _, err := uc.repo.FindAll(ctx, &dto.InventoryFilters{
		DistributorID: actor.UserID,
		LowStock:      true,
	})
	if err != nil {
		return nil, err
	}

	restocked := make([]model.Inventory, 0, len(lowStock))
	for i := range lowStock {
		entry := lowStock[i]
		err := uc.withRowLock(ctx, entry.DistributorID, entry.ProductID, func() error {
			current, err := uc.repo.GetByID(ctx, entry.ID)
			if err != nil {
				return err
			}
			// No-op when the entry recovered since listing, or never
			// had a restock quantity configured.
			if current == nil || !current.IsLowStock() || current.AutoRestockQty <= 0 {
				return nil
			}

			now := time.Now()
			movement := movementRecord(model.MovementRestock, "auto restock", nil, nil)
			updated, err := uc.repo.ApplyDelta(ctx, &dto.QuantityDelta{
				InventoryID: current.ID,
				Delta:       current.AutoRestockQty,
				RestockedAt: &now,
			}, movement)
			if err != nil {
				return err
			}
			restocked = append(restocked, *updated)
			return nil
		})
		if err != nil {
			uc.logger.Error("auto restock failed for entry",
				zap.String("inventory_id", entry.ID), zap.Error(err))
		}
	}

	uc.logger.Info("auto restock run finished",
		zap.String("distributor_id", actor.UserID),
		zap.Int("restocked", len(restocked)))
	return restocked, nil
}

func (uc *inventoryUseCase) BulkUpload(ctx context.Context, actor auth.Actor, rows []dto.BulkUploadRow) []dto.BulkRowResult {
	results := make([]dto.BulkRowResult, 0, len(rows))

	for _, row := range rows {
		result := uc.processBulkRow(ctx, actor, row)
		results = append(results, result)
	}
	return results
}

// processBulkRow creates or tops up a single ledger entry. Each row is
// its own transaction; a failure is recorded in the result, never
// propagated to the rest of the batch.
func (uc *inventoryUseCase) processBulkRow(ctx context.Context, actor auth.Actor, row dto.BulkUploadRow) dto.BulkRowResult {
	fail := func(msg string) dto.BulkRowResult {
		return dto.BulkRowResult{Status: dto.BulkRowError, ProductID: row.ProductID, Error: msg}
	}

	if row.ProductID == "" {
		return fail("product_id is required")
	}
	if row.Quantity < 0 {
		return fail("quantity must not be negative")
	}
	if row.SellingPrice.IsNegative() {
		return fail("selling_price must not be negative")
	}

	product, err := uc.products.FindByID(ctx, row.ProductID)
	if err != nil {
		return fail(err.Error())
	}
	if product == nil {
		return fail(fmt.Sprintf("product %s not found", row.ProductID))
	}

	err = uc.withRowLock(ctx, actor.UserID, row.ProductID, func() error {
		existing, err := uc.repo.GetByProduct(ctx, actor.UserID, row.ProductID)
		if err != nil {
			return err
		}

		now := time.Now()
		if existing == nil {
			inv := &model.Inventory{
				ID:                uuid.New().String(),
				DistributorID:     actor.UserID,
				ProductID:         row.ProductID,
				TotalQuantity:     row.Quantity,
				AvailableQuantity: row.Quantity,
				LowStockThreshold: row.LowStockThreshold,
				AutoRestockQty:    row.AutoRestockQuantity,
				SellingPrice:      row.SellingPrice,
				IsAvailable:       true,
				UpdatedAt:         now,
			}
			movement := newMovement(inv, model.MovementBulkUpload, row.Quantity, 0, "bulk upload", nil, &actor.UserID, now)
			return uc.repo.CreateWithMovement(ctx, inv, movement)
		}

		movement := movementRecord(model.MovementBulkUpload, "bulk upload", nil, &actor.UserID)
		_, err = uc.repo.ApplyDelta(ctx, &dto.QuantityDelta{
			InventoryID:         existing.ID,
			Delta:               row.Quantity,
			LowStockThreshold:   &row.LowStockThreshold,
			AutoRestockQuantity: &row.AutoRestockQuantity,
			SellingPrice:        &row.SellingPrice,
		}, movement)
		return err
	})
	if err != nil {
		return fail(err.Error())
	}

	return dto.BulkRowResult{Status: dto.BulkRowSuccess, ProductID: row.ProductID, ProductName: product.Name}
}

func (uc *inventoryUseCase) Analytics(ctx context.Context, actor auth.Actor) (*dto.Analytics, error) {
	return uc.repo.Analytics(ctx, actor.UserID)
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, actor auth.Actor, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	filters.DistributorID = actor.UserID
	return uc.repo.ListMovements(ctx, filters)
}

// movementRecord builds an audit row without quantities; the repository
// fills the before/after fields from the updated ledger row.
func movementRecord(movementType, reason string, referenceID, createdBy *string) *model.StockMovement {
	return &model.StockMovement{
		ID:           uuid.New().String(),
		MovementType: movementType,
		Reason:       reason,
		ReferenceID:  referenceID,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now(),
	}
}

func newMovement(inv *model.Inventory, movementType string, change, before int64, reason string, referenceID, createdBy *string, at time.Time) *model.StockMovement {
	return &model.StockMovement{
		ID:             uuid.New().String(),
		InventoryID:    inv.ID,
		DistributorID:  inv.DistributorID,
		ProductID:      inv.ProductID,
		MovementType:   movementType,
		QuantityChange: change,
		QuantityBefore: before,
		QuantityAfter:  inv.TotalQuantity,
		Reason:         reason,
		ReferenceID:    referenceID,
		CreatedBy:      createdBy,
		CreatedAt:      at,
	}
}
