package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auromart/commerce-service/internal/auth"
	"github.com/auromart/commerce-service/internal/inventory/dto"
	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/pkg/apperrors"
	"github.com/auromart/commerce-service/pkg/logger"
)

type fakeRepo struct {
	entries   map[string]*model.Inventory
	movements []model.StockMovement

	// beforeApply runs just before ApplyDelta mutates the stored row,
	// standing in for writes from concurrent transactions.
	beforeApply func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: map[string]*model.Inventory{}}
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*model.Inventory, error) {
	if inv, ok := f.entries[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRepo) GetByProduct(_ context.Context, distributorID, productID string) (*model.Inventory, error) {
	for _, inv := range f.entries {
		if inv.DistributorID == distributorID && inv.ProductID == productID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindAll(_ context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error) {
	var out []model.Inventory
	for _, inv := range f.entries {
		if filters.DistributorID != "" && inv.DistributorID != filters.DistributorID {
			continue
		}
		if filters.LowStock && !inv.IsLowStock() {
			continue
		}
		out = append(out, *inv)
	}
	return out, len(out), nil
}

func (f *fakeRepo) CreateWithMovement(_ context.Context, inv *model.Inventory, movement *model.StockMovement) error {
	cp := *inv
	f.entries[inv.ID] = &cp
	f.movements = append(f.movements, *movement)
	return nil
}

func (f *fakeRepo) ApplyDelta(_ context.Context, d *dto.QuantityDelta, movement *model.StockMovement) (*model.Inventory, error) {
	if f.beforeApply != nil {
		f.beforeApply()
	}
	inv, ok := f.entries[d.InventoryID]
	if !ok || inv.TotalQuantity+d.Delta < inv.ReservedQuantity {
		return nil, apperrors.InsufficientStock(
			"cannot apply change of %d units: total would fall below reserved", d.Delta)
	}

	before := inv.TotalQuantity
	inv.TotalQuantity += d.Delta
	inv.AvailableQuantity = inv.TotalQuantity - inv.ReservedQuantity
	if d.LowStockThreshold != nil {
		inv.LowStockThreshold = *d.LowStockThreshold
	}
	if d.AutoRestockQuantity != nil {
		inv.AutoRestockQty = *d.AutoRestockQuantity
	}
	if d.SellingPrice != nil {
		inv.SellingPrice = *d.SellingPrice
	}
	if d.RestockedAt != nil {
		inv.LastRestockDate = d.RestockedAt
	}
	inv.UpdatedAt = time.Now()

	m := *movement
	m.InventoryID = inv.ID
	m.DistributorID = inv.DistributorID
	m.ProductID = inv.ProductID
	m.QuantityChange = d.Delta
	m.QuantityBefore = before
	m.QuantityAfter = inv.TotalQuantity
	f.movements = append(f.movements, m)

	cp := *inv
	return &cp, nil
}

func (f *fakeRepo) Analytics(_ context.Context, _ string) (*dto.Analytics, error) {
	return &dto.Analytics{}, nil
}

func (f *fakeRepo) ListMovements(_ context.Context, _ *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return f.movements, len(f.movements), nil
}

type fakeProducts struct {
	products map[string]*model.Product
}

func (f *fakeProducts) FindByID(_ context.Context, id string) (*model.Product, error) {
	return f.products[id], nil
}

type fakeLocker struct{}

func (fakeLocker) AcquireLock(context.Context, string, string, time.Duration) (bool, error) {
	return true, nil
}
func (fakeLocker) ReleaseLock(context.Context, string, string) error { return nil }

func testLogger() logger.Logger {
	return logger.NewZapLogger(&logger.Config{Level: "error", Encoding: "console"})
}

func seedEntry(repo *fakeRepo, total, reserved, threshold, restockQty int64) *model.Inventory {
	inv := &model.Inventory{
		ID:                "inv-1",
		DistributorID:     "dist-1",
		ProductID:         "prod-1",
		TotalQuantity:     total,
		ReservedQuantity:  reserved,
		AvailableQuantity: total - reserved,
		LowStockThreshold: threshold,
		AutoRestockQty:    restockQty,
		SellingPrice:      decimal.NewFromInt(10),
		IsAvailable:       true,
	}
	repo.entries[inv.ID] = inv
	return inv
}

func distributorActor() auth.Actor {
	return auth.Actor{UserID: "dist-1", Role: model.RoleDistributor}
}

func TestAdjustStockAdd(t *testing.T) {
	repo := newFakeRepo()
	seedEntry(repo, 10, 2, 5, 0)
	uc := NewInventoryUseCase(repo, &fakeProducts{}, fakeLocker{}, testLogger())

	inv, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{
		InventoryID:   "inv-1",
		DistributorID: "dist-1",
		Quantity:      5,
		Direction:     dto.DirectionAdd,
		Reason:        "restock delivery",
		ActorID:       "dist-1",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 15, inv.TotalQuantity)
	assert.EqualValues(t, 2, inv.ReservedQuantity)
	assert.EqualValues(t, 13, inv.AvailableQuantity)
	assert.Equal(t, inv.AvailableQuantity, inv.TotalQuantity-inv.ReservedQuantity)
	require.Len(t, repo.movements, 1)
	assert.Equal(t, model.MovementAdjustment, repo.movements[0].MovementType)
	assert.EqualValues(t, 10, repo.movements[0].QuantityBefore)
	assert.EqualValues(t, 15, repo.movements[0].QuantityAfter)
}

func TestAdjustStockKeepsConcurrentReservation(t *testing.T) {
	repo := newFakeRepo()
	seedEntry(repo, 10, 0, 5, 0)
	uc := NewInventoryUseCase(repo, &fakeProducts{}, fakeLocker{}, testLogger())

	// An order reserves two units after the adjustment read the entry
	// but before it writes. Order placement never takes the redis lock,
	// so the write must not overwrite the reservation.
	repo.beforeApply = func() {
		entry := repo.entries["inv-1"]
		entry.ReservedQuantity += 2
		entry.AvailableQuantity -= 2
	}

	inv, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{
		InventoryID:   "inv-1",
		DistributorID: "dist-1",
		Quantity:      5,
		Direction:     dto.DirectionAdd,
		Reason:        "restock delivery",
		ActorID:       "dist-1",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 15, inv.TotalQuantity)
	assert.EqualValues(t, 2, inv.ReservedQuantity)
	assert.EqualValues(t, 13, inv.AvailableQuantity)
}

func TestAdjustStockSubtractBelowReservedFails(t *testing.T) {
	repo := newFakeRepo()
	seedEntry(repo, 5, 5, 0, 0)
	uc := NewInventoryUseCase(repo, &fakeProducts{}, fakeLocker{}, testLogger())

	_, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{
		InventoryID:   "inv-1",
		DistributorID: "dist-1",
		Quantity:      5,
		Direction:     dto.DirectionSubtract,
		Reason:        "damaged",
		ActorID:       "dist-1",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInsufficientStock))

	// Entry untouched, no movement written.
	entry := repo.entries["inv-1"]
	assert.EqualValues(t, 5, entry.TotalQuantity)
	assert.EqualValues(t, 5, entry.ReservedQuantity)
	assert.Empty(t, repo.movements)
}

func TestAdjustStockRequiresReason(t *testing.T) {
	repo := newFakeRepo()
	seedEntry(repo, 10, 0, 0, 0)
	uc := NewInventoryUseCase(repo, &fakeProducts{}, fakeLocker{}, testLogger())

	_, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{
		InventoryID:   "inv-1",
		DistributorID: "dist-1",
		Quantity:      1,
		Direction:     dto.DirectionSubtract,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestAdjustStockOtherSellerForbidden(t *testing.T) {
	repo := newFakeRepo()
	seedEntry(repo, 10, 0, 0, 0)
	uc := NewInventoryUseCase(repo, &fakeProducts{}, fakeLocker{}, testLogger())

	_, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{
		InventoryID:   "inv-1",
		DistributorID: "dist-2",
		Quantity:      1,
		Direction:     dto.DirectionAdd,
		Reason:        "found extra",
		ActorID:       "dist-2",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestAutoRestockLowStockEntry(t *testing.T) {
	repo := newFakeRepo()
	seedEntry(repo, 3, 0, 10, 50)
	uc := NewInventoryUseCase(repo, &fakeProducts{}, fakeLocker{}, testLogger())

	restocked, err := uc.AutoRestockAll(context.Background(), distributorActor())
	require.NoError(t, err)
	require.Len(t, restocked, 1)
	assert.EqualValues(t, 53, restocked[0].TotalQuantity)
	assert.EqualValues(t, 53, restocked[0].AvailableQuantity)
	assert.False(t, restocked[0].IsLowStock())
	require.NotNil(t, restocked[0].LastRestockDate)

	// Second run is a no-op once the entry recovered.
	again, err := uc.AutoRestockAll(context.Background(), distributorActor())
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestAutoRestockSkipsUnconfiguredEntries(t *testing.T) {
	repo := newFakeRepo()
	seedEntry(repo, 1, 0, 10, 0)
	uc := NewInventoryUseCase(repo, &fakeProducts{}, fakeLocker{}, testLogger())

	restocked, err := uc.AutoRestockAll(context.Background(), distributorActor())
	require.NoError(t, err)
	assert.Empty(t, restocked)
}

func TestBulkUploadPartialSuccess(t *testing.T) {
	repo := newFakeRepo()
	products := &fakeProducts{products: map[string]*model.Product{
		"prod-1": {BaseModel: model.BaseModel{ID: "prod-1"}, Name: "Steel Bolts"},
		"prod-3": {BaseModel: model.BaseModel{ID: "prod-3"}, Name: "Copper Wire"},
	}}
	uc := NewInventoryUseCase(repo, products, fakeLocker{}, testLogger())

	results := uc.BulkUpload(context.Background(), distributorActor(), []dto.BulkUploadRow{
		{ProductID: "prod-1", Quantity: 100, SellingPrice: decimal.NewFromInt(5)},
		{ProductID: "prod-unknown", Quantity: 10, SellingPrice: decimal.NewFromInt(1)},
		{ProductID: "prod-3", Quantity: 25, SellingPrice: decimal.NewFromInt(8)},
	})

	require.Len(t, results, 3)
	assert.Equal(t, dto.BulkRowSuccess, results[0].Status)
	assert.Equal(t, "Steel Bolts", results[0].ProductName)
	assert.Equal(t, dto.BulkRowError, results[1].Status)
	assert.Contains(t, results[1].Error, "not found")
	assert.Equal(t, dto.BulkRowSuccess, results[2].Status)

	// Ledger updated for rows 1 and 3 only.
	assert.Len(t, repo.entries, 2)
}

func TestBulkUploadTopsUpExistingEntry(t *testing.T) {
	repo := newFakeRepo()
	seedEntry(repo, 10, 2, 5, 0)
	products := &fakeProducts{products: map[string]*model.Product{
		"prod-1": {BaseModel: model.BaseModel{ID: "prod-1"}, Name: "Steel Bolts"},
	}}
	uc := NewInventoryUseCase(repo, products, fakeLocker{}, testLogger())

	results := uc.BulkUpload(context.Background(), distributorActor(), []dto.BulkUploadRow{
		{ProductID: "prod-1", Quantity: 40, SellingPrice: decimal.NewFromInt(6), LowStockThreshold: 8},
	})

	require.Len(t, results, 1)
	require.Equal(t, dto.BulkRowSuccess, results[0].Status)

	entry := repo.entries["inv-1"]
	assert.EqualValues(t, 50, entry.TotalQuantity)
	assert.EqualValues(t, 48, entry.AvailableQuantity)
	assert.EqualValues(t, 8, entry.LowStockThreshold)
	assert.True(t, entry.SellingPrice.Equal(decimal.NewFromInt(6)))
}

func TestCreateEntryValidation(t *testing.T) {
	repo := newFakeRepo()
	products := &fakeProducts{products: map[string]*model.Product{
		"prod-1": {BaseModel: model.BaseModel{ID: "prod-1"}, Name: "Steel Bolts"},
	}}
	uc := NewInventoryUseCase(repo, products, fakeLocker{}, testLogger())

	_, err := uc.CreateEntry(context.Background(), auth.Actor{UserID: "ret-1", Role: model.RoleRetailer}, &dto.CreateInventoryInput{ProductID: "prod-1"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, err = uc.CreateEntry(context.Background(), distributorActor(), &dto.CreateInventoryInput{ProductID: "prod-unknown", Quantity: 1})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	inv, err := uc.CreateEntry(context.Background(), distributorActor(), &dto.CreateInventoryInput{
		ProductID:         "prod-1",
		Quantity:          30,
		SellingPrice:      decimal.NewFromFloat(4.5),
		LowStockThreshold: 5,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 30, inv.AvailableQuantity)
	assert.EqualValues(t, 0, inv.ReservedQuantity)

	// Same product cannot be stocked twice by the same seller.
	_, err = uc.CreateEntry(context.Background(), distributorActor(), &dto.CreateInventoryInput{
		ProductID: "prod-1",
		Quantity:  1,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}
