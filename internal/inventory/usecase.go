package inventory

import (
	"context"

	"github.com/auromart/commerce-service/internal/auth"
	"github.com/auromart/commerce-service/internal/inventory/dto"
	"github.com/auromart/commerce-service/internal/model"
)

type UseCase interface {
	CreateEntry(ctx context.Context, actor auth.Actor, input *dto.CreateInventoryInput) (*model.Inventory, error)
	GetEntry(ctx context.Context, actor auth.Actor, id string) (*model.Inventory, error)
	List(ctx context.Context, actor auth.Actor, filters *dto.InventoryFilters) ([]model.Inventory, int, error)
	ListLowStock(ctx context.Context, actor auth.Actor, page, pageSize int) ([]model.Inventory, int, error)
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Inventory, error)
	AutoRestockAll(ctx context.Context, actor auth.Actor) ([]model.Inventory, error)
	BulkUpload(ctx context.Context, actor auth.Actor, rows []dto.BulkUploadRow) []dto.BulkRowResult
	Analytics(ctx context.Context, actor auth.Actor) (*dto.Analytics, error)
	ListMovements(ctx context.Context, actor auth.Actor, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
