package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Adjustment directions accepted by the stock endpoint.
const (
	DirectionAdd      = "add"
	DirectionSubtract = "subtract"
)

type CreateInventoryInput struct {
	DistributorID       string
	ProductID           string
	Quantity            int64
	SellingPrice        decimal.Decimal
	LowStockThreshold   int64
	AutoRestockQuantity int64
}

type AdjustStockInput struct {
	InventoryID   string
	DistributorID string
	Quantity      int64
	Direction     string
	Reason        string
	ActorID       string
}

// QuantityDelta is a relative ledger mutation. The repository applies
// Delta to the total in a single guarded UPDATE so a reservation
// landing from another transaction is never overwritten. Nil pointer
// fields leave the stored value untouched.
type QuantityDelta struct {
	InventoryID         string
	Delta               int64
	LowStockThreshold   *int64
	AutoRestockQuantity *int64
	SellingPrice        *decimal.Decimal
	RestockedAt         *time.Time
}

// BulkUploadRow is one parsed row of a bulk stock upload. Rows are
// processed independently; see BulkRowResult.
type BulkUploadRow struct {
	ProductID           string          `json:"product_id"`
	Quantity            int64           `json:"quantity"`
	SellingPrice        decimal.Decimal `json:"selling_price"`
	LowStockThreshold   int64           `json:"low_stock_threshold"`
	AutoRestockQuantity int64           `json:"auto_restock_quantity"`
}
