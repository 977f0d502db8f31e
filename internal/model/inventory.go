package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory is one stock ledger entry: a distributor's (or
// manufacturer's) holding of a single product.
//
// available_quantity = total_quantity - reserved_quantity at all times;
// every write path recomputes it in the same statement or transaction.
type Inventory struct {
	ID                 string          `db:"id" json:"id"`
	DistributorID      string          `db:"distributor_id" json:"distributor_id"`
	ProductID          string          `db:"product_id" json:"product_id"`
	TotalQuantity      int64           `db:"total_quantity" json:"total_quantity"`
	ReservedQuantity   int64           `db:"reserved_quantity" json:"reserved_quantity"`
	AvailableQuantity  int64           `db:"available_quantity" json:"available_quantity"`
	LowStockThreshold  int64           `db:"low_stock_threshold" json:"low_stock_threshold"`
	AutoRestockQty     int64           `db:"auto_restock_quantity" json:"auto_restock_quantity"`
	SellingPrice       decimal.Decimal `db:"selling_price" json:"selling_price"`
	IsAvailable        bool            `db:"is_available" json:"is_available"`
	LastRestockDate    *time.Time      `db:"last_restock_date" json:"last_restock_date"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
	ProductName        string          `db:"product_name" json:"product_name,omitempty"`
}

// IsLowStock reports whether the entry sits at or below its threshold.
func (i *Inventory) IsLowStock() bool {
	return i.AvailableQuantity <= i.LowStockThreshold
}

// NeedsRestock drives the restock alert list.
func (i *Inventory) NeedsRestock() bool {
	return i.IsLowStock()
}

// StockValue is the valuation of on-hand stock at selling price.
func (i *Inventory) StockValue() decimal.Decimal {
	return i.SellingPrice.Mul(decimal.NewFromInt(i.TotalQuantity))
}

// Movement types recorded in the stock audit trail.
const (
	MovementAdjustment  = "adjustment"
	MovementReservation = "reservation"
	MovementRelease     = "release"
	MovementConsumption = "consumption"
	MovementRestock     = "restock"
	MovementBulkUpload  = "bulk_upload"
)

// StockMovement is an append-only audit row for every ledger mutation.
type StockMovement struct {
	ID             string    `db:"id" json:"id"`
	InventoryID    string    `db:"inventory_id" json:"inventory_id"`
	DistributorID  string    `db:"distributor_id" json:"distributor_id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	MovementType   string    `db:"movement_type" json:"movement_type"`
	QuantityChange int64     `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int64     `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int64     `db:"quantity_after" json:"quantity_after"`
	Reason         string    `db:"reason" json:"reason"`
	ReferenceID    *string   `db:"reference_id" json:"reference_id"`
	CreatedBy      *string   `db:"created_by" json:"created_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
