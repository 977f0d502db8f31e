package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryFilters struct {
	DistributorID string
	ProductID     string
	LowStock      bool
	Page          int
	PageSize      int
}

type MovementFilters struct {
	DistributorID string
	ProductID     string
	MovementType  string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	PageSize      int
}

// Analytics aggregates a distributor's ledger for the dashboard.
type Analytics struct {
	TotalItems     int             `db:"total_items" json:"total_items"`
	TotalUnits     int64           `db:"total_units" json:"total_units"`
	ReservedUnits  int64           `db:"reserved_units" json:"reserved_units"`
	AvailableUnits int64           `db:"available_units" json:"available_units"`
	LowStockCount  int             `db:"low_stock_count" json:"low_stock_count"`
	OutOfStock     int             `db:"out_of_stock" json:"out_of_stock"`
	StockValue     decimal.Decimal `db:"stock_value" json:"stock_value"`
}

// Bulk row outcomes.
const (
	BulkRowSuccess = "success"
	BulkRowError   = "error"
)

// BulkRowResult reports a single row's outcome; a failed row never
// aborts the batch.
type BulkRowResult struct {
	Status      string `json:"status"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Error       string `json:"error,omitempty"`
}
