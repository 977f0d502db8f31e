package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	OwnerID     string          `db:"owner_id" json:"owner_id"`
	SKU         string          `db:"sku" json:"sku"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description"`
	Category    *string         `db:"category" json:"category"`
	Unit        string          `db:"unit" json:"unit"`
	BasePrice   decimal.Decimal `db:"base_price" json:"base_price"`
	ImageURL    *string         `db:"image_url" json:"image_url"`
	IsActive    bool            `db:"is_active" json:"is_active"`
}

// CatalogEntry is a product joined with the seller's ledger row, the
// shape a partner sees when browsing a catalog.
type CatalogEntry struct {
	Product
	SellingPrice      *decimal.Decimal `db:"selling_price" json:"selling_price"`
	AvailableQuantity *int64           `db:"available_quantity" json:"available_quantity"`
	IsAvailable       *bool            `db:"is_available" json:"is_available"`
}
