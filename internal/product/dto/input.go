package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	OwnerID     string
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	Unit        string          `json:"unit"`
	BasePrice   decimal.Decimal `json:"base_price"`
	ImageURL    *string         `json:"image_url"`
}

// UpdateProductInput carries only the fields present in the request
// body. Nil means leave unchanged.
type UpdateProductInput struct {
	ID          string
	OwnerID     string
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Unit        *string          `json:"unit"`
	BasePrice   *decimal.Decimal `json:"base_price"`
	ImageURL    *string          `json:"image_url"`
	IsActive    *bool            `json:"is_active"`
}
