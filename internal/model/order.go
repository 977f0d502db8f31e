package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delivery options accepted at order creation.
const (
	DeliveryPickup   = "pickup"
	DeliveryDelivery = "delivery"
)

func ValidDeliveryOption(opt string) bool {
	return opt == DeliveryPickup || opt == DeliveryDelivery
}

// Order is the aggregate header. It is mutated only through status
// transitions once created; line items are immutable snapshots.
type Order struct {
	BaseModel
	OrderNumber    string          `db:"order_number" json:"order_number"`
	RequesterID    string          `db:"requester_id" json:"requester_id"`
	FulfillerID    string          `db:"fulfiller_id" json:"fulfiller_id"`
	Status         OrderStatus     `db:"status" json:"status"`
	DeliveryOption string          `db:"delivery_option" json:"delivery_option"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"total_amount"`
	Notes          *string         `db:"notes" json:"notes"`

	Items   []OrderItem          `db:"-" json:"items,omitempty"`
	History []OrderStatusHistory `db:"-" json:"status_history,omitempty"`
}

// OrderItem snapshots price at order time; catalog price changes never
// re-derive it.
type OrderItem struct {
	ID          string          `db:"id" json:"id"`
	OrderID     string          `db:"order_id" json:"order_id"`
	ProductID   string          `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	Quantity    int64           `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalPrice  decimal.Decimal `db:"total_price" json:"total_price"`
}

// OrderStatusHistory rows are append-only and time-ordered.
type OrderStatusHistory struct {
	ID        string      `db:"id" json:"id"`
	OrderID   string      `db:"order_id" json:"order_id"`
	Status    OrderStatus `db:"status" json:"status"`
	Notes     *string     `db:"notes" json:"notes"`
	ChangedBy *string     `db:"changed_by" json:"changed_by"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}
