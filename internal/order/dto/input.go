package dto

type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type CreateOrderInput struct {
	RequesterID    string
	FulfillerID    string
	Items          []CartItem
	DeliveryOption string
	Notes          string
}

type TransitionInput struct {
	OrderID string
	Target  string
	Notes   string
}
