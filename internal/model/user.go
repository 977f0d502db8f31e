package model

// Role is the business role a user acts under.
type Role string

const (
	RoleManufacturer Role = "manufacturer"
	RoleDistributor  Role = "distributor"
	RoleRetailer     Role = "retailer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManufacturer, RoleDistributor, RoleRetailer:
		return true
	}
	return false
}

// CanFulfillOrders reports whether the role may progress orders through
// the status workflow. Retailers only place orders.
func (r Role) CanFulfillOrders() bool {
	return r == RoleDistributor || r == RoleManufacturer
}

// CanPlaceOrders reports whether the role may submit a cart as an order.
// Retailers buy from distributors, distributors buy from manufacturers.
func (r Role) CanPlaceOrders() bool {
	return r == RoleRetailer || r == RoleDistributor
}

// User mirrors the identity table owned by the auth service. Kept here
// as the reference table for requesters, fulfillers and partners.
type User struct {
	BaseModel
	Name        string  `db:"name" json:"name"`
	CompanyName string  `db:"company_name" json:"company_name"`
	Email       string  `db:"email" json:"email"`
	Phone       *string `db:"phone" json:"phone"`
	Role        Role    `db:"role" json:"role"`
	IsActive    bool    `db:"is_active" json:"is_active"`
}
