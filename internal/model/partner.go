package model

// Partnership statuses. Rejected is terminal; approved is permanent.
type PartnershipStatus string

const (
	PartnershipPending  PartnershipStatus = "pending"
	PartnershipApproved PartnershipStatus = "approved"
	PartnershipRejected PartnershipStatus = "rejected"
)

type PartnerType string

const (
	PartnerSupplier    PartnerType = "supplier"
	PartnerDistributor PartnerType = "distributor"
	PartnerRetailer    PartnerType = "retailer"
)

func (t PartnerType) Valid() bool {
	switch t {
	case PartnerSupplier, PartnerDistributor, PartnerRetailer:
		return true
	}
	return false
}

// Partnership is directional in creation (requester invited partner)
// but grants symmetric catalog visibility once approved. At most one
// active row per ordered pair.
type Partnership struct {
	BaseModel
	RequesterID string            `db:"requester_id" json:"requester_id"`
	PartnerID   string            `db:"partner_id" json:"partner_id"`
	Status      PartnershipStatus `db:"status" json:"status"`
	PartnerType PartnerType       `db:"partner_type" json:"partner_type"`

	// Joined display fields, not persisted on this table.
	RequesterCompany string `db:"requester_company" json:"requester_company,omitempty"`
	PartnerCompany   string `db:"partner_company" json:"partner_company,omitempty"`
}

// Favorite is a one-directional bookmark with no approval workflow.
type Favorite struct {
	BaseModel
	OwnerID      string      `db:"owner_id" json:"owner_id"`
	FavoriteID   string      `db:"favorite_id" json:"favorite_id"`
	FavoriteType PartnerType `db:"favorite_type" json:"favorite_type"`

	FavoriteCompany string `db:"favorite_company" json:"favorite_company,omitempty"`
}
