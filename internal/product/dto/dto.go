package dto

type ProductFilters struct {
	OwnerID  string `json:"owner_id"`
	Category string `json:"category"`
	Search   string `json:"search"`
	Active   *bool  `json:"active"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}
