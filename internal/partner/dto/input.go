package dto

type InviteInput struct {
	RequesterID string
	PartnerID   string
	PartnerType string
}

type RespondInput struct {
	PartnershipID string
	ActorID       string
	Accept        bool
}

type AddFavoriteInput struct {
	OwnerID      string
	FavoriteID   string
	FavoriteType string
}
