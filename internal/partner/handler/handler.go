package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/auromart/commerce-service/internal/auth"
	"github.com/auromart/commerce-service/internal/partner"
	"github.com/auromart/commerce-service/internal/partner/dto"
	"github.com/auromart/commerce-service/pkg/apperrors"
	"github.com/auromart/commerce-service/pkg/httputil"
	"github.com/auromart/commerce-service/pkg/logger"
)

type PartnerHandler struct {
	uc     partner.UseCase
	logger logger.Logger
}

func NewPartnerHandler(uc partner.UseCase, log logger.Logger) *PartnerHandler {
	return &PartnerHandler{uc: uc, logger: log}
}

func (h *PartnerHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/partners/invite", h.Invite).Methods(http.MethodPost)
	r.HandleFunc("/api/partners/requests", h.ListRequests).Methods(http.MethodGet)
	r.HandleFunc("/api/partners/{id}/respond", h.Respond).Methods(http.MethodPut)
	r.HandleFunc("/api/partners", h.List).Methods(http.MethodGet)

	r.HandleFunc("/api/favorites", h.AddFavorite).Methods(http.MethodPost)
	r.HandleFunc("/api/favorites", h.ListFavorites).Methods(http.MethodGet)
	r.HandleFunc("/api/favorites/{id}", h.RemoveFavorite).Methods(http.MethodDelete)
}

type inviteRequest struct {
	PartnerID   string `json:"partner_id"`
	PartnerType string `json:"partner_type"`
}

func (h *PartnerHandler) Invite(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req inviteRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.uc.Invite(r.Context(), actor, &dto.InviteInput{
		RequesterID: actor.UserID,
		PartnerID:   req.PartnerID,
		PartnerType: req.PartnerType,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, p)
}

type respondRequest struct {
	Action string `json:"action"` // "accept" or "decline"
}

func (h *PartnerHandler) Respond(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req respondRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Action != "accept" && req.Action != "decline" {
		httputil.WriteError(w, apperrors.Validation(`action must be "accept" or "decline"`))
		return
	}

	p, err := h.uc.Respond(r.Context(), actor, &dto.RespondInput{
		PartnershipID: mux.Vars(r)["id"],
		ActorID:       actor.UserID,
		Accept:        req.Action == "accept",
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	partners, err := h.uc.ListApproved(r.Context(), actor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"partners": partners,
	})
}

func (h *PartnerHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	requests, err := h.uc.ListPendingRequests(r.Context(), actor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

type addFavoriteRequest struct {
	FavoriteID   string `json:"favorite_id"`
	FavoriteType string `json:"favorite_type"`
}

func (h *PartnerHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req addFavoriteRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	f, err := h.uc.AddFavorite(r.Context(), actor, &dto.AddFavoriteInput{
		OwnerID:      actor.UserID,
		FavoriteID:   req.FavoriteID,
		FavoriteType: req.FavoriteType,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, f)
}

func (h *PartnerHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.uc.RemoveFavorite(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *PartnerHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	favorites, err := h.uc.ListFavorites(r.Context(), actor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"favorites": favorites,
	})
}
