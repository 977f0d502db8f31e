package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/auromart/commerce-service/internal/auth"
	"github.com/auromart/commerce-service/internal/product"
	"github.com/auromart/commerce-service/internal/product/dto"
	"github.com/auromart/commerce-service/pkg/httputil"
	"github.com/auromart/commerce-service/pkg/logger"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.Logger
}

func NewProductHandler(uc product.UseCase, log logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, logger: log}
}

func (h *ProductHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/products", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/products", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/api/products/{id}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/api/catalog/{partnerID}", h.BrowseCatalog).Methods(http.MethodGet)
}

type createProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	Unit        string          `json:"unit"`
	BasePrice   decimal.Decimal `json:"base_price"`
	ImageURL    *string         `json:"image_url"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req createProductRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.uc.Create(r.Context(), actor, &dto.CreateProductInput{
		OwnerID:     actor.UserID,
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Unit:        req.Unit,
		BasePrice:   req.BasePrice,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.uc.Get(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, pageSize := pagination(r)
	filters := &dto.ProductFilters{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Page:     page,
		PageSize: pageSize,
	}
	if v := r.URL.Query().Get("active"); v != "" {
		active := v == "true"
		filters.Active = &active
	}

	items, total, err := h.uc.List(r.Context(), actor, filters)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
	})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	input := &dto.UpdateProductInput{}
	if err := httputil.DecodeJSON(r, input); err != nil {
		httputil.WriteError(w, err)
		return
	}
	input.ID = mux.Vars(r)["id"]
	input.OwnerID = actor.UserID

	p, err := h.uc.Update(r.Context(), actor, input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.uc.Deactivate(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *ProductHandler) BrowseCatalog(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.uc.BrowseCatalog(r.Context(), actor, mux.Vars(r)["partnerID"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"catalog": entries,
	})
}

func pagination(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
