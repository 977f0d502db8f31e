package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/auromart/commerce-service/internal/auth"
	"github.com/auromart/commerce-service/internal/inventory"
	"github.com/auromart/commerce-service/internal/inventory/dto"
	"github.com/auromart/commerce-service/pkg/apperrors"
	"github.com/auromart/commerce-service/pkg/httputil"
	"github.com/auromart/commerce-service/pkg/logger"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.Logger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, logger: log}
}

func (h *InventoryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/inventory", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/inventory", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/inventory/low-stock", h.ListLowStock).Methods(http.MethodGet)
	r.HandleFunc("/api/inventory/analytics", h.Analytics).Methods(http.MethodGet)
	r.HandleFunc("/api/inventory/movements", h.ListMovements).Methods(http.MethodGet)
	r.HandleFunc("/api/inventory/auto-restock", h.AutoRestock).Methods(http.MethodPost)
	r.HandleFunc("/api/inventory/bulk-upload", h.BulkUpload).Methods(http.MethodPost)
	r.HandleFunc("/api/inventory/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/inventory/{id}", h.Adjust).Methods(http.MethodPut)
}

type createInventoryRequest struct {
	ProductID           string          `json:"product_id"`
	Quantity            int64           `json:"quantity"`
	SellingPrice        decimal.Decimal `json:"selling_price"`
	LowStockThreshold   int64           `json:"low_stock_threshold"`
	AutoRestockQuantity int64           `json:"auto_restock_quantity"`
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req createInventoryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	inv, err := h.uc.CreateEntry(r.Context(), actor, &dto.CreateInventoryInput{
		DistributorID:       actor.UserID,
		ProductID:           req.ProductID,
		Quantity:            req.Quantity,
		SellingPrice:        req.SellingPrice,
		LowStockThreshold:   req.LowStockThreshold,
		AutoRestockQuantity: req.AutoRestockQuantity,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, inv)
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	inv, err := h.uc.GetEntry(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inv)
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, pageSize := pagination(r)
	filters := &dto.InventoryFilters{
		ProductID: r.URL.Query().Get("product_id"),
		LowStock:  r.URL.Query().Get("low_stock") == "true",
		Page:      page,
		PageSize:  pageSize,
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

func (h *InventoryHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, pageSize := pagination(r)
	items, total, err := h.uc.ListLowStock(r.Context(), actor, page, pageSize)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
	})
}

type adjustStockRequest struct {
	Quantity int64  `json:"quantity"`
	Reason   string `json:"reason"`
	Type     string `json:"type"`
}

func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req adjustStockRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	inv, err := h.uc.AdjustStock(r.Context(), &dto.AdjustStockInput{
		InventoryID:   mux.Vars(r)["id"],
		DistributorID: actor.UserID,
		Quantity:      req.Quantity,
		Direction:     req.Type,
		Reason:        req.Reason,
		ActorID:       actor.UserID,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inv)
}

func (h *InventoryHandler) AutoRestock(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	restocked, err := h.uc.AutoRestockAll(r.Context(), actor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"restocked": restocked,
		"count":     len(restocked),
	})
}

type bulkUploadRequest struct {
	Items []dto.BulkUploadRow `json:"items"`
}

func (h *InventoryHandler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req bulkUploadRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if len(req.Items) == 0 {
		httputil.WriteError(w, apperrors.Validation("items must not be empty"))
		return
	}

	results := h.uc.BulkUpload(r.Context(), actor, req.Items)
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

func (h *InventoryHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	analytics, err := h.uc.Analytics(r.Context(), actor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, analytics)
}

func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, pageSize := pagination(r)
	filters := &dto.MovementFilters{
		ProductID:    r.URL.Query().Get("product_id"),
		MovementType: r.URL.Query().Get("type"),
		Page:         page,
		PageSize:     pageSize,
	}

	movements, total, err := h.uc.ListMovements(r.Context(), actor, filters)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"movements": movements,
		"total":     total,
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
