package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/auromart/commerce-service/internal/auth"
	"github.com/auromart/commerce-service/internal/order"
	"github.com/auromart/commerce-service/internal/order/dto"
	"github.com/auromart/commerce-service/pkg/httputil"
	"github.com/auromart/commerce-service/pkg/logger"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.Logger
}

func NewOrderHandler(uc order.UseCase, log logger.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: log}
}

func (h *OrderHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/orders", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/orders", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/orders/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/orders/{id}/status-options", h.StatusOptions).Methods(http.MethodGet)
	r.HandleFunc("/api/orders/{id}/status", h.UpdateStatus).Methods(http.MethodPut)
}

type createOrderRequest struct {
	FulfillerID    string         `json:"fulfiller_id"`
	CartItems      []dto.CartItem `json:"cart_items"`
	DeliveryOption string         `json:"delivery_option"`
	Notes          string         `json:"notes"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req createOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	ord, err := h.uc.Create(r.Context(), actor, &dto.CreateOrderInput{
		RequesterID:    actor.UserID,
		FulfillerID:    req.FulfillerID,
		Items:          req.CartItems,
		DeliveryOption: req.DeliveryOption,
		Notes:          req.Notes,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"order_number": ord.OrderNumber,
		"items_count":  len(ord.Items),
		"order":        ord,
	})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ord, err := h.uc.Get(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ord)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	orders, total, err := h.uc.List(r.Context(), actor, &dto.OrderFilters{
		Status:   r.URL.Query().Get("status"),
		Role:     r.URL.Query().Get("role"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
	})
}

func (h *OrderHandler) StatusOptions(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	options, err := h.uc.StatusOptions(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"options": options,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req updateStatusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	ord, err := h.uc.Transition(r.Context(), actor, &dto.TransitionInput{
		OrderID: mux.Vars(r)["id"],
		Target:  req.Status,
		Notes:   req.Notes,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"new_status": ord.Status,
		"order":      ord,
	})
}
