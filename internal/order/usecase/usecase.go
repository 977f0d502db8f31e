package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/auromart/commerce-service/internal/auth"
	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/internal/order"
	"github.com/auromart/commerce-service/internal/order/dto"
	"github.com/auromart/commerce-service/pkg/apperrors"
	"github.com/auromart/commerce-service/pkg/logger"
)

type orderUseCase struct {
	repo     order.Repository
	stock    order.StockReader
	partners order.PartnershipChecker
	users    order.UserReader
	logger   logger.Logger
}

func NewOrderUseCase(repo order.Repository, stock order.StockReader, partners order.PartnershipChecker, users order.UserReader, log logger.Logger) order.UseCase {
	return &orderUseCase{
		repo:     repo,
		stock:    stock,
		partners: partners,
		users:    users,
		logger:   log,
	}
}

func (uc *orderUseCase) Create(ctx context.Context, actor auth.Actor, input *dto.CreateOrderInput) (*model.Order, error) {
	if !actor.Role.CanPlaceOrders() {
		return nil, apperrors.Unauthorized("role %s cannot place orders", actor.Role)
	}
	if err := validateCreateInput(actor, input); err != nil {
		return nil, err
	}

	fulfiller, err := uc.users.FindByID(ctx, input.FulfillerID)
	if err != nil {
		return nil, err
	}
	if fulfiller == nil {
		return nil, apperrors.NotFound("fulfiller %s not found", input.FulfillerID)
	}
	if !fulfiller.Role.CanFulfillOrders() {
		return nil, apperrors.Validation("user %s cannot fulfill orders", input.FulfillerID)
	}

	approved, err := uc.partners.ArePartners(ctx, actor.UserID, input.FulfillerID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, apperrors.Unauthorized("no approved partnership with %s", input.FulfillerID)
	}

	now := time.Now()
	ord := &model.Order{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderNumber:    generateOrderNumber(now),
		RequesterID:    actor.UserID,
		FulfillerID:    input.FulfillerID,
		Status:         model.StatusPending,
		DeliveryOption: input.DeliveryOption,
		TotalAmount:    decimal.Zero,
	}
	if input.Notes != "" {
		notes := input.Notes
		ord.Notes = &notes
	}

	// Snapshot unit prices from the fulfiller's ledger. The actual
	// reservation happens transactionally in the repository; this pass
	// rejects unknown or unlisted products before touching the ledger.
	for _, item := range input.Items {
		entry, err := uc.stock.GetByProduct(ctx, input.FulfillerID, item.ProductID)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return nil, apperrors.NotFound("product %s is not stocked by fulfiller", item.ProductID)
		}
		if !entry.IsAvailable {
			return nil, apperrors.Validation("product %s is not currently offered", item.ProductID)
		}
		if item.Quantity > entry.AvailableQuantity {
			return nil, apperrors.InsufficientStock(
				"insufficient stock for product %s: requested %d, available %d",
				item.ProductID, item.Quantity, entry.AvailableQuantity)
		}

		lineTotal := entry.SellingPrice.Mul(decimal.NewFromInt(item.Quantity))
		ord.Items = append(ord.Items, model.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     ord.ID,
			ProductID:   item.ProductID,
			ProductName: entry.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   entry.SellingPrice,
			TotalPrice:  lineTotal,
		})
		ord.TotalAmount = ord.TotalAmount.Add(lineTotal)
	}

	history := newHistory(ord.ID, model.StatusPending, ord.Notes, &actor.UserID, now)
	if err := uc.repo.CreateWithItems(ctx, ord, history); err != nil {
		return nil, err
	}
	ord.History = []model.OrderStatusHistory{*history}

	uc.logger.Info("order created",
		zap.String("order_id", ord.ID),
		zap.String("order_number", ord.OrderNumber),
		zap.String("requester_id", ord.RequesterID),
		zap.String("fulfiller_id", ord.FulfillerID),
		zap.Int("items", len(ord.Items)))
	return ord, nil
}

func (uc *orderUseCase) Get(ctx context.Context, actor auth.Actor, id string) (*model.Order, error) {
	ord, err := uc.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, apperrors.NotFound("order %s not found", id)
	}
	if ord.RequesterID != actor.UserID && ord.FulfillerID != actor.UserID {
		return nil, apperrors.Unauthorized("order belongs to other parties")
	}
	return ord, nil
}

func (uc *orderUseCase) List(ctx context.Context, actor auth.Actor, filters *dto.OrderFilters) ([]model.Order, int, error) {
	if filters.Status != "" && !model.OrderStatus(filters.Status).Valid() {
		return nil, 0, apperrors.Validation("unknown status %q", filters.Status)
	}
	return uc.repo.FindAllForUser(ctx, actor.UserID, filters)
}

func (uc *orderUseCase) StatusOptions(ctx context.Context, actor auth.Actor, id string) ([]model.OrderStatus, error) {
	ord, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, apperrors.NotFound("order %s not found", id)
	}
	if ord.RequesterID != actor.UserID && ord.FulfillerID != actor.UserID {
		return nil, apperrors.Unauthorized("order belongs to other parties")
	}
	return ord.Status.NextStatuses(), nil
}

func (uc *orderUseCase) Transition(ctx context.Context, actor auth.Actor, input *dto.TransitionInput) (*model.Order, error) {
	target := model.OrderStatus(input.Target)
	if !target.Valid() {
		return nil, apperrors.Validation("unknown status %q", input.Target)
	}

	ord, err := uc.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, apperrors.NotFound("order %s not found", input.OrderID)
	}

	// Only the fulfilling side progresses an order; the requester never
	// does, whatever its role.
	if !actor.Role.CanFulfillOrders() || actor.UserID != ord.FulfillerID {
		return nil, apperrors.Unauthorized("only the fulfiller may update order status")
	}

	if ord.Status.IsTerminal() {
		return nil, apperrors.TerminalState("order %s is already %s", ord.OrderNumber, ord.Status)
	}
	if !ord.Status.CanTransitionTo(target) {
		return nil, apperrors.InvalidTransition("cannot move order from %s to %s", ord.Status, target)
	}

	update := &dto.StatusUpdate{
		OrderID:        ord.ID,
		ExpectedStatus: ord.Status,
		NewStatus:      target,
		ReleaseStock:   target.ReleasesStock(),
		ConsumeStock:   target.ConsumesStock(),
		FulfillerID:    ord.FulfillerID,
	}

	var notes *string
	if input.Notes != "" {
		n := input.Notes
		notes = &n
	}
	now := time.Now()
	update.History = newHistory(ord.ID, target, notes, &actor.UserID, now)

	if update.ReleaseStock || update.ConsumeStock {
		if update.Items, err = uc.repo.GetItems(ctx, ord.ID); err != nil {
			return nil, err
		}
	}

	if err := uc.repo.TransitionStatus(ctx, update); err != nil {
		return nil, err
	}

	ord.Status = target
	ord.UpdatedAt = now
	uc.logger.Info("order status updated",
		zap.String("order_id", ord.ID),
		zap.String("order_number", ord.OrderNumber),
		zap.String("status", string(target)),
		zap.Bool("stock_released", update.ReleaseStock))
	return ord, nil
}

func validateCreateInput(actor auth.Actor, input *dto.CreateOrderInput) error {
	if input.FulfillerID == "" {
		return apperrors.Validation("fulfiller_id is required")
	}
	if input.FulfillerID == actor.UserID {
		return apperrors.Validation("cannot order from yourself")
	}
	if len(input.Items) == 0 {
		return apperrors.Validation("cart_items must not be empty")
	}
	if !model.ValidDeliveryOption(input.DeliveryOption) {
		return apperrors.Validation("delivery_option must be %q or %q", model.DeliveryPickup, model.DeliveryDelivery)
	}
	seen := map[string]bool{}
	for i, item := range input.Items {
		if item.ProductID == "" {
			return apperrors.Validation("cart_items[%d]: product_id is required", i)
		}
		if item.Quantity <= 0 {
			return apperrors.Validation("cart_items[%d]: quantity must be positive", i)
		}
		if seen[item.ProductID] {
			return apperrors.Validation("cart_items[%d]: duplicate product %s", i, item.ProductID)
		}
		seen[item.ProductID] = true
	}
	return nil
}

func newHistory(orderID string, status model.OrderStatus, notes, changedBy *string, at time.Time) *model.OrderStatusHistory {
	return &model.OrderStatusHistory{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		Status:    status,
		Notes:     notes,
		ChangedBy: changedBy,
		CreatedAt: at,
	}
}

// generateOrderNumber makes a human-readable unique number like
// ORD-20260829-4F2A1B. The uuid fragment keeps collisions out of reach
// without a sequence round-trip.
func generateOrderNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%s-%s", at.Format("20060102"), suffix)
}
