package order

import (
	"context"

	"github.com/auromart/commerce-service/internal/auth"
	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/internal/order/dto"
)

type UseCase interface {
	Create(ctx context.Context, actor auth.Actor, input *dto.CreateOrderInput) (*model.Order, error)
	Get(ctx context.Context, actor auth.Actor, id string) (*model.Order, error)
	List(ctx context.Context, actor auth.Actor, filters *dto.OrderFilters) ([]model.Order, int, error)
	StatusOptions(ctx context.Context, actor auth.Actor, id string) ([]model.OrderStatus, error)
	Transition(ctx context.Context, actor auth.Actor, input *dto.TransitionInput) (*model.Order, error)
}
