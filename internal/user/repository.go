package user

import (
	"context"

	"github.com/auromart/commerce-service/internal/model"
)

// Repository reads the identity table owned by the auth service. This
// service never writes it.
type Repository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}
