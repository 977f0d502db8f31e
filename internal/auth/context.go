package auth

import (
	"context"

	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/pkg/apperrors"
)

// Actor is the authenticated identity injected by the gateway.
type Actor struct {
	UserID      string
	Role        model.Role
	CompanyName string
}

type contextKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

// ActorFrom returns the request actor, failing when no identity was injected.
func ActorFrom(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(contextKey{}).(Actor)
	if !ok || actor.UserID == "" {
		return Actor{}, apperrors.Unauthenticated("missing authenticated user")
	}
	return actor, nil
}
