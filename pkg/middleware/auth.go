package middleware

import (
	"net/http"

	"github.com/auromart/commerce-service/internal/auth"
	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/pkg/httputil"
	"github.com/auromart/commerce-service/pkg/apperrors"
)

// ActorContext reads the identity headers injected by the auth gateway
// and stores the actor on the request context. Requests without a valid
// identity are rejected before reaching any handler.
func ActorContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		role := model.Role(r.Header.Get("X-User-Role"))

		if userID == "" {
			httputil.WriteError(w, apperrors.Unauthenticated("missing X-User-ID header"))
			return
		}
		if !role.Valid() {
			httputil.WriteError(w, apperrors.Unauthenticated("missing or unknown X-User-Role header"))
			return
		}

		actor := auth.Actor{
			UserID:      userID,
			Role:        role,
			CompanyName: r.Header.Get("X-Company-Name"),
		}
		next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
	})
}
