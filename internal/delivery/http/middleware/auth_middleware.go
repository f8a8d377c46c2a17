package middleware

import (
	"context"
	"errors"
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

// OptionalAuth attaches the current user when a valid token is present.
// Anonymous shoppers pass through; a bad token is logged and ignored.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := utils.ExtractClaims(r)
		if err != nil {
			if !errors.Is(err, utils.ErrNoToken) {
				logger.WithContext(r.Context()).Debug().Err(err).Msg("Auth: ignoring invalid token")
			}
			next.ServeHTTP(w, r)
			return
		}

		user := &domain.User{
			ID:    claims.UserID,
			Email: claims.Email,
		}

		l := logger.WithUserID(*logger.WithContext(r.Context()), user.ID)
		ctx := context.WithValue(r.Context(), domain.UserContextKey, user)
		ctx = logger.NewContext(ctx, &l)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the user set by OptionalAuth, or nil.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(domain.UserContextKey).(*domain.User)
	return user
}
