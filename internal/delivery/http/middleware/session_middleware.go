package middleware

import (
	"context"
	"net/http"
	"time"

	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/logger"

	"github.com/google/uuid"
)

const (
	SessionCookieName = "sid"
	// ShopperCookieName identifies the browser across sessions; the wishlist hangs off it.
	ShopperCookieName = "shopper"
)

// SessionResolver returns the live session for an id, creating it for shopperID if needed.
type SessionResolver interface {
	Get(ctx context.Context, id, shopperID string) *usecase.Session
}

// NewSessionMiddleware resolves the shopper's session from the sid cookie,
// issuing a fresh id when the cookie is missing or malformed. The shopper
// cookie lives for shopperTTL and survives any number of sessions.
func NewSessionMiddleware(sessions SessionResolver, sessionTTL, shopperTTL time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cookieUUID(r, SessionCookieName)
			if id == "" {
				id = uuid.NewString()
			}
			shopperID := cookieUUID(r, ShopperCookieName)
			if shopperID == "" {
				shopperID = uuid.NewString()
			}

			l := logger.WithSessionID(*logger.WithContext(r.Context()), id)
			ctx := logger.NewContext(r.Context(), &l)
			s := sessions.Get(ctx, id, shopperID)

			// Refreshed on every request so both cookies slide.
			setIDCookie(w, SessionCookieName, s.ID, sessionTTL, secure)
			setIDCookie(w, ShopperCookieName, s.ShopperID, shopperTTL, secure)

			next.ServeHTTP(w, r.WithContext(usecase.WithSession(ctx, s)))
		})
	}
}

func cookieUUID(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

func setIDCookie(w http.ResponseWriter, name, value string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
