package domain

type ContextKey string

const (
	UserContextKey    ContextKey = "user"
	SessionContextKey ContextKey = "session"
)

// User is the optional authenticated shopper, built from token claims.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
