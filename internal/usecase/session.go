package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"

	"github.com/google/uuid"
)

// Session is one visit's cart, notifications and checkout progress, plus the
// wishlist of the shopper behind it. ShopperID outlives the session.
type Session struct {
	ID        string
	ShopperID string
	Cart      *CartManager
	Wishlist  *WishlistManager
	Feed      domain.NotificationFeed
	Checkout  *CheckoutSession

	notifier domain.Notifier
}

// Notify sends n to the session feed and any extra notifiers.
func (s *Session) Notify(n domain.Notification) {
	s.notifier.Notify(n)
}

// CheckoutSession tracks one session's checkout. Only one submission may be
// in flight at a time.
type CheckoutSession struct {
	inFlight atomic.Bool

	mu          sync.Mutex
	state       domain.CheckoutState
	token       string
	lastOrderID string
}

func newCheckoutSession() *CheckoutSession {
	return &CheckoutSession{state: domain.CheckoutEditing, token: uuid.NewString()}
}

// begin claims the submission slot. It returns false if another submission holds it.
func (c *CheckoutSession) begin() bool {
	if !c.inFlight.CompareAndSwap(false, true) {
		return false
	}
	c.mu.Lock()
	c.state = domain.CheckoutProcessing
	c.mu.Unlock()
	return true
}

// fail releases the slot and returns to editing; the token is kept for the retry.
func (c *CheckoutSession) fail() {
	c.mu.Lock()
	c.state = domain.CheckoutEditing
	c.mu.Unlock()
	c.inFlight.Store(false)
}

// succeed releases the slot, records the order and issues a fresh token.
func (c *CheckoutSession) succeed(orderID string) {
	c.mu.Lock()
	c.state = domain.CheckoutConfirmed
	c.lastOrderID = orderID
	c.token = uuid.NewString()
	c.mu.Unlock()
	c.inFlight.Store(false)
}

// Edit moves a confirmed checkout back to editing, e.g. when the shopper starts a new cart.
func (c *CheckoutSession) Edit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == domain.CheckoutConfirmed {
		c.state = domain.CheckoutEditing
	}
}

func (c *CheckoutSession) State() domain.CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Token is the idempotency key the next submission will use.
func (c *CheckoutSession) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *CheckoutSession) LastOrderID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastOrderID
}

// SessionRegistry keeps live sessions in an expiring cache. The wishlist is
// stored per shopper in the key-value store and outlives any session; the
// cart does not.
type SessionRegistry struct {
	mu      sync.Mutex
	cache   cache.CacheService
	store   domain.KeyValueStore
	ttl     time.Duration
	newFeed func() domain.NotificationFeed
	extra   []domain.Notifier
}

// NewSessionRegistry takes ownership of c; it registers its own eviction callback.
func NewSessionRegistry(c cache.CacheService, store domain.KeyValueStore, ttl time.Duration, newFeed func() domain.NotificationFeed, extra ...domain.Notifier) *SessionRegistry {
	c.OnEvicted(func(key string, v interface{}) {
		if s, ok := v.(*Session); ok {
			logger.Get().Debug().Str("session_id", s.ID).Int("cart_items", s.Cart.TotalItems()).Msg("Session: evicted")
		}
	})
	return &SessionRegistry{
		cache:   c,
		store:   store,
		ttl:     ttl,
		newFeed: newFeed,
		extra:   extra,
	}
}

func sessionCacheKey(id string) string {
	return "session:" + id
}

// Get returns the session for id, creating it on first use for shopperID.
// A live session keeps the shopper it was created with. Each access extends
// the session's lifetime.
func (r *SessionRegistry) Get(ctx context.Context, id, shopperID string) *Session {
	key := sessionCacheKey(id)
	if shopperID == "" {
		shopperID = id
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.cache.Get(key); ok {
		s := v.(*Session)
		r.cache.Set(key, s, r.ttl)
		return s
	}

	feed := r.newFeed()
	notifier := append(domain.MultiNotifier{feed}, r.extra...)
	s := &Session{
		ID:        id,
		ShopperID: shopperID,
		Cart:      NewCartManager(notifier),
		Wishlist:  NewWishlistManager(ctx, r.store, shopperID, notifier),
		Feed:      feed,
		Checkout:  newCheckoutSession(),
		notifier:  notifier,
	}
	r.cache.Set(key, s, r.ttl)
	logger.WithContext(ctx).Debug().Str("session_id", id).Str("shopper_id", shopperID).Msg("Session: created")
	return s
}

// Drop forgets a session. Its wishlist stays in the key-value store.
func (r *SessionRegistry) Drop(id string) {
	r.cache.Delete(sessionCacheKey(id))
}

// WithSession stores s in ctx for handlers further down the chain.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, domain.SessionContextKey, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(domain.SessionContextKey).(*Session)
	return s, ok && s != nil
}
