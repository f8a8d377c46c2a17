package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"

	"github.com/goccy/go-json"
)

// WishlistManager owns the saved products of one shopper and writes the full
// list to the key-value store after every change.
type WishlistManager struct {
	mu       sync.Mutex
	key      string
	store    domain.KeyValueStore
	notifier domain.Notifier
	items    []domain.Product
	members  map[string]struct{}
}

// NewWishlistManager loads the stored wishlist for shopperID. Missing or
// unreadable data yields an empty wishlist.
func NewWishlistManager(ctx context.Context, store domain.KeyValueStore, shopperID string, notifier domain.Notifier) *WishlistManager {
	m := &WishlistManager{
		key:      domain.WishlistKey(shopperID),
		store:    store,
		notifier: notifier,
		members:  make(map[string]struct{}),
	}
	m.load(ctx)
	return m
}

func (m *WishlistManager) load(ctx context.Context) {
	log := logger.WithContext(ctx)

	raw, err := m.store.Get(ctx, m.key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("key", m.key).Msg("Wishlist: load failed, starting empty")
		return
	}

	var stored []domain.Product
	if err := json.Unmarshal(raw, &stored); err != nil {
		log.Warn().Err(err).Str("key", m.key).Msg("Wishlist: stored data is corrupt, starting empty")
		return
	}
	for _, p := range stored {
		if p.ID == "" {
			continue
		}
		if _, dup := m.members[p.ID]; dup {
			continue
		}
		m.members[p.ID] = struct{}{}
		m.items = append(m.items, p)
	}
}

// Toggle removes product if saved, adds it otherwise. A store failure keeps
// the in-memory change and is returned alongside a valid result.
func (m *WishlistManager) Toggle(ctx context.Context, product domain.Product) (domain.WishlistToggleResult, error) {
	m.mu.Lock()
	var n domain.Notification
	if _, ok := m.members[product.ID]; ok {
		n = m.removeLocked(product.ID)
	} else {
		n = m.addLocked(product)
	}
	err := m.persistLocked(ctx)
	res := domain.WishlistToggleResult{
		InWishlist:   n.Kind == domain.NotifyWishlistAdded,
		Wishlist:     m.viewLocked(),
		Notification: n,
		Persisted:    err == nil,
	}
	m.mu.Unlock()

	m.emit(n)
	return res, err
}

// Add saves product; it is a no-op if already saved.
func (m *WishlistManager) Add(ctx context.Context, product domain.Product) (domain.Notification, error) {
	m.mu.Lock()
	if _, ok := m.members[product.ID]; ok {
		m.mu.Unlock()
		return domain.Notification{Kind: domain.NotifyNoop, ProductID: product.ID, Message: "already in wishlist"}, nil
	}
	n := m.addLocked(product)
	err := m.persistLocked(ctx)
	m.mu.Unlock()

	m.emit(n)
	return n, err
}

// Remove drops productID; it is a no-op if not saved.
func (m *WishlistManager) Remove(ctx context.Context, productID string) (domain.Notification, error) {
	m.mu.Lock()
	if _, ok := m.members[productID]; !ok {
		m.mu.Unlock()
		return domain.Notification{Kind: domain.NotifyNoop, ProductID: productID, Message: "not in wishlist"}, nil
	}
	n := m.removeLocked(productID)
	err := m.persistLocked(ctx)
	m.mu.Unlock()

	m.emit(n)
	return n, err
}

func (m *WishlistManager) IsInWishlist(productID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.members[productID]
	return ok
}

// Items returns the saved products in the order they were added.
func (m *WishlistManager) Items() []domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items)
}

func (m *WishlistManager) View() domain.WishlistView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

func (m *WishlistManager) viewLocked() domain.WishlistView {
	items := slices.Clone(m.items)
	if items == nil {
		items = []domain.Product{}
	}
	return domain.WishlistView{Items: items, Count: len(items)}
}

func (m *WishlistManager) addLocked(p domain.Product) domain.Notification {
	m.members[p.ID] = struct{}{}
	m.items = append(m.items, p)
	return domain.Notification{
		Kind:        domain.NotifyWishlistAdded,
		ProductID:   p.ID,
		ProductName: p.Name,
		Message:     fmt.Sprintf("%s added to wishlist", p.Name),
	}
}

func (m *WishlistManager) removeLocked(productID string) domain.Notification {
	delete(m.members, productID)
	var name string
	m.items = slices.DeleteFunc(m.items, func(p domain.Product) bool {
		if p.ID == productID {
			name = p.Name
			return true
		}
		return false
	})
	return domain.Notification{
		Kind:        domain.NotifyWishlistRemoved,
		ProductID:   productID,
		ProductName: name,
		Message:     fmt.Sprintf("%s removed from wishlist", name),
	}
}

func (m *WishlistManager) persistLocked(ctx context.Context) error {
	items := m.items
	if items == nil {
		items = []domain.Product{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode wishlist: %w", err)
	}
	if err := m.store.Set(ctx, m.key, raw); err != nil {
		logger.WithContext(ctx).Error().Err(err).Str("key", m.key).Msg("Wishlist: persist failed, keeping in-memory state")
		return fmt.Errorf("persist wishlist: %w", err)
	}
	return nil
}

func (m *WishlistManager) emit(n domain.Notification) {
	if m.notifier != nil {
		m.notifier.Notify(n)
	}
}
