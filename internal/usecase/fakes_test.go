package usecase

import (
	"context"
	"errors"
	"sync"

	"storefront-backend/internal/domain"
)

type recordingNotifier struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (r *recordingNotifier) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) Drain() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.notes
	r.notes = nil
	return out
}

func (r *recordingNotifier) kinds() []domain.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.NotificationKind, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, n.Kind)
	}
	return out
}

type fakeKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	setErr error
	sets   int
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string][]byte{}} }

func (f *fakeKV) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.sets++
	f.data[key] = value
	return nil
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order // by orderKey
	createErr error
	itemsErr  error
	getErr    error
	// block, when set, is waited on inside CreateOrder.
	block chan struct{}
	calls int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*domain.Order{}}
}

func orderKey(sessionID, key string) string {
	return sessionID + "/" + key
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, o *domain.Order) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.createErr != nil {
		return f.createErr
	}
	k := orderKey(o.SessionID, o.IdempotencyKey)
	if _, dup := f.orders[k]; dup {
		return domain.ErrDuplicateOrder
	}
	cp := *o
	f.orders[k] = &cp
	return nil
}

func (f *fakeOrderRepo) CreateOrderItems(ctx context.Context, orderID string, items []domain.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.itemsErr != nil {
		// Mimic rollback of the header.
		for k, o := range f.orders {
			if o.ID == orderID {
				delete(f.orders, k)
			}
		}
		return f.itemsErr
	}
	for _, o := range f.orders {
		if o.ID == orderID {
			o.Items = append([]domain.OrderItem(nil), items...)
		}
	}
	return nil
}

func (f *fakeOrderRepo) GetByIdempotencyKey(ctx context.Context, sessionID, key string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	o, ok := f.orders[orderKey(sessionID, key)]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) GetOrdersByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, o := range f.orders {
		if o.Email == email {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

type fakeStock struct {
	mu         sync.Mutex
	decrements map[string]int
	err        error
}

func (f *fakeStock) DecrementStock(ctx context.Context, productID string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.decrements == nil {
		f.decrements = map[string]int{}
	}
	f.decrements[productID] += qty
	return nil
}

// passthroughTx runs fn directly; the fakes do their own rollback.
type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCatalogSource struct {
	mu    sync.Mutex
	snap  domain.CatalogSnapshot
	err   error
	loads int
}

func (f *fakeCatalogSource) LoadCatalog(ctx context.Context) (*domain.CatalogSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	cp := domain.CatalogSnapshot{
		Brands:   append([]domain.Brand(nil), f.snap.Brands...),
		Products: append([]domain.Product(nil), f.snap.Products...),
	}
	return &cp, nil
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate() { c.n++ }

var errBackend = errors.New("backend unavailable")

func hat(id string, price float64, stock int, colors ...string) domain.Product {
	return domain.Product{ID: id, Name: "Hat " + id, Price: price, Stock: stock, Colors: colors}
}
