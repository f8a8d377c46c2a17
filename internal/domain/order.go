package domain

import (
	"context"
	"time"
)

type Order struct {
	ID             string      `json:"id"`
	SessionID      string      `json:"-"`
	IdempotencyKey string      `json:"-"` // unique per session
	UserID         *string     `json:"userId,omitempty"`
	FirstName      string      `json:"firstName"`
	LastName       string      `json:"lastName"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Address        string      `json:"address"`
	City           string      `json:"city"`
	State          string      `json:"state"`
	ZipCode        string      `json:"zipCode"`
	PaymentMethod  string      `json:"paymentMethod"`
	Subtotal       float64     `json:"subtotal"`
	ShippingCost   float64     `json:"shippingCost"`
	Total          float64     `json:"total"`
	Status         string      `json:"status"`
	Items          []OrderItem `json:"items"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// OrderItem captures the product as it was at submission.
type OrderItem struct {
	ID            string  `json:"id"`
	OrderID       string  `json:"orderId"`
	ProductID     string  `json:"productId"`
	ProductName   string  `json:"productName"`
	ProductImage  string  `json:"productImage"`
	SelectedColor string  `json:"selectedColor,omitempty"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"` // unit price at time of purchase
}

type OrderRepository interface {
	// CreateOrder inserts the order header. It returns ErrDuplicateOrder when
	// the order's session has used the idempotency key before.
	CreateOrder(ctx context.Context, order *Order) error
	CreateOrderItems(ctx context.Context, orderID string, items []OrderItem) error
	// GetByIdempotencyKey only sees orders placed by sessionID.
	GetByIdempotencyKey(ctx context.Context, sessionID, key string) (*Order, error)
	GetOrdersByEmail(ctx context.Context, email string) ([]Order, error)
}

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
