package pgxrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id::text, user_id, first_name, last_name, email, phone, address, city, state,
       zip_code, payment_method, subtotal, shipping_cost, total, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                         domain.Order
		subtotal, shipping, total pgtype.Numeric
	)
	err := row.Scan(&o.ID, &o.UserID, &o.FirstName, &o.LastName, &o.Email, &o.Phone, &o.Address,
		&o.City, &o.State, &o.ZipCode, &o.PaymentMethod, &subtotal, &shipping, &total, &o.Status,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Subtotal = numericToFloat64(subtotal)
	o.ShippingCost = numericToFloat64(shipping)
	o.Total = numericToFloat64(total)
	return &o, nil
}

// CreateOrder inserts the header. A key the session already used inserts nothing
// and reports ErrDuplicateOrder without aborting the transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, o *domain.Order) error {
	start := time.Now()
	var id string
	err := conn(ctx, r.db).QueryRow(ctx, `
INSERT INTO orders (id, session_id, idempotency_key, user_id, first_name, last_name, email, phone,
                    address, city, state, zip_code, payment_method, subtotal, shipping_cost, total,
                    status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
ON CONFLICT (session_id, idempotency_key) DO NOTHING
RETURNING id::text`,
		o.ID, o.SessionID, o.IdempotencyKey, o.UserID, o.FirstName, o.LastName, o.Email, o.Phone, o.Address,
		o.City, o.State, o.ZipCode, o.PaymentMethod, float64ToNumeric(o.Subtotal),
		float64ToNumeric(o.ShippingCost), float64ToNumeric(o.Total), o.Status, o.CreatedAt,
	).Scan(&id)
	logger.DBQuery(ctx, "CreateOrder", time.Since(start), err)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrDuplicateOrder
	}
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *orderRepository) CreateOrderItems(ctx context.Context, orderID string, items []domain.OrderItem) error {
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`
INSERT INTO order_items (id, order_id, product_id, product_name, product_image, selected_color, quantity, price)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, orderID, it.ProductID, it.ProductName, it.ProductImage, strToPtr(it.SelectedColor),
			it.Quantity, float64ToNumeric(it.Price))
	}
	br := conn(ctx, r.db).SendBatch(ctx, batch)
	for range items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return br.Close()
}

func (r *orderRepository) GetByIdempotencyKey(ctx context.Context, sessionID, key string) (*domain.Order, error) {
	db := conn(ctx, r.db)
	o, err := scanOrder(db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE session_id = $1 AND idempotency_key = $2`, sessionID, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order by key: %w", err)
	}
	o.SessionID = sessionID
	o.IdempotencyKey = key
	items, err := r.itemsFor(ctx, db, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

// GetOrdersByEmail returns orders newest first with their items.
func (r *orderRepository) GetOrdersByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	db := conn(ctx, r.db)
	rows, err := db.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE email = $1 ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.itemsFor(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *orderRepository) itemsFor(ctx context.Context, db DBTX, orderIDs []string) (map[string][]domain.OrderItem, error) {
	rows, err := db.Query(ctx, `
SELECT id::text, order_id::text, product_id, product_name, product_image, selected_color, quantity, price
FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY order_id, product_name`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			it    domain.OrderItem
			color *string
			price pgtype.Numeric
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductImage, &color, &it.Quantity, &price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.SelectedColor = ptrStrToStr(color)
		it.Price = numericToFloat64(price)
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}
