package usecase

import (
	"context"
	"strings"

	"storefront-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// OrderUsecase is the read side of orders.
type OrderUsecase struct {
	repo     domain.OrderRepository
	validate *validator.Validate
}

func NewOrderUsecase(repo domain.OrderRepository) *OrderUsecase {
	return &OrderUsecase{repo: repo, validate: newValidator()}
}

// GetOrdersByEmail returns the orders placed with email, newest first.
func (u *OrderUsecase) GetOrdersByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	email = strings.TrimSpace(email)
	if err := u.validate.Var(email, "required,email"); err != nil {
		return nil, &domain.ValidationError{Fields: map[string]string{"email": "must be a valid email"}}
	}
	orders, err := u.repo.GetOrdersByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}
