package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CatalogInvalidator drops cached catalog data after stock changes.
type CatalogInvalidator interface {
	Invalidate()
}

type CheckoutUsecase struct {
	orderRepo domain.OrderRepository
	stockRepo domain.StockRepository
	txManager domain.TransactionManager
	catalog   CatalogInvalidator
	shipping  domain.ShippingPolicy
	timeout   time.Duration
	validate  *validator.Validate
}

func NewCheckoutUsecase(orderRepo domain.OrderRepository, stockRepo domain.StockRepository, txManager domain.TransactionManager, catalog CatalogInvalidator, shipping domain.ShippingPolicy, timeout time.Duration) *CheckoutUsecase {
	return &CheckoutUsecase{
		orderRepo: orderRepo,
		stockRepo: stockRepo,
		txManager: txManager,
		catalog:   catalog,
		shipping:  shipping,
		timeout:   timeout,
		validate:  newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateForm checks the form and returns a *domain.ValidationError listing every bad field.
func (u *CheckoutUsecase) ValidateForm(form domain.CheckoutForm) error {
	form = normalizeForm(form)
	err := u.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return "is invalid"
	}
}

func normalizeForm(f domain.CheckoutForm) domain.CheckoutForm {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.ZipCode = strings.TrimSpace(f.ZipCode)
	return f
}

// Quote prices shipping for a subtotal.
func (u *CheckoutUsecase) Quote(subtotal float64) domain.Quote {
	return u.shipping.Quote(subtotal)
}

func (u *CheckoutUsecase) ShippingPolicy() domain.ShippingPolicy {
	return u.shipping
}

// View is the checkout page for a session.
func (u *CheckoutUsecase) View(s *Session) domain.CheckoutView {
	cart := s.Cart.Snapshot()
	return domain.CheckoutView{
		State:          s.Checkout.State(),
		Cart:           cart,
		Quote:          u.shipping.Quote(cart.TotalPrice),
		IdempotencyKey: s.Checkout.Token(),
		LastOrderID:    s.Checkout.LastOrderID(),
	}
}

// Submit places an order for the session's cart. The cart is cleared only
// after the order is stored; on failure the cart is left as it was.
// idempotencyKey may be empty, in which case the session's token is used.
// Keys are scoped to the session, so another shopper's key never matches.
func (u *CheckoutUsecase) Submit(ctx context.Context, s *Session, form domain.CheckoutForm, user *domain.User, idempotencyKey string) (*domain.CheckoutResult, error) {
	log := logger.WithContext(ctx)

	if err := u.ValidateForm(form); err != nil {
		return nil, err
	}
	form = normalizeForm(form)

	if !s.Checkout.begin() {
		return nil, domain.ErrSubmissionInFlight
	}

	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		key = s.Checkout.Token()
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	// A retry of a submission that already committed gets the stored order back.
	existing, err := u.orderRepo.GetByIdempotencyKey(ctx, s.ID, key)
	switch {
	case err == nil:
		log.Info().Str("order_id", existing.ID).Msg("Checkout: replaying stored order")
		return u.replay(s, existing), nil
	case !errors.Is(err, domain.ErrOrderNotFound):
		return nil, u.failed(ctx, s, err)
	}

	cart := s.Cart.Snapshot()
	if len(cart.Lines) == 0 {
		s.Checkout.fail()
		return nil, domain.ErrCartEmpty
	}

	order := buildOrder(s.ID, form, cart, u.shipping.Quote(cart.TotalPrice), user, key)

	err = u.txManager.Do(ctx, func(ctx context.Context) error {
		if err := u.orderRepo.CreateOrder(ctx, order); err != nil {
			return err
		}
		if err := u.orderRepo.CreateOrderItems(ctx, order.ID, order.Items); err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := u.stockRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("decrement stock for %s: %w", item.ProductID, err)
			}
		}
		return nil
	})
	if errors.Is(err, domain.ErrDuplicateOrder) {
		// Another request committed with this key first.
		if stored, getErr := u.orderRepo.GetByIdempotencyKey(ctx, s.ID, key); getErr == nil {
			return u.replay(s, stored), nil
		}
	}
	if err != nil {
		return nil, u.failed(ctx, s, err)
	}

	log.Info().
		Str("order_id", order.ID).
		Int("items", cart.TotalItems).
		Float64("total", order.Total).
		Msg("Checkout: order placed")

	if u.catalog != nil {
		u.catalog.Invalidate()
	}
	return u.confirm(s, order), nil
}

func (u *CheckoutUsecase) confirm(s *Session, order *domain.Order) *domain.CheckoutResult {
	s.Cart.Clear()
	s.Checkout.succeed(order.ID)
	s.Notify(domain.Notification{
		Kind:    domain.NotifyOrderPlaced,
		Message: fmt.Sprintf("order %s placed", order.ID),
	})
	return &domain.CheckoutResult{Order: order, State: domain.CheckoutConfirmed}
}

// replay answers a retry with the stored order. The cart is left alone:
// anything in it now was added after that order and is not part of it.
func (u *CheckoutUsecase) replay(s *Session, order *domain.Order) *domain.CheckoutResult {
	s.Checkout.succeed(order.ID)
	return &domain.CheckoutResult{Order: order, State: domain.CheckoutConfirmed, Replayed: true}
}

func (u *CheckoutUsecase) failed(ctx context.Context, s *Session, err error) error {
	logger.WithContext(ctx).Error().Err(err).Str("session_id", s.ID).Msg("Checkout: order submission failed")
	s.Checkout.fail()
	s.Notify(domain.Notification{
		Kind:    domain.NotifyOrderFailed,
		Message: "your order could not be placed, please try again",
	})
	return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
}

func buildOrder(sessionID string, form domain.CheckoutForm, cart domain.CartSnapshot, quote domain.Quote, user *domain.User, key string) *domain.Order {
	now := time.Now().UTC()
	order := &domain.Order{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		IdempotencyKey: key,
		FirstName:      form.FirstName,
		LastName:       form.LastName,
		Email:          form.Email,
		Phone:          form.Phone,
		Address:        form.Address,
		City:           form.City,
		State:          form.State,
		ZipCode:        form.ZipCode,
		PaymentMethod:  form.PaymentMethod,
		Subtotal:       quote.Subtotal,
		ShippingCost:   quote.ShippingCost,
		Total:          quote.Total,
		Status:         domain.OrderStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if user != nil && user.ID != "" {
		id := user.ID
		order.UserID = &id
	}
	order.Items = make([]domain.OrderItem, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		order.Items = append(order.Items, domain.OrderItem{
			ID:            uuid.NewString(),
			OrderID:       order.ID,
			ProductID:     l.Product.ID,
			ProductName:   l.Product.Name,
			ProductImage:  l.Product.Image,
			SelectedColor: l.SelectedColor,
			Quantity:      l.Quantity,
			Price:         l.Product.Price,
		})
	}
	return order
}
