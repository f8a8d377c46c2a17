package domain

// CheckoutForm is the shipping and payment form.
type CheckoutForm struct {
	FirstName     string `json:"firstName" validate:"required,min=2,max=50"`
	LastName      string `json:"lastName" validate:"required,min=2,max=50"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,min=10,max=15"`
	Address       string `json:"address" validate:"required,min=5,max=200"`
	City          string `json:"city" validate:"required,min=2,max=100"`
	State         string `json:"state" validate:"required,min=1"`
	ZipCode       string `json:"zipCode" validate:"required,min=5,max=10"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=card transfer cash"`
}

type CheckoutState string

const (
	CheckoutEditing    CheckoutState = "editing"
	CheckoutProcessing CheckoutState = "processing"
	CheckoutConfirmed  CheckoutState = "confirmed"
)

// CheckoutView is what the checkout page shows before submission.
type CheckoutView struct {
	State CheckoutState `json:"state"`
	Cart  CartSnapshot  `json:"cart"`
	Quote Quote         `json:"quote"`
	// IdempotencyKey is the token the next submission will use.
	IdempotencyKey string `json:"idempotencyKey"`
	LastOrderID    string `json:"lastOrderId,omitempty"`
}

type CheckoutResult struct {
	Order *Order        `json:"order"`
	State CheckoutState `json:"state"`
	// Replayed is true when the order already existed for the token.
	Replayed bool `json:"replayed"`
}
