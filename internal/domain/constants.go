package domain

const OrderStatusPending = "pending"

// Payment Methods
const (
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCash     = "cash"
)

var PaymentMethods = []string{
	PaymentMethodCard,
	PaymentMethodTransfer,
	PaymentMethodCash,
}

// MexicanStates backs the state selector of the checkout form.
var MexicanStates = []string{
	"Aguascalientes", "Baja California", "Baja California Sur", "Campeche",
	"Chiapas", "Chihuahua", "Ciudad de México", "Coahuila", "Colima",
	"Durango", "Estado de México", "Guanajuato", "Guerrero", "Hidalgo",
	"Jalisco", "Michoacán", "Morelos", "Nayarit", "Nuevo León", "Oaxaca",
	"Puebla", "Querétaro", "Quintana Roo", "San Luis Potosí", "Sinaloa",
	"Sonora", "Tabasco", "Tamaulipas", "Tlaxcala", "Veracruz", "Yucatán",
	"Zacatecas",
}
