package domain

// LineKey identifies a cart line.
type LineKey struct {
	ProductID string `json:"productId"`
	Color     string `json:"selectedColor,omitempty"`
}

type CartLine struct {
	Product       Product `json:"product"`
	Quantity      int     `json:"quantity"`
	SelectedColor string  `json:"selectedColor,omitempty"`
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.Product.ID, Color: l.SelectedColor}
}

// LineTotal is unit price times quantity.
func (l CartLine) LineTotal() float64 {
	return MulPrice(l.Product.Price, l.Quantity)
}

type CartSnapshot struct {
	Lines      []CartLine `json:"lines"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

// CartResult is what a cart mutation hands back to the caller.
type CartResult struct {
	Cart         CartSnapshot `json:"cart"`
	Notification Notification `json:"notification"`
}
