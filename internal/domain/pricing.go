package domain

import "github.com/shopspring/decimal"

// MulPrice multiplies a unit price by a quantity, rounded to cents.
func MulPrice(price float64, qty int) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty))).Round(2).InexactFloat64()
}

// SumLines totals the lines in decimal arithmetic.
func SumLines(lines []CartLine) float64 {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(decimal.NewFromFloat(l.Product.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total.Round(2).InexactFloat64()
}

// ShippingPolicy is a flat rate waived from a subtotal threshold.
type ShippingPolicy struct {
	FreeThreshold float64 `json:"freeThreshold"`
	FlatRate      float64 `json:"flatRate"`
}

type Quote struct {
	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shippingCost"`
	Total        float64 `json:"total"`
	FreeShipping bool    `json:"freeShipping"`
}

// Quote prices shipping for subtotal. Reaching the threshold exactly is free.
func (p ShippingPolicy) Quote(subtotal float64) Quote {
	sub := decimal.NewFromFloat(subtotal)
	shipping := decimal.NewFromFloat(p.FlatRate)
	free := sub.GreaterThanOrEqual(decimal.NewFromFloat(p.FreeThreshold))
	if free {
		shipping = decimal.Zero
	}
	return Quote{
		Subtotal:     sub.Round(2).InexactFloat64(),
		ShippingCost: shipping.Round(2).InexactFloat64(),
		Total:        sub.Add(shipping).Round(2).InexactFloat64(),
		FreeShipping: free,
	}
}
