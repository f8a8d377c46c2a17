package usecase

import (
	"fmt"
	"slices"
	"sync"

	"storefront-backend/internal/domain"
)

// CartManager owns the cart lines of one session. Lines are identified by
// (productID, color) and kept in insertion order.
type CartManager struct {
	mu       sync.Mutex
	lines    []domain.CartLine
	notifier domain.Notifier
}

func NewCartManager(notifier domain.Notifier) *CartManager {
	return &CartManager{notifier: notifier}
}

// AddItem adds one unit of product in color. An existing line takes product
// as its new snapshot, so the cap and price follow the latest catalog data.
// Hitting the stock limit is not an error: the quantity is left as is and a
// stock_limit notification is returned.
func (c *CartManager) AddItem(product domain.Product, color string) (domain.Notification, error) {
	if !product.HasColor(color) {
		return domain.Notification{}, fmt.Errorf("%s %q: %w", product.ID, color, domain.ErrInvalidColor)
	}

	c.mu.Lock()
	var n domain.Notification
	if i := c.indexOf(product.ID, color); i >= 0 {
		line := &c.lines[i]
		line.Product = product
		if line.Quantity >= line.Product.Stock {
			n = stockLimit(line.Product, color, line.Quantity)
		} else {
			line.Quantity++
			n = domain.Notification{
				Kind:        domain.NotifyIncremented,
				ProductID:   product.ID,
				ProductName: line.Product.Name,
				Color:       color,
				Quantity:    line.Quantity,
				Message:     fmt.Sprintf("%s quantity is now %d", line.Product.Name, line.Quantity),
			}
		}
	} else if product.Stock <= 0 {
		n = stockLimit(product, color, 0)
	} else {
		c.lines = append(c.lines, domain.CartLine{Product: product, Quantity: 1, SelectedColor: color})
		n = domain.Notification{
			Kind:        domain.NotifyAdded,
			ProductID:   product.ID,
			ProductName: product.Name,
			Color:       color,
			Quantity:    1,
			Message:     fmt.Sprintf("%s added to cart", product.Name),
		}
	}
	c.mu.Unlock()

	c.emit(n)
	return n, nil
}

// RemoveItem removes the (productID, color) line. Removing an absent line is a no-op.
func (c *CartManager) RemoveItem(productID, color string) domain.Notification {
	c.mu.Lock()
	n := c.removeLocked(productID, color)
	c.mu.Unlock()

	c.emit(n)
	return n
}

// RemoveProduct removes every line of productID whatever its color.
func (c *CartManager) RemoveProduct(productID string) domain.Notification {
	c.mu.Lock()
	var name string
	removed := 0
	c.lines = slices.DeleteFunc(c.lines, func(l domain.CartLine) bool {
		if l.Product.ID != productID {
			return false
		}
		name = l.Product.Name
		removed += l.Quantity
		return true
	})
	c.mu.Unlock()

	n := domain.Notification{Kind: domain.NotifyNoop, ProductID: productID, Message: "nothing to remove"}
	if removed > 0 {
		n = domain.Notification{
			Kind:        domain.NotifyRemoved,
			ProductID:   productID,
			ProductName: name,
			Quantity:    removed,
			Message:     fmt.Sprintf("%s removed from cart", name),
		}
	}
	c.emit(n)
	return n
}

// UpdateQuantity sets the quantity of the (productID, color) line.
// quantity <= 0 removes it; quantities above stock are clamped to stock.
func (c *CartManager) UpdateQuantity(productID, color string, quantity int) (domain.Notification, error) {
	c.mu.Lock()
	if quantity <= 0 {
		n := c.removeLocked(productID, color)
		c.mu.Unlock()
		c.emit(n)
		return n, nil
	}

	i := c.indexOf(productID, color)
	if i < 0 {
		c.mu.Unlock()
		return domain.Notification{}, fmt.Errorf("%s %q: %w", productID, color, domain.ErrLineNotFound)
	}

	line := &c.lines[i]
	var n domain.Notification
	if quantity > line.Product.Stock {
		line.Quantity = line.Product.Stock
		n = stockLimit(line.Product, color, line.Quantity)
	} else {
		line.Quantity = quantity
		n = domain.Notification{
			Kind:        domain.NotifyQuantityUpdated,
			ProductID:   productID,
			ProductName: line.Product.Name,
			Color:       color,
			Quantity:    quantity,
			Message:     fmt.Sprintf("%s quantity set to %d", line.Product.Name, quantity),
		}
	}
	c.mu.Unlock()

	c.emit(n)
	return n, nil
}

// Clear empties the cart unconditionally.
func (c *CartManager) Clear() domain.Notification {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()

	n := domain.Notification{Kind: domain.NotifyCleared, Message: "cart cleared"}
	c.emit(n)
	return n
}

// Lines returns a copy of the current lines.
func (c *CartManager) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.lines)
}

func (c *CartManager) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totalItems(c.lines)
}

func (c *CartManager) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.SumLines(c.lines)
}

// Snapshot returns lines and totals computed from the same state.
func (c *CartManager) Snapshot() domain.CartSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := slices.Clone(c.lines)
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return domain.CartSnapshot{
		Lines:      lines,
		TotalItems: totalItems(c.lines),
		TotalPrice: domain.SumLines(c.lines),
	}
}

func (c *CartManager) indexOf(productID, color string) int {
	return slices.IndexFunc(c.lines, func(l domain.CartLine) bool {
		return l.Product.ID == productID && l.SelectedColor == color
	})
}

func (c *CartManager) removeLocked(productID, color string) domain.Notification {
	i := c.indexOf(productID, color)
	if i < 0 {
		return domain.Notification{Kind: domain.NotifyNoop, ProductID: productID, Color: color, Message: "nothing to remove"}
	}
	line := c.lines[i]
	c.lines = slices.Delete(c.lines, i, i+1)
	return domain.Notification{
		Kind:        domain.NotifyRemoved,
		ProductID:   productID,
		ProductName: line.Product.Name,
		Color:       color,
		Quantity:    line.Quantity,
		Message:     fmt.Sprintf("%s removed from cart", line.Product.Name),
	}
}

func (c *CartManager) emit(n domain.Notification) {
	if c.notifier != nil {
		c.notifier.Notify(n)
	}
}

func totalItems(lines []domain.CartLine) int {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}

func stockLimit(p domain.Product, color string, qty int) domain.Notification {
	return domain.Notification{
		Kind:        domain.NotifyStockLimit,
		ProductID:   p.ID,
		ProductName: p.Name,
		Color:       color,
		Quantity:    qty,
		Message:     fmt.Sprintf("only %d of %s in stock", p.Stock, p.Name),
	}
}
