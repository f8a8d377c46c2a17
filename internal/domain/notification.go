package domain

type NotificationKind string

const (
	NotifyAdded           NotificationKind = "added"
	NotifyIncremented     NotificationKind = "incremented"
	NotifyQuantityUpdated NotificationKind = "quantity_updated"
	NotifyRemoved         NotificationKind = "removed"
	NotifyCleared         NotificationKind = "cleared"
	NotifyStockLimit      NotificationKind = "stock_limit"
	NotifyNoop            NotificationKind = "noop"
	NotifyWishlistAdded   NotificationKind = "wishlist_added"
	NotifyWishlistRemoved NotificationKind = "wishlist_removed"
	NotifyOrderPlaced     NotificationKind = "order_placed"
	NotifyOrderFailed     NotificationKind = "order_failed"
)

// Notification describes one state change for the presentation layer.
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	ProductID   string           `json:"productId,omitempty"`
	ProductName string           `json:"productName,omitempty"`
	Color       string           `json:"color,omitempty"`
	Quantity    int              `json:"quantity,omitempty"`
	Message     string           `json:"message"`
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// MultiNotifier fans out to every notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(n Notification) {
	for _, nt := range m {
		if nt != nil {
			nt.Notify(n)
		}
	}
}

// NotificationFeed is a Notifier whose pending items can be collected.
type NotificationFeed interface {
	Notifier
	Drain() []Notification
}
