package outbox

import "github.com/shopspring/decimal"

// OrderPlacedEvent is emitted when a cart is converted into an order.
type OrderPlacedEvent struct {
	OrderID       string          `json:"orderId"`
	UserID        string          `json:"userId"`
	ItemCount     int             `json:"itemCount"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	PaymentMethod string          `json:"paymentMethod"`
}

// OrderStepChangedEvent is emitted whenever the tracking step of an order moves.
type OrderStepChangedEvent struct {
	OrderID  string `json:"orderId"`
	FromStep int    `json:"fromStep"`
	ToStep   int    `json:"toStep"`
	Label    string `json:"label"`
	Status   string `json:"status"`
}

// OrderDeletedEvent is emitted when an admin removes an order.
type OrderDeletedEvent struct {
	OrderID string `json:"orderId"`
}
