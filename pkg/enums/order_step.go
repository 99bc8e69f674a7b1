package enums

import "fmt"

// OrderStep is the position of an order in the fulfillment flow:
// 0 Order Placed -> 1 Order Packed -> 2 Out For Delivery -> 3 Delivered.
type OrderStep int

const (
	OrderStepPlaced OrderStep = iota
	OrderStepPacked
	OrderStepOutForDelivery
	OrderStepDelivered
)

var orderStepLabels = [...]string{
	OrderStepPlaced:         "Order Placed",
	OrderStepPacked:         "Order Packed",
	OrderStepOutForDelivery: "Out For Delivery",
	OrderStepDelivered:      "Delivered",
}

var orderStepStatuses = [...]OrderStatus{
	OrderStepPlaced:         OrderStatusPending,
	OrderStepPacked:         OrderStatusPreparing,
	OrderStepOutForDelivery: OrderStatusDispatched,
	OrderStepDelivered:      OrderStatusDelivered,
}

// IsValid reports whether the step is within [0,3].
func (s OrderStep) IsValid() bool {
	return s >= OrderStepPlaced && s <= OrderStepDelivered
}

// Label returns the customer facing label, or "" for unknown steps.
func (s OrderStep) Label() string {
	if !s.IsValid() {
		return ""
	}
	return orderStepLabels[s]
}

// Status returns the stored status for the step. Unknown steps map to Pending.
func (s OrderStep) Status() OrderStatus {
	if !s.IsValid() {
		return OrderStatusPending
	}
	return orderStepStatuses[s]
}

// IsTerminal reports whether no further steps follow.
func (s OrderStep) IsTerminal() bool {
	return s == OrderStepDelivered
}

func (s OrderStep) String() string {
	if label := s.Label(); label != "" {
		return label
	}
	return fmt.Sprintf("OrderStep(%d)", int(s))
}

// ParseOrderStep validates a raw integer step.
func ParseOrderStep(value int) (OrderStep, error) {
	step := OrderStep(value)
	if !step.IsValid() {
		return 0, fmt.Errorf("invalid order step %d", value)
	}
	return step, nil
}

// OrderStepLabels returns the labels in step order.
func OrderStepLabels() []string {
	return append([]string(nil), orderStepLabels[:]...)
}
