package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/foodorder-backend/pkg/db/models"
	"github.com/angelmondragon/foodorder-backend/pkg/enums"
)

// OrderItemInput is one line of the cart snapshot sent at checkout.
type OrderItemInput struct {
	ItemID              string          `json:"itemId"`
	Name                string          `json:"name" validate:"max=200"`
	Price               decimal.Decimal `json:"price"`
	Category            string          `json:"category" validate:"max=200"`
	Image               string          `json:"image" validate:"max=2048"`
	Quantity            int             `json:"quantity" validate:"gte=1,lte=1000"`
	SpecialInstructions *string         `json:"specialInstructions,omitempty" validate:"omitempty,max=500"`
}

// PlaceOrderRequest is the body of POST /order/order.
type PlaceOrderRequest struct {
	OrderID       string           `json:"orderId" validate:"required,max=64"`
	CartItems     []OrderItemInput `json:"cartItems" validate:"dive"`
	TotalPrice    decimal.Decimal  `json:"totalPrice"`
	Address       string           `json:"address" validate:"required,max=1000"`
	PaymentMethod string           `json:"paymentMethod" validate:"required"`
}

// AdvanceStepRequest is the body of POST /tracklocation/orders/update-step.
type AdvanceStepRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Step    *int   `json:"step" validate:"required"`
}

type OrderItemDTO struct {
	ItemID              string          `json:"itemId"`
	Name                string          `json:"name"`
	Price               decimal.Decimal `json:"price"`
	Category            string          `json:"category"`
	Image               string          `json:"image"`
	Quantity            int             `json:"quantity"`
	SpecialInstructions *string         `json:"specialInstructions,omitempty"`
}

type OrderDTO struct {
	ID            uuid.UUID           `json:"id"`
	OrderID       string              `json:"orderId"`
	UserID        uuid.UUID           `json:"userId"`
	CartItems     []OrderItemDTO      `json:"cartItems"`
	TotalPrice    decimal.Decimal     `json:"totalPrice"`
	Address       string              `json:"address"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	Status        enums.OrderStatus   `json:"status"`
	Step          int                 `json:"step"`
	StepLabel     string              `json:"stepLabel"`
	DeliveredAt   *time.Time          `json:"deliveredAt,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ItemID:              item.ItemID,
			Name:                item.Name,
			Price:               item.Price,
			Category:            item.Category,
			Image:               item.Image,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		})
	}
	return &OrderDTO{
		ID:            o.ID,
		OrderID:       o.OrderID,
		UserID:        o.UserID,
		CartItems:     items,
		TotalPrice:    o.TotalPrice,
		Address:       o.Address,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		Step:          int(o.Step),
		StepLabel:     o.Step.Label(),
		DeliveredAt:   o.DeliveredAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func fromModels(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func snapshotItems(in []OrderItemInput) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(in))
	for i, item := range in {
		out = append(out, models.OrderItem{
			ItemID:              item.ItemID,
			Name:                item.Name,
			Price:               item.Price,
			Category:            item.Category,
			Image:               item.Image,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
			Position:            i,
		})
	}
	return out
}
