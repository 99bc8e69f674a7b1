package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/foodorder-backend/pkg/db/models"
)

// AddItemRequest is the body of POST /cart.
type AddItemRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gte=1,lte=1000"`
}

// UpdateItemRequest is the body of PUT /cart/item/{itemId}. Absent fields are left alone.
type UpdateItemRequest struct {
	Quantity            *int    `json:"quantity,omitempty" validate:"omitempty,gte=0,lte=1000"`
	SpecialInstructions *string `json:"specialInstructions,omitempty" validate:"omitempty,max=500"`
}

type CartItemDTO struct {
	ItemID              uuid.UUID       `json:"itemId"`
	Name                string          `json:"name"`
	Price               decimal.Decimal `json:"price"`
	Category            string          `json:"category"`
	Image               string          `json:"image"`
	Quantity            int             `json:"quantity"`
	SpecialInstructions *string         `json:"specialInstructions,omitempty"`
	LineTotal           decimal.Decimal `json:"lineTotal"`
}

// CartDTO is the read shape of a cart. TotalPrice is derived from the lines.
type CartDTO struct {
	Items      []CartItemDTO   `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// EmptyCart is returned for users who never added anything.
func EmptyCart() *CartDTO {
	return &CartDTO{Items: []CartItemDTO{}, TotalPrice: decimal.Zero}
}

// FromModel converts a cart and computes its total as the sum of price times quantity.
func FromModel(c *models.Cart) *CartDTO {
	if c == nil {
		return EmptyCart()
	}
	out := &CartDTO{Items: make([]CartItemDTO, 0, len(c.Items)), TotalPrice: decimal.Zero}
	for _, item := range c.Items {
		line := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		out.Items = append(out.Items, CartItemDTO{
			ItemID:              item.ItemID,
			Name:                item.Name,
			Price:               item.Price,
			Category:            item.Category,
			Image:               item.Image,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
			LineTotal:           line,
		})
		out.TotalPrice = out.TotalPrice.Add(line)
	}
	return out
}
