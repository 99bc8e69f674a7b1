package models

import (
	"time"

	"github.com/angelmondragon/foodorder-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the checkout snapshot. OrderID is the short public reference.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID       string              `gorm:"column:order_id;not null;uniqueIndex"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Items         []OrderItem         `gorm:"foreignKey:OrderRef;references:ID;constraint:OnDelete:CASCADE"`
	TotalPrice    decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null"`
	Address       string              `gorm:"column:address;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;not null;default:'Pending'"`
	Step          enums.OrderStep     `gorm:"column:step;not null;default:0"`
	DeliveredAt   *time.Time          `gorm:"column:delivered_at"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is an immutable copy of a cart line taken at checkout.
type OrderItem struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderRef            uuid.UUID       `gorm:"column:order_ref;type:uuid;not null"`
	ItemID              string          `gorm:"column:item_id;not null;default:''"`
	Name                string          `gorm:"column:name;not null"`
	Price               decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Category            string          `gorm:"column:category;not null;default:''"`
	Image               string          `gorm:"column:image;not null;default:''"`
	Quantity            int             `gorm:"column:quantity;not null"`
	SpecialInstructions *string         `gorm:"column:special_instructions"`
	Position            int             `gorm:"column:position;not null;default:0"`
}
