package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity bounds the quantity of a single cart or order line. The
// validate tags on request DTOs repeat it as lte=1000.
const MaxLineQuantity = 1000

// Cart is the per-user basket. The total is never stored.
type Cart struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem is a line copied from the catalog when it was first added.
type CartItem struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CartID              uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:cart_items_cart_item_key"`
	ItemID              uuid.UUID       `gorm:"column:item_id;type:uuid;not null;uniqueIndex:cart_items_cart_item_key"`
	Name                string          `gorm:"column:name;not null"`
	Price               decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Category            string          `gorm:"column:category;not null;default:''"`
	Image               string          `gorm:"column:image;not null;default:''"`
	Quantity            int             `gorm:"column:quantity;not null"`
	SpecialInstructions *string         `gorm:"column:special_instructions"`
	Position            int             `gorm:"column:position;not null;default:0"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
