package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Description string    `gorm:"column:description;not null;default:''"`
	Image       string    `gorm:"column:image;not null;default:''"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type Subcategory struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID  uuid.UUID `gorm:"column:category_id;type:uuid;not null"`
	Name        string    `gorm:"column:name;not null"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex"`
	Description string    `gorm:"column:description;not null;default:''"`
	Image       string    `gorm:"column:image;not null;default:''"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// MenuItem is a purchasable catalog entry.
type MenuItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SubcategoryID uuid.UUID       `gorm:"column:subcategory_id;type:uuid;not null;uniqueIndex:menu_items_subcategory_name_key"`
	Name          string          `gorm:"column:name;not null;uniqueIndex:menu_items_subcategory_name_key"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Image         string          `gorm:"column:image;not null;default:''"`
	Discount      int             `gorm:"column:discount;not null;default:0"`
	TimeMinutes   int             `gorm:"column:time_minutes;not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (MenuItem) TableName() string { return "menu_items" }

type Chef struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	Specialty  string    `gorm:"column:specialty;not null;default:''"`
	Image      string    `gorm:"column:image;not null;default:''"`
	Experience int       `gorm:"column:experience;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
