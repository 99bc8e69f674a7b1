package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// assignID fills a zero primary key so inserts behave the same on postgres
// and sqlite.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error {
	assignID(&u.ID)
	return nil
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (s *Subcategory) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (m *MenuItem) BeforeCreate(*gorm.DB) error {
	assignID(&m.ID)
	return nil
}

func (c *Chef) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (c *Cart) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (c *CartItem) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	assignID(&o.ID)
	return nil
}

func (o *OrderItem) BeforeCreate(*gorm.DB) error {
	assignID(&o.ID)
	return nil
}

func (c *ContactMessage) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (o *OutboxEvent) BeforeCreate(*gorm.DB) error {
	assignID(&o.ID)
	return nil
}

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Subcategory{},
		&MenuItem{},
		&Chef{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&ContactMessage{},
		&OutboxEvent{},
	}
}
