package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/foodorder-backend/pkg/db/models"
)

type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SubcategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"categoryId"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	IsActive    bool      `json:"isActive"`
}

type ItemDTO struct {
	ID            uuid.UUID       `json:"id"`
	SubcategoryID uuid.UUID       `json:"subcategoryId"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image"`
	Discount      int             `json:"discount"`
	TimeMinutes   int             `json:"time"`
}

type ChefDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Specialty  string    `json:"specialty"`
	Image      string    `json:"image"`
	Experience int       `json:"experience"`
}

// SubcategoryItems is the typed join returned when browsing a subcategory.
type SubcategoryItems struct {
	Subcategory SubcategoryDTO `json:"subcategory"`
	Category    CategoryDTO    `json:"category"`
	Items       []ItemDTO      `json:"items"`
}

// CartItemSource is the catalog snapshot copied into a cart line.
type CartItemSource struct {
	ID       uuid.UUID
	Name     string
	Price    decimal.Decimal
	Category string
	Image    string
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
	Image       string `json:"image" validate:"omitempty,url"`
}

type CreateSubcategoryRequest struct {
	CategoryID  uuid.UUID `json:"categoryId" validate:"required"`
	Name        string    `json:"name" validate:"required,min=2,max=100"`
	Slug        string    `json:"slug" validate:"omitempty,max=120"`
	Description string    `json:"description" validate:"max=500"`
	Image       string    `json:"image" validate:"omitempty,url"`
}

type CreateItemRequest struct {
	SubcategoryID uuid.UUID       `json:"subcategoryId" validate:"required"`
	Name          string          `json:"name" validate:"required,min=2,max=120"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image" validate:"omitempty,url"`
	Discount      int             `json:"discount" validate:"gte=0,lte=100"`
	TimeMinutes   int             `json:"time" validate:"gte=0"`
}

type CreateChefRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Specialty  string `json:"specialty" validate:"max=100"`
	Image      string `json:"image" validate:"omitempty,url"`
	Experience int    `json:"experience" validate:"gte=0"`
}

func categoryFromModel(m models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Image:       m.Image,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
	}
}

func subcategoryFromModel(m models.Subcategory) SubcategoryDTO {
	return SubcategoryDTO{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		Image:       m.Image,
		IsActive:    m.IsActive,
	}
}

func itemFromModel(m models.MenuItem) ItemDTO {
	return ItemDTO{
		ID:            m.ID,
		SubcategoryID: m.SubcategoryID,
		Name:          m.Name,
		Price:         m.Price,
		Image:         m.Image,
		Discount:      m.Discount,
		TimeMinutes:   m.TimeMinutes,
	}
}

func chefFromModel(m models.Chef) ChefDTO {
	return ChefDTO{
		ID:         m.ID,
		Name:       m.Name,
		Specialty:  m.Specialty,
		Image:      m.Image,
		Experience: m.Experience,
	}
}
