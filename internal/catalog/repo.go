package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/foodorder-backend/pkg/db/models"
)

const (
	ItemNameConstraint     = "menu_items_subcategory_name_key"
	CategoryNameConstraint = "categories_name_key"
	SlugConstraint         = "subcategories_slug_key"
)

// Repository persists the read-mostly catalog tables.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var row models.Category
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListSubcategories returns every subcategory, or only those of categoryID when set.
func (r *Repository) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]models.Subcategory, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	var rows []models.Subcategory
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindSubcategory(ctx context.Context, id uuid.UUID) (*models.Subcategory, error) {
	var row models.Subcategory
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListItems returns every item, or only those of subcategoryID when set.
func (r *Repository) ListItems(ctx context.Context, subcategoryID *uuid.UUID) ([]models.MenuItem, error) {
	q := r.db.WithContext(ctx)
	if subcategoryID != nil {
		q = q.Where("subcategory_id = ?", *subcategoryID)
	}
	var rows []models.MenuItem
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var row models.MenuItem
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// itemWithSubcategory is the scan target for FindItemWithSubcategory.
type itemWithSubcategory struct {
	models.MenuItem
	SubcategoryName string `gorm:"column:subcategory_name"`
}

// FindItemWithSubcategory loads an item together with its subcategory name.
func (r *Repository) FindItemWithSubcategory(ctx context.Context, id uuid.UUID) (*models.MenuItem, string, error) {
	var row itemWithSubcategory
	err := r.db.WithContext(ctx).
		Table("menu_items").
		Select("menu_items.*, subcategories.name AS subcategory_name").
		Joins("LEFT JOIN subcategories ON subcategories.id = menu_items.subcategory_id").
		Where("menu_items.id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, "", err
	}
	return &row.MenuItem, row.SubcategoryName, nil
}

func (r *Repository) ListChefs(ctx context.Context) ([]models.Chef, error) {
	var rows []models.Chef
	err := r.db.WithContext(ctx).Order("experience DESC").Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) CreateCategory(ctx context.Context, row *models.Category) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) CreateSubcategory(ctx context.Context, row *models.Subcategory) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) CreateItem(ctx context.Context, row *models.MenuItem) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) CreateChef(ctx context.Context, row *models.Chef) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// DeleteItem removes an item and reports whether a row existed.
func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.MenuItem{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}
