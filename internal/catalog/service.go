package catalog

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/angelmondragon/foodorder-backend/pkg/db"
	"github.com/angelmondragon/foodorder-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/foodorder-backend/pkg/errors"
	"github.com/angelmondragon/foodorder-backend/pkg/logger"
)

// Service is the public and admin surface of the catalog.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]SubcategoryDTO, error)
	GetSubcategory(ctx context.Context, id uuid.UUID) (*SubcategoryDTO, error)
	ListItems(ctx context.Context) ([]ItemDTO, error)
	ItemsBySubcategory(ctx context.Context, subcategoryID uuid.UUID) (*SubcategoryItems, error)
	GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	ListChefs(ctx context.Context) ([]ChefDTO, error)

	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, error)
	CreateSubcategory(ctx context.Context, req CreateSubcategoryRequest) (*SubcategoryDTO, error)
	CreateItem(ctx context.Context, req CreateItemRequest) (*ItemDTO, error)
	CreateChef(ctx context.Context, req CreateChefRequest) (*ChefDTO, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error

	ItemLookup
}

// ItemLookup is the narrow read the cart needs when a line is first added.
type ItemLookup interface {
	LookupItem(ctx context.Context, id uuid.UUID) (*CartItemSource, error)
}

type repository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]models.Subcategory, error)
	FindSubcategory(ctx context.Context, id uuid.UUID) (*models.Subcategory, error)
	ListItems(ctx context.Context, subcategoryID *uuid.UUID) ([]models.MenuItem, error)
	FindItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	FindItemWithSubcategory(ctx context.Context, id uuid.UUID) (*models.MenuItem, string, error)
	ListChefs(ctx context.Context) ([]models.Chef, error)
	CreateCategory(ctx context.Context, row *models.Category) error
	CreateSubcategory(ctx context.Context, row *models.Subcategory) error
	CreateItem(ctx context.Context, row *models.MenuItem) error
	CreateChef(ctx context.Context, row *models.Chef) error
	DeleteItem(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo repository
	logg *logger.Logger
}

// NewService builds the catalog service.
func NewService(repo repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryFromModel(row))
	}
	return out, nil
}

func (s *service) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]SubcategoryDTO, error) {
	rows, err := s.repo.ListSubcategories(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list subcategories")
	}
	out := make([]SubcategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, subcategoryFromModel(row))
	}
	return out, nil
}

func (s *service) GetSubcategory(ctx context.Context, id uuid.UUID) (*SubcategoryDTO, error) {
	row, err := s.repo.FindSubcategory(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Subcategory not found", "load subcategory")
	}
	dto := subcategoryFromModel(*row)
	return &dto, nil
}

func (s *service) ListItems(ctx context.Context) ([]ItemDTO, error) {
	rows, err := s.repo.ListItems(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list items")
	}
	return itemsFromModels(rows), nil
}

func (s *service) ItemsBySubcategory(ctx context.Context, subcategoryID uuid.UUID) (*SubcategoryItems, error) {
	sub, err := s.repo.FindSubcategory(ctx, subcategoryID)
	if err != nil {
		return nil, notFoundOr(err, "Subcategory not found", "load subcategory")
	}
	category, err := s.repo.FindCategory(ctx, sub.CategoryID)
	if err != nil {
		return nil, notFoundOr(err, "Category not found", "load category")
	}
	rows, err := s.repo.ListItems(ctx, &sub.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list items")
	}
	return &SubcategoryItems{
		Subcategory: subcategoryFromModel(*sub),
		Category:    categoryFromModel(*category),
		Items:       itemsFromModels(rows),
	}, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	row, err := s.repo.FindItem(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Menu item not found", "load item")
	}
	dto := itemFromModel(*row)
	return &dto, nil
}

func (s *service) LookupItem(ctx context.Context, id uuid.UUID) (*CartItemSource, error) {
	row, subcategoryName, err := s.repo.FindItemWithSubcategory(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Menu item not found", "load item")
	}
	return &CartItemSource{
		ID:       row.ID,
		Name:     row.Name,
		Price:    row.Price,
		Category: subcategoryName,
		Image:    row.Image,
	}, nil
}

func (s *service) ListChefs(ctx context.Context) ([]ChefDTO, error) {
	rows, err := s.repo.ListChefs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list chefs")
	}
	out := make([]ChefDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, chefFromModel(row))
	}
	return out, nil
}

func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, error) {
	row := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Image:       strings.TrimSpace(req.Image),
		IsActive:    true,
	}
	if row.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := s.repo.CreateCategory(ctx, row); err != nil {
		if db.IsUniqueViolation(err, CategoryNameConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	s.logg.Info(s.logg.WithField(ctx, "category_id", row.ID.String()), "category created")
	dto := categoryFromModel(*row)
	return &dto, nil
}

func (s *service) CreateSubcategory(ctx context.Context, req CreateSubcategoryRequest) (*SubcategoryDTO, error) {
	if _, err := s.repo.FindCategory(ctx, req.CategoryID); err != nil {
		return nil, notFoundOr(err, "Category not found", "load category")
	}
	name := strings.TrimSpace(req.Name)
	slug := Slugify(req.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if name == "" || slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	row := &models.Subcategory{
		CategoryID:  req.CategoryID,
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
		Image:       strings.TrimSpace(req.Image),
		IsActive:    true,
	}
	if err := s.repo.CreateSubcategory(ctx, row); err != nil {
		if db.IsUniqueViolation(err, SlugConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "subcategory slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create subcategory")
	}
	dto := subcategoryFromModel(*row)
	return &dto, nil
}

func (s *service) CreateItem(ctx context.Context, req CreateItemRequest) (*ItemDTO, error) {
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if req.Discount < 0 || req.Discount > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
	}
	if _, err := s.repo.FindSubcategory(ctx, req.SubcategoryID); err != nil {
		return nil, notFoundOr(err, "Subcategory not found", "load subcategory")
	}
	row := &models.MenuItem{
		SubcategoryID: req.SubcategoryID,
		Name:          strings.TrimSpace(req.Name),
		Price:         req.Price.Round(2),
		Image:         strings.TrimSpace(req.Image),
		Discount:      req.Discount,
		TimeMinutes:   req.TimeMinutes,
	}
	if err := s.repo.CreateItem(ctx, row); err != nil {
		if db.IsUniqueViolation(err, ItemNameConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "item already exists in this subcategory")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create item")
	}
	s.logg.Info(s.logg.WithField(ctx, "item_id", row.ID.String()), "menu item created")
	dto := itemFromModel(*row)
	return &dto, nil
}

func (s *service) CreateChef(ctx context.Context, req CreateChefRequest) (*ChefDTO, error) {
	row := &models.Chef{
		Name:       strings.TrimSpace(req.Name),
		Specialty:  strings.TrimSpace(req.Specialty),
		Image:      strings.TrimSpace(req.Image),
		Experience: req.Experience,
	}
	if err := s.repo.CreateChef(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create chef")
	}
	dto := chefFromModel(*row)
	return &dto, nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteItem(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete item")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Menu item not found")
	}
	s.logg.Info(s.logg.WithField(ctx, "item_id", id.String()), "menu item deleted")
	return nil
}

// Slugify lowercases s and collapses every run of non-alphanumerics into a dash.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func itemsFromModels(rows []models.MenuItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, itemFromModel(row))
	}
	return out
}

func notFoundOr(err error, notFound, internal string) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, internal)
}
