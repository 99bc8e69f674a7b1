package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/foodorder-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/foodorder-backend/pkg/errors"
	"github.com/angelmondragon/foodorder-backend/pkg/logger"
)

type seeded struct {
	svc         Service
	category    *CategoryDTO
	subcategory *SubcategoryDTO
	item        *ItemDTO
}

func seedCatalog(t *testing.T) seeded {
	t.Helper()
	svc, err := NewService(NewRepository(dbtest.Open(t)), logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Indian"})
	require.NoError(t, err)
	sub, err := svc.CreateSubcategory(ctx, CreateSubcategoryRequest{CategoryID: category.ID, Name: "Main Course"})
	require.NoError(t, err)
	item, err := svc.CreateItem(ctx, CreateItemRequest{
		SubcategoryID: sub.ID,
		Name:          "Paneer Tikka",
		Price:         decimal.RequireFromString("249.50"),
		Discount:      10,
		TimeMinutes:   25,
	})
	require.NoError(t, err)
	return seeded{svc: svc, category: category, subcategory: sub, item: item}
}

func TestCatalogBrowse(t *testing.T) {
	s := seedCatalog(t)
	ctx := context.Background()

	categories, err := s.svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)

	subs, err := s.svc.ListSubcategories(ctx, &s.category.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "main-course", subs[0].Slug)

	other := uuid.New()
	none, err := s.svc.ListSubcategories(ctx, &other)
	require.NoError(t, err)
	assert.Empty(t, none)

	joined, err := s.svc.ItemsBySubcategory(ctx, s.subcategory.ID)
	require.NoError(t, err)
	assert.Equal(t, "Indian", joined.Category.Name)
	require.Len(t, joined.Items, 1)
	assert.True(t, joined.Items[0].Price.Equal(decimal.RequireFromString("249.5")))

	_, err = s.svc.ItemsBySubcategory(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestLookupItemCopiesSubcategoryName(t *testing.T) {
	s := seedCatalog(t)
	src, err := s.svc.LookupItem(context.Background(), s.item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paneer Tikka", src.Name)
	assert.Equal(t, "Main Course", src.Category)

	_, err = s.svc.LookupItem(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, "Menu item not found", pkgerrors.As(err).Message())
}

func TestCreateItemRules(t *testing.T) {
	s := seedCatalog(t)
	ctx := context.Background()

	_, err := s.svc.CreateItem(ctx, CreateItemRequest{SubcategoryID: s.subcategory.ID, Name: "Paneer Tikka", Price: decimal.NewFromInt(1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = s.svc.CreateItem(ctx, CreateItemRequest{SubcategoryID: uuid.New(), Name: "Dal", Price: decimal.NewFromInt(1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = s.svc.CreateItem(ctx, CreateItemRequest{SubcategoryID: s.subcategory.ID, Name: "Dal", Price: decimal.NewFromInt(-1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = s.svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Indian"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestDeleteItem(t *testing.T) {
	s := seedCatalog(t)
	ctx := context.Background()

	require.NoError(t, s.svc.DeleteItem(ctx, s.item.ID))
	err := s.svc.DeleteItem(ctx, s.item.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestChefs(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t)), nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.CreateChef(ctx, CreateChefRequest{Name: "Junior", Experience: 2})
	require.NoError(t, err)
	_, err = svc.CreateChef(ctx, CreateChefRequest{Name: "Head", Experience: 15})
	require.NoError(t, err)

	chefs, err := svc.ListChefs(ctx)
	require.NoError(t, err)
	require.Len(t, chefs, 2)
	assert.Equal(t, "Head", chefs[0].Name)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "south-indian-thali", Slugify("  South Indian -- Thali! "))
	assert.Equal(t, "", Slugify("!!!"))
}
