package cart

import (
	"context"

	"github.com/angelmondragon/foodorder-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	InsertItem(ctx context.Context, item *models.CartItem) error
	IncrementQuantity(ctx context.Context, cartID, itemID uuid.UUID, delta int) error
	UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, fields map[string]any) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error)
	ClearItems(ctx context.Context, userID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type mutationRecorder interface {
	CartMutation(op string)
}
