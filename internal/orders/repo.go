package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/foodorder-backend/pkg/db/models"
	"github.com/angelmondragon/foodorder-backend/pkg/enums"
	"github.com/angelmondragon/foodorder-backend/pkg/pagination"
)

// OrderIDConstraint is the unique index guarding the public order id.
const OrderIDConstraint = "orders_order_id_key"

type repository struct {
	db *gorm.DB
}

// NewRepository binds the orders repository to the provided DB handle.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// Create inserts the order together with its item snapshot.
func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// ListByUser returns the user's orders, newest first.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	err := r.withItems(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// FindForUser matches ref against the internal id or the public order id,
// restricted to orders owned by userID.
func (r *repository) FindForUser(ctx context.Context, userID uuid.UUID, ref string) (*models.Order, error) {
	q := r.withItems(ctx).Where("user_id = ?", userID)
	if id, err := uuid.Parse(ref); err == nil {
		q = q.Where("(id = ? OR order_id = ?)", id, ref)
	} else {
		q = q.Where("order_id = ?", ref)
	}
	var order models.Order
	if err := q.First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.withItems(ctx).Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// LockByOrderID loads the order row for update. Postgres takes a row lock;
// sqlite serializes writers already.
func (r *repository) LockByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var order models.Order
	if err := q.Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateStep(ctx context.Context, id uuid.UUID, step enums.OrderStep, status enums.OrderStatus, deliveredAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"step":         step,
			"status":       status,
			"delivered_at": deliveredAt,
			"updated_at":   time.Now().UTC(),
		}).Error
}

// List pages through every order, newest first, using a (created_at, id) keyset.
func (r *repository) List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	q := r.withItems(ctx)
	if cursor != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Order
	err := q.Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_ref = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return false, err
	}
	res := db.Delete(&models.Order{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}
