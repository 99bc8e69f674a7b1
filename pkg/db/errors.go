package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// sqliteColumns maps postgres constraint names to the column list sqlite
// reports for the equivalent unique index.
var sqliteColumns = map[string]string{
	"users_email_key":                 "users.email",
	"categories_name_key":             "categories.name",
	"subcategories_slug_key":          "subcategories.slug",
	"menu_items_subcategory_name_key": "menu_items.subcategory_id, menu_items.name",
	"carts_user_id_key":               "carts.user_id",
	"cart_items_cart_item_key":        "cart_items.cart_id, cart_items.item_id",
	"orders_order_id_key":             "orders.order_id",
}

// IsUniqueViolation reports whether err is a unique constraint failure from
// postgres (pgx or lib/pq) or sqlite. A non-empty constraintName narrows the
// match to that constraint (postgres) or column list (sqlite).
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) && pgxErr.Code == pgUniqueViolation {
		return constraintName == "" || pgxErr.ConstraintName == constraintName
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return constraintName == "" || pqErr.Constraint == constraintName
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") && !strings.Contains(msg, "duplicate key value") {
		return false
	}
	if constraintName == "" || strings.Contains(msg, constraintName) {
		return true
	}
	cols, ok := sqliteColumns[constraintName]
	return ok && strings.Contains(msg, cols)
}

// IsNotFound wraps gorm's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
