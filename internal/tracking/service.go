// Package tracking is the public, read-only view of an order's progress.
package tracking

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/foodorder-backend/internal/orders"
	"github.com/angelmondragon/foodorder-backend/pkg/db"
	"github.com/angelmondragon/foodorder-backend/pkg/db/models"
	"github.com/angelmondragon/foodorder-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodorder-backend/pkg/errors"
)

// StatusDTO is what a polling client sees.
type StatusDTO struct {
	OrderID    string                `json:"orderId"`
	Step       int                   `json:"step"`
	Label      string                `json:"label"`
	Status     enums.OrderStatus     `json:"status"`
	Steps      []string              `json:"steps"`
	Items      []orders.OrderItemDTO `json:"items"`
	TotalPrice decimal.Decimal       `json:"totalPrice"`
}

type Service interface {
	GetStatus(ctx context.Context, orderID string) (*StatusDTO, error)
}

type orderFinder interface {
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
}

type service struct {
	orders orderFinder
}

func NewService(finder orderFinder) (Service, error) {
	if finder == nil {
		return nil, fmt.Errorf("order finder is required")
	}
	return &service{orders: finder}, nil
}

func (s *service) GetStatus(ctx context.Context, orderID string) (*StatusDTO, error) {
	ref := strings.TrimSpace(orderID)
	if ref == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orderId is required")
	}
	order, err := s.orders.FindByOrderID(ctx, ref)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	dto := orders.FromModel(order)
	return &StatusDTO{
		OrderID:    dto.OrderID,
		Step:       dto.Step,
		Label:      order.Step.Label(),
		Status:     dto.Status,
		Steps:      enums.OrderStepLabels(),
		Items:      dto.CartItems,
		TotalPrice: dto.TotalPrice,
	}, nil
}
