package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/foodorder-backend/pkg/db"
	"github.com/angelmondragon/foodorder-backend/pkg/db/models"
	"github.com/angelmondragon/foodorder-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodorder-backend/pkg/errors"
	"github.com/angelmondragon/foodorder-backend/pkg/logger"
	"github.com/angelmondragon/foodorder-backend/pkg/outbox"
	"github.com/angelmondragon/foodorder-backend/pkg/pagination"
)

const msgOrderNotFound = "Order not found"

// Service is the order aggregate: checkout, history and fulfillment steps.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*OrderDTO, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	GetOrder(ctx context.Context, userID uuid.UUID, id string) (*OrderDTO, error)
	AdvanceStep(ctx context.Context, actorID uuid.UUID, req AdvanceStepRequest) (*OrderDTO, error)
	ListAll(ctx context.Context, params pagination.Params) (*pagination.Page[OrderDTO], error)
	Delete(ctx context.Context, actorID uuid.UUID, orderID string) error
}

// ServiceParams bundles the order service dependencies.
type ServiceParams struct {
	Repo    Repository
	Tx      txRunner
	Outbox  outboxEmitter
	Metrics orderRecorder
	Logger  *logger.Logger
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxEmitter
	metrics orderRecorder
	logg    *logger.Logger
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:    params.Repo,
		tx:      params.Tx,
		outbox:  params.Outbox,
		metrics: params.Metrics,
		logg:    logg,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*OrderDTO, error) {
	orderID := strings.TrimSpace(req.OrderID)
	address := strings.TrimSpace(req.Address)
	switch {
	case userID == uuid.Nil:
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	case orderID == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orderId is required")
	case address == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	case req.TotalPrice.IsNegative():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "totalPrice must not be negative")
	}
	if err := validateLines(req.CartItems); err != nil {
		return nil, err
	}
	method, err := enums.ParsePaymentMethod(strings.TrimSpace(req.PaymentMethod))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "paymentMethod must be one of cod, online")
	}

	order := &models.Order{
		OrderID:       orderID,
		UserID:        userID,
		Items:         snapshotItems(req.CartItems),
		TotalPrice:    req.TotalPrice.Round(2),
		Address:       address,
		PaymentMethod: method,
		Status:        enums.OrderStatusPending,
		Step:          enums.OrderStepPlaced,
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"user_id":  userID.String(),
		"order_id": orderID,
	})
	if computed := lineSum(req.CartItems); !computed.Equal(order.TotalPrice) {
		s.logg.Warn(s.logg.WithField(logCtx, "computed_total", computed.String()), "order total differs from item snapshot")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: userID, Role: string(enums.UserRoleCustomer)},
			Data: outbox.OrderPlacedEvent{
				OrderID:       order.OrderID,
				UserID:        userID.String(),
				ItemCount:     len(order.Items),
				TotalPrice:    order.TotalPrice,
				PaymentMethod: string(method),
			},
		})
	})
	if err != nil {
		if db.IsUniqueViolation(err, OrderIDConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order id already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	if s.metrics != nil {
		s.metrics.OrderPlaced(string(method))
	}
	s.logg.Info(logCtx, "order placed")
	return FromModel(order), nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return fromModels(rows), nil
}

func (s *service) GetOrder(ctx context.Context, userID uuid.UUID, id string) (*OrderDTO, error) {
	ref := strings.TrimSpace(id)
	if ref == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindForUser(ctx, userID, ref)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgOrderNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return FromModel(order), nil
}

// AdvanceStep moves an order to any step in [0,3]. Moves that are not a
// single step forward are accepted and logged.
func (s *service) AdvanceStep(ctx context.Context, actorID uuid.UUID, req AdvanceStepRequest) (*OrderDTO, error) {
	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orderId is required")
	}
	if req.Step == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "step is required")
	}
	next, err := enums.ParseOrderStep(*req.Step)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "step must be between 0 and 3").
			WithDetails(map[string]any{"allowed": enums.OrderStepLabels()})
	}

	var (
		previous enums.OrderStep
		updated  *models.Order
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.LockByOrderID(ctx, orderID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, msgOrderNotFound)
			}
			return err
		}
		previous = current.Step

		// The first delivery stamp survives later corrections of the step.
		deliveredAt := current.DeliveredAt
		if next == enums.OrderStepDelivered && deliveredAt == nil {
			stamp := s.now()
			deliveredAt = &stamp
		}
		if err := repo.UpdateStep(ctx, current.ID, next, next.Status(), deliveredAt); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStepChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   current.ID,
			Actor:         &outbox.ActorRef{UserID: actorID, Role: string(enums.UserRoleAdmin)},
			Data: outbox.OrderStepChangedEvent{
				OrderID:  current.OrderID,
				FromStep: int(previous),
				ToStep:   int(next),
				Label:    next.Label(),
				Status:   string(next.Status()),
			},
		}); err != nil {
			return err
		}
		updated, err = repo.FindByOrderID(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, wrapInternal(err, "advance order step")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":  orderID,
		"from_step": int(previous),
		"to_step":   int(next),
		"actor_id":  actorID.String(),
	})
	if next != previous+1 {
		s.logg.Warn(logCtx, "order step moved out of sequence")
	} else {
		s.logg.Info(logCtx, "order step advanced")
	}
	if s.metrics != nil {
		s.metrics.StepTransition(int(previous), int(next))
	}
	return FromModel(updated), nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params) (*pagination.Page[OrderDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	page := pagination.Build(fromModels(rows), params.Limit, func(o OrderDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	return &page, nil
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, orderID string) error {
	ref := strings.TrimSpace(orderID)
	if ref == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "orderId is required")
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.LockByOrderID(ctx, ref)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, msgOrderNotFound)
			}
			return err
		}
		if _, err := repo.Delete(ctx, current.ID); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderDeleted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   current.ID,
			Actor:         &outbox.ActorRef{UserID: actorID, Role: string(enums.UserRoleAdmin)},
			Data:          outbox.OrderDeletedEvent{OrderID: current.OrderID},
		})
	})
	if err != nil {
		return wrapInternal(err, "delete order")
	}
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"order_id": ref, "actor_id": actorID.String()}), "order deleted")
	return nil
}

func lineSum(items []OrderItemInput) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}

func wrapInternal(err error, msg string) error {
	var typed *pkgerrors.Error
	if errors.As(err, &typed) {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}

// validateLines rejects snapshot lines with a negative price or a quantity
// outside [1, MaxLineQuantity].
func validateLines(lines []OrderItemInput) error {
	for i, line := range lines {
		field := fmt.Sprintf("cartItems[%d]", i)
		if line.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "item price must not be negative").
				WithDetails(map[string]any{"field": field + ".price"})
		}
		if line.Quantity < 1 || line.Quantity > models.MaxLineQuantity {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item quantity must be between 1 and %d", models.MaxLineQuantity)).
				WithDetails(map[string]any{"field": field + ".quantity"})
		}
	}
	return nil
}
