package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/foodorder-backend/pkg/db"
	"github.com/angelmondragon/foodorder-backend/pkg/db/dbtest"
	"github.com/angelmondragon/foodorder-backend/pkg/db/models"
	"github.com/angelmondragon/foodorder-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodorder-backend/pkg/errors"
	"github.com/angelmondragon/foodorder-backend/pkg/logger"
	"github.com/angelmondragon/foodorder-backend/pkg/outbox"
	"github.com/angelmondragon/foodorder-backend/pkg/pagination"
)

type stubRecorder struct {
	placed      []string
	transitions [][2]int
}

func (s *stubRecorder) OrderPlaced(pm string)       { s.placed = append(s.placed, pm) }
func (s *stubRecorder) StepTransition(from, to int) { s.transitions = append(s.transitions, [2]int{from, to}) }

func newTestService(t *testing.T) (Service, *gorm.DB, *stubRecorder) {
	t.Helper()
	conn := dbtest.Open(t)
	metrics := &stubRecorder{}
	svc, err := NewService(ServiceParams{
		Repo:    NewRepository(conn),
		Tx:      db.NewFromConn(conn),
		Outbox:  outbox.NewService(outbox.NewRepository(conn), logger.Nop()),
		Metrics: metrics,
		Logger:  logger.Nop(),
	})
	require.NoError(t, err)
	return svc, conn, metrics
}

func placeRequest(orderID string, items ...OrderItemInput) PlaceOrderRequest {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return PlaceOrderRequest{
		OrderID:       orderID,
		CartItems:     items,
		TotalPrice:    total,
		Address:       "12 MG Road, Pune",
		PaymentMethod: "cod",
	}
}

func stepPtr(v int) *int { return &v }

func countEvents(t *testing.T, conn *gorm.DB, eventType enums.OutboxEventType) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(&models.OutboxEvent{}).Where("event_type = ?", eventType).Count(&n).Error)
	return n
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestPlaceOrderStartsAtStepZero(t *testing.T) {
	svc, conn, metrics := newTestService(t)
	user := uuid.New()

	order, err := svc.PlaceOrder(context.Background(), user, placeRequest("123456",
		OrderItemInput{ItemID: uuid.NewString(), Name: "Thali", Price: decimal.NewFromInt(150), Quantity: 2},
	))
	require.NoError(t, err)
	assert.Equal(t, 0, order.Step)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, "Order Placed", order.StepLabel)
	assert.Nil(t, order.DeliveredAt)
	require.Len(t, order.CartItems, 1)
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(300)))

	assert.EqualValues(t, 1, countEvents(t, conn, enums.EventOrderPlaced))
	assert.Equal(t, []string{"cod"}, metrics.placed)
}

func TestPlaceOrderWithZeroItems(t *testing.T) {
	svc, _, _ := newTestService(t)
	order, err := svc.PlaceOrder(context.Background(), uuid.New(), placeRequest("000001"))
	require.NoError(t, err)
	assert.Equal(t, 0, order.Step)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Empty(t, order.CartItems)
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	req := placeRequest("A1")
	req.PaymentMethod = "card"
	_, err := svc.PlaceOrder(ctx, user, req)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	req = placeRequest("A2")
	req.Address = "   "
	_, err = svc.PlaceOrder(ctx, user, req)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	req = placeRequest("")
	_, err = svc.PlaceOrder(ctx, user, req)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	assert.EqualValues(t, 0, countEvents(t, conn, enums.EventOrderPlaced))
}

func TestPlaceOrderDuplicateOrderIDIsConflict(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, uuid.New(), placeRequest("777777"))
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, uuid.New(), placeRequest("777777"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.EqualValues(t, 1, countEvents(t, conn, enums.EventOrderPlaced))
}

func TestListOrdersNewestFirstAndEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	empty, err := svc.ListOrders(ctx, user)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = svc.PlaceOrder(ctx, user, placeRequest("100001"))
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, user, placeRequest("100002"))
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, uuid.New(), placeRequest("100003"))
	require.NoError(t, err)

	list, err := svc.ListOrders(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "100002", list[0].OrderID)
}

func TestGetOrderEnforcesOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	placed, err := svc.PlaceOrder(ctx, owner, placeRequest("424242"))
	require.NoError(t, err)

	byPublic, err := svc.GetOrder(ctx, owner, "424242")
	require.NoError(t, err)
	assert.Equal(t, placed.ID, byPublic.ID)

	byInternal, err := svc.GetOrder(ctx, owner, placed.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "424242", byInternal.OrderID)

	_, err = svc.GetOrder(ctx, stranger, "424242")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.GetOrder(ctx, stranger, placed.ID.String())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestAdvanceStepStampsDeliveredAtOnceAtStepThree(t *testing.T) {
	svc, conn, metrics := newTestService(t)
	ctx := context.Background()
	admin := uuid.New()

	_, err := svc.PlaceOrder(ctx, uuid.New(), placeRequest("123456"))
	require.NoError(t, err)

	packed, err := svc.AdvanceStep(ctx, admin, AdvanceStepRequest{OrderID: "123456", Step: stepPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, packed.Step)
	assert.Equal(t, "Order Packed", packed.StepLabel)
	assert.Equal(t, enums.OrderStatusPreparing, packed.Status)
	assert.Nil(t, packed.DeliveredAt)

	out, err := svc.AdvanceStep(ctx, admin, AdvanceStepRequest{OrderID: "123456", Step: stepPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDispatched, out.Status)
	assert.Nil(t, out.DeliveredAt)

	delivered, err := svc.AdvanceStep(ctx, admin, AdvanceStepRequest{OrderID: "123456", Step: stepPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)

	back, err := svc.AdvanceStep(ctx, admin, AdvanceStepRequest{OrderID: "123456", Step: stepPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, back.Step)
	require.NotNil(t, back.DeliveredAt)
	assert.WithinDuration(t, *delivered.DeliveredAt, *back.DeliveredAt, time.Millisecond)

	assert.EqualValues(t, 4, countEvents(t, conn, enums.EventOrderStepChanged))
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 1}}, metrics.transitions)
}

func TestAdvanceStepErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, uuid.New(), placeRequest("555555"))
	require.NoError(t, err)

	_, err = svc.AdvanceStep(ctx, uuid.New(), AdvanceStepRequest{OrderID: "555555", Step: stepPtr(4)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.AdvanceStep(ctx, uuid.New(), AdvanceStepRequest{OrderID: "555555", Step: stepPtr(-1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.AdvanceStep(ctx, uuid.New(), AdvanceStepRequest{OrderID: "555555"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.AdvanceStep(ctx, uuid.New(), AdvanceStepRequest{OrderID: "nope", Step: stepPtr(1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListAllPaginates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, id := range []string{"900001", "900002", "900003"} {
		_, err := svc.PlaceOrder(ctx, uuid.New(), placeRequest(id))
		require.NoError(t, err)
	}

	first, err := svc.ListAll(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)
	assert.Equal(t, "900003", first.Items[0].OrderID)

	second, err := svc.ListAll(ctx, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "900001", second.Items[0].OrderID)
	assert.Empty(t, second.NextCursor)

	_, err = svc.ListAll(ctx, pagination.Params{Cursor: "%%%"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDeleteOrder(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	_, err := svc.PlaceOrder(ctx, owner, placeRequest("313131",
		OrderItemInput{Name: "Dosa", Price: decimal.NewFromInt(60), Quantity: 1},
	))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, uuid.New(), "313131"))
	_, err = svc.GetOrder(ctx, owner, "313131")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	var items int64
	require.NoError(t, conn.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, items)
	assert.EqualValues(t, 1, countEvents(t, conn, enums.EventOrderDeleted))

	err = svc.Delete(ctx, uuid.New(), "313131")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestPlaceOrderRejectsBadLines(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	refund := OrderItemInput{Name: "Refund", Price: decimal.NewFromInt(-50), Quantity: 1}
	meal := OrderItemInput{Name: "Thali", Price: decimal.NewFromInt(150), Quantity: 1}
	req := placeRequest("NEG-1", meal, refund)
	require.True(t, req.TotalPrice.IsPositive())
	_, err := svc.PlaceOrder(ctx, user, req)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Contains(t, err.Error(), "price must not be negative")

	bulk := OrderItemInput{Name: "Thali", Price: decimal.NewFromInt(1), Quantity: models.MaxLineQuantity + 1}
	_, err = svc.PlaceOrder(ctx, user, placeRequest("BIG-1", bulk))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	assert.EqualValues(t, 0, countEvents(t, conn, enums.EventOrderPlaced))
}
