package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStepLabelsAndStatuses(t *testing.T) {
	cases := []struct {
		step   OrderStep
		label  string
		status OrderStatus
	}{
		{OrderStepPlaced, "Order Placed", OrderStatusPending},
		{OrderStepPacked, "Order Packed", OrderStatusPreparing},
		{OrderStepOutForDelivery, "Out For Delivery", OrderStatusDispatched},
		{OrderStepDelivered, "Delivered", OrderStatusDelivered},
	}
	for _, tc := range cases {
		assert.True(t, tc.step.IsValid())
		assert.Equal(t, tc.label, tc.step.Label())
		assert.Equal(t, tc.status, tc.step.Status())
	}
	assert.True(t, OrderStepDelivered.IsTerminal())
	assert.False(t, OrderStepPacked.IsTerminal())
	assert.Len(t, OrderStepLabels(), 4)
}

func TestParseOrderStepRejectsOutOfRange(t *testing.T) {
	for _, raw := range []int{-1, 4, 99} {
		_, err := ParseOrderStep(raw)
		require.Error(t, err, "step %d", raw)
	}
	step, err := ParseOrderStep(2)
	require.NoError(t, err)
	assert.Equal(t, OrderStepOutForDelivery, step)
	assert.Equal(t, OrderStatusPending, OrderStep(7).Status())
	assert.Equal(t, "OrderStep(7)", OrderStep(7).String())
}

func TestParsePaymentMethod(t *testing.T) {
	pm, err := ParsePaymentMethod("cod")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodCOD, pm)

	_, err = ParsePaymentMethod("card")
	assert.Error(t, err)
	assert.False(t, PaymentMethod("COD").IsValid())
}

func TestOrderStatusIncludesCancelled(t *testing.T) {
	st, err := ParseOrderStatus("Cancelled")
	require.NoError(t, err)
	assert.True(t, st.IsValid())
}
