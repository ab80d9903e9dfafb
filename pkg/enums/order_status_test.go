package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusPendingPayment.CanTransitionTo(OrderStatusProcessing))
	assert.True(t, OrderStatusPendingPayment.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusPendingPayment.CanTransitionTo(OrderStatusShipped))

	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusRefundRequested))
	assert.False(t, OrderStatusProcessing.CanTransitionTo(OrderStatusCompleted))

	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusCompleted))
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusCancelled))

	assert.True(t, OrderStatusRefundRequested.CanTransitionTo(OrderStatusRefunded))
	assert.True(t, OrderStatusRefundRequested.CanTransitionTo(OrderStatusProcessing))
}

func TestOrderStatusTerminalStatesAllowNothing(t *testing.T) {
	for _, terminal := range []OrderStatus{OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded} {
		assert.True(t, terminal.IsTerminal(), terminal.String())
		for _, target := range validOrderStatuses {
			assert.False(t, terminal.CanTransitionTo(target), "%s -> %s", terminal, target)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("processing")
	assert.NoError(t, err)
	assert.Equal(t, OrderStatusProcessing, status)

	_, err = ParseOrderStatus("delivered")
	assert.Error(t, err)
}
