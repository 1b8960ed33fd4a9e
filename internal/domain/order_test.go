package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitionTable(t *testing.T) {
	allowed := map[OrderStatus]map[OrderStatus]bool{
		OrderStatusPending:    {OrderStatusProcessing: true, OrderStatusCancelled: true},
		OrderStatusProcessing: {OrderStatusShipped: true, OrderStatusCancelled: true},
		OrderStatusShipped:    {OrderStatusDelivered: true},
		OrderStatusDelivered:  {},
		OrderStatusCancelled:  {},
	}

	// Every (from, to) pair, including self-transitions, must match the table.
	for _, from := range ValidStatuses {
		for _, to := range ValidStatuses {
			got := from.CanTransitionTo(to)
			assert.Equal(t, allowed[from][to], got, "%s -> %s", from, to)
		}
	}
}

func TestTransitionSetsLifecycleDates(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	order := &Order{Status: OrderStatusProcessing}

	require.NoError(t, order.Transition(OrderStatusShipped, now))
	require.NotNil(t, order.ShippedDate)
	assert.True(t, order.ShippedDate.Equal(now))
	assert.Nil(t, order.DeliveredDate)

	later := now.Add(48 * time.Hour)
	require.NoError(t, order.Transition(OrderStatusDelivered, later))
	require.NotNil(t, order.DeliveredDate)
	assert.True(t, order.DeliveredDate.Equal(later))
}

func TestTransitionRejectionLeavesOrderUntouched(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	order := &Order{Status: OrderStatusDelivered, UpdatedAt: now}

	err := order.Transition(OrderStatusPending, now.Add(time.Hour))
	var transition *InvalidTransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, OrderStatusDelivered, transition.From)
	assert.Equal(t, OrderStatusPending, transition.To)
	assert.Equal(t, OrderStatusDelivered, order.Status)
	assert.True(t, order.UpdatedAt.Equal(now))
	assert.Nil(t, order.ShippedDate)
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range ValidStatuses {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, OrderStatus("Lost").IsValid())
	assert.False(t, OrderStatus("").IsValid())
	assert.False(t, OrderStatus("pending").IsValid(), "statuses are case sensitive")
}

func TestNewOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD\d{9}$`)
	now := time.Now()
	for i := 0; i < 20; i++ {
		assert.Regexp(t, pattern, NewOrderNumber(now))
	}
}
