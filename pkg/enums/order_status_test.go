package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusInProgress, status)

	_, err = ParseOrderStatus("shipped")
	assert.Error(t, err)
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{OrderStatusNew, OrderStatusConfirmed, true},
		{OrderStatusNew, OrderStatusCancelled, true},
		{OrderStatusNew, OrderStatusCompleted, false},
		{OrderStatusConfirmed, OrderStatusInProgress, true},
		{OrderStatusConfirmed, OrderStatusNew, false},
		{OrderStatusInProgress, OrderStatusCompleted, true},
		{OrderStatusInProgress, OrderStatusCancelled, true},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusNew, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusNew.IsTerminal())
	assert.False(t, OrderStatus("bogus").IsTerminal())
	assert.Equal(t, "In progress", OrderStatusInProgress.Label())
}
