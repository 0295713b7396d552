// internal/domain/order/entity_test.go
package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_PermittedEdges(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPendingPayment, StatusConfirmed},
		{StatusPendingPayment, StatusPaymentFailed},
		{StatusPendingPayment, StatusCancelled},
		{StatusPaymentFailed, StatusPendingPayment},
		{StatusPaymentFailed, StatusCancelled},
		{StatusConfirmed, StatusInProduction},
		{StatusConfirmed, StatusCancelled},
		{StatusConfirmed, StatusRefunded},
		{StatusInProduction, StatusReadyForShipping},
		{StatusInProduction, StatusRefunded},
		{StatusReadyForShipping, StatusShipped},
		{StatusReadyForShipping, StatusRefunded},
		{StatusShipped, StatusDelivered},
		{StatusShipped, StatusRefunded},
		{StatusDelivered, StatusRefunded},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be permitted", tc.from, tc.to)
	}
}

func TestCanTransition_RejectedEdges(t *testing.T) {
	rejected := []struct{ from, to Status }{
		{StatusPendingPayment, StatusInProduction},
		{StatusPendingPayment, StatusShipped},
		{StatusPendingPayment, StatusDelivered},
		{StatusConfirmed, StatusShipped},
		{StatusInProduction, StatusCancelled},
		{StatusShipped, StatusCancelled},
		{StatusDelivered, StatusConfirmed},
		{StatusCancelled, StatusPendingPayment},
		{StatusCancelled, StatusRefunded},
		{StatusRefunded, StatusConfirmed},
		{StatusRefunded, StatusCancelled},
	}
	for _, tc := range rejected {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be rejected", tc.from, tc.to)
	}
}

func TestCanTransition_NoSelfLoops(t *testing.T) {
	for from := range statusTransitions {
		assert.False(t, CanTransition(from, from), "%s -> %s should be rejected", from, from)
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition(Status("archived"), StatusConfirmed))
	assert.False(t, CanTransition(StatusConfirmed, Status("archived")))
}

func TestCanBeCancelled(t *testing.T) {
	assert.True(t, CanBeCancelled(StatusPendingPayment))
	assert.True(t, CanBeCancelled(StatusPaymentFailed))
	assert.True(t, CanBeCancelled(StatusConfirmed))

	assert.False(t, CanBeCancelled(StatusInProduction))
	assert.False(t, CanBeCancelled(StatusReadyForShipping))
	assert.False(t, CanBeCancelled(StatusShipped))
	assert.False(t, CanBeCancelled(StatusDelivered))
	assert.False(t, CanBeCancelled(StatusCancelled))
	assert.False(t, CanBeCancelled(StatusRefunded))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPendingPayment.Valid())
	assert.True(t, StatusRefunded.Valid())
	assert.False(t, Status("archived").Valid())
	assert.False(t, Status("").Valid())
}

func TestMaxLeadTimeDays(t *testing.T) {
	assert.Equal(t, 21, MaxLeadTimeDays([]int{14, 21, 7}, 14))
	assert.Equal(t, 14, MaxLeadTimeDays(nil, 14))
	assert.Equal(t, 14, MaxLeadTimeDays([]int{0, 0}, 14))
}
