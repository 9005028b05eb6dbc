package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to OrderStatus
	}{
		{OrderStatusPending, OrderStatusPaid},
		{OrderStatusPending, OrderStatusCanceled},
		{OrderStatusPending, OrderStatusUnfulfillable},
		{OrderStatusPaid, OrderStatusRefunded},
		{OrderStatusUnfulfillable, OrderStatusCanceled},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct {
		from, to OrderStatus
	}{
		{OrderStatusPaid, OrderStatusPending},
		{OrderStatusPaid, OrderStatusPaid},
		{OrderStatusCanceled, OrderStatusPaid},
		{OrderStatusCanceled, OrderStatusRefunded},
		{OrderStatusRefunded, OrderStatusPaid},
		{OrderStatusRefunded, OrderStatusCanceled},
		{OrderStatusUnfulfillable, OrderStatusPaid},
		{OrderStatusUnfulfillable, OrderStatusRefunded},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(OrderStatusCanceled))
	assert.True(t, IsTerminal(OrderStatusRefunded))

	assert.False(t, IsTerminal(OrderStatusPending))
	assert.False(t, IsTerminal(OrderStatusPaid))
	assert.False(t, IsTerminal(OrderStatusUnfulfillable))
}
