package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusQuoteRequested, StatusQuoted, true},
		{StatusQuoted, StatusProcessing, true},
		{StatusProcessing, StatusDelivered, true},

		{StatusQuoteRequested, StatusCancelled, true},
		{StatusQuoted, StatusCancelled, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusDelivered, StatusCancelled, true},

		{StatusQuoteRequested, StatusProcessing, false},
		{StatusQuoteRequested, StatusDelivered, false},
		{StatusQuoted, StatusDelivered, false},
		{StatusProcessing, StatusQuoted, false},
		{StatusDelivered, StatusQuoteRequested, false},
		{StatusCancelled, StatusQuoteRequested, false},
		{StatusCancelled, StatusDelivered, false},
	}

	for _, c := range cases {
		assert.Equalf(t, c.allowed, c.from.CanTransition(c.to),
			"%s -> %s", c.from.Name(), c.to.Name())
	}
}

func TestStatusCheckTransition(t *testing.T) {
	err := StatusQuoteRequested.CheckTransition(StatusDelivered)
	assert.EqualError(t, err, "order cannot move from quote requested to delivered")

	err = StatusQuoted.CheckTransition(Status("9"))
	assert.EqualError(t, err, "invalid order status: 9")

	assert.NoError(t, StatusQuoted.CheckTransition(StatusProcessing))
}

func TestStatusName(t *testing.T) {
	assert.Equal(t, "quote requested", StatusQuoteRequested.Name())
	assert.Equal(t, "cancelled", StatusCancelled.Name())
	assert.False(t, Status("7").Valid())
}
