package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusProcessing, StatusOutForDelivery, true},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusDelivered, StatusReturned, true},

		{StatusProcessing, StatusCancelled, true},
		{StatusOutForDelivery, StatusCancelled, true},
		{StatusDelivered, StatusCancelled, true},

		{StatusProcessing, StatusDelivered, false},
		{StatusProcessing, StatusReturned, false},
		{StatusOutForDelivery, StatusReturned, false},
		{StatusReturned, StatusProcessing, false},
		{StatusCancelled, StatusOutForDelivery, false},
		{StatusReturned, StatusCancelled, false},
	}

	for _, c := range cases {
		assert.Equalf(t, c.allowed, c.from.CanTransition(c.to),
			"%s -> %s", c.from.Name(), c.to.Name())
	}
}

func TestSampleStatusCheckTransition(t *testing.T) {
	err := StatusProcessing.CheckTransition(StatusDelivered)
	assert.EqualError(t, err, "sample order cannot move from processing to delivered")

	err = StatusProcessing.CheckTransition(Status("x"))
	assert.EqualError(t, err, "invalid sample order status: x")

	assert.NoError(t, StatusDelivered.CheckTransition(StatusReturned))
}
