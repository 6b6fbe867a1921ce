package order

import "fmt"

// Status is the order line's place in the quotation-to-delivery
// machine. Wire values stay the legacy "1".."5" codes.
type Status string

const (
	StatusQuoteRequested Status = "1"
	StatusQuoted         Status = "2"
	StatusProcessing     Status = "3"
	StatusDelivered      Status = "4"
	StatusCancelled      Status = "5"
)

var statusNames = map[Status]string{
	StatusQuoteRequested: "quote requested",
	StatusQuoted:         "quoted",
	StatusProcessing:     "processing",
	StatusDelivered:      "delivered",
	StatusCancelled:      "cancelled",
}

// transitions is the only legal movement through the machine. Cancel is
// an administrative override reachable from every live state.
var transitions = map[Status][]Status{
	StatusQuoteRequested: {StatusQuoted, StatusCancelled},
	StatusQuoted:         {StatusProcessing, StatusCancelled},
	StatusProcessing:     {StatusDelivered, StatusCancelled},
	StatusDelivered:      {StatusCancelled},
	StatusCancelled:      {},
}

func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) Name() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return string(s)
}

// CanTransition reports whether moving to target is in the table.
func (s Status) CanTransition(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// CheckTransition returns a descriptive error for illegal moves.
func (s Status) CheckTransition(target Status) error {
	if !target.Valid() {
		return fmt.Errorf("invalid order status: %s", target)
	}
	if !s.CanTransition(target) {
		return fmt.Errorf("order cannot move from %s to %s", s.Name(), target.Name())
	}
	return nil
}
