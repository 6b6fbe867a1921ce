package sample

import (
	"fmt"
	"time"
)

// Status is the sample shipment's lifecycle. Wire values stay the
// legacy "1".."5" codes.
type Status string

const (
	StatusProcessing     Status = "1"
	StatusOutForDelivery Status = "2"
	StatusDelivered      Status = "3"
	StatusCancelled      Status = "4"
	StatusReturned       Status = "5"
)

var statusNames = map[Status]string{
	StatusProcessing:     "processing",
	StatusOutForDelivery: "out for delivery",
	StatusDelivered:      "delivered",
	StatusCancelled:      "cancelled",
	StatusReturned:       "returned",
}

var statusTransitions = map[Status][]Status{
	StatusProcessing:     {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {StatusReturned, StatusCancelled},
	StatusCancelled:      {},
	StatusReturned:       {},
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

func (s Status) CanTransition(target Status) bool {
	for _, t := range statusTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s Status) CheckTransition(target Status) error {
	if !target.Valid() {
		return fmt.Errorf("invalid sample order status: %s", target)
	}
	if !s.CanTransition(target) {
		return fmt.Errorf("sample order cannot move from %s to %s", s.Name(), target.Name())
	}
	return nil
}

// ExtendRequest is the return-date-extension sub-state. One consistent
// enum serves both admin decision paths.
type ExtendRequest string

const (
	ExtendNone      ExtendRequest = "0"
	ExtendRequested ExtendRequest = "1"
	ExtendApproved  ExtendRequest = "2"
	ExtendRejected  ExtendRequest = "3"
)

// SampleOrder is one physical sample shipment request.
type SampleOrder struct {
	ID                string
	MoodboardID       uint
	UserID            uint
	ExtendRequest     ExtendRequest
	EstimatedDelivery time.Time
	EstimatedReturn   time.Time
	Status            Status
	CreatedAt         time.Time
}

// Detail joins the order with its owner, address and item count for
// notification and email enrichment. ProductIDs is filled separately
// when the caller wants the full contents.
type Detail struct {
	SampleOrder
	UserEmail   string
	ItemCount   int
	AddressLine string
	City        string
	Postal      string
	ProductIDs  []uint
}
