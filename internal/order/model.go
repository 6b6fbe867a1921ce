package order

import "time"

// Order is one line item within an order-set. All lines created in one
// checkout share OrderSetID and ETA; status evolves per line.
type Order struct {
	ID                  uint
	OrderSetID          string
	OrderRefID          uint
	Quantity            int
	Unit                string
	SpecialInstructions *string
	QuotationAmount     *float64
	ShippingAddressID   *uint
	Status              Status
	ETA                 time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// LineInput is one requested order line at checkout.
type LineInput struct {
	OrderRefID          uint    `json:"order_ref_id"`
	Quantity            int     `json:"quantity"`
	Unit                string  `json:"unit"`
	SpecialInstructions *string `json:"special_instructions"`
}

// OrderTransaction is an append-only payment-reference record. Both
// admin and user may record one for the same order.
type OrderTransaction struct {
	ID            uint
	OrderID       uint
	TransactionID string
	ActorRole     string
	CreatedAt     time.Time
}

// Address is the billing or shipping snapshot attached to an order-set,
// mutable until checkout completes.
type Address struct {
	ID         uint
	OrderSetID string
	Name       string
	Phone      string
	Address1   string
	Address2   *string
	City       string
	Postal     string
	Country    string
}
