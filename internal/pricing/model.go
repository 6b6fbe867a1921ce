package pricing

import "time"

type Status string

const (
	StatusPending   Status = "0"
	StatusCompleted Status = "1"
)

// Request is one user's ask for a custom price on a product/quantity
// pair. Only one pending request may exist per (user, product);
// completion frees the slot.
type Request struct {
	ID        uint
	ProductID uint
	UserID    uint
	Quantity  int
	Price     *float64
	Status    Status
	CreatedAt time.Time
}

// Detail joins the request with requester and product for the quote
// email.
type Detail struct {
	Request
	UserEmail   string
	ProductName string
}
