package orderref

import "time"

// OrderReference links a user to a product. While ProjectID is nil the
// reference is a basket line; once attached to a project it is
// immutable history. At most one reference per (user, product) may be
// in the basket state, enforced by a partial unique index.
type OrderReference struct {
	ID        uint
	ProductID uint
	UserID    uint
	ProjectID *uint
	CreatedAt time.Time
}

// Remap records one basket line that turned out to duplicate an
// already-attached reference: ForID is the redundant basket line,
// OrderRefID the attached reference the caller should use instead.
type Remap struct {
	OrderRefID uint `json:"order_ref_id"`
	ForID      uint `json:"for_id"`
}

// DedupResult is the outcome of resolving a basket against a project.
type DedupResult struct {
	SameOrderRef     []Remap
	FilteredOrderRef []uint
}
