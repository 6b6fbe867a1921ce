package user

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

type User struct {
	ID           uint
	Email        string
	Password     string
	Role         Role
	Verification VerificationStatus
	CreatedAt    time.Time
}

// ShippingAddress is the user's on-file delivery address, snapshotted
// into sample-order emails.
type ShippingAddress struct {
	ID       uint
	UserID   uint
	Name     string
	Phone    string
	Address1 string
	Address2 *string
	City     string
	Postal   string
	Country  string
}
