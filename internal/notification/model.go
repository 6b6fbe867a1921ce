package notification

import "time"

// Notification is one message fanned out to one or more recipients.
// Recipients are stored as an id array on the row, matching the
// {to, message, url, isRead} sink contract.
type Notification struct {
	ID        uint
	To        []uint
	Message   string
	URL       string
	IsRead    bool
	CreatedAt time.Time
}
