package domain

import "time"

// Evidence is an opaque reference to customer-supplied proof attached at
// submission. URLs are stored and returned unchanged.
type Evidence struct {
	ID          string
	ComplaintID string
	ImageURL    string
	Caption     string
	CreatedAt   time.Time
}
