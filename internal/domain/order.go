package domain

import "time"

// OrderComplaintStatus is the mirror field the workflow maintains on the
// external order record.
type OrderComplaintStatus string

const (
	OrderComplaintNone     OrderComplaintStatus = "NONE"
	OrderComplaintOpen     OrderComplaintStatus = "OPEN"
	OrderComplaintApproved OrderComplaintStatus = "APPROVED"
	OrderComplaintRejected OrderComplaintStatus = "REJECTED"
	OrderComplaintResolved OrderComplaintStatus = "RESOLVED"
)

// Order is the workflow's read view of the order store, plus the fields the
// workflow is allowed to write: the complaint-status mirror and, for
// replacements, a new zero-cost order referencing its parent.
type Order struct {
	ID              string
	CustomerID      string
	TotalAmount     int64
	PaymentMethod   string
	ShippingAddress string
	ComplaintStatus OrderComplaintStatus
	ParentOrderID   *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
