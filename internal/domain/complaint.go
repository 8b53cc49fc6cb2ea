package domain

import "time"

// ComplaintKind enumerates the supported order-issue categories.
type ComplaintKind string

const (
	KindNotReceived ComplaintKind = "NOT_RECEIVED"
	KindDamaged     ComplaintKind = "DAMAGED"
	KindReturn      ComplaintKind = "RETURN"
	KindReplace     ComplaintKind = "REPLACE"
	KindWarranty    ComplaintKind = "WARRANTY"
)

// InvestigationStatus tracks the operator's verdict on a complaint.
type InvestigationStatus string

const (
	InvestigationOpen     InvestigationStatus = "INVESTIGATING"
	InvestigationApproved InvestigationStatus = "RESOLVED_TRUE"
	InvestigationRejected InvestigationStatus = "RESOLVED_FALSE"
)

// ResolutionType records the terminal remedy chosen for a complaint.
type ResolutionType string

const (
	ResolutionNone        ResolutionType = "NONE"
	ResolutionReplacement ResolutionType = "REPLACEMENT"
	ResolutionRefund      ResolutionType = "REFUND"
)

// ReturnStatus tracks the physical-collection sub-process. Only meaningful
// for kinds whose policy requires pickup.
type ReturnStatus string

const (
	ReturnPending         ReturnStatus = "PENDING"
	ReturnPickupScheduled ReturnStatus = "PICKUP_SCHEDULED"
	ReturnPendingRetry    ReturnStatus = "PENDING_RETRY"
	ReturnPickedUp        ReturnStatus = "PICKED_UP"
	ReturnCompleted       ReturnStatus = "COMPLETED"
	ReturnFailed          ReturnStatus = "FAILED"
)

// DefaultMaxPickupAttempts is the pickup retry ceiling applied at creation.
const DefaultMaxPickupAttempts = 3

// Complaint is the aggregate for one customer-reported order issue.
// The resolution service is its only writer; Version backs the
// optimistic check on every update.
type Complaint struct {
	ID                  string
	OrderID             string
	CustomerID          string
	Kind                ComplaintKind
	Description         string
	InvestigationStatus InvestigationStatus
	OperatorNotes       *string
	ResolutionType      ResolutionType
	ReturnStatus        ReturnStatus
	PickupAttemptNumber int
	MaxPickupAttempts   int
	EligibleForCoupon   bool
	CouponCode          *string
	RefundRequestID     *string
	ReplacementOrderID  *string
	Version             int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
	PickupScheduledAt   *time.Time
	PickupCompletedAt   *time.Time
	PickupFailedAt      *time.Time
}

// Active reports whether the complaint still occupies its order's
// one-active-complaint slot.
func (c *Complaint) Active() bool {
	return !c.Terminal()
}

// Terminal reports whether no further workflow transitions are legal.
func (c *Complaint) Terminal() bool {
	if c.InvestigationStatus == InvestigationRejected {
		return true
	}
	if c.ReturnStatus == ReturnFailed {
		return true
	}
	return c.ResolutionType != ResolutionNone
}

// Resolved reports whether a terminal remedy has been applied.
func (c *Complaint) Resolved() bool {
	return c.ResolutionType != ResolutionNone
}
