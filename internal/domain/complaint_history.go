package domain

import "time"

// ComplaintChangeType captures what changed in a history entry.
type ComplaintChangeType string

const (
	ChangeTypeSubmitted     ComplaintChangeType = "SUBMITTED"
	ChangeTypeInvestigation ComplaintChangeType = "INVESTIGATION_CHANGE"
	ChangeTypeReturnStatus  ComplaintChangeType = "RETURN_STATUS_CHANGE"
	ChangeTypeResolution    ComplaintChangeType = "RESOLUTION_CHANGE"
	ChangeTypeCoupon        ComplaintChangeType = "COUPON_ISSUED"
	ChangeTypeRefund        ComplaintChangeType = "REFUND_CHANGE"
)

// ComplaintHistory is an immutable audit trail entry.
type ComplaintHistory struct {
	ID            string
	ComplaintID   string
	ChangedByType SubjectType
	ChangedByID   *string
	ChangeType    ComplaintChangeType
	OldValue      map[string]any
	NewValue      map[string]any
	CreatedAt     time.Time
}
