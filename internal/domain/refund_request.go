package domain

import "time"

// RefundMethod identifies the settlement channel picked by the customer.
type RefundMethod string

const (
	RefundMethodPendingSelection RefundMethod = "PENDING_SELECTION"
	RefundMethodGiftCard         RefundMethod = "GIFT_CARD"
	RefundMethodOriginalPayment  RefundMethod = "ORIGINAL_PAYMENT"
)

// RefundStatus tracks a refund request toward settlement.
type RefundStatus string

const (
	RefundPendingSelection RefundStatus = "PENDING_USER_SELECTION"
	RefundPending          RefundStatus = "PENDING"
	RefundCompleted        RefundStatus = "COMPLETED"
)

// OriginalPaymentDetails carries the settlement coordinates for a refund to
// the original payment rail. Kept as typed fields rather than a delimited
// string encoding.
type OriginalPaymentDetails struct {
	AccountHolder string
	BankName      string
	AccountNumber string
	IFSC          string
}

// RefundRequest is a money-movement intent created once per complaint that
// resolves to refund. The customer, not the operator, supplies the method.
type RefundRequest struct {
	ID              string
	ComplaintID     string
	OrderID         string
	CustomerID      string
	Amount          int64
	PaymentMethod   string
	Method          RefundMethod
	PaymentDetails  *OriginalPaymentDetails
	Status          RefundStatus
	StoreCreditCode *string
	SettlementRef   *string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}

// Terminal reports whether the request reached its settled state.
func (r *RefundRequest) Terminal() bool {
	return r.Status == RefundCompleted
}
