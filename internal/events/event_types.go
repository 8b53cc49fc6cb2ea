package events

import (
	"time"

	"github.com/spec-kit/resolution-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintSubmitted  EventType = "complaint_submitted"
	EventComplaintApproved   EventType = "complaint_approved"
	EventComplaintRejected   EventType = "complaint_rejected"
	EventCouponIssued        EventType = "coupon_issued"
	EventPickupScheduled     EventType = "pickup_scheduled"
	EventPickupCompleted     EventType = "pickup_completed"
	EventPickupFailed        EventType = "pickup_failed"
	EventReturnFailed        EventType = "return_failed"
	EventReplacementCreated  EventType = "replacement_created"
	EventRefundInitiated     EventType = "refund_initiated"
	EventRefundMethodChosen  EventType = "refund_method_chosen"
	EventRefundCompleted     EventType = "refund_completed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type       domain.SubjectType `json:"type"`
	UserID     *string            `json:"user_id,omitempty"`
	OperatorID *string            `json:"operator_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintSubmittedPayload payload.
type ComplaintSubmittedPayload struct {
	OrderID     string               `json:"order_id"`
	Kind        domain.ComplaintKind `json:"kind"`
	Description string               `json:"description"`
}

// ComplaintDecisionPayload payload for approve/reject.
type ComplaintDecisionPayload struct {
	Kind           domain.ComplaintKind `json:"kind"`
	Notes          string               `json:"notes,omitempty"`
	CouponEligible bool                 `json:"coupon_eligible"`
	CouponCode     *string              `json:"coupon_code,omitempty"`
}

// PickupPayload payload for scheduling and outcomes.
type PickupPayload struct {
	AttemptNumber int        `json:"attempt_number"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	FailureReason *string    `json:"failure_reason,omitempty"`
	AttemptsLeft  int        `json:"attempts_left"`
}

// ResolutionPayload payload for replacement/refund initiation.
type ResolutionPayload struct {
	ResolutionType     domain.ResolutionType `json:"resolution_type"`
	ReplacementOrderID *string               `json:"replacement_order_id,omitempty"`
	RefundRequestID    *string               `json:"refund_request_id,omitempty"`
}

// RefundPayload payload for refund method selection and completion.
type RefundPayload struct {
	RefundRequestID string              `json:"refund_request_id"`
	Method          domain.RefundMethod `json:"method"`
	Amount          int64               `json:"amount"`
	StoreCreditCode *string             `json:"store_credit_code,omitempty"`
	SettlementRef   *string             `json:"settlement_ref,omitempty"`
}
