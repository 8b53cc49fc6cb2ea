package dto

import (
	"time"

	"github.com/spec-kit/resolution-service/internal/domain"
)

// EvidenceInput is one evidence reference in a submission payload.
type EvidenceInput struct {
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption"`
}

// SubmitComplaintRequest payload.
type SubmitComplaintRequest struct {
	OrderID     string               `json:"order_id"`
	Kind        domain.ComplaintKind `json:"kind"`
	Description string               `json:"description"`
	Evidence    []EvidenceInput      `json:"evidence"`
}

// DecisionRequest carries operator notes for approve/reject.
type DecisionRequest struct {
	Notes string `json:"notes"`
}

// SchedulePickupRequest payload.
type SchedulePickupRequest struct {
	Date time.Time `json:"date"`
}

// PickupOutcomeRequest payload.
type PickupOutcomeRequest struct {
	Succeeded     bool    `json:"succeeded"`
	FailureReason *string `json:"failure_reason"`
}

// ComplaintSummary response.
type ComplaintSummary struct {
	ID                  string                     `json:"id"`
	OrderID             string                     `json:"order_id"`
	Kind                domain.ComplaintKind       `json:"kind"`
	InvestigationStatus domain.InvestigationStatus `json:"investigation_status"`
	ResolutionType      domain.ResolutionType      `json:"resolution_type"`
	ReturnStatus        domain.ReturnStatus        `json:"return_status"`
	PickupAttemptNumber int                        `json:"pickup_attempt_number"`
	MaxPickupAttempts   int                        `json:"max_pickup_attempts"`
	CouponCode          *string                    `json:"coupon_code,omitempty"`
	CreatedAt           time.Time                  `json:"created_at"`
	UpdatedAt           time.Time                  `json:"updated_at"`
}

// ComplaintDetailResponse provides full complaint info.
type ComplaintDetailResponse struct {
	ID                  string                     `json:"id"`
	OrderID             string                     `json:"order_id"`
	CustomerID          string                     `json:"customer_id"`
	Kind                domain.ComplaintKind       `json:"kind"`
	Description         string                     `json:"description"`
	InvestigationStatus domain.InvestigationStatus `json:"investigation_status"`
	OperatorNotes       *string                    `json:"operator_notes,omitempty"`
	ResolutionType      domain.ResolutionType      `json:"resolution_type"`
	ReturnStatus        domain.ReturnStatus        `json:"return_status"`
	PickupAttemptNumber int                        `json:"pickup_attempt_number"`
	MaxPickupAttempts   int                        `json:"max_pickup_attempts"`
	EligibleForCoupon   bool                       `json:"eligible_for_coupon"`
	CouponCode          *string                    `json:"coupon_code,omitempty"`
	RefundRequestID     *string                    `json:"refund_request_id,omitempty"`
	ReplacementOrderID  *string                    `json:"replacement_order_id,omitempty"`
	CreatedAt           time.Time                  `json:"created_at"`
	UpdatedAt           time.Time                  `json:"updated_at"`
	PickupScheduledAt   *time.Time                 `json:"pickup_scheduled_at,omitempty"`
	PickupCompletedAt   *time.Time                 `json:"pickup_completed_at,omitempty"`
	PickupFailedAt      *time.Time                 `json:"pickup_failed_at,omitempty"`
	Evidence            []EvidenceResponse         `json:"evidence"`
	PickupAttempts      []PickupAttemptResponse    `json:"pickup_attempts"`
}

// EvidenceResponse represents stored evidence.
type EvidenceResponse struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"image_url"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PickupAttemptResponse represents one ledger entry.
type PickupAttemptResponse struct {
	ID            string                     `json:"id"`
	AttemptNumber int                        `json:"attempt_number"`
	ScheduledDate time.Time                  `json:"scheduled_date"`
	Status        domain.PickupAttemptStatus `json:"status"`
	FailureReason *string                    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
}
