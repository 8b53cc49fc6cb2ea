package dto

import (
	"time"

	"github.com/spec-kit/resolution-service/internal/domain"
)

// SelectRefundMethodRequest payload. Details apply to original-payment only.
type SelectRefundMethodRequest struct {
	Method  domain.RefundMethod            `json:"method"`
	Details *OriginalPaymentDetailsRequest `json:"details,omitempty"`
}

// OriginalPaymentDetailsRequest carries bank settlement coordinates.
type OriginalPaymentDetailsRequest struct {
	AccountHolder string `json:"account_holder"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
}

// SettlementCallbackRequest payload from the external payment rail.
type SettlementCallbackRequest struct {
	RefundRequestID string `json:"refund_request_id"`
	SettlementRef   string `json:"settlement_ref"`
}

// RefundRequestResponse response.
type RefundRequestResponse struct {
	ID              string              `json:"id"`
	ComplaintID     string              `json:"complaint_id"`
	OrderID         string              `json:"order_id"`
	Amount          int64               `json:"amount"`
	PaymentMethod   string              `json:"payment_method"`
	Method          domain.RefundMethod `json:"method"`
	Status          domain.RefundStatus `json:"status"`
	StoreCreditCode *string             `json:"store_credit_code,omitempty"`
	SettlementRef   *string             `json:"settlement_ref,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
}
