package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/resolution-service/internal/domain"
	"github.com/spec-kit/resolution-service/internal/events"
	"github.com/spec-kit/resolution-service/internal/repository"
	apperrors "github.com/spec-kit/resolution-service/pkg/util"
)

// MethodSelection is the customer's settlement choice. Details are required
// for the original-payment rail and ignored for gift cards.
type MethodSelection struct {
	Method  domain.RefundMethod
	Details *domain.OriginalPaymentDetails
}

// RefundService owns the refund request lifecycle after the orchestrator
// creates it: method selection by the customer and settlement confirmation
// from the external payment rail.
type RefundService struct {
	refunds    repository.RefundRequestRepository
	incentives IncentiveIssuer
	claims     CodeClaimer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewRefundService builds the service.
func NewRefundService(refunds repository.RefundRequestRepository, incentives IncentiveIssuer, claims CodeClaimer, dispatcher events.Dispatcher, logger *zap.Logger) *RefundService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefundService{
		refunds:    refunds,
		incentives: incentives,
		claims:     claims,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// SelectMethod applies the customer's choice. A gift card settles in the same
// call; the original payment rail moves to PENDING until the external
// settlement confirms.
func (s *RefundService) SelectMethod(ctx context.Context, customerID, requestID string, selection MethodSelection) (*domain.RefundRequest, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.CustomerID != customerID {
		return nil, apperrors.NewForbidden("refund request does not belong to caller")
	}
	if request.Status != domain.RefundPendingSelection {
		return nil, apperrors.NewInvalidState("refund method has already been selected", map[string]any{
			"status": request.Status,
		})
	}

	switch selection.Method {
	case domain.RefundMethodGiftCard:
		credit, err := s.incentives.IssueStoreCredit(ctx, request.CustomerID, request.OrderID, request.Amount)
		if err != nil {
			return nil, err
		}
		now := timeNow()
		request.Method = domain.RefundMethodGiftCard
		request.StoreCreditCode = &credit.Code
		request.Status = domain.RefundCompleted
		request.CompletedAt = &now
		if err := s.refunds.Update(ctx, request); err != nil {
			return nil, err
		}
		s.publishRefundEvent(ctx, events.EventRefundMethodChosen, request)
		s.publishRefundEvent(ctx, events.EventRefundCompleted, request)
		return request, nil

	case domain.RefundMethodOriginalPayment:
		if err := validatePaymentDetails(selection.Details); err != nil {
			return nil, err
		}
		request.Method = domain.RefundMethodOriginalPayment
		request.PaymentDetails = selection.Details
		request.Status = domain.RefundPending
		if err := s.refunds.Update(ctx, request); err != nil {
			return nil, err
		}
		s.publishRefundEvent(ctx, events.EventRefundMethodChosen, request)
		return request, nil

	default:
		return nil, apperrors.NewValidationError("unknown refund method", map[string]any{
			"method": selection.Method,
		})
	}
}

// ConfirmSettlement completes a pending original-payment refund from the
// external settlement callback. Replays of the same confirmation are no-ops.
func (s *RefundService) ConfirmSettlement(ctx context.Context, requestID, settlementRef string) (*domain.RefundRequest, error) {
	ref := strings.TrimSpace(settlementRef)
	if ref == "" {
		return nil, apperrors.NewValidationError("settlement reference is required", nil)
	}

	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status == domain.RefundCompleted {
		if request.SettlementRef != nil && *request.SettlementRef == ref {
			return request, nil
		}
		return nil, apperrors.NewInvalidState("refund request is already settled", map[string]any{
			"status": request.Status,
		})
	}
	if request.Status != domain.RefundPending || request.Method != domain.RefundMethodOriginalPayment {
		return nil, apperrors.NewInvalidState("refund request is not awaiting settlement", map[string]any{
			"status": request.Status,
			"method": request.Method,
		})
	}

	if s.claims != nil {
		claimed, err := s.claims.Claim(ctx, "settlement:"+requestID+":"+ref)
		if err != nil {
			s.logger.Warn("settlement dedup check failed; relying on version guard", zap.Error(err))
		} else if !claimed {
			// A held claim only proves an earlier delivery started. No-op
			// only when that delivery actually committed; otherwise carry on
			// and let the version guard arbitrate.
			fresh, err := s.getRequest(ctx, requestID)
			if err != nil {
				return nil, err
			}
			if fresh.Status == domain.RefundCompleted && fresh.SettlementRef != nil && *fresh.SettlementRef == ref {
				return fresh, nil
			}
			request = fresh
		}
	}

	now := timeNow()
	request.Status = domain.RefundCompleted
	request.SettlementRef = &ref
	request.CompletedAt = &now
	if err := s.refunds.Update(ctx, request); err != nil {
		return nil, err
	}
	s.publishRefundEvent(ctx, events.EventRefundCompleted, request)
	return request, nil
}

// GetForCustomer fetches a refund request ensuring ownership.
func (s *RefundService) GetForCustomer(ctx context.Context, customerID, requestID string) (*domain.RefundRequest, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.CustomerID != customerID {
		return nil, apperrors.NewForbidden("refund request does not belong to caller")
	}
	return request, nil
}

func (s *RefundService) getRequest(ctx context.Context, requestID string) (*domain.RefundRequest, error) {
	request, err := s.refunds.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("refund request", map[string]any{"refund_request_id": requestID})
		}
		return nil, err
	}
	return request, nil
}

func validatePaymentDetails(details *domain.OriginalPaymentDetails) error {
	if details == nil {
		return apperrors.NewValidationError("settlement details are required for original payment refunds", nil)
	}
	missing := []string{}
	if strings.TrimSpace(details.AccountHolder) == "" {
		missing = append(missing, "account_holder")
	}
	if strings.TrimSpace(details.BankName) == "" {
		missing = append(missing, "bank_name")
	}
	if strings.TrimSpace(details.AccountNumber) == "" {
		missing = append(missing, "account_number")
	}
	if strings.TrimSpace(details.IFSC) == "" {
		missing = append(missing, "ifsc")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("incomplete settlement details", map[string]any{"missing": missing})
	}
	return nil
}

func (s *RefundService) publishRefundEvent(ctx context.Context, eventType events.EventType, request *domain.RefundRequest) {
	if s.dispatcher == nil {
		return
	}
	customerID := request.CustomerID
	event := events.Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		ComplaintID: request.ComplaintID,
		Actor:       events.Actor{Type: domain.SubjectTypeUser, UserID: &customerID},
		Timestamp:   timeNow(),
		Payload: events.RefundPayload{
			RefundRequestID: request.ID,
			Method:          request.Method,
			Amount:          request.Amount,
			StoreCreditCode: request.StoreCreditCode,
			SettlementRef:   request.SettlementRef,
		},
	}
	_ = s.dispatcher.Publish(ctx, event)
}
