package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/resolution-service/internal/config"
	"github.com/spec-kit/resolution-service/internal/domain"
	"github.com/spec-kit/resolution-service/internal/events"
	"github.com/spec-kit/resolution-service/internal/observability"
	"github.com/spec-kit/resolution-service/internal/repository"
	apperrors "github.com/spec-kit/resolution-service/pkg/util"
)

var timeNow = time.Now

// Actor identifies who invoked a workflow operation.
type Actor struct {
	Type domain.SubjectType
	ID   string
}

// SystemActor is used for transitions driven by external callbacks.
var SystemActor = Actor{Type: domain.SubjectTypeSystem, ID: "system"}

// ResolutionService is the complaint workflow orchestrator and the only
// writer of complaint state. Every transition is an atomic check-then-write:
// the guard runs against freshly loaded state and the update is rejected when
// the version moved, so stale writers get CONCURRENT_MODIFICATION instead of
// silently overwriting.
type ResolutionService struct {
	complaints repository.ComplaintRepository
	attempts   repository.PickupAttemptRepository
	refunds    repository.RefundRequestRepository
	orders     repository.OrderRepository
	evidence   repository.EvidenceRepository
	history    repository.ComplaintHistoryRepository
	incentives IncentiveIssuer
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	cfg        config.WorkflowConfig
}

// ResolutionDependencies bundles collaborators for the orchestrator.
type ResolutionDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	AttemptRepo   repository.PickupAttemptRepository
	RefundRepo    repository.RefundRequestRepository
	OrderRepo     repository.OrderRepository
	EvidenceRepo  repository.EvidenceRepository
	HistoryRepo   repository.ComplaintHistoryRepository
	Incentives    IncentiveIssuer
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// EvidenceInput describes one evidence reference supplied at submission.
type EvidenceInput struct {
	ImageURL string
	Caption  string
}

// SubmitInput describes the complaint submission payload.
type SubmitInput struct {
	OrderID     string
	Kind        domain.ComplaintKind
	Description string
	Evidence    []EvidenceInput
}

// NewResolutionService constructs the orchestrator.
func NewResolutionService(cfg config.WorkflowConfig, deps ResolutionDependencies) *ResolutionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolutionService{
		complaints: deps.ComplaintRepo,
		attempts:   deps.AttemptRepo,
		refunds:    deps.RefundRepo,
		orders:     deps.OrderRepo,
		evidence:   deps.EvidenceRepo,
		history:    deps.HistoryRepo,
		incentives: deps.Incentives,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		cfg:        cfg,
	}
}

// Submit creates a complaint in INVESTIGATING for an order the customer owns.
func (s *ResolutionService) Submit(ctx context.Context, customerID string, input SubmitInput) (*domain.Complaint, error) {
	policy, ok := domain.PolicyFor(input.Kind)
	if !ok {
		return nil, apperrors.NewValidationError("unknown complaint kind", map[string]any{"kind": input.Kind})
	}

	images := 0
	for _, ev := range input.Evidence {
		if strings.TrimSpace(ev.ImageURL) != "" {
			images++
		}
	}
	if images < policy.MinEvidenceImages {
		return nil, apperrors.NewValidationError("insufficient evidence for complaint kind", map[string]any{
			"kind":            input.Kind,
			"required_images": policy.MinEvidenceImages,
		})
	}

	order, err := s.orders.GetByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", map[string]any{"order_id": input.OrderID})
		}
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, apperrors.NewForbidden("order does not belong to caller")
	}

	if existing, err := s.complaints.GetActiveByOrder(ctx, input.OrderID); err == nil && existing != nil {
		return nil, apperrors.NewValidationError("order already has an active complaint", map[string]any{
			"complaint_id": existing.ID,
		})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	maxAttempts := s.cfg.MaxPickupAttempts
	if maxAttempts <= 0 {
		maxAttempts = domain.DefaultMaxPickupAttempts
	}

	complaint := &domain.Complaint{
		OrderID:             input.OrderID,
		CustomerID:          customerID,
		Kind:                input.Kind,
		Description:         strings.TrimSpace(input.Description),
		InvestigationStatus: domain.InvestigationOpen,
		ResolutionType:      domain.ResolutionNone,
		ReturnStatus:        domain.ReturnPending,
		MaxPickupAttempts:   maxAttempts,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	for _, ev := range input.Evidence {
		record := &domain.Evidence{
			ComplaintID: complaint.ID,
			ImageURL:    ev.ImageURL,
			Caption:     ev.Caption,
		}
		if err := s.evidence.Create(ctx, record); err != nil {
			return nil, err
		}
	}

	if err := s.orders.UpdateComplaintStatus(ctx, order.ID, domain.OrderComplaintOpen); err != nil {
		s.logger.Warn("order complaint mirror update failed", zap.String("order_id", order.ID), zap.Error(err))
	}

	actor := Actor{Type: domain.SubjectTypeUser, ID: customerID}
	s.recordHistory(ctx, actor, complaint.ID, domain.ChangeTypeSubmitted, nil, map[string]any{
		"kind":   complaint.Kind,
		"status": complaint.InvestigationStatus,
	})
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintSubmitted,
		ComplaintID: complaint.ID,
		Actor:       eventActor(actor),
		Payload: events.ComplaintSubmittedPayload{
			OrderID:     complaint.OrderID,
			Kind:        complaint.Kind,
			Description: complaint.Description,
		},
	})
	return complaint, nil
}

// Approve marks the investigation resolved in the customer's favor, computes
// coupon eligibility from the kind policy and issues the apology coupon at
// most once.
func (s *ResolutionService) Approve(ctx context.Context, operatorID, complaintID, notes string) (*domain.Complaint, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.InvestigationStatus != domain.InvestigationOpen {
		return nil, apperrors.NewInvalidState("complaint is not under investigation", map[string]any{
			"investigation_status": complaint.InvestigationStatus,
		})
	}

	policy, _ := domain.PolicyFor(complaint.Kind)
	complaint.InvestigationStatus = domain.InvestigationApproved
	complaint.EligibleForCoupon = policy.CouponEligible
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		complaint.OperatorNotes = &trimmed
	}

	var coupon *domain.Coupon
	if policy.CouponEligible {
		coupon, err = s.incentives.IssueApology(ctx, complaint.CustomerID, complaint.OrderID)
		if err != nil {
			return nil, err
		}
		complaint.CouponCode = &coupon.Code
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		// The credential must not outlive a failed approve; the retry will
		// issue a fresh one.
		if coupon != nil {
			if voidErr := s.incentives.Void(ctx, coupon.Code); voidErr != nil {
				s.logger.Warn("coupon not voided after failed approve",
					zap.String("code", coupon.Code), zap.Error(voidErr))
			}
		}
		return nil, err
	}

	if err := s.orders.UpdateComplaintStatus(ctx, complaint.OrderID, domain.OrderComplaintApproved); err != nil {
		s.logger.Warn("order complaint mirror update failed", zap.String("order_id", complaint.OrderID), zap.Error(err))
	}

	actor := Actor{Type: domain.SubjectTypeOperator, ID: operatorID}
	s.recordHistory(ctx, actor, complaint.ID, domain.ChangeTypeInvestigation,
		map[string]any{"investigation_status": domain.InvestigationOpen},
		map[string]any{
			"investigation_status": complaint.InvestigationStatus,
			"coupon_code":          complaint.CouponCode,
			"notes":                notes,
		})
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintApproved,
		ComplaintID: complaint.ID,
		Actor:       eventActor(actor),
		Payload: events.ComplaintDecisionPayload{
			Kind:           complaint.Kind,
			Notes:          notes,
			CouponEligible: complaint.EligibleForCoupon,
			CouponCode:     complaint.CouponCode,
		},
	})
	if coupon != nil {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventCouponIssued,
			ComplaintID: complaint.ID,
			Actor:       eventActor(actor),
			Payload: events.ComplaintDecisionPayload{
				Kind:       complaint.Kind,
				CouponCode: &coupon.Code,
			},
		})
	}
	return complaint, nil
}

// Reject marks the investigation resolved against the customer. Terminal.
func (s *ResolutionService) Reject(ctx context.Context, operatorID, complaintID, notes string) (*domain.Complaint, error) {
	trimmed := strings.TrimSpace(notes)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("rejection notes are required", nil)
	}

	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.InvestigationStatus != domain.InvestigationOpen {
		return nil, apperrors.NewInvalidState("complaint is not under investigation", map[string]any{
			"investigation_status": complaint.InvestigationStatus,
		})
	}

	complaint.InvestigationStatus = domain.InvestigationRejected
	complaint.OperatorNotes = &trimmed
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, err
	}

	if err := s.orders.UpdateComplaintStatus(ctx, complaint.OrderID, domain.OrderComplaintRejected); err != nil {
		s.logger.Warn("order complaint mirror update failed", zap.String("order_id", complaint.OrderID), zap.Error(err))
	}

	actor := Actor{Type: domain.SubjectTypeOperator, ID: operatorID}
	s.recordHistory(ctx, actor, complaint.ID, domain.ChangeTypeInvestigation,
		map[string]any{"investigation_status": domain.InvestigationOpen},
		map[string]any{
			"investigation_status": complaint.InvestigationStatus,
			"notes":                trimmed,
		})
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintRejected,
		ComplaintID: complaint.ID,
		Actor:       eventActor(actor),
		Payload: events.ComplaintDecisionPayload{
			Kind:  complaint.Kind,
			Notes: trimmed,
		},
	})
	return complaint, nil
}

// SchedulePickup appends a collection attempt for kinds that route through a
// physical pickup.
func (s *ResolutionService) SchedulePickup(ctx context.Context, operatorID, complaintID string, date time.Time) (*domain.PickupAttempt, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.InvestigationStatus != domain.InvestigationApproved {
		return nil, apperrors.NewInvalidState("complaint is not approved", map[string]any{
			"investigation_status": complaint.InvestigationStatus,
		})
	}
	policy, _ := domain.PolicyFor(complaint.Kind)
	if !policy.RequiresPickup {
		return nil, apperrors.NewInvalidState("complaint kind does not require pickup", map[string]any{
			"kind": complaint.Kind,
		})
	}
	if complaint.ReturnStatus != domain.ReturnPending && complaint.ReturnStatus != domain.ReturnPendingRetry {
		return nil, apperrors.NewInvalidState("pickup cannot be scheduled from current return status", map[string]any{
			"return_status": complaint.ReturnStatus,
		})
	}
	if complaint.PickupAttemptNumber >= complaint.MaxPickupAttempts {
		return nil, apperrors.NewAttemptLimitExceeded("pickup attempts exhausted", map[string]any{
			"attempts": complaint.PickupAttemptNumber,
			"max":      complaint.MaxPickupAttempts,
		})
	}

	oldStatus := complaint.ReturnStatus
	now := timeNow()
	complaint.ReturnStatus = domain.ReturnPickupScheduled
	complaint.PickupScheduledAt = &now
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, err
	}

	attempt := &domain.PickupAttempt{
		ComplaintID:   complaint.ID,
		AttemptNumber: complaint.PickupAttemptNumber + 1,
		ScheduledDate: date,
		Status:        domain.PickupAttemptScheduled,
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}

	actor := Actor{Type: domain.SubjectTypeOperator, ID: operatorID}
	s.recordHistory(ctx, actor, complaint.ID, domain.ChangeTypeReturnStatus,
		map[string]any{"return_status": oldStatus},
		map[string]any{
			"return_status":  complaint.ReturnStatus,
			"attempt_number": attempt.AttemptNumber,
			"scheduled_date": date,
		})
	s.publishEvent(ctx, events.Event{
		Type:        events.EventPickupScheduled,
		ComplaintID: complaint.ID,
		Actor:       eventActor(actor),
		Payload: events.PickupPayload{
			AttemptNumber: attempt.AttemptNumber,
			ScheduledDate: &date,
			AttemptsLeft:  complaint.MaxPickupAttempts - complaint.PickupAttemptNumber - 1,
		},
	})
	return attempt, nil
}

// RecordPickupOutcome closes the open attempt. A failed attempt consumes one
// retry; exhausting the ceiling moves the return to its terminal FAILED state.
func (s *ResolutionService) RecordPickupOutcome(ctx context.Context, operatorID, complaintID string, succeeded bool, failureReason *string) (*domain.Complaint, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.ReturnStatus != domain.ReturnPickupScheduled {
		return nil, apperrors.NewInvalidState("no pickup is scheduled", map[string]any{
			"return_status": complaint.ReturnStatus,
		})
	}

	attempt, err := s.attempts.LatestOpen(ctx, complaint.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidState("no open pickup attempt", nil)
		}
		return nil, err
	}

	actor := Actor{Type: domain.SubjectTypeOperator, ID: operatorID}
	now := timeNow()
	oldStatus := complaint.ReturnStatus

	if succeeded {
		complaint.ReturnStatus = domain.ReturnPickedUp
		complaint.PickupCompletedAt = &now
		if err := s.complaints.Update(ctx, complaint); err != nil {
			return nil, err
		}
		if err := s.attempts.Close(ctx, attempt.ID, domain.PickupAttemptCompleted, nil); err != nil {
			return nil, err
		}
		s.recordHistory(ctx, actor, complaint.ID, domain.ChangeTypeReturnStatus,
			map[string]any{"return_status": oldStatus},
			map[string]any{
				"return_status":  complaint.ReturnStatus,
				"attempt_number": attempt.AttemptNumber,
			})
		s.publishEvent(ctx, events.Event{
			Type:        events.EventPickupCompleted,
			ComplaintID: complaint.ID,
			Actor:       eventActor(actor),
			Payload: events.PickupPayload{
				AttemptNumber: attempt.AttemptNumber,
				AttemptsLeft:  complaint.MaxPickupAttempts - complaint.PickupAttemptNumber,
			},
		})
		return complaint, nil
	}

	if failureReason == nil || strings.TrimSpace(*failureReason) == "" {
		return nil, apperrors.NewValidationError("failure reason is required for a failed pickup", nil)
	}

	complaint.PickupAttemptNumber++
	exhausted := complaint.PickupAttemptNumber >= complaint.MaxPickupAttempts
	if exhausted {
		complaint.ReturnStatus = domain.ReturnFailed
		complaint.PickupFailedAt = &now
	} else {
		complaint.ReturnStatus = domain.ReturnPendingRetry
	}
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, err
	}
	if err := s.attempts.Close(ctx, attempt.ID, domain.PickupAttemptFailed, failureReason); err != nil {
		return nil, err
	}

	s.recordHistory(ctx, actor, complaint.ID, domain.ChangeTypeReturnStatus,
		map[string]any{"return_status": oldStatus},
		map[string]any{
			"return_status":  complaint.ReturnStatus,
			"attempt_number": attempt.AttemptNumber,
			"failure_reason": *failureReason,
		})
	s.publishEvent(ctx, events.Event{
		Type:        events.EventPickupFailed,
		ComplaintID: complaint.ID,
		Actor:       eventActor(actor),
		Payload: events.PickupPayload{
			AttemptNumber: attempt.AttemptNumber,
			FailureReason: failureReason,
			AttemptsLeft:  complaint.MaxPickupAttempts - complaint.PickupAttemptNumber,
		},
	})
	if exhausted {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventReturnFailed,
			ComplaintID: complaint.ID,
			Actor:       eventActor(actor),
			Payload: events.PickupPayload{
				AttemptNumber: attempt.AttemptNumber,
				FailureReason: failureReason,
				AttemptsLeft:  0,
			},
		})
	}
	return complaint, nil
}

// ResolveByReplacement creates a zero-cost mirror order referencing the
// original. Plain returns never replace.
func (s *ResolutionService) ResolveByReplacement(ctx context.Context, operatorID, complaintID string) (*domain.Complaint, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.Kind == domain.KindReturn {
		return nil, apperrors.NewInvalidState("returns cannot be resolved by replacement", map[string]any{
			"kind": complaint.Kind,
		})
	}
	if err := s.guardResolvable(complaint); err != nil {
		return nil, err
	}

	parent, err := s.orders.GetByID(ctx, complaint.OrderID)
	if err != nil {
		return nil, err
	}
	replacement, err := s.orders.CreateReplacement(ctx, parent)
	if err != nil {
		return nil, err
	}

	complaint.ResolutionType = domain.ResolutionReplacement
	complaint.ReplacementOrderID = &replacement.ID
	complaint.ReturnStatus = domain.ReturnCompleted
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, err
	}

	if err := s.orders.UpdateComplaintStatus(ctx, complaint.OrderID, domain.OrderComplaintResolved); err != nil {
		s.logger.Warn("order complaint mirror update failed", zap.String("order_id", complaint.OrderID), zap.Error(err))
	}

	actor := Actor{Type: domain.SubjectTypeOperator, ID: operatorID}
	s.recordHistory(ctx, actor, complaint.ID, domain.ChangeTypeResolution,
		map[string]any{"resolution_type": domain.ResolutionNone},
		map[string]any{
			"resolution_type":      complaint.ResolutionType,
			"replacement_order_id": replacement.ID,
		})
	s.publishEvent(ctx, events.Event{
		Type:        events.EventReplacementCreated,
		ComplaintID: complaint.ID,
		Actor:       eventActor(actor),
		Payload: events.ResolutionPayload{
			ResolutionType:     complaint.ResolutionType,
			ReplacementOrderID: &replacement.ID,
		},
	})
	return complaint, nil
}

// ResolveByRefund creates a refund request awaiting the customer's method
// selection. not_received complaints refund directly from approval.
func (s *ResolutionService) ResolveByRefund(ctx context.Context, operatorID, complaintID string) (*domain.RefundRequest, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := s.guardResolvable(complaint); err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, complaint.OrderID)
	if err != nil {
		return nil, err
	}

	request := &domain.RefundRequest{
		ComplaintID:   complaint.ID,
		OrderID:       complaint.OrderID,
		CustomerID:    complaint.CustomerID,
		Amount:        order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
		Method:        domain.RefundMethodPendingSelection,
		Status:        domain.RefundPendingSelection,
	}
	if err := s.refunds.Create(ctx, request); err != nil {
		return nil, err
	}

	policy, _ := domain.PolicyFor(complaint.Kind)
	complaint.ResolutionType = domain.ResolutionRefund
	complaint.RefundRequestID = &request.ID
	if policy.RequiresPickup {
		complaint.ReturnStatus = domain.ReturnCompleted
	}
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, err
	}

	if err := s.orders.UpdateComplaintStatus(ctx, complaint.OrderID, domain.OrderComplaintResolved); err != nil {
		s.logger.Warn("order complaint mirror update failed", zap.String("order_id", complaint.OrderID), zap.Error(err))
	}

	actor := Actor{Type: domain.SubjectTypeOperator, ID: operatorID}
	s.recordHistory(ctx, actor, complaint.ID, domain.ChangeTypeResolution,
		map[string]any{"resolution_type": domain.ResolutionNone},
		map[string]any{
			"resolution_type":   complaint.ResolutionType,
			"refund_request_id": request.ID,
		})
	s.publishEvent(ctx, events.Event{
		Type:        events.EventRefundInitiated,
		ComplaintID: complaint.ID,
		Actor:       eventActor(actor),
		Payload: events.ResolutionPayload{
			ResolutionType:  complaint.ResolutionType,
			RefundRequestID: &request.ID,
		},
	})
	return request, nil
}

// guardResolvable checks the shared preconditions of both terminal remedies.
func (s *ResolutionService) guardResolvable(complaint *domain.Complaint) error {
	if complaint.InvestigationStatus != domain.InvestigationApproved {
		return apperrors.NewInvalidState("complaint is not approved", map[string]any{
			"investigation_status": complaint.InvestigationStatus,
		})
	}
	if complaint.ResolutionType != domain.ResolutionNone {
		return apperrors.NewInvalidState("complaint is already resolved", map[string]any{
			"resolution_type": complaint.ResolutionType,
		})
	}
	policy, _ := domain.PolicyFor(complaint.Kind)
	if policy.RequiresPickup && complaint.ReturnStatus != domain.ReturnPickedUp {
		return apperrors.NewInvalidState("item has not been picked up", map[string]any{
			"return_status": complaint.ReturnStatus,
		})
	}
	return nil
}

// GetForCustomer fetches a complaint ensuring ownership, with its evidence
// and pickup history.
func (s *ResolutionService) GetForCustomer(ctx context.Context, customerID, complaintID string) (*domain.Complaint, []domain.Evidence, []domain.PickupAttempt, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, nil, nil, err
	}
	if complaint.CustomerID != customerID {
		return nil, nil, nil, apperrors.NewForbidden("complaint does not belong to caller")
	}
	evidence, err := s.evidence.ListByComplaint(ctx, complaint.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	attempts, err := s.attempts.History(ctx, complaint.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	return complaint, evidence, attempts, nil
}

// ListForCustomer returns the caller's complaints.
func (s *ResolutionService) ListForCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Complaint, error) {
	return s.complaints.ListByCustomer(ctx, customerID, limit, offset)
}

// GetForOperator fetches any complaint with evidence and pickup history.
func (s *ResolutionService) GetForOperator(ctx context.Context, complaintID string) (*domain.Complaint, []domain.Evidence, []domain.PickupAttempt, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, nil, nil, err
	}
	evidence, err := s.evidence.ListByComplaint(ctx, complaint.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	attempts, err := s.attempts.History(ctx, complaint.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	return complaint, evidence, attempts, nil
}

// ListForOperator returns complaints matching the filter.
func (s *ResolutionService) ListForOperator(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	return s.complaints.ListWithFilter(ctx, filter)
}

// History returns the audit trail for a complaint.
func (s *ResolutionService) History(ctx context.Context, complaintID string) ([]domain.ComplaintHistory, error) {
	return s.history.ListByComplaint(ctx, complaintID)
}

func (s *ResolutionService) getComplaint(ctx context.Context, complaintID string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, err
	}
	return complaint, nil
}

func (s *ResolutionService) recordHistory(ctx context.Context, actor Actor, complaintID string, changeType domain.ComplaintChangeType, oldValue, newValue map[string]any) {
	if s.history == nil {
		return
	}
	actorID := actor.ID
	entry := &domain.ComplaintHistory{
		ComplaintID:   complaintID,
		ChangedByType: actor.Type,
		ChangedByID:   &actorID,
		ChangeType:    changeType,
		OldValue:      oldValue,
		NewValue:      newValue,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Warn("history entry not recorded", zap.String("complaint_id", complaintID), zap.Error(err))
	}
}

func (s *ResolutionService) publishEvent(ctx context.Context, event events.Event) {
	s.metrics.RecordTransition(string(event.Type))
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = timeNow()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func eventActor(actor Actor) events.Actor {
	id := actor.ID
	switch actor.Type {
	case domain.SubjectTypeOperator:
		return events.Actor{Type: actor.Type, OperatorID: &id}
	case domain.SubjectTypeUser:
		return events.Actor{Type: actor.Type, UserID: &id}
	default:
		return events.Actor{Type: actor.Type}
	}
}
