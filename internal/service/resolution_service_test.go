package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/resolution-service/internal/config"
	"github.com/spec-kit/resolution-service/internal/domain"
	"github.com/spec-kit/resolution-service/internal/events"
	apperrors "github.com/spec-kit/resolution-service/pkg/util"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) handle(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) count(eventType events.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, event := range r.events {
		if event.Type == eventType {
			n++
		}
	}
	return n
}

var allEventTypes = []events.EventType{
	events.EventComplaintSubmitted,
	events.EventComplaintApproved,
	events.EventComplaintRejected,
	events.EventCouponIssued,
	events.EventPickupScheduled,
	events.EventPickupCompleted,
	events.EventPickupFailed,
	events.EventReturnFailed,
	events.EventReplacementCreated,
	events.EventRefundInitiated,
	events.EventRefundMethodChosen,
	events.EventRefundCompleted,
}

type harness struct {
	complaints *memComplaintRepo
	attempts   *memAttemptRepo
	refunds    *memRefundRepo
	orders     *memOrderRepo
	evidence   *memEvidenceRepo
	history    *memHistoryRepo
	coupons    *memCouponRepo
	recorder   *eventRecorder
	svc        *ResolutionService

	customerID string
	operatorID string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.WorkflowConfig{MaxPickupAttempts: 3, CouponPercent: 20, CouponValidityDays: 90, CodeGenRetries: 5}
	h := &harness{
		complaints: newMemComplaintRepo(),
		attempts:   newMemAttemptRepo(),
		refunds:    newMemRefundRepo(),
		orders:     newMemOrderRepo(),
		evidence:   newMemEvidenceRepo(),
		history:    newMemHistoryRepo(),
		coupons:    newMemCouponRepo(),
		recorder:   &eventRecorder{},
		customerID: "customer-1",
		operatorID: "operator-1",
	}
	dispatcher := events.NewInMemoryDispatcher()
	for _, eventType := range allEventTypes {
		dispatcher.Subscribe(eventType, h.recorder.handle)
	}
	incentives := NewIncentiveService(h.coupons, grantAllClaimer{}, zap.NewNop(), cfg)
	h.svc = NewResolutionService(cfg, ResolutionDependencies{
		ComplaintRepo: h.complaints,
		AttemptRepo:   h.attempts,
		RefundRepo:    h.refunds,
		OrderRepo:     h.orders,
		EvidenceRepo:  h.evidence,
		HistoryRepo:   h.history,
		Incentives:    incentives,
		Dispatcher:    dispatcher,
		Logger:        zap.NewNop(),
	})
	return h
}

func (h *harness) seedOrder() string {
	return h.orders.add(domain.Order{
		CustomerID:      h.customerID,
		TotalAmount:     4999,
		PaymentMethod:   "CARD",
		ShippingAddress: "12 Main St",
	})
}

func (h *harness) submit(t *testing.T, kind domain.ComplaintKind) *domain.Complaint {
	t.Helper()
	orderID := h.seedOrder()
	input := SubmitInput{OrderID: orderID, Kind: kind, Description: "item issue"}
	policy, _ := domain.PolicyFor(kind)
	for i := 0; i < policy.MinEvidenceImages; i++ {
		input.Evidence = append(input.Evidence, EvidenceInput{ImageURL: "https://img.example/1.jpg"})
	}
	complaint, err := h.svc.Submit(context.Background(), h.customerID, input)
	require.NoError(t, err)
	return complaint
}

func (h *harness) approve(t *testing.T, complaintID string) *domain.Complaint {
	t.Helper()
	complaint, err := h.svc.Approve(context.Background(), h.operatorID, complaintID, "verified")
	require.NoError(t, err)
	return complaint
}

func (h *harness) completePickup(t *testing.T, complaintID string) *domain.Complaint {
	t.Helper()
	ctx := context.Background()
	_, err := h.svc.SchedulePickup(ctx, h.operatorID, complaintID, timeNow().AddDate(0, 0, 2))
	require.NoError(t, err)
	complaint, err := h.svc.RecordPickupOutcome(ctx, h.operatorID, complaintID, true, nil)
	require.NoError(t, err)
	return complaint
}

func TestSubmitCreatesInvestigatingComplaint(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindDamaged)

	require.Equal(t, domain.InvestigationOpen, complaint.InvestigationStatus)
	require.Equal(t, domain.ResolutionNone, complaint.ResolutionType)
	require.Equal(t, domain.ReturnPending, complaint.ReturnStatus)
	require.Equal(t, 3, complaint.MaxPickupAttempts)
	require.EqualValues(t, 1, complaint.Version)

	order, err := h.orders.GetByID(context.Background(), complaint.OrderID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderComplaintOpen, order.ComplaintStatus)

	require.Equal(t, 1, h.recorder.count(events.EventComplaintSubmitted))
	entries, err := h.history.ListByComplaint(context.Background(), complaint.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, domain.ChangeTypeSubmitted, entries[0].ChangeType)
}

func TestSubmitRejectsUnknownKind(t *testing.T) {
	h := newHarness(t)
	orderID := h.seedOrder()
	_, err := h.svc.Submit(context.Background(), h.customerID, SubmitInput{OrderID: orderID, Kind: "LOST_IN_MAIL"})
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestSubmitDamagedRequiresEvidenceImage(t *testing.T) {
	h := newHarness(t)
	orderID := h.seedOrder()
	_, err := h.svc.Submit(context.Background(), h.customerID, SubmitInput{OrderID: orderID, Kind: domain.KindDamaged})
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestSubmitForeignOrderForbidden(t *testing.T) {
	h := newHarness(t)
	orderID := h.orders.add(domain.Order{CustomerID: "someone-else", TotalAmount: 100, PaymentMethod: "CARD"})
	_, err := h.svc.Submit(context.Background(), h.customerID, SubmitInput{OrderID: orderID, Kind: domain.KindReturn})
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestSubmitRejectsSecondActiveComplaint(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindReturn)
	_, err := h.svc.Submit(context.Background(), h.customerID, SubmitInput{OrderID: complaint.OrderID, Kind: domain.KindReturn})
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestSubmitAllowedAfterRejection(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindReturn)
	_, err := h.svc.Reject(context.Background(), h.operatorID, complaint.ID, "no record of the parcel")
	require.NoError(t, err)

	again, err := h.svc.Submit(context.Background(), h.customerID, SubmitInput{OrderID: complaint.OrderID, Kind: domain.KindReturn})
	require.NoError(t, err)
	require.NotEqual(t, complaint.ID, again.ID)
}

func TestApproveIssuesApologyCoupon(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindDamaged)
	approved := h.approve(t, complaint.ID)

	require.Equal(t, domain.InvestigationApproved, approved.InvestigationStatus)
	require.True(t, approved.EligibleForCoupon)
	require.NotNil(t, approved.CouponCode)

	coupon, err := h.coupons.GetByCode(context.Background(), *approved.CouponCode)
	require.NoError(t, err)
	require.Equal(t, domain.CouponKindApology, coupon.Kind)
	require.Equal(t, 20, coupon.DiscountPercent)
	require.Equal(t, h.customerID, coupon.IssuedToUserID)

	require.Equal(t, 1, h.recorder.count(events.EventComplaintApproved))
	require.Equal(t, 1, h.recorder.count(events.EventCouponIssued))
}

func TestApproveTwiceFails(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindDamaged)
	h.approve(t, complaint.ID)

	_, err := h.svc.Approve(context.Background(), h.operatorID, complaint.ID, "")
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))
	require.Equal(t, 1, h.recorder.count(events.EventCouponIssued))
}

func TestApproveReturnKindNeverGetsCoupon(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindReturn)
	approved := h.approve(t, complaint.ID)

	require.False(t, approved.EligibleForCoupon)
	require.Nil(t, approved.CouponCode)
	require.Equal(t, 0, h.recorder.count(events.EventCouponIssued))
}

func TestRejectRequiresNotes(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindReturn)
	_, err := h.svc.Reject(context.Background(), h.operatorID, complaint.ID, "   ")
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestRejectIsTerminal(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindReturn)
	rejected, err := h.svc.Reject(context.Background(), h.operatorID, complaint.ID, "not eligible")
	require.NoError(t, err)
	require.Equal(t, domain.InvestigationRejected, rejected.InvestigationStatus)
	require.True(t, rejected.Terminal())

	_, err = h.svc.Approve(context.Background(), h.operatorID, complaint.ID, "")
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))
	_, err = h.svc.SchedulePickup(context.Background(), h.operatorID, complaint.ID, timeNow().AddDate(0, 0, 1))
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestPickupSuccessFlow(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindDamaged)
	h.approve(t, complaint.ID)

	attempt, err := h.svc.SchedulePickup(context.Background(), h.operatorID, complaint.ID, timeNow().AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Equal(t, 1, attempt.AttemptNumber)
	require.Equal(t, domain.PickupAttemptScheduled, attempt.Status)

	updated, err := h.svc.RecordPickupOutcome(context.Background(), h.operatorID, complaint.ID, true, nil)
	require.NoError(t, err)
	require.Equal(t, domain.ReturnPickedUp, updated.ReturnStatus)
	require.NotNil(t, updated.PickupCompletedAt)
	require.Equal(t, 0, updated.PickupAttemptNumber)

	history, err := h.attempts.History(context.Background(), complaint.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, domain.PickupAttemptCompleted, history[0].Status)
	require.Equal(t, 1, h.recorder.count(events.EventPickupCompleted))
}

func TestSchedulePickupRejectedForNonPickupKind(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindNotReceived)
	h.approve(t, complaint.ID)

	_, err := h.svc.SchedulePickup(context.Background(), h.operatorID, complaint.ID, timeNow().AddDate(0, 0, 1))
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestPickupFailureConsumesAttempt(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindDamaged)
	h.approve(t, complaint.ID)

	_, err := h.svc.SchedulePickup(context.Background(), h.operatorID, complaint.ID, timeNow().AddDate(0, 0, 1))
	require.NoError(t, err)
	reason := "customer unavailable"
	updated, err := h.svc.RecordPickupOutcome(context.Background(), h.operatorID, complaint.ID, false, &reason)
	require.NoError(t, err)
	require.Equal(t, domain.ReturnPendingRetry, updated.ReturnStatus)
	require.Equal(t, 1, updated.PickupAttemptNumber)

	attempt, err := h.svc.SchedulePickup(context.Background(), h.operatorID, complaint.ID, timeNow().AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Equal(t, 2, attempt.AttemptNumber)
}

func TestPickupFailureRequiresReason(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindDamaged)
	h.approve(t, complaint.ID)
	_, err := h.svc.SchedulePickup(context.Background(), h.operatorID, complaint.ID, timeNow().AddDate(0, 0, 1))
	require.NoError(t, err)

	_, err = h.svc.RecordPickupOutcome(context.Background(), h.operatorID, complaint.ID, false, nil)
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestRecordOutcomeWithoutScheduledPickup(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindDamaged)
	h.approve(t, complaint.ID)

	_, err := h.svc.RecordPickupOutcome(context.Background(), h.operatorID, complaint.ID, true, nil)
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestThirdPickupFailureTerminatesReturn(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindDamaged)
	h.approve(t, complaint.ID)

	reason := "nobody home"
	var updated *domain.Complaint
	for i := 0; i < 3; i++ {
		_, err := h.svc.SchedulePickup(context.Background(), h.operatorID, complaint.ID, timeNow().AddDate(0, 0, i+1))
		require.NoError(t, err)
		var outcomeErr error
		updated, outcomeErr = h.svc.RecordPickupOutcome(context.Background(), h.operatorID, complaint.ID, false, &reason)
		require.NoError(t, outcomeErr)
	}

	require.Equal(t, domain.ReturnFailed, updated.ReturnStatus)
	require.Equal(t, 3, updated.PickupAttemptNumber)
	require.NotNil(t, updated.PickupFailedAt)
	require.True(t, updated.Terminal())
	require.Equal(t, 3, h.recorder.count(events.EventPickupFailed))
	require.Equal(t, 1, h.recorder.count(events.EventReturnFailed))

	_, err := h.svc.SchedulePickup(context.Background(), h.operatorID, complaint.ID, timeNow().AddDate(0, 0, 9))
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestSchedulePickupAtAttemptCeiling(t *testing.T) {
	h := newHarness(t)
	orderID := h.seedOrder()
	complaint := &domain.Complaint{
		OrderID:             orderID,
		CustomerID:          h.customerID,
		Kind:                domain.KindDamaged,
		InvestigationStatus: domain.InvestigationApproved,
		ResolutionType:      domain.ResolutionNone,
		ReturnStatus:        domain.ReturnPendingRetry,
		PickupAttemptNumber: 3,
		MaxPickupAttempts:   3,
	}
	require.NoError(t, h.complaints.Create(context.Background(), complaint))

	_, err := h.svc.SchedulePickup(context.Background(), h.operatorID, complaint.ID, timeNow().AddDate(0, 0, 1))
	require.True(t, apperrors.IsCode(err, "ATTEMPT_LIMIT_EXCEEDED"))
}

func TestResolveByReplacement(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindDamaged)
	h.approve(t, complaint.ID)
	h.completePickup(t, complaint.ID)

	resolved, err := h.svc.ResolveByReplacement(context.Background(), h.operatorID, complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ResolutionReplacement, resolved.ResolutionType)
	require.Equal(t, domain.ReturnCompleted, resolved.ReturnStatus)
	require.NotNil(t, resolved.ReplacementOrderID)

	replacement, err := h.orders.GetByID(context.Background(), *resolved.ReplacementOrderID)
	require.NoError(t, err)
	require.EqualValues(t, 0, replacement.TotalAmount)
	require.NotNil(t, replacement.ParentOrderID)
	require.Equal(t, complaint.OrderID, *replacement.ParentOrderID)

	original, err := h.orders.GetByID(context.Background(), complaint.OrderID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderComplaintResolved, original.ComplaintStatus)
	require.Equal(t, 1, h.recorder.count(events.EventReplacementCreated))
}

func TestReturnCannotBeResolvedByReplacement(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindReturn)
	h.approve(t, complaint.ID)
	h.completePickup(t, complaint.ID)

	_, err := h.svc.ResolveByReplacement(context.Background(), h.operatorID, complaint.ID)
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestResolveRequiresPickedUpItem(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindDamaged)
	h.approve(t, complaint.ID)

	_, err := h.svc.ResolveByReplacement(context.Background(), h.operatorID, complaint.ID)
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))
	_, err = h.svc.ResolveByRefund(context.Background(), h.operatorID, complaint.ID)
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestResolveByRefundAfterPickup(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindReturn)
	h.approve(t, complaint.ID)
	h.completePickup(t, complaint.ID)

	request, err := h.svc.ResolveByRefund(context.Background(), h.operatorID, complaint.ID)
	require.NoError(t, err)
	require.EqualValues(t, 4999, request.Amount)
	require.Equal(t, domain.RefundPendingSelection, request.Status)
	require.Equal(t, domain.RefundMethodPendingSelection, request.Method)

	stored, err := h.complaints.GetByID(context.Background(), complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ResolutionRefund, stored.ResolutionType)
	require.Equal(t, domain.ReturnCompleted, stored.ReturnStatus)
	require.NotNil(t, stored.RefundRequestID)
	require.Equal(t, request.ID, *stored.RefundRequestID)
	require.Equal(t, 1, h.recorder.count(events.EventRefundInitiated))
}

func TestNotReceivedRefundsWithoutPickup(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindNotReceived)
	h.approve(t, complaint.ID)

	request, err := h.svc.ResolveByRefund(context.Background(), h.operatorID, complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RefundPendingSelection, request.Status)

	stored, err := h.complaints.GetByID(context.Background(), complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ReturnPending, stored.ReturnStatus)
}

func TestResolveTwiceFails(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindNotReceived)
	h.approve(t, complaint.ID)
	_, err := h.svc.ResolveByRefund(context.Background(), h.operatorID, complaint.ID)
	require.NoError(t, err)

	_, err = h.svc.ResolveByRefund(context.Background(), h.operatorID, complaint.ID)
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))
	_, err = h.svc.ResolveByReplacement(context.Background(), h.operatorID, complaint.ID)
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestStaleWriteSurfacesConcurrentModification(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindReturn)

	stale, err := h.complaints.GetByID(context.Background(), complaint.ID)
	require.NoError(t, err)
	h.approve(t, complaint.ID)

	stale.InvestigationStatus = domain.InvestigationRejected
	err = h.complaints.Update(context.Background(), stale)
	require.True(t, apperrors.IsCode(err, "CONCURRENT_MODIFICATION"))
}

func TestFailedApproveLeavesNoLiveCoupon(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindDamaged)

	cfg := config.WorkflowConfig{MaxPickupAttempts: 3, CouponPercent: 20, CouponValidityDays: 90, CodeGenRetries: 5}
	flaky := &flakyComplaintRepo{memComplaintRepo: h.complaints, failUpdates: 1}
	svc := NewResolutionService(cfg, ResolutionDependencies{
		ComplaintRepo: flaky,
		AttemptRepo:   h.attempts,
		RefundRepo:    h.refunds,
		OrderRepo:     h.orders,
		EvidenceRepo:  h.evidence,
		HistoryRepo:   h.history,
		Incentives:    NewIncentiveService(h.coupons, grantAllClaimer{}, zap.NewNop(), cfg),
		Logger:        zap.NewNop(),
	})

	_, err := svc.Approve(context.Background(), h.operatorID, complaint.ID, "verified")
	require.True(t, apperrors.IsCode(err, "CONCURRENT_MODIFICATION"))

	coupons, err := h.coupons.ListByUser(context.Background(), h.customerID)
	require.NoError(t, err)
	require.Empty(t, coupons)

	approved, err := svc.Approve(context.Background(), h.operatorID, complaint.ID, "verified")
	require.NoError(t, err)
	require.NotNil(t, approved.CouponCode)

	coupons, err = h.coupons.ListByUser(context.Background(), h.customerID)
	require.NoError(t, err)
	require.Len(t, coupons, 1)
	require.Equal(t, *approved.CouponCode, coupons[0].Code)
}

func TestReloadedComplaintKeepsOperationLegality(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	complaint := h.submit(t, domain.KindDamaged)

	assertReload := func(want *domain.Complaint) *domain.Complaint {
		stored, err := h.complaints.GetByID(ctx, want.ID)
		require.NoError(t, err)
		require.Equal(t, want.InvestigationStatus, stored.InvestigationStatus)
		require.Equal(t, want.ResolutionType, stored.ResolutionType)
		require.Equal(t, want.ReturnStatus, stored.ReturnStatus)
		require.Equal(t, want.PickupAttemptNumber, stored.PickupAttemptNumber)
		require.Equal(t, want.MaxPickupAttempts, stored.MaxPickupAttempts)
		require.Equal(t, want.Version, stored.Version)
		return stored
	}

	// Investigating: resolution is illegal, decision is legal.
	assertReload(complaint)
	_, err := h.svc.ResolveByReplacement(ctx, h.operatorID, complaint.ID)
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))

	approved := h.approve(t, complaint.ID)
	assertReload(approved)
	_, err = h.svc.Approve(ctx, h.operatorID, complaint.ID, "")
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))

	_, err = h.svc.SchedulePickup(ctx, h.operatorID, complaint.ID, timeNow().AddDate(0, 0, 1))
	require.NoError(t, err)
	scheduled, err := h.complaints.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ReturnPickupScheduled, scheduled.ReturnStatus)
	assertReload(scheduled)
	_, err = h.svc.SchedulePickup(ctx, h.operatorID, complaint.ID, timeNow().AddDate(0, 0, 2))
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))

	reason := "nobody home"
	retrying, err := h.svc.RecordPickupOutcome(ctx, h.operatorID, complaint.ID, false, &reason)
	require.NoError(t, err)
	assertReload(retrying)
	_, err = h.svc.RecordPickupOutcome(ctx, h.operatorID, complaint.ID, true, nil)
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))
	_, err = h.svc.SchedulePickup(ctx, h.operatorID, complaint.ID, timeNow().AddDate(0, 0, 3))
	require.NoError(t, err)

	pickedUp, err := h.svc.RecordPickupOutcome(ctx, h.operatorID, complaint.ID, true, nil)
	require.NoError(t, err)
	assertReload(pickedUp)
	_, err = h.svc.SchedulePickup(ctx, h.operatorID, complaint.ID, timeNow().AddDate(0, 0, 4))
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))

	resolved, err := h.svc.ResolveByReplacement(ctx, h.operatorID, complaint.ID)
	require.NoError(t, err)
	assertReload(resolved)
	_, err = h.svc.ResolveByRefund(ctx, h.operatorID, complaint.ID)
	require.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestGetForCustomerEnforcesOwnership(t *testing.T) {
	h := newHarness(t)
	complaint := h.submit(t, domain.KindReturn)

	_, _, _, err := h.svc.GetForCustomer(context.Background(), "other-customer", complaint.ID)
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	got, _, _, err := h.svc.GetForCustomer(context.Background(), h.customerID, complaint.ID)
	require.NoError(t, err)
	require.Equal(t, complaint.ID, got.ID)
}
