package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/resolution-service/internal/domain"
	"github.com/spec-kit/resolution-service/internal/repository"
	apperrors "github.com/spec-kit/resolution-service/pkg/util"
)

type memComplaintRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Complaint
}

func newMemComplaintRepo() *memComplaintRepo {
	return &memComplaintRepo{items: map[string]*domain.Complaint{}}
}

func (r *memComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint.ID = uuid.NewString()
	complaint.Version = 1
	complaint.CreatedAt = time.Now()
	complaint.UpdatedAt = complaint.CreatedAt
	stored := *complaint
	r.items[complaint.ID] = &stored
	return nil
}

func (r *memComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[complaint.ID]
	if !ok || stored.Version != complaint.Version {
		return apperrors.NewConcurrentModification("complaint")
	}
	next := *complaint
	next.Version++
	next.UpdatedAt = time.Now()
	r.items[complaint.ID] = &next
	complaint.Version = next.Version
	return nil
}

func (r *memComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *memComplaintRepo) GetActiveByOrder(_ context.Context, orderID string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.Complaint
	for _, stored := range r.items {
		if stored.OrderID != orderID {
			continue
		}
		if stored.InvestigationStatus == domain.InvestigationRejected {
			continue
		}
		if stored.ResolutionType != domain.ResolutionNone {
			continue
		}
		if stored.ReturnStatus == domain.ReturnFailed {
			continue
		}
		if latest == nil || stored.CreatedAt.After(latest.CreatedAt) {
			latest = stored
		}
	}
	if latest == nil {
		return nil, pgx.ErrNoRows
	}
	copied := *latest
	return &copied, nil
}

func (r *memComplaintRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Complaint, error) {
	return r.ListWithFilter(ctx, repository.ComplaintFilter{CustomerID: &customerID, Limit: limit, Offset: offset})
}

func (r *memComplaintRepo) ListWithFilter(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Complaint
	for _, stored := range r.items {
		if filter.CustomerID != nil && stored.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Kind != nil && stored.Kind != *filter.Kind {
			continue
		}
		if filter.InvestigationStatus != nil && stored.InvestigationStatus != *filter.InvestigationStatus {
			continue
		}
		if filter.ReturnStatus != nil && stored.ReturnStatus != *filter.ReturnStatus {
			continue
		}
		result = append(result, *stored)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	return result, nil
}

type memAttemptRepo struct {
	mu    sync.Mutex
	items []*domain.PickupAttempt
}

func newMemAttemptRepo() *memAttemptRepo {
	return &memAttemptRepo{}
}

func (r *memAttemptRepo) Create(_ context.Context, attempt *domain.PickupAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt.ID = uuid.NewString()
	attempt.CreatedAt = time.Now()
	attempt.UpdatedAt = attempt.CreatedAt
	stored := *attempt
	r.items = append(r.items, &stored)
	return nil
}

func (r *memAttemptRepo) Close(_ context.Context, attemptID string, status domain.PickupAttemptStatus, failureReason *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.items {
		if stored.ID == attemptID && stored.Status == domain.PickupAttemptScheduled {
			stored.Status = status
			stored.FailureReason = failureReason
			stored.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memAttemptRepo) LatestOpen(_ context.Context, complaintID string) (*domain.PickupAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.PickupAttempt
	for _, stored := range r.items {
		if stored.ComplaintID != complaintID || stored.Status != domain.PickupAttemptScheduled {
			continue
		}
		if latest == nil || stored.AttemptNumber > latest.AttemptNumber {
			latest = stored
		}
	}
	if latest == nil {
		return nil, pgx.ErrNoRows
	}
	copied := *latest
	return &copied, nil
}

func (r *memAttemptRepo) History(_ context.Context, complaintID string) ([]domain.PickupAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.PickupAttempt
	for _, stored := range r.items {
		if stored.ComplaintID == complaintID {
			result = append(result, *stored)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AttemptNumber < result[j].AttemptNumber })
	return result, nil
}

type memRefundRepo struct {
	mu    sync.Mutex
	items map[string]*domain.RefundRequest
}

func newMemRefundRepo() *memRefundRepo {
	return &memRefundRepo{items: map[string]*domain.RefundRequest{}}
}

func (r *memRefundRepo) Create(_ context.Context, request *domain.RefundRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	request.ID = uuid.NewString()
	request.Version = 1
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	stored := *request
	r.items[request.ID] = &stored
	return nil
}

func (r *memRefundRepo) Update(_ context.Context, request *domain.RefundRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[request.ID]
	if !ok || stored.Version != request.Version {
		return apperrors.NewConcurrentModification("refund request")
	}
	next := *request
	next.Version++
	next.UpdatedAt = time.Now()
	r.items[request.ID] = &next
	request.Version = next.Version
	return nil
}

func (r *memRefundRepo) GetByID(_ context.Context, id string) (*domain.RefundRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *memRefundRepo) GetByComplaint(_ context.Context, complaintID string) (*domain.RefundRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.RefundRequest
	for _, stored := range r.items {
		if stored.ComplaintID != complaintID {
			continue
		}
		if latest == nil || stored.CreatedAt.After(latest.CreatedAt) {
			latest = stored
		}
	}
	if latest == nil {
		return nil, pgx.ErrNoRows
	}
	copied := *latest
	return &copied, nil
}

type memOrderRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{items: map[string]*domain.Order{}}
}

func (r *memOrderRepo) add(order domain.Order) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.ComplaintStatus == "" {
		order.ComplaintStatus = domain.OrderComplaintNone
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.items[order.ID] = &order
	return order.ID
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *memOrderRepo) UpdateComplaintStatus(_ context.Context, orderID string, status domain.OrderComplaintStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[orderID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.ComplaintStatus = status
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *memOrderRepo) CreateReplacement(_ context.Context, parent *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parentID := parent.ID
	replacement := &domain.Order{
		ID:              uuid.NewString(),
		CustomerID:      parent.CustomerID,
		TotalAmount:     0,
		PaymentMethod:   parent.PaymentMethod,
		ShippingAddress: parent.ShippingAddress,
		ComplaintStatus: domain.OrderComplaintNone,
		ParentOrderID:   &parentID,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	r.items[replacement.ID] = replacement
	copied := *replacement
	return &copied, nil
}

type memEvidenceRepo struct {
	mu    sync.Mutex
	items []*domain.Evidence
}

func newMemEvidenceRepo() *memEvidenceRepo {
	return &memEvidenceRepo{}
}

func (r *memEvidenceRepo) Create(_ context.Context, evidence *domain.Evidence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	evidence.ID = uuid.NewString()
	evidence.CreatedAt = time.Now()
	stored := *evidence
	r.items = append(r.items, &stored)
	return nil
}

func (r *memEvidenceRepo) ListByComplaint(_ context.Context, complaintID string) ([]domain.Evidence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Evidence
	for _, stored := range r.items {
		if stored.ComplaintID == complaintID {
			result = append(result, *stored)
		}
	}
	return result, nil
}

type memHistoryRepo struct {
	mu    sync.Mutex
	items []*domain.ComplaintHistory
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{}
}

func (r *memHistoryRepo) Create(_ context.Context, history *domain.ComplaintHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	history.ID = uuid.NewString()
	history.CreatedAt = time.Now()
	stored := *history
	r.items = append(r.items, &stored)
	return nil
}

func (r *memHistoryRepo) ListByComplaint(_ context.Context, complaintID string) ([]domain.ComplaintHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ComplaintHistory
	for _, stored := range r.items {
		if stored.ComplaintID == complaintID {
			result = append(result, *stored)
		}
	}
	return result, nil
}

type memCouponRepo struct {
	mu sync.Mutex
	// failCreates forces DUPLICATE_CODE for the next n inserts.
	failCreates int
	byCode      map[string]*domain.Coupon
}

func newMemCouponRepo() *memCouponRepo {
	return &memCouponRepo{byCode: map[string]*domain.Coupon{}}
}

func (r *memCouponRepo) Create(_ context.Context, coupon *domain.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreates > 0 {
		r.failCreates--
		return apperrors.NewDuplicateCode(coupon.Code)
	}
	if _, exists := r.byCode[coupon.Code]; exists {
		return apperrors.NewDuplicateCode(coupon.Code)
	}
	coupon.ID = uuid.NewString()
	coupon.CreatedAt = time.Now()
	stored := *coupon
	r.byCode[coupon.Code] = &stored
	return nil
}

func (r *memCouponRepo) Delete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byCode, code)
	return nil
}

func (r *memCouponRepo) GetByCode(_ context.Context, code string) (*domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byCode[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *memCouponRepo) ListByUser(_ context.Context, userID string) ([]domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Coupon
	for _, stored := range r.byCode {
		if stored.IssuedToUserID == userID {
			result = append(result, *stored)
		}
	}
	return result, nil
}

// flakyComplaintRepo fails the next n versioned updates before delegating.
type flakyComplaintRepo struct {
	*memComplaintRepo
	failUpdates int
}

func (r *flakyComplaintRepo) Update(ctx context.Context, complaint *domain.Complaint) error {
	if r.failUpdates > 0 {
		r.failUpdates--
		return apperrors.NewConcurrentModification("complaint")
	}
	return r.memComplaintRepo.Update(ctx, complaint)
}

type flakyRefundRepo struct {
	*memRefundRepo
	failUpdates int
}

func (r *flakyRefundRepo) Update(ctx context.Context, request *domain.RefundRequest) error {
	if r.failUpdates > 0 {
		r.failUpdates--
		return apperrors.NewConcurrentModification("refund request")
	}
	return r.memRefundRepo.Update(ctx, request)
}

type grantAllClaimer struct{}

func (grantAllClaimer) Claim(context.Context, string) (bool, error) { return true, nil }

type denyFirstClaimer struct {
	mu     sync.Mutex
	denies int
}

func (c *denyFirstClaimer) Claim(context.Context, string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.denies > 0 {
		c.denies--
		return false, nil
	}
	return true, nil
}

// memClaimer grants each key exactly once, like redis SETNX.
type memClaimer struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemClaimer() *memClaimer {
	return &memClaimer{seen: map[string]bool{}}
}

func (c *memClaimer) Claim(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen[key] {
		return false, nil
	}
	c.seen[key] = true
	return true, nil
}
