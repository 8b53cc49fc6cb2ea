package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/resolution-service/internal/domain"
	apperrors "github.com/spec-kit/resolution-service/pkg/util"
)

// RefundRequestRepository persists refund intents. A partial unique index on
// (complaint_id) WHERE status <> 'COMPLETED' enforces at most one active
// request per complaint.
type RefundRequestRepository interface {
	Create(ctx context.Context, request *domain.RefundRequest) error
	// Update is version-guarded the same way complaints are.
	Update(ctx context.Context, request *domain.RefundRequest) error
	GetByID(ctx context.Context, id string) (*domain.RefundRequest, error)
	GetByComplaint(ctx context.Context, complaintID string) (*domain.RefundRequest, error)
}

type refundRequestRepository struct {
	pool *pgxpool.Pool
}

// NewRefundRequestRepository builds repository.
func NewRefundRequestRepository(pool *pgxpool.Pool) RefundRequestRepository {
	return &refundRequestRepository{pool: pool}
}

func (r *refundRequestRepository) Create(ctx context.Context, request *domain.RefundRequest) error {
	const query = `
        INSERT INTO refund_requests (complaint_id, order_id, customer_id, amount, payment_method, method, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		request.ComplaintID,
		request.OrderID,
		request.CustomerID,
		request.Amount,
		request.PaymentMethod,
		request.Method,
		request.Status,
	).Scan(&request.ID, &request.Version, &request.CreatedAt, &request.UpdatedAt)
}

func (r *refundRequestRepository) Update(ctx context.Context, request *domain.RefundRequest) error {
	var holder, bank, account, ifsc *string
	if request.PaymentDetails != nil {
		holder = &request.PaymentDetails.AccountHolder
		bank = &request.PaymentDetails.BankName
		account = &request.PaymentDetails.AccountNumber
		ifsc = &request.PaymentDetails.IFSC
	}
	const query = `
        UPDATE refund_requests SET method=$1, status=$2, store_credit_code=$3, settlement_ref=$4,
            account_holder=$5, bank_name=$6, account_number=$7, ifsc=$8,
            completed_at=$9, version=version+1, updated_at=NOW()
        WHERE id=$10 AND version=$11`
	cmd, err := r.pool.Exec(ctx, query,
		request.Method,
		request.Status,
		request.StoreCreditCode,
		request.SettlementRef,
		holder,
		bank,
		account,
		ifsc,
		request.CompletedAt,
		request.ID,
		request.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewConcurrentModification("refund request")
	}
	request.Version++
	return nil
}

func (r *refundRequestRepository) GetByID(ctx context.Context, id string) (*domain.RefundRequest, error) {
	const query = refundSelect + ` WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *refundRequestRepository) GetByComplaint(ctx context.Context, complaintID string) (*domain.RefundRequest, error) {
	const query = refundSelect + ` WHERE complaint_id=$1 ORDER BY created_at DESC LIMIT 1`
	return r.fetchSingle(ctx, query, complaintID)
}

const refundSelect = `
        SELECT id, complaint_id, order_id, customer_id, amount, payment_method, method, status,
               store_credit_code, settlement_ref, account_holder, bank_name, account_number, ifsc,
               version, created_at, updated_at, completed_at
        FROM refund_requests`

func (r *refundRequestRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.RefundRequest, error) {
	var request domain.RefundRequest
	var holder, bank, account, ifsc *string
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&request.ID,
		&request.ComplaintID,
		&request.OrderID,
		&request.CustomerID,
		&request.Amount,
		&request.PaymentMethod,
		&request.Method,
		&request.Status,
		&request.StoreCreditCode,
		&request.SettlementRef,
		&holder,
		&bank,
		&account,
		&ifsc,
		&request.Version,
		&request.CreatedAt,
		&request.UpdatedAt,
		&request.CompletedAt,
	); err != nil {
		return nil, err
	}
	if holder != nil {
		request.PaymentDetails = &domain.OriginalPaymentDetails{
			AccountHolder: *holder,
			BankName:      stringOrEmpty(bank),
			AccountNumber: stringOrEmpty(account),
			IFSC:          stringOrEmpty(ifsc),
		}
	}
	return &request, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
