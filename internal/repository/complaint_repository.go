package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/resolution-service/internal/domain"
	apperrors "github.com/spec-kit/resolution-service/pkg/util"
)

// ComplaintFilter captures operator search parameters.
type ComplaintFilter struct {
	CustomerID          *string
	OrderID             *string
	Kind                *domain.ComplaintKind
	InvestigationStatus *domain.InvestigationStatus
	ReturnStatus        *domain.ReturnStatus
	CreatedFrom         *time.Time
	CreatedTo           *time.Time
	Limit               int
	Offset              int
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	// Update performs an optimistic check-then-write keyed on Version and
	// returns a CONCURRENT_MODIFICATION error when the row moved underneath
	// the caller.
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	GetActiveByOrder(ctx context.Context, orderID string) (*domain.Complaint, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Complaint, error)
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, order_id, customer_id, kind, description, investigation_status, operator_notes,
               resolution_type, return_status, pickup_attempt_number, max_pickup_attempts,
               eligible_for_coupon, coupon_code, refund_request_id, replacement_order_id, version,
               created_at, updated_at, pickup_scheduled_at, pickup_completed_at, pickup_failed_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (order_id, customer_id, kind, description, investigation_status,
            resolution_type, return_status, pickup_attempt_number, max_pickup_attempts, eligible_for_coupon)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.OrderID,
		complaint.CustomerID,
		complaint.Kind,
		complaint.Description,
		complaint.InvestigationStatus,
		complaint.ResolutionType,
		complaint.ReturnStatus,
		complaint.PickupAttemptNumber,
		complaint.MaxPickupAttempts,
		complaint.EligibleForCoupon,
	).Scan(&complaint.ID, &complaint.Version, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET investigation_status=$1, operator_notes=$2, resolution_type=$3,
            return_status=$4, pickup_attempt_number=$5, eligible_for_coupon=$6, coupon_code=$7,
            refund_request_id=$8, replacement_order_id=$9, pickup_scheduled_at=$10,
            pickup_completed_at=$11, pickup_failed_at=$12, version=version+1, updated_at=NOW()
        WHERE id=$13 AND version=$14`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.InvestigationStatus,
		complaint.OperatorNotes,
		complaint.ResolutionType,
		complaint.ReturnStatus,
		complaint.PickupAttemptNumber,
		complaint.EligibleForCoupon,
		complaint.CouponCode,
		complaint.RefundRequestID,
		complaint.ReplacementOrderID,
		complaint.PickupScheduledAt,
		complaint.PickupCompletedAt,
		complaint.PickupFailedAt,
		complaint.ID,
		complaint.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewConcurrentModification("complaint")
	}
	complaint.Version++
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE id=$1`, complaintColumns)
	return r.fetchSingle(ctx, query, id)
}

// GetActiveByOrder returns the order's non-terminal complaint, if any.
func (r *complaintRepository) GetActiveByOrder(ctx context.Context, orderID string) (*domain.Complaint, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM complaints
        WHERE order_id=$1
          AND investigation_status <> 'RESOLVED_FALSE'
          AND resolution_type = 'NONE'
          AND return_status <> 'FAILED'
        ORDER BY created_at DESC LIMIT 1`, complaintColumns)
	return r.fetchSingle(ctx, query, orderID)
}

func (r *complaintRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&complaint.ID,
		&complaint.OrderID,
		&complaint.CustomerID,
		&complaint.Kind,
		&complaint.Description,
		&complaint.InvestigationStatus,
		&complaint.OperatorNotes,
		&complaint.ResolutionType,
		&complaint.ReturnStatus,
		&complaint.PickupAttemptNumber,
		&complaint.MaxPickupAttempts,
		&complaint.EligibleForCoupon,
		&complaint.CouponCode,
		&complaint.RefundRequestID,
		&complaint.ReplacementOrderID,
		&complaint.Version,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
		&complaint.PickupScheduledAt,
		&complaint.PickupCompletedAt,
		&complaint.PickupFailedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Complaint, error) {
	filter := ComplaintFilter{
		CustomerID: &customerID,
		Limit:      limit,
		Offset:     offset,
	}
	return r.ListWithFilter(ctx, filter)
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	base := fmt.Sprintf(`SELECT %s FROM complaints`, complaintColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.OrderID != nil {
		args = append(args, *filter.OrderID)
		clauses = append(clauses, fmt.Sprintf("order_id=$%d", len(args)))
	}
	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		clauses = append(clauses, fmt.Sprintf("kind=$%d", len(args)))
	}
	if filter.InvestigationStatus != nil {
		args = append(args, *filter.InvestigationStatus)
		clauses = append(clauses, fmt.Sprintf("investigation_status=$%d", len(args)))
	}
	if filter.ReturnStatus != nil {
		args = append(args, *filter.ReturnStatus)
		clauses = append(clauses, fmt.Sprintf("return_status=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.OrderID,
			&complaint.CustomerID,
			&complaint.Kind,
			&complaint.Description,
			&complaint.InvestigationStatus,
			&complaint.OperatorNotes,
			&complaint.ResolutionType,
			&complaint.ReturnStatus,
			&complaint.PickupAttemptNumber,
			&complaint.MaxPickupAttempts,
			&complaint.EligibleForCoupon,
			&complaint.CouponCode,
			&complaint.RefundRequestID,
			&complaint.ReplacementOrderID,
			&complaint.Version,
			&complaint.CreatedAt,
			&complaint.UpdatedAt,
			&complaint.PickupScheduledAt,
			&complaint.PickupCompletedAt,
			&complaint.PickupFailedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
