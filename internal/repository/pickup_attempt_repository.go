package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/resolution-service/internal/domain"
)

// PickupAttemptRepository is the append-only collection ledger. Attempts are
// created when a pickup is scheduled and closed exactly once; closed rows are
// never touched again.
type PickupAttemptRepository interface {
	Create(ctx context.Context, attempt *domain.PickupAttempt) error
	// Close marks the open attempt completed or failed. It only matches rows
	// still in SCHEDULED state, so a replayed close finds nothing.
	Close(ctx context.Context, attemptID string, status domain.PickupAttemptStatus, failureReason *string) error
	LatestOpen(ctx context.Context, complaintID string) (*domain.PickupAttempt, error)
	History(ctx context.Context, complaintID string) ([]domain.PickupAttempt, error)
}

type pickupAttemptRepository struct {
	pool *pgxpool.Pool
}

// NewPickupAttemptRepository builds repository.
func NewPickupAttemptRepository(pool *pgxpool.Pool) PickupAttemptRepository {
	return &pickupAttemptRepository{pool: pool}
}

func (r *pickupAttemptRepository) Create(ctx context.Context, attempt *domain.PickupAttempt) error {
	const query = `
        INSERT INTO pickup_attempts (complaint_id, attempt_number, scheduled_date, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		attempt.ComplaintID,
		attempt.AttemptNumber,
		attempt.ScheduledDate,
		attempt.Status,
	).Scan(&attempt.ID, &attempt.CreatedAt, &attempt.UpdatedAt)
}

func (r *pickupAttemptRepository) Close(ctx context.Context, attemptID string, status domain.PickupAttemptStatus, failureReason *string) error {
	const query = `
        UPDATE pickup_attempts SET status=$1, failure_reason=$2, updated_at=NOW()
        WHERE id=$3 AND status='SCHEDULED'`
	cmd, err := r.pool.Exec(ctx, query, status, failureReason, attemptID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pickupAttemptRepository) LatestOpen(ctx context.Context, complaintID string) (*domain.PickupAttempt, error) {
	const query = `
        SELECT id, complaint_id, attempt_number, scheduled_date, status, failure_reason, created_at, updated_at
        FROM pickup_attempts WHERE complaint_id=$1 AND status='SCHEDULED'
        ORDER BY attempt_number DESC LIMIT 1`
	var attempt domain.PickupAttempt
	if err := r.pool.QueryRow(ctx, query, complaintID).Scan(
		&attempt.ID,
		&attempt.ComplaintID,
		&attempt.AttemptNumber,
		&attempt.ScheduledDate,
		&attempt.Status,
		&attempt.FailureReason,
		&attempt.CreatedAt,
		&attempt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *pickupAttemptRepository) History(ctx context.Context, complaintID string) ([]domain.PickupAttempt, error) {
	const query = `
        SELECT id, complaint_id, attempt_number, scheduled_date, status, failure_reason, created_at, updated_at
        FROM pickup_attempts WHERE complaint_id=$1 ORDER BY attempt_number ASC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PickupAttempt
	for rows.Next() {
		var attempt domain.PickupAttempt
		if err := rows.Scan(
			&attempt.ID,
			&attempt.ComplaintID,
			&attempt.AttemptNumber,
			&attempt.ScheduledDate,
			&attempt.Status,
			&attempt.FailureReason,
			&attempt.CreatedAt,
			&attempt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attempt)
	}
	return result, rows.Err()
}
