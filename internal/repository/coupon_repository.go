package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/resolution-service/internal/domain"
	apperrors "github.com/spec-kit/resolution-service/pkg/util"
)

// CouponRepository persists issued discount credentials. The codes column
// carries a unique index; an insert racing another code wins or surfaces
// DUPLICATE_CODE for the issuer to regenerate.
type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	// Delete removes a coupon whose parent transition never committed.
	Delete(ctx context.Context, code string) error
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Coupon, error)
}

type couponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository builds repository.
func NewCouponRepository(pool *pgxpool.Pool) CouponRepository {
	return &couponRepository{pool: pool}
}

func (r *couponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	const query = `
        INSERT INTO coupons (code, kind, discount_percent, credit_amount, usage_limit, per_user_limit,
            used_count, issued_to_user_id, issued_for_order, expires_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		coupon.Code,
		coupon.Kind,
		coupon.DiscountPercent,
		coupon.CreditAmount,
		coupon.UsageLimit,
		coupon.PerUserLimit,
		coupon.UsedCount,
		coupon.IssuedToUserID,
		coupon.IssuedForOrder,
		coupon.ExpiresAt,
	).Scan(&coupon.ID, &coupon.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewDuplicateCode(coupon.Code)
		}
		return err
	}
	return nil
}

func (r *couponRepository) Delete(ctx context.Context, code string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE code=$1`, code)
	return err
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	const query = `
        SELECT id, code, kind, discount_percent, credit_amount, usage_limit, per_user_limit,
               used_count, issued_to_user_id, issued_for_order, expires_at, created_at
        FROM coupons WHERE code=$1`
	var coupon domain.Coupon
	if err := r.pool.QueryRow(ctx, query, code).Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.Kind,
		&coupon.DiscountPercent,
		&coupon.CreditAmount,
		&coupon.UsageLimit,
		&coupon.PerUserLimit,
		&coupon.UsedCount,
		&coupon.IssuedToUserID,
		&coupon.IssuedForOrder,
		&coupon.ExpiresAt,
		&coupon.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) ListByUser(ctx context.Context, userID string) ([]domain.Coupon, error) {
	const query = `
        SELECT id, code, kind, discount_percent, credit_amount, usage_limit, per_user_limit,
               used_count, issued_to_user_id, issued_for_order, expires_at, created_at
        FROM coupons WHERE issued_to_user_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Coupon
	for rows.Next() {
		var coupon domain.Coupon
		if err := rows.Scan(
			&coupon.ID,
			&coupon.Code,
			&coupon.Kind,
			&coupon.DiscountPercent,
			&coupon.CreditAmount,
			&coupon.UsageLimit,
			&coupon.PerUserLimit,
			&coupon.UsedCount,
			&coupon.IssuedToUserID,
			&coupon.IssuedForOrder,
			&coupon.ExpiresAt,
			&coupon.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, coupon)
	}
	return result, rows.Err()
}
