package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/resolution-service/internal/config"
	"github.com/spec-kit/resolution-service/internal/domain"
	"github.com/spec-kit/resolution-service/internal/repository"
	apperrors "github.com/spec-kit/resolution-service/pkg/util"
)

// IncentiveIssuer creates single-use discount credentials. It has no
// knowledge of complaints beyond being told to issue.
type IncentiveIssuer interface {
	IssueApology(ctx context.Context, userID, orderID string) (*domain.Coupon, error)
	IssueStoreCredit(ctx context.Context, userID, orderID string, amount int64) (*domain.Coupon, error)
	// Void discards an issued credential whose parent transition failed to
	// commit, so it never circulates.
	Void(ctx context.Context, code string) error
}

// CodeClaimer serializes code generation across concurrent issuers.
type CodeClaimer interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// IncentiveService issues coupons with collision-safe code generation.
type IncentiveService struct {
	coupons repository.CouponRepository
	claims  CodeClaimer
	logger  *zap.Logger
	cfg     config.WorkflowConfig
}

// NewIncentiveService builds the service.
func NewIncentiveService(coupons repository.CouponRepository, claims CodeClaimer, logger *zap.Logger, cfg config.WorkflowConfig) *IncentiveService {
	return &IncentiveService{coupons: coupons, claims: claims, logger: logger, cfg: cfg}
}

// IssueApology creates the goodwill percentage coupon granted at approval.
func (s *IncentiveService) IssueApology(ctx context.Context, userID, orderID string) (*domain.Coupon, error) {
	return s.issue(ctx, &domain.Coupon{
		Kind:            domain.CouponKindApology,
		DiscountPercent: s.couponPercent(),
		UsageLimit:      1,
		PerUserLimit:    1,
		IssuedToUserID:  userID,
		IssuedForOrder:  orderID,
	}, "SRY")
}

// IssueStoreCredit creates the instant credential backing a gift-card refund.
func (s *IncentiveService) IssueStoreCredit(ctx context.Context, userID, orderID string, amount int64) (*domain.Coupon, error) {
	return s.issue(ctx, &domain.Coupon{
		Kind:           domain.CouponKindStoreCredit,
		CreditAmount:   amount,
		UsageLimit:     1,
		PerUserLimit:   1,
		IssuedToUserID: userID,
		IssuedForOrder: orderID,
	}, "CRD")
}

// Void deletes an issued coupon.
func (s *IncentiveService) Void(ctx context.Context, code string) error {
	return s.coupons.Delete(ctx, code)
}

func (s *IncentiveService) issue(ctx context.Context, coupon *domain.Coupon, prefix string) (*domain.Coupon, error) {
	retries := s.cfg.CodeGenRetries
	if retries <= 0 {
		retries = 5
	}
	coupon.ExpiresAt = timeNow().Add(s.cfg.CouponValidity())

	for attempt := 0; attempt < retries; attempt++ {
		code := generateCode(prefix)
		claimed, err := s.claims.Claim(ctx, "coupon:code:"+code)
		if err != nil {
			s.logger.Warn("code claim check failed; relying on unique index", zap.Error(err))
		} else if !claimed {
			continue
		}

		coupon.Code = code
		if err := s.coupons.Create(ctx, coupon); err != nil {
			if apperrors.IsCode(err, "DUPLICATE_CODE") {
				s.logger.Warn("coupon code collision; regenerating", zap.String("code", code))
				continue
			}
			return nil, err
		}
		return coupon, nil
	}
	return nil, apperrors.NewExhausted("could not generate a unique coupon code")
}

func (s *IncentiveService) couponPercent() int {
	if s.cfg.CouponPercent <= 0 {
		return 20
	}
	return s.cfg.CouponPercent
}

func generateCode(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}
