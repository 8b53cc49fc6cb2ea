package domain

import "time"

// CouponKind separates apology incentives from refund store credits.
type CouponKind string

const (
	CouponKindApology     CouponKind = "APOLOGY"
	CouponKindStoreCredit CouponKind = "STORE_CREDIT"
)

// Coupon is a single-use discount credential. Apology coupons carry a fixed
// percentage; store-credit coupons carry a fixed amount from a refund.
type Coupon struct {
	ID              string
	Code            string
	Kind            CouponKind
	DiscountPercent int
	CreditAmount    int64
	UsageLimit      int
	PerUserLimit    int
	UsedCount       int
	IssuedToUserID  string
	IssuedForOrder  string
	ExpiresAt       time.Time
	CreatedAt       time.Time
}

// Expired reports whether the coupon is past its validity window.
func (c *Coupon) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
