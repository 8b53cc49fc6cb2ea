package domain

// KindPolicy captures the per-kind branching rules in one place: whether the
// kind routes through a physical pickup, whether approval earns an apology
// coupon, and how many evidence images submission requires.
type KindPolicy struct {
	RequiresPickup    bool
	CouponEligible    bool
	MinEvidenceImages int
}

var kindPolicies = map[ComplaintKind]KindPolicy{
	KindNotReceived: {RequiresPickup: false, CouponEligible: true, MinEvidenceImages: 0},
	KindDamaged:     {RequiresPickup: true, CouponEligible: true, MinEvidenceImages: 1},
	KindReturn:      {RequiresPickup: true, CouponEligible: false, MinEvidenceImages: 0},
	KindReplace:     {RequiresPickup: true, CouponEligible: true, MinEvidenceImages: 0},
	KindWarranty:    {RequiresPickup: true, CouponEligible: true, MinEvidenceImages: 1},
}

// PolicyFor returns the branching rules for a kind. The second result is
// false for unknown kinds.
func PolicyFor(kind ComplaintKind) (KindPolicy, bool) {
	policy, ok := kindPolicies[kind]
	return policy, ok
}

// ValidKind reports whether the kind is one of the five supported categories.
func ValidKind(kind ComplaintKind) bool {
	_, ok := kindPolicies[kind]
	return ok
}
