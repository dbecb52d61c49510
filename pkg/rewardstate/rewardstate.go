// Package rewardstate decides whether a loyalty reward can be shown and
// redeemed. It is pure: callers inject the clock and get back plain values,
// so the same rules run server-side (redemption checks) and in portal UIs
// (badges and disabled-button labels).
package rewardstate

import "time"

// Reward is the minimal reward shape the rules need.
//
// ExpiresAt nil means the reward never expires; Stock nil means supply is
// unlimited. Absence is "no constraint", never zero.
type Reward struct {
	StampsCost int
	Active     bool
	ExpiresAt  *time.Time
	Stock      *int
}

// Card is a client's stamp balance at the reward's business.
type Card struct {
	AvailableStamps int
}

// State holds three independent signals. They are not complements of each
// other: an administratively disabled reward can be neither expired nor out
// of stock, and a UI still needs the other two to render the right badge.
type State struct {
	IsActive     bool
	IsExpired    bool
	IsOutOfStock bool
}

// Evaluate computes the reward's state at the given instant. An expiry
// exactly equal to now counts as expired.
func Evaluate(r Reward, now time.Time) State {
	expired := r.ExpiresAt != nil && !r.ExpiresAt.After(now)
	outOfStock := r.Stock != nil && *r.Stock <= 0

	return State{
		IsActive:     r.Active && !expired && !outOfStock,
		IsExpired:    expired,
		IsOutOfStock: outOfStock,
	}
}

// Reason names the single gate blocking redemption, for user-facing labels.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonExpired            Reason = "EXPIRED"
	ReasonOutOfStock         Reason = "OUT_OF_STOCK"
	ReasonInsufficientStamps Reason = "INSUFFICIENT_STAMPS"
	ReasonNoCard             Reason = "NO_CARD"
	ReasonInactive           Reason = "INACTIVE"
)

// Eligibility is the redeemability decision for one reward and one card.
type Eligibility struct {
	CanRedeem bool
	// Deficit is how many stamps are missing; 0 when redeemable or when no
	// card exists to compare against.
	Deficit int
	Reason  Reason
}

// CheckEligibility combines the reward state with the client's card.
// card is nil when the client has no stamp history at the business; that
// alone denies redemption regardless of any hypothetical balance.
//
// Reasons follow a fixed precedence: expired, out of stock, insufficient
// stamps, no card, then administratively inactive.
func CheckEligibility(r Reward, card *Card, now time.Time) Eligibility {
	state := Evaluate(r, now)

	deficit := 0
	if card != nil && card.AvailableStamps < r.StampsCost {
		deficit = r.StampsCost - card.AvailableStamps
	}

	if state.IsActive && card != nil && deficit == 0 {
		return Eligibility{CanRedeem: true}
	}

	reason := ReasonNone
	switch {
	case state.IsExpired:
		reason = ReasonExpired
	case state.IsOutOfStock:
		reason = ReasonOutOfStock
	case card != nil && deficit > 0:
		reason = ReasonInsufficientStamps
	case card == nil:
		reason = ReasonNoCard
	case !r.Active:
		reason = ReasonInactive
	}

	return Eligibility{Deficit: deficit, Reason: reason}
}
