package rewardstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }
func intPtr(i int) *int              { return &i }

func TestEvaluateNoConstraints(t *testing.T) {
	state := Evaluate(Reward{Active: true}, now)

	assert.True(t, state.IsActive)
	assert.False(t, state.IsExpired)
	assert.False(t, state.IsOutOfStock)
}

func TestEvaluateNilStockNeverOutOfStock(t *testing.T) {
	for _, active := range []bool{true, false} {
		state := Evaluate(Reward{
			Active:    active,
			ExpiresAt: timePtr(now.Add(-time.Hour)),
		}, now)
		assert.False(t, state.IsOutOfStock)
	}
}

func TestEvaluateExpiry(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt *time.Time
		expired   bool
	}{
		{"future expiry", timePtr(now.Add(time.Minute)), false},
		{"past expiry", timePtr(now.Add(-time.Minute)), true},
		{"expiry exactly now", timePtr(now), true},
		{"no expiry", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Evaluate(Reward{Active: true, ExpiresAt: tt.expiresAt}, now)
			assert.Equal(t, tt.expired, state.IsExpired)
			assert.Equal(t, !tt.expired, state.IsActive)
		})
	}
}

func TestEvaluateStock(t *testing.T) {
	assert.True(t, Evaluate(Reward{Active: true, Stock: intPtr(1)}, now).IsActive)
	assert.True(t, Evaluate(Reward{Active: true, Stock: intPtr(0)}, now).IsOutOfStock)
	assert.False(t, Evaluate(Reward{Active: true, Stock: intPtr(0)}, now).IsActive)
}

func TestEvaluateInactiveIsIndependent(t *testing.T) {
	// Administratively disabled, but neither expired nor out of stock:
	// only IsActive goes false.
	state := Evaluate(Reward{
		Active:    false,
		ExpiresAt: timePtr(now.Add(time.Hour)),
		Stock:     intPtr(5),
	}, now)

	assert.False(t, state.IsActive)
	assert.False(t, state.IsExpired)
	assert.False(t, state.IsOutOfStock)
}

func TestEvaluateAnyGateDisablesActive(t *testing.T) {
	tests := []struct {
		name   string
		reward Reward
	}{
		{"inactive", Reward{Active: false}},
		{"expired", Reward{Active: true, ExpiresAt: timePtr(now.Add(-time.Second))}},
		{"out of stock", Reward{Active: true, Stock: intPtr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Evaluate(tt.reward, now).IsActive)
		})
	}
}

func TestCheckEligibilityNoCard(t *testing.T) {
	elig := CheckEligibility(Reward{Active: true, StampsCost: 0}, nil, now)

	assert.False(t, elig.CanRedeem)
	assert.Equal(t, ReasonNoCard, elig.Reason)
	assert.Zero(t, elig.Deficit)
}

func TestCheckEligibilityDeficit(t *testing.T) {
	elig := CheckEligibility(
		Reward{Active: true, StampsCost: 10},
		&Card{AvailableStamps: 4},
		now,
	)

	assert.False(t, elig.CanRedeem)
	assert.Equal(t, 6, elig.Deficit)
	assert.Equal(t, ReasonInsufficientStamps, elig.Reason)
}

func TestCheckEligibilityExactBalance(t *testing.T) {
	elig := CheckEligibility(
		Reward{Active: true, StampsCost: 5},
		&Card{AvailableStamps: 5},
		now,
	)

	assert.True(t, elig.CanRedeem)
	assert.Zero(t, elig.Deficit)
	assert.Equal(t, ReasonNone, elig.Reason)
}

func TestCheckEligibilityReasonPrecedence(t *testing.T) {
	expired := timePtr(now.Add(-time.Hour))
	empty := intPtr(0)
	poorCard := &Card{AvailableStamps: 1}

	tests := []struct {
		name   string
		reward Reward
		card   *Card
		reason Reason
	}{
		{"expired wins over out of stock", Reward{Active: true, StampsCost: 10, ExpiresAt: expired, Stock: empty}, poorCard, ReasonExpired},
		{"out of stock wins over insufficient", Reward{Active: true, StampsCost: 10, Stock: empty}, poorCard, ReasonOutOfStock},
		{"insufficient wins over no card only with card", Reward{Active: true, StampsCost: 10}, poorCard, ReasonInsufficientStamps},
		{"no card", Reward{Active: true, StampsCost: 10}, nil, ReasonNoCard},
		{"administratively inactive", Reward{Active: false, StampsCost: 1}, &Card{AvailableStamps: 10}, ReasonInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elig := CheckEligibility(tt.reward, tt.card, now)
			assert.False(t, elig.CanRedeem)
			assert.Equal(t, tt.reason, elig.Reason)
		})
	}
}
