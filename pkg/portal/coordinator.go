package portal

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrRedemptionInProgress is returned when a redemption is triggered while
// an earlier one has not settled. The duplicate trigger performs no API call.
var ErrRedemptionInProgress = errors.New("a redemption is already in progress")

// RedemptionAPI is the slice of the client the coordinator needs.
type RedemptionAPI interface {
	RedeemReward(ctx context.Context, businessID, rewardID string) (*Ticket, error)
	ListClientCards(ctx context.Context) ([]ClientCard, error)
}

// CoordinatorState tracks where an in-flight redemption is.
type CoordinatorState string

const (
	StateIdle        CoordinatorState = "IDLE"
	StateRedeeming   CoordinatorState = "REDEEMING"
	StateReconciling CoordinatorState = "RECONCILING"
	StateReady       CoordinatorState = "READY"
)

// RedemptionResult is handed back only after the balance refetch settles,
// so the ticket is never shown next to a stale stamp count. Stale marks a
// result whose refetch failed; Cards is the last known set in that case.
type RedemptionResult struct {
	Ticket *Ticket
	Cards  []ClientCard
	Stale  bool
}

// RedemptionCoordinator serializes reward redemptions. Exactly one
// redemption may be in flight; the ticket is revealed only after the
// authoritative card balances have been refetched.
type RedemptionCoordinator struct {
	mu    sync.Mutex
	api   RedemptionAPI
	state CoordinatorState
}

func NewRedemptionCoordinator(api RedemptionAPI) *RedemptionCoordinator {
	return &RedemptionCoordinator{api: api, state: StateIdle}
}

// State returns the current phase for UI display.
func (rc *RedemptionCoordinator) State() CoordinatorState {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.state
}

// Redeem runs one full redemption: spend the stamps, then refetch card
// balances, then reveal the ticket. A failed redeem returns the coordinator
// to idle with the server's message; a failed refetch is non-fatal and
// yields a stale result.
func (rc *RedemptionCoordinator) Redeem(ctx context.Context, businessID, rewardID string) (*RedemptionResult, error) {
	rc.mu.Lock()
	if rc.state == StateRedeeming || rc.state == StateReconciling {
		rc.mu.Unlock()
		return nil, ErrRedemptionInProgress
	}
	rc.state = StateRedeeming
	rc.mu.Unlock()

	ticket, err := rc.api.RedeemReward(ctx, businessID, rewardID)
	if err != nil {
		rc.setState(StateIdle)
		return nil, err
	}

	// The redemption is committed server-side. From here on every path
	// surfaces the ticket.
	rc.setState(StateReconciling)

	result := &RedemptionResult{Ticket: ticket}
	cards, err := rc.api.ListClientCards(ctx)
	if err != nil {
		logrus.Warnf("balance refetch after redemption failed: %v", err)
		result.Stale = true
	} else {
		result.Cards = cards
	}

	rc.setState(StateReady)
	return result, nil
}

// Reset returns the coordinator to idle, for dismissing a shown ticket.
func (rc *RedemptionCoordinator) Reset() {
	rc.setState(StateIdle)
}

func (rc *RedemptionCoordinator) setState(state CoordinatorState) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.state = state
}
