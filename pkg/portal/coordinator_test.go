package portal

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu        sync.Mutex
	calls     []string
	ticket    *Ticket
	redeemErr error
	cards     []ClientCard
	cardsErr  error

	// When set, RedeemReward blocks until released.
	redeemStarted chan struct{}
	redeemRelease chan struct{}
}

func (f *fakeAPI) RedeemReward(ctx context.Context, businessID, rewardID string) (*Ticket, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "redeem")
	f.mu.Unlock()

	if f.redeemStarted != nil {
		close(f.redeemStarted)
		<-f.redeemRelease
	}

	if f.redeemErr != nil {
		return nil, f.redeemErr
	}
	return f.ticket, nil
}

func (f *fakeAPI) ListClientCards(ctx context.Context) ([]ClientCard, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "cards")
	f.mu.Unlock()

	if f.cardsErr != nil {
		return nil, f.cardsErr
	}
	return f.cards, nil
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestRedeemRefetchesBalancesBeforeRevealingTicket(t *testing.T) {
	api := &fakeAPI{
		ticket: &Ticket{RedemptionCode: "ABCD-EFGH-JKLM", RewardName: "Free Coffee"},
		cards:  []ClientCard{{BusinessID: "biz-1", AvailableStamps: 2}},
	}
	rc := NewRedemptionCoordinator(api)

	result, err := rc.Redeem(context.Background(), "biz-1", "reward-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"redeem", "cards"}, api.callLog())
	assert.Equal(t, "ABCD-EFGH-JKLM", result.Ticket.RedemptionCode)
	assert.Equal(t, 2, result.Cards[0].AvailableStamps)
	assert.False(t, result.Stale)
	assert.Equal(t, StateReady, rc.State())
}

func TestRedeemFailureReturnsToIdleWithoutRefetch(t *testing.T) {
	api := &fakeAPI{
		redeemErr: &APIError{StatusCode: 400, Message: "Reward is out of stock"},
	}
	rc := NewRedemptionCoordinator(api)

	result, err := rc.Redeem(context.Background(), "biz-1", "reward-1")
	require.Nil(t, result)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Reward is out of stock", apiErr.Message)

	// The failed redeem must not trigger a balance refetch, and a retry
	// must be possible immediately.
	assert.Equal(t, []string{"redeem"}, api.callLog())
	assert.Equal(t, StateIdle, rc.State())
}

func TestDoubleTriggerPerformsExactlyOneRedeem(t *testing.T) {
	api := &fakeAPI{
		ticket:        &Ticket{RedemptionCode: "AAAA-BBBB-CCCC"},
		redeemStarted: make(chan struct{}),
		redeemRelease: make(chan struct{}),
	}
	rc := NewRedemptionCoordinator(api)

	done := make(chan error, 1)
	go func() {
		_, err := rc.Redeem(context.Background(), "biz-1", "reward-1")
		done <- err
	}()

	<-api.redeemStarted

	_, err := rc.Redeem(context.Background(), "biz-1", "reward-1")
	assert.ErrorIs(t, err, ErrRedemptionInProgress)

	close(api.redeemRelease)
	require.NoError(t, <-done)

	calls := api.callLog()
	redeems := 0
	for _, call := range calls {
		if call == "redeem" {
			redeems++
		}
	}
	assert.Equal(t, 1, redeems)
}

func TestReconcileFailureStillRevealsTicket(t *testing.T) {
	api := &fakeAPI{
		ticket:   &Ticket{RedemptionCode: "AAAA-BBBB-CCCC"},
		cardsErr: errors.New("network down"),
	}
	rc := NewRedemptionCoordinator(api)

	result, err := rc.Redeem(context.Background(), "biz-1", "reward-1")
	require.NoError(t, err)

	// The redemption is committed server-side, so the ticket must surface
	// even though the balance refetch failed.
	assert.Equal(t, "AAAA-BBBB-CCCC", result.Ticket.RedemptionCode)
	assert.True(t, result.Stale)
	assert.Nil(t, result.Cards)
	assert.Equal(t, StateReady, rc.State())
}

func TestResetReturnsToIdle(t *testing.T) {
	api := &fakeAPI{ticket: &Ticket{RedemptionCode: "AAAA-BBBB-CCCC"}}
	rc := NewRedemptionCoordinator(api)

	_, err := rc.Redeem(context.Background(), "biz-1", "reward-1")
	require.NoError(t, err)
	require.Equal(t, StateReady, rc.State())

	rc.Reset()
	assert.Equal(t, StateIdle, rc.State())
}
