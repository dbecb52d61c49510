// Package portal is the client SDK for the stamply API. It carries the
// session store, the envelope-decoding REST client with transparent token
// refresh, and the redemption coordinator used by customer-facing UIs.
package portal

import (
	"time"

	"github.com/stamply/stamply-core/pkg/rewardstate"
)

type UserType string

const (
	UserTypeBusiness UserType = "business"
	UserTypeClient   UserType = "client"
)

type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type AuthResponse struct {
	Tokens   Tokens   `json:"tokens"`
	User     User     `json:"user"`
	UserType UserType `json:"user_type"`
}

// Reward mirrors the API's reward shape. ExpiresAt nil means the reward
// never expires; Stock nil means unlimited supply.
type Reward struct {
	ID          string     `json:"id"`
	BusinessID  string     `json:"business_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	StampsCost  int        `json:"stamps_cost"`
	Active      bool       `json:"active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Stock       *int       `json:"stock,omitempty"`
}

// State evaluates the reward's display state at the given instant.
func (r Reward) State(now time.Time) rewardstate.State {
	return rewardstate.Evaluate(r.toRewardState(), now)
}

// EligibilityFor decides redeemability against the client's card at this
// reward's business; card is nil when the client has none.
func (r Reward) EligibilityFor(card *ClientCard, now time.Time) rewardstate.Eligibility {
	var cardState *rewardstate.Card
	if card != nil {
		cardState = &rewardstate.Card{AvailableStamps: card.AvailableStamps}
	}
	return rewardstate.CheckEligibility(r.toRewardState(), cardState, now)
}

func (r Reward) toRewardState() rewardstate.Reward {
	return rewardstate.Reward{
		StampsCost: r.StampsCost,
		Active:     r.Active,
		ExpiresAt:  r.ExpiresAt,
		Stock:      r.Stock,
	}
}

// ClientCard is a stamp balance as reported by the server. The client never
// computes balances; AvailableStamps is taken as-is from the API.
type ClientCard struct {
	ID              string `json:"id"`
	ClientID        string `json:"client_id"`
	BusinessID      string `json:"business_id"`
	TotalStamps     int    `json:"total_stamps"`
	UsedStamps      int    `json:"used_stamps"`
	AvailableStamps int    `json:"available_stamps"`
	Level           int    `json:"level"`
}

// CardFor returns the card at the given business, or nil.
func CardFor(cards []ClientCard, businessID string) *ClientCard {
	for i := range cards {
		if cards[i].BusinessID == businessID {
			return &cards[i]
		}
	}
	return nil
}

// Ticket is the proof-of-redemption artifact. ExpiresAt drives a countdown
// only; expiry is enforced server-side.
type Ticket struct {
	RedemptionCode    string     `json:"redemption_code"`
	RewardName        string     `json:"reward_name"`
	RewardDescription *string    `json:"reward_description,omitempty"`
	ClientName        string     `json:"client_name"`
	BusinessName      string     `json:"business_name"`
	StampsSpent       int        `json:"stamps_spent"`
	RedeemedAt        time.Time  `json:"redeemed_at"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
}

type StampCodeResult struct {
	Card         ClientCard `json:"card"`
	StampsEarned int        `json:"stamps_earned"`
	BusinessID   string     `json:"business_id"`
}

type rewardPage struct {
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"total_pages"`
	TotalItems int      `json:"total_items"`
	HasNext    bool     `json:"has_next"`
	HasPrev    bool     `json:"has_prev"`
	Items      []Reward `json:"items"`
}
