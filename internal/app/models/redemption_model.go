package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RedemptionStatus string

const (
	RedemptionStatusPending   RedemptionStatus = "PENDING"
	RedemptionStatusDelivered RedemptionStatus = "DELIVERED"
)

// Redemption records a client spending stamps on a reward. Delivery happens
// when business staff validate the ticket code.
type Redemption struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RewardID    uuid.UUID        `gorm:"index" json:"reward_id"`
	ClientID    uuid.UUID        `gorm:"index" json:"client_id"`
	BusinessID  uuid.UUID        `gorm:"index" json:"business_id"`
	TicketCode  string           `gorm:"uniqueIndex" json:"ticket_code"`
	StampsSpent int              `json:"stamps_spent"`
	Status      RedemptionStatus `json:"status"`
	RedeemedAt  time.Time        `gorm:"autoCreateTime" json:"redeemed_at"`
	DeliveredAt *time.Time       `json:"delivered_at,omitempty"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"deleted_at"`
}

type RedeemRewardRequest struct {
	BusinessID string `json:"business_id" validate:"required,uuid"`
	RewardID   string `json:"reward_id" validate:"required,uuid"`
}

// RedemptionTicket is the proof-of-redemption shown to business staff.
// ExpiresAt is informational for the client; enforcement is server-side via
// the redis TTL on the ticket code.
type RedemptionTicket struct {
	RedemptionCode    string     `json:"redemption_code"`
	RewardName        string     `json:"reward_name"`
	RewardDescription *string    `json:"reward_description,omitempty"`
	ClientName        string     `json:"client_name"`
	BusinessName      string     `json:"business_name"`
	StampsSpent       int        `json:"stamps_spent"`
	RedeemedAt        time.Time  `json:"redeemed_at"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
}
