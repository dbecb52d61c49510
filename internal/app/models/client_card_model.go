package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientCard is the per-client, per-business stamp balance. TotalStamps and
// UsedStamps are the stored truth; the available balance is always derived
// so the invariant available = total - used cannot drift.
type ClientCard struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClientID    uuid.UUID      `gorm:"index:idx_client_business,unique" json:"client_id"`
	BusinessID  uuid.UUID      `gorm:"index:idx_client_business,unique" json:"business_id"`
	TotalStamps int            `json:"total_stamps"`
	UsedStamps  int            `json:"used_stamps"`
	Level       int            `json:"level"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

func (c *ClientCard) AvailableStamps() int {
	return c.TotalStamps - c.UsedStamps
}

// ClientCardResponse carries the derived balance so API consumers never
// compute it themselves.
type ClientCardResponse struct {
	ClientCard
	AvailableStamps int `json:"available_stamps"`
}

func (c *ClientCard) ToResponse() ClientCardResponse {
	return ClientCardResponse{
		ClientCard:      *c,
		AvailableStamps: c.AvailableStamps(),
	}
}

type StampTransactionType string

const (
	StampTransactionTypeEarn  StampTransactionType = "EARN"
	StampTransactionTypeSpend StampTransactionType = "SPEND"
)

// StampTransaction is a ledger row written alongside every card mutation.
type StampTransaction struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CardID    uuid.UUID            `gorm:"index" json:"card_id"`
	Type      StampTransactionType `json:"type"`
	Stamps    int                  `json:"stamps"`
	Reference *string              `json:"reference,omitempty"`
	CreatedAt time.Time            `gorm:"autoCreateTime" json:"created_at"`
}
