package models

import (
	"time"

	"github.com/google/uuid"
)

// StampCode is a time-limited, single-use code worth a fixed number of
// stamps. Codes live only in redis under a TTL, so expiry needs no sweeper.
type StampCode struct {
	Code       string    `json:"code"`
	BusinessID uuid.UUID `json:"business_id"`
	Stamps     int       `json:"stamps"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type StampCodeCreateRequest struct {
	Stamps     int `json:"stamps" validate:"required,min=1,max=100"`
	TTLMinutes int `json:"ttl_minutes" validate:"omitempty,min=1,max=1440"`
}

type StampCodeRedeemRequest struct {
	Code string `json:"code" validate:"required,max=32"`
}

type StampCodeRedeemResponse struct {
	Card         ClientCardResponse `json:"card"`
	StampsEarned int                `json:"stamps_earned"`
	BusinessID   uuid.UUID          `json:"business_id"`
}
