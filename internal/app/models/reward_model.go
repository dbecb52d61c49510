package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reward is an item a client can exchange stamps for.
//
// ExpiresAt and Stock are deliberately nullable: a nil ExpiresAt means the
// reward never expires, and a nil Stock means supply is unlimited. Every
// consumer must treat absence as "no constraint" rather than zero.
type Reward struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BusinessID  uuid.UUID      `gorm:"index" json:"business_id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	StampsCost  int            `json:"stamps_cost"`
	Active      bool           `json:"active"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	Stock       *int           `json:"stock,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

type RewardCreateRequest struct {
	Name        string     `json:"name" validate:"required,max=255"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	StampsCost  int        `json:"stamps_cost" validate:"min=0"`
	Active      bool       `json:"active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Stock       *int       `json:"stock,omitempty" validate:"omitempty,min=0"`
}

type RewardUpdateRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	StampsCost  *int       `json:"stamps_cost,omitempty" validate:"omitempty,min=0"`
	Active      *bool      `json:"active,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Stock       *int       `json:"stock,omitempty" validate:"omitempty,min=0"`
}
