// Package apikey holds the point-of-sale API key model: keys a business
// provisions for its counter hardware so a register can issue stamp codes
// without a staff login.
package apikey

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope represents an API key permission scope
type Scope string

// Available scopes
const (
	// ScopeRead allows reading rewards and card lookups
	ScopeRead Scope = "READ"
	// ScopeIssue allows issuing stamp codes
	ScopeIssue Scope = "ISSUE"
	// ScopeAdmin allows key management
	ScopeAdmin Scope = "ADMIN"
)

// ScopeList is stored as a JSON column.
type ScopeList []Scope

// APIKey represents a business point-of-sale API key
type APIKey struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BusinessID uuid.UUID      `gorm:"index" json:"business_id"`
	KeyName    string         `json:"key_name"`
	APIKey     string         `gorm:"uniqueIndex" json:"api_key"`
	Prefix     string         `json:"prefix"`
	Scopes     ScopeList      `gorm:"serializer:json" json:"scopes"`
	RateLimit  int            `json:"rate_limit"`
	LastUsedAt *time.Time     `json:"last_used_at"`
	ExpiresAt  *time.Time     `json:"expires_at"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// GenerateAPIKey generates a new API key with the given prefix
func GenerateAPIKey(prefix string) (string, error) {
	// Generate 20 random bytes
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	// Encode to base32 and remove padding
	encoded := base32.StdEncoding.EncodeToString(bytes)
	encoded = strings.ReplaceAll(encoded, "=", "")

	// Format as prefix_encoded
	return prefix + "_" + encoded, nil
}

// ValidateScope checks if a scope is valid
func ValidateScope(scope Scope) bool {
	switch scope {
	case ScopeRead, ScopeIssue, ScopeAdmin:
		return true
	default:
		return false
	}
}

// HasScope checks if an API key has a specific scope
func (k *APIKey) HasScope(scope Scope) bool {
	for _, s := range k.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// IsExpired checks if an API key is expired
func (k *APIKey) IsExpired() bool {
	if k.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*k.ExpiresAt)
}

// IsActive checks if an API key is active (not deleted and not expired)
func (k *APIKey) IsActive() bool {
	return !k.DeletedAt.Valid && !k.IsExpired()
}
