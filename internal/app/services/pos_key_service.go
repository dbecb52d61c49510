package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stamply/stamply-core/internal/app/errors"
	"github.com/stamply/stamply-core/pkg/apikey"
	"gorm.io/gorm"
)

// PosKeyService manages point-of-sale API keys for businesses.
type PosKeyService struct {
	db *gorm.DB
}

func NewPosKeyService(db *gorm.DB) *PosKeyService {
	return &PosKeyService{db: db}
}

// CreateKey provisions a new POS key for a business.
func (s *PosKeyService) CreateKey(ctx context.Context, businessID uuid.UUID, keyName string, scopes apikey.ScopeList, rateLimit int, expiresAt *time.Time) (*apikey.APIKey, error) {
	for _, scope := range scopes {
		if !apikey.ValidateScope(scope) {
			return nil, errors.NewBadRequestError("Invalid scope: " + string(scope))
		}
	}

	keyValue, err := apikey.GenerateAPIKey("pos")
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to generate API key")
	}

	key := &apikey.APIKey{
		BusinessID: businessID,
		KeyName:    keyName,
		APIKey:     keyValue,
		Prefix:     "pos",
		Scopes:     scopes,
		RateLimit:  rateLimit,
		ExpiresAt:  expiresAt,
	}

	if err := s.db.WithContext(ctx).Create(key).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create API key")
	}

	return key, nil
}

// GetKey resolves a key by its value, rejecting revoked or expired keys.
func (s *PosKeyService) GetKey(ctx context.Context, keyValue string) (*apikey.APIKey, error) {
	var key apikey.APIKey
	if err := s.db.WithContext(ctx).Where("api_key = ?", keyValue).First(&key).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewUnauthorizedError("Invalid API key")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get API key")
	}

	if !key.IsActive() {
		return nil, errors.NewUnauthorizedError("API key is inactive or expired")
	}

	return &key, nil
}

// TouchKey records when the key was last used. Best effort, off the hot path.
func (s *PosKeyService) TouchKey(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return s.db.WithContext(ctx).
		Model(&apikey.APIKey{}).
		Where("id = ?", id).
		Update("last_used_at", now).Error
}

// ListKeys lists all keys for a business.
func (s *PosKeyService) ListKeys(ctx context.Context, businessID uuid.UUID) ([]apikey.APIKey, error) {
	var keys []apikey.APIKey
	if err := s.db.WithContext(ctx).Where("business_id = ?", businessID).Find(&keys).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to list API keys")
	}
	return keys, nil
}

// RevokeKey soft-deletes a key owned by the business.
func (s *PosKeyService) RevokeKey(ctx context.Context, id uuid.UUID, businessID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		Delete(&apikey.APIKey{})

	if result.Error != nil {
		return errors.NewInternalServerError(result.Error, "Failed to revoke API key")
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("API key not found")
	}
	return nil
}
