package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stamply/stamply-core/internal/app/errors"
	"github.com/stamply/stamply-core/internal/app/models"
	"github.com/stamply/stamply-core/internal/app/pkg"
	"github.com/stamply/stamply-core/internal/infrastructures"
	"gorm.io/gorm"
)

const refreshKeyPrefix = "stamply:refresh:"

// refreshRecord is what a live refresh token points to in redis.
type refreshRecord struct {
	UserID   uuid.UUID       `json:"user_id"`
	UserType models.UserType `json:"user_type"`
}

type AuthService struct {
	db        *gorm.DB
	redis     *redis.Client
	validator *infrastructures.Validator
}

func NewAuthService(db *gorm.DB, redis *redis.Client, validator *infrastructures.Validator) *AuthService {
	return &AuthService{
		db:        db,
		redis:     redis,
		validator: validator,
	}
}

func (s *AuthService) RegisterBusiness(req *models.RegisterBusinessRequest) (*models.AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var existing models.Business
	err := s.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, errors.NewBadRequestError("Email already registered")
	}

	passwordHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to hash password")
	}

	business := &models.Business{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
	}

	if err := s.db.Create(business).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create business")
	}

	return s.buildAuthResponse(business.ID, business.Email, business.Name, models.UserTypeBusiness)
}

func (s *AuthService) RegisterClient(req *models.RegisterClientRequest) (*models.AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var existing models.Client
	err := s.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, errors.NewBadRequestError("Email already registered")
	}

	passwordHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to hash password")
	}

	client := &models.Client{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
	}

	if err := s.db.Create(client).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create client")
	}

	return s.buildAuthResponse(client.ID, client.Email, client.Name, models.UserTypeClient)
}

func (s *AuthService) LoginBusiness(req *models.LoginRequest) (*models.AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var business models.Business
	err := s.db.Where("email = ?", req.Email).First(&business).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewUnauthorizedError("Invalid email or password")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get business")
	}

	if !pkg.CheckPassword(business.PasswordHash, req.Password) {
		return nil, errors.NewUnauthorizedError("Invalid email or password")
	}

	return s.buildAuthResponse(business.ID, business.Email, business.Name, models.UserTypeBusiness)
}

func (s *AuthService) LoginClient(req *models.LoginRequest) (*models.AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var client models.Client
	err := s.db.Where("email = ?", req.Email).First(&client).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewUnauthorizedError("Invalid email or password")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get client")
	}

	if !pkg.CheckPassword(client.PasswordHash, req.Password) {
		return nil, errors.NewUnauthorizedError("Invalid email or password")
	}

	return s.buildAuthResponse(client.ID, client.Email, client.Name, models.UserTypeClient)
}

// Refresh exchanges a live refresh token for a new token pair. The used
// token is revoked first, so each refresh token rotates exactly once.
func (s *AuthService) Refresh(req *models.RefreshRequest) (*models.AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	ctx := context.Background()
	payload, err := s.redis.GetDel(ctx, refreshKeyPrefix+req.RefreshToken).Result()
	if err == redis.Nil {
		return nil, errors.NewUnauthorizedError("Invalid or expired refresh token")
	}
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to verify refresh token")
	}

	var record refreshRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to decode refresh token record")
	}

	switch record.UserType {
	case models.UserTypeBusiness:
		var business models.Business
		if err := s.db.Where("id = ?", record.UserID).First(&business).Error; err != nil {
			return nil, errors.NewUnauthorizedError("Account no longer exists")
		}
		return s.buildAuthResponse(business.ID, business.Email, business.Name, models.UserTypeBusiness)
	case models.UserTypeClient:
		var client models.Client
		if err := s.db.Where("id = ?", record.UserID).First(&client).Error; err != nil {
			return nil, errors.NewUnauthorizedError("Account no longer exists")
		}
		return s.buildAuthResponse(client.ID, client.Email, client.Name, models.UserTypeClient)
	default:
		return nil, errors.NewUnauthorizedError("Invalid refresh token")
	}
}

// Logout revokes the refresh token. Access tokens stay valid until expiry.
func (s *AuthService) Logout(req *models.LogoutRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	if err := s.redis.Del(context.Background(), refreshKeyPrefix+req.RefreshToken).Err(); err != nil {
		return errors.NewInternalServerError(err, "Failed to revoke refresh token")
	}

	return nil
}

func (s *AuthService) buildAuthResponse(userID uuid.UUID, email, name string, userType models.UserType) (*models.AuthResponse, error) {
	cfg := infrastructures.Config

	accessToken, err := pkg.GenerateAccessToken(cfg.JWT_SECRET, userID, userType, cfg.ACCESS_TOKEN_TTL)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to generate access token")
	}

	refreshToken := fmt.Sprintf("%s.%s", uuid.NewString(), pkg.RandomString(32))
	record, err := json.Marshal(refreshRecord{UserID: userID, UserType: userType})
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to encode refresh token record")
	}

	err = s.redis.Set(context.Background(), refreshKeyPrefix+refreshToken, record, cfg.REFRESH_TOKEN_TTL).Err()
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to store refresh token")
	}

	return &models.AuthResponse{
		Tokens: models.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(cfg.ACCESS_TOKEN_TTL),
		},
		User: models.AuthUser{
			ID:    userID.String(),
			Email: email,
			Name:  name,
		},
		UserType: userType,
	}, nil
}
