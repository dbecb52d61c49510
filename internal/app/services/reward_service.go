package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/stamply/stamply-core/internal/app/errors"
	"github.com/stamply/stamply-core/internal/app/models"
	"github.com/stamply/stamply-core/internal/infrastructures"
	"gorm.io/gorm"
)

type RewardService struct {
	db           *gorm.DB
	validator    *infrastructures.Validator
	auditService *AuditService
}

func NewRewardService(db *gorm.DB, validator *infrastructures.Validator, auditService *AuditService) *RewardService {
	return &RewardService{
		db:           db,
		validator:    validator,
		auditService: auditService,
	}
}

func (s *RewardService) CreateReward(businessID uuid.UUID, req *models.RewardCreateRequest) (*models.Reward, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	reward := &models.Reward{
		BusinessID:  businessID,
		Name:        req.Name,
		Description: req.Description,
		StampsCost:  req.StampsCost,
		Active:      req.Active,
		ExpiresAt:   req.ExpiresAt,
		Stock:       req.Stock,
	}

	if err := s.db.Create(reward).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create reward")
	}

	s.auditService.LogAudit("rewards", reward.ID, models.AuditActionCreate, nil, reward, &businessID)

	return reward, nil
}

func (s *RewardService) GetReward(rewardId string) (*models.Reward, error) {
	rewardUUID, err := uuid.Parse(rewardId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid reward ID format")
	}

	var reward models.Reward
	err = s.db.Where("id = ?", rewardUUID).First(&reward).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Reward not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get reward")
	}

	return &reward, nil
}

// GetBusinessRewards lists a business's rewards. When activeOnly is set,
// only rewards that evaluate active right now are returned; this is the
// customer-facing listing. Admin views pass activeOnly=false and render the
// expired/out-of-stock badges themselves.
func (s *RewardService) GetBusinessRewards(businessId string, pagination *models.PaginationRequest, activeOnly bool) (*models.Pagination[[]models.Reward], error) {
	businessUUID, err := uuid.Parse(businessId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid business ID format")
	}

	// Set defaults
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	countQuery := s.db.Model(&models.Reward{}).Where("business_id = ?", businessUUID)
	query := s.db.Where("business_id = ?", businessUUID).Order("created_at DESC")

	if activeOnly {
		now := time.Now()
		activeCond := "active = ? AND (expires_at IS NULL OR expires_at > ?) AND (stock IS NULL OR stock > 0)"
		countQuery = countQuery.Where(activeCond, true, now)
		query = query.Where(activeCond, true, now)
	}

	var totalItems int64
	if err := countQuery.Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count rewards")
	}

	var rewards []models.Reward
	err = query.Limit(pagination.Limit).Offset(offset).Find(&rewards).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get rewards")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.Reward]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      rewards,
	}, nil
}

func (s *RewardService) UpdateReward(businessID uuid.UUID, rewardId string, req *models.RewardUpdateRequest) (*models.Reward, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	reward, err := s.GetReward(rewardId)
	if err != nil {
		return nil, err
	}

	if reward.BusinessID != businessID {
		return nil, errors.NewForbiddenError("Reward belongs to another business")
	}

	oldReward := *reward

	// Update fields if provided
	if req.Name != nil {
		reward.Name = *req.Name
	}
	if req.Description != nil {
		reward.Description = req.Description
	}
	if req.StampsCost != nil {
		reward.StampsCost = *req.StampsCost
	}
	if req.Active != nil {
		reward.Active = *req.Active
	}
	if req.ExpiresAt != nil {
		reward.ExpiresAt = req.ExpiresAt
	}
	if req.Stock != nil {
		reward.Stock = req.Stock
	}

	if err := s.db.Save(reward).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update reward")
	}

	s.auditService.LogAudit("rewards", reward.ID, models.AuditActionUpdate, oldReward, reward, &businessID)

	return reward, nil
}

func (s *RewardService) DeleteReward(businessID uuid.UUID, rewardId string) error {
	reward, err := s.GetReward(rewardId)
	if err != nil {
		return err
	}

	if reward.BusinessID != businessID {
		return errors.NewForbiddenError("Reward belongs to another business")
	}

	if err := s.db.Delete(reward).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to delete reward")
	}

	s.auditService.LogAudit("rewards", reward.ID, models.AuditActionDelete, reward, nil, &businessID)

	return nil
}

// UpdateExpiredRewards flips the admin switch off for rewards whose expiry
// has passed, so listings stay cheap to filter.
func (s *RewardService) UpdateExpiredRewards() error {
	now := time.Now()

	err := s.db.Model(&models.Reward{}).
		Where("active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
		Update("active", false).Error

	if err != nil {
		return errors.NewInternalServerError(err, "Failed to update expired rewards")
	}

	return nil
}
