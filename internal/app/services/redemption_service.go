package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stamply/stamply-core/internal/app/errors"
	"github.com/stamply/stamply-core/internal/app/models"
	"github.com/stamply/stamply-core/internal/app/pkg"
	"github.com/stamply/stamply-core/internal/infrastructures"
	"github.com/stamply/stamply-core/pkg/rewardstate"
	"gorm.io/gorm"
)

const ticketKeyPrefix = "stamply:ticket:"

type RedemptionService struct {
	db                *gorm.DB
	redis             *redis.Client
	validator         *infrastructures.Validator
	rewardService     *RewardService
	clientCardService *ClientCardService
	auditService      *AuditService
}

func NewRedemptionService(db *gorm.DB, redis *redis.Client, validator *infrastructures.Validator, rewardService *RewardService, clientCardService *ClientCardService, auditService *AuditService) *RedemptionService {
	return &RedemptionService{
		db:                db,
		redis:             redis,
		validator:         validator,
		rewardService:     rewardService,
		clientCardService: clientCardService,
		auditService:      auditService,
	}
}

// RedeemReward exchanges stamps for a reward and returns the ticket the
// client shows to staff. Stock decrement, stamp debit, ledger row and the
// redemption record commit in one database transaction; the ticket code is
// parked in redis under its own TTL for single-use validation.
func (s *RedemptionService) RedeemReward(clientID uuid.UUID, req *models.RedeemRewardRequest) (*models.RedemptionTicket, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	businessUUID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid business ID format")
	}

	reward, err := s.rewardService.GetReward(req.RewardID)
	if err != nil {
		return nil, err
	}
	if reward.BusinessID != businessUUID {
		return nil, errors.NewBadRequestError("Reward does not belong to this business")
	}

	var cardState *rewardstate.Card
	card, err := s.clientCardService.GetCard(clientID, businessUUID)
	if err == nil {
		cardState = &rewardstate.Card{AvailableStamps: card.AvailableStamps()}
	} else if appErr, ok := err.(*errors.AppError); !ok || appErr.StatusCode != http.StatusNotFound {
		return nil, err
	}

	elig := rewardstate.CheckEligibility(rewardstate.Reward{
		StampsCost: reward.StampsCost,
		Active:     reward.Active,
		ExpiresAt:  reward.ExpiresAt,
		Stock:      reward.Stock,
	}, cardState, time.Now())

	if !elig.CanRedeem {
		return nil, errors.NewBadRequestError(redemptionDeniedMessage(elig.Reason))
	}

	ticketCode := pkg.RandomCode(3, 4)
	redemption := &models.Redemption{
		RewardID:    reward.ID,
		ClientID:    clientID,
		BusinessID:  businessUUID,
		TicketCode:  ticketCode,
		StampsSpent: reward.StampsCost,
		Status:      models.RedemptionStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.clientCardService.SpendStamps(tx, card, reward.StampsCost, "redemption:"+ticketCode); err != nil {
			return err
		}

		// Decrement stock only for capped rewards; the guard re-checks
		// inside the transaction so two concurrent redemptions cannot take
		// the last unit twice.
		if reward.Stock != nil {
			result := tx.Model(&models.Reward{}).
				Where("id = ? AND stock > 0", reward.ID).
				Update("stock", gorm.Expr("stock - 1"))
			if result.Error != nil {
				return errors.NewInternalServerError(result.Error, "Failed to update reward stock")
			}
			if result.RowsAffected == 0 {
				return errors.NewBadRequestError("Reward is out of stock")
			}
		}

		if err := tx.Create(redemption).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to create redemption")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	ticketTTL := infrastructures.Config.TICKET_TTL
	err = s.redis.Set(context.Background(), ticketKeyPrefix+ticketCode, redemption.ID.String(), ticketTTL).Err()
	if err != nil {
		// The redemption is committed; a missing ticket key only shortens
		// the validation window. Log and keep going.
		logrus.Errorf("failed to store ticket code %s: %v", ticketCode, err)
	}

	s.auditService.LogAudit("redemptions", redemption.ID, models.AuditActionRedeem, nil, redemption, &clientID)

	var business models.Business
	if err := s.db.Where("id = ?", businessUUID).First(&business).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get business")
	}
	var client models.Client
	if err := s.db.Where("id = ?", clientID).First(&client).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get client")
	}

	expiresAt := redemption.RedeemedAt.Add(ticketTTL)
	if redemption.RedeemedAt.IsZero() {
		expiresAt = time.Now().Add(ticketTTL)
	}

	return &models.RedemptionTicket{
		RedemptionCode:    ticketCode,
		RewardName:        reward.Name,
		RewardDescription: reward.Description,
		ClientName:        client.Name,
		BusinessName:      business.Name,
		StampsSpent:       reward.StampsCost,
		RedeemedAt:        redemption.RedeemedAt,
		ExpiresAt:         &expiresAt,
	}, nil
}

// ValidateTicket consumes a ticket code exactly once and marks the
// redemption delivered. This is the staff-facing delivery step.
func (s *RedemptionService) ValidateTicket(businessID uuid.UUID, code string) (*models.Redemption, error) {
	ctx := context.Background()

	// The remaining TTL is read first so the key can be re-parked if the
	// database step fails after the GetDel.
	remaining, err := s.redis.TTL(ctx, ticketKeyPrefix+code).Result()
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to look up ticket")
	}

	payload, err := s.redis.GetDel(ctx, ticketKeyPrefix+code).Result()
	if err == redis.Nil {
		return nil, errors.NewNotFoundError("Ticket invalid or expired")
	}
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to look up ticket")
	}

	var redemption models.Redemption
	err = s.db.Where("ticket_code = ? AND business_id = ?", code, businessID).First(&redemption).Error
	if err != nil {
		// Wrong business or transient failure: either way the client's
		// ticket must survive for the business that actually issued it.
		s.restoreTicket(ctx, code, payload, remaining)
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Redemption not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get redemption")
	}

	now := time.Now()
	redemption.Status = models.RedemptionStatusDelivered
	redemption.DeliveredAt = &now

	if err := s.db.Save(&redemption).Error; err != nil {
		s.restoreTicket(ctx, code, payload, remaining)
		return nil, errors.NewInternalServerError(err, "Failed to update redemption")
	}

	s.auditService.LogAudit("redemptions", redemption.ID, models.AuditActionUpdate, nil, redemption, &businessID)

	return &redemption, nil
}

// restoreTicket re-parks a consumed ticket code after a failed delivery
// step, best effort.
func (s *RedemptionService) restoreTicket(ctx context.Context, code, payload string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := s.redis.Set(ctx, ticketKeyPrefix+code, payload, ttl).Err(); err != nil {
		logrus.Errorf("failed to restore ticket code %s: %v", code, err)
	}
}

// GetClientRedemptions lists a client's redemption history, newest first.
func (s *RedemptionService) GetClientRedemptions(clientID uuid.UUID, limit int) ([]models.Redemption, error) {
	if limit <= 0 {
		limit = 50
	}

	var redemptions []models.Redemption
	err := s.db.Where("client_id = ?", clientID).Order("redeemed_at DESC").Limit(limit).Find(&redemptions).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get redemptions")
	}

	return redemptions, nil
}

func redemptionDeniedMessage(reason rewardstate.Reason) string {
	switch reason {
	case rewardstate.ReasonExpired:
		return "Reward has expired"
	case rewardstate.ReasonOutOfStock:
		return "Reward is out of stock"
	case rewardstate.ReasonInsufficientStamps:
		return "Insufficient stamps"
	case rewardstate.ReasonNoCard:
		return "No stamp card for this business"
	default:
		return "Reward is not available"
	}
}
