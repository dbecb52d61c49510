package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stamply/stamply-core/internal/app/errors"
	"github.com/stamply/stamply-core/internal/app/models"
	"github.com/stamply/stamply-core/internal/app/pkg"
	"github.com/stamply/stamply-core/internal/infrastructures"
	"gorm.io/gorm"
)

const stampCodeKeyPrefix = "stamply:stampcode:"

var errCodeCollision = fmt.Errorf("stamp code collision")

// StampCodeService issues and redeems time-limited stamp codes. Codes live
// only in redis under their TTL: expiry is by construction and a consumed
// code is gone atomically, so reuse is impossible.
type StampCodeService struct {
	db                *gorm.DB
	redis             *redis.Client
	validator         *infrastructures.Validator
	clientCardService *ClientCardService
	auditService      *AuditService
}

func NewStampCodeService(db *gorm.DB, redis *redis.Client, validator *infrastructures.Validator, clientCardService *ClientCardService, auditService *AuditService) *StampCodeService {
	return &StampCodeService{
		db:                db,
		redis:             redis,
		validator:         validator,
		clientCardService: clientCardService,
		auditService:      auditService,
	}
}

// IssueCode creates a single-use code worth req.Stamps, valid for the
// requested TTL (default from config).
func (s *StampCodeService) IssueCode(businessID uuid.UUID, req *models.StampCodeCreateRequest) (*models.StampCode, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	ttl := infrastructures.Config.STAMP_CODE_TTL
	if req.TTLMinutes > 0 {
		ttl = time.Duration(req.TTLMinutes) * time.Minute
	}

	ctx := context.Background()
	now := time.Now()

	// Retry on the rare code collision; SETNX loses only to a live code.
	for attempt := 0; attempt < 5; attempt++ {
		stampCode := &models.StampCode{
			Code:       pkg.RandomCode(2, 4),
			BusinessID: businessID,
			Stamps:     req.Stamps,
			IssuedAt:   now,
			ExpiresAt:  now.Add(ttl),
		}

		payload, err := json.Marshal(stampCode)
		if err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to encode stamp code")
		}

		ok, err := s.redis.SetNX(ctx, stampCodeKeyPrefix+stampCode.Code, payload, ttl).Result()
		if err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to store stamp code")
		}
		if ok {
			s.auditService.LogAudit("stamp_codes", uuid.New(), models.AuditActionIssue, nil, stampCode, &businessID)
			return stampCode, nil
		}
	}

	return nil, errors.NewInternalServerError(errCodeCollision, "Failed to generate a unique stamp code")
}

// RedeemCode consumes the code atomically and credits the client's card at
// the issuing business, creating the card on first redemption.
func (s *StampCodeService) RedeemCode(clientID uuid.UUID, req *models.StampCodeRedeemRequest) (*models.StampCodeRedeemResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	ctx := context.Background()
	payload, err := s.redis.GetDel(ctx, stampCodeKeyPrefix+req.Code).Result()
	if err == redis.Nil {
		return nil, errors.NewNotFoundError("Stamp code invalid or expired")
	}
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to look up stamp code")
	}

	var stampCode models.StampCode
	if err := json.Unmarshal([]byte(payload), &stampCode); err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to decode stamp code")
	}

	var card *models.ClientCard
	err = s.db.Transaction(func(tx *gorm.DB) error {
		card, err = s.clientCardService.EarnStamps(tx, clientID, stampCode.BusinessID, stampCode.Stamps, "stamp_code:"+stampCode.Code)
		return err
	})
	if err != nil {
		// The code was already consumed from redis; put it back for its
		// remaining lifetime so a transient failure does not burn it.
		s.restoreCode(ctx, stampCode.Code, payload, restoreTTL(stampCode.ExpiresAt, time.Now()))
		return nil, err
	}

	s.auditService.LogAudit("client_cards", card.ID, models.AuditActionRedeem, nil, card, &clientID)

	return &models.StampCodeRedeemResponse{
		Card:         card.ToResponse(),
		StampsEarned: stampCode.Stamps,
		BusinessID:   stampCode.BusinessID,
	}, nil
}

// restoreCode re-parks a consumed code after a failed credit, best effort.
func (s *StampCodeService) restoreCode(ctx context.Context, code, payload string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := s.redis.Set(ctx, stampCodeKeyPrefix+code, payload, ttl).Err(); err != nil {
		logrus.Errorf("failed to restore stamp code %s: %v", code, err)
	}
}

// restoreTTL is the lifetime left on a consumed code. Zero or negative
// means the code would have expired anyway and must not be restored.
func restoreTTL(expiresAt, now time.Time) time.Duration {
	return expiresAt.Sub(now)
}
