package services

import (
	"github.com/google/uuid"
	"github.com/stamply/stamply-core/internal/app/errors"
	"github.com/stamply/stamply-core/internal/app/models"
	"github.com/stamply/stamply-core/internal/infrastructures"
	"gorm.io/gorm"
)

// stampsPerLevel is how many lifetime stamps advance the card one level.
const stampsPerLevel = 50

type ClientCardService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewClientCardService(db *gorm.DB, validator *infrastructures.Validator) *ClientCardService {
	return &ClientCardService{
		db:        db,
		validator: validator,
	}
}

// GetClientCards returns all of a client's cards with the derived available
// balance, newest activity first. This is the reconciliation endpoint the
// portal re-fetches after any mutating action.
func (s *ClientCardService) GetClientCards(clientID uuid.UUID) ([]models.ClientCardResponse, error) {
	var cards []models.ClientCard
	err := s.db.Where("client_id = ?", clientID).Order("updated_at DESC").Find(&cards).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get client cards")
	}

	responses := make([]models.ClientCardResponse, 0, len(cards))
	for i := range cards {
		responses = append(responses, cards[i].ToResponse())
	}

	return responses, nil
}

// GetCard returns the client's card at a business, or a not-found error if
// the client has no stamp history there.
func (s *ClientCardService) GetCard(clientID, businessID uuid.UUID) (*models.ClientCard, error) {
	var card models.ClientCard
	err := s.db.Where("client_id = ? AND business_id = ?", clientID, businessID).First(&card).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("No stamp card for this business")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get client card")
	}

	return &card, nil
}

// EarnStamps credits stamps inside the caller's transaction, creating the
// card on first contact with the business. A ledger row is written in the
// same transaction so balance and history cannot diverge.
func (s *ClientCardService) EarnStamps(tx *gorm.DB, clientID, businessID uuid.UUID, stamps int, reference string) (*models.ClientCard, error) {
	var card models.ClientCard
	err := tx.Where("client_id = ? AND business_id = ?", clientID, businessID).First(&card).Error
	if err == gorm.ErrRecordNotFound {
		card = models.ClientCard{
			ClientID:   clientID,
			BusinessID: businessID,
			Level:      1,
		}
		if err := tx.Create(&card).Error; err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to create client card")
		}
	} else if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get client card")
	}

	card.TotalStamps += stamps
	card.Level = 1 + card.TotalStamps/stampsPerLevel

	if err := tx.Save(&card).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update client card")
	}

	ledger := &models.StampTransaction{
		CardID:    card.ID,
		Type:      models.StampTransactionTypeEarn,
		Stamps:    stamps,
		Reference: &reference,
	}
	if err := tx.Create(ledger).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to record stamp transaction")
	}

	return &card, nil
}

// SpendStamps debits stamps inside the caller's transaction. The server is
// the only place balances are computed; callers must have verified
// eligibility, but the invariant available >= 0 is still enforced here.
func (s *ClientCardService) SpendStamps(tx *gorm.DB, card *models.ClientCard, stamps int, reference string) error {
	if card.AvailableStamps() < stamps {
		return errors.NewBadRequestError("Insufficient stamps")
	}

	card.UsedStamps += stamps

	if err := tx.Save(card).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to update client card")
	}

	ledger := &models.StampTransaction{
		CardID:    card.ID,
		Type:      models.StampTransactionTypeSpend,
		Stamps:    stamps,
		Reference: &reference,
	}
	if err := tx.Create(ledger).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to record stamp transaction")
	}

	return nil
}

// GetCardHistory returns the stamp ledger for one of the client's cards.
func (s *ClientCardService) GetCardHistory(clientID uuid.UUID, cardId string, limit int) ([]models.StampTransaction, error) {
	cardUUID, err := uuid.Parse(cardId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid card ID format")
	}

	var card models.ClientCard
	err = s.db.Where("id = ? AND client_id = ?", cardUUID, clientID).First(&card).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Client card not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get client card")
	}

	if limit <= 0 {
		limit = 50
	}

	var transactions []models.StampTransaction
	err = s.db.Where("card_id = ?", card.ID).Order("created_at DESC").Limit(limit).Find(&transactions).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get stamp transactions")
	}

	return transactions, nil
}
