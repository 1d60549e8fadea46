package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diacaremarket/safe-deal-service/internal/domain"
)

type conversationRepository struct {
	db *gorm.DB
}

// FindOrCreate is an idempotent upsert on the participant key. Concurrent
// first-contact requests both hit ON CONFLICT DO NOTHING and then read back
// the single surviving row, so no duplicate conversations are created.
func (r *conversationRepository) FindOrCreate(ctx context.Context, listingID, buyerID, sellerID uuid.UUID, now time.Time) (domain.Conversation, error) {
	key := domain.ParticipantKey(listingID, buyerID, sellerID)

	rec := conversationModel{
		ListingID:      listingID,
		BuyerID:        buyerID,
		SellerID:       sellerID,
		ParticipantKey: key,
		CreatedAt:      now,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_key"}},
			DoNothing: true,
		}).
		Create(&rec).Error; err != nil {
		return domain.Conversation{}, err
	}

	var row conversationModel
	if err := r.db.WithContext(ctx).Where("participant_key = ?", key).Take(&row).Error; err != nil {
		return domain.Conversation{}, err
	}
	return toDomainConversation(row), nil
}
