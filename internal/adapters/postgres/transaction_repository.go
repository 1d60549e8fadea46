package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diacaremarket/safe-deal-service/internal/domain"
	"github.com/diacaremarket/safe-deal-service/internal/ports"
)

type transactionRepository struct {
	db *gorm.DB
}

func (r *transactionRepository) CreateWithOutboxTx(ctx context.Context, params ports.CreateTransactionTxParams, outboxEvent ports.OutboxEvent) (domain.Transaction, error) {
	var result domain.Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := transactionModel{
			ListingID:      params.ListingID,
			BuyerID:        params.BuyerID,
			SellerID:       params.SellerID,
			ConversationID: params.ConversationID,
			Amount:         params.Amount,
			Status:         string(domain.StatusPending),
			CreatedAt:      params.CreatedAtUTC,
			UpdatedAt:      params.CreatedAtUTC,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: active transaction already exists", domain.ErrConflict)
			}
			return err
		}

		payload := outboxEvent.Payload
		if len(payload) == 0 {
			payload = []byte(`{}`)
		}
		var payloadObj map[string]any
		if err := json.Unmarshal(payload, &payloadObj); err == nil {
			payloadObj["transaction_id"] = rec.TransactionID.String()
			if adjusted, mErr := json.Marshal(payloadObj); mErr == nil {
				payload = adjusted
			}
		}

		outbox := dealOutboxModel{
			OutboxID:     outboxEvent.EventID,
			EventType:    outboxEvent.EventType,
			PartitionKey: rec.TransactionID.String(),
			Payload:      string(payload),
			CreatedAt:    outboxEvent.OccurredAt,
			FirstSeenAt:  outboxEvent.OccurredAt,
		}
		if err := tx.Create(&outbox).Error; err != nil {
			return err
		}

		result = toDomainTransaction(rec)
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return result, nil
}

func (r *transactionRepository) GetByID(ctx context.Context, transactionID uuid.UUID) (domain.Transaction, error) {
	var rec transactionModel
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Transaction{}, domain.ErrNotFound
		}
		return domain.Transaction{}, err
	}
	return toDomainTransaction(rec), nil
}

func (r *transactionRepository) ListByParticipant(ctx context.Context, actorID uuid.UUID, role domain.Role, limit, offset int) ([]domain.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&transactionModel{})
	switch role {
	case domain.RoleBuyer:
		query = query.Where("buyer_id = ?", actorID)
	case domain.RoleSeller:
		query = query.Where("seller_id = ?", actorID)
	default:
		query = query.Where("buyer_id = ? OR seller_id = ?", actorID, actorID)
	}

	var rows []transactionModel
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainTransaction(row))
	}
	return result, nil
}

func (r *transactionRepository) HasActive(ctx context.Context, listingID, buyerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&transactionModel{}).
		Where("listing_id = ?", listingID).
		Where("buyer_id = ?", buyerID).
		Where("status IN ?", activeStatusStrings()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatusTx applies a transition only while the stored status still
// equals fromStatus. RowsAffected distinguishes a vanished record from a
// lost race; the loser gets a conflict, never a silent stale overwrite.
func (r *transactionRepository) UpdateStatusTx(ctx context.Context, transactionID uuid.UUID, fromStatus domain.Status, update ports.TransactionUpdate, events []ports.OutboxEvent) (domain.Transaction, error) {
	var result domain.Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&transactionModel{}).
			Where("transaction_id = ?", transactionID).
			Where("status = ?", string(fromStatus)).
			Updates(map[string]any{
				"status":          string(update.Status),
				"payment_method":  update.PaymentMethod,
				"tracking_number": update.TrackingNumber,
				"cancel_reason":   update.CancelReason,
				"dispute_reason":  update.DisputeReason,
				"dispute_details": update.DisputeDetails,
				"completed_at":    update.CompletedAt,
				"updated_at":      update.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&transactionModel{}).
				Where("transaction_id = ?", transactionID).
				Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return domain.ErrNotFound
			}
			return fmt.Errorf("%w: transaction status changed concurrently", domain.ErrConflict)
		}

		for _, event := range events {
			payload := event.Payload
			if len(payload) == 0 {
				payload = []byte(`{}`)
			}
			outbox := dealOutboxModel{
				OutboxID:     event.EventID,
				EventType:    event.EventType,
				PartitionKey: event.PartitionKey,
				Payload:      string(payload),
				CreatedAt:    event.OccurredAt,
				FirstSeenAt:  event.OccurredAt,
			}
			if err := tx.Create(&outbox).Error; err != nil {
				return err
			}
		}

		var rec transactionModel
		if err := tx.Where("transaction_id = ?", transactionID).Take(&rec).Error; err != nil {
			return err
		}
		result = toDomainTransaction(rec)
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return result, nil
}

func activeStatusStrings() []string {
	statuses := domain.ActiveStatuses()
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
