package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/diacaremarket/safe-deal-service/internal/domain"
)

func toDomainTransaction(row transactionModel) domain.Transaction {
	return domain.Transaction{
		TransactionID:  row.TransactionID,
		ListingID:      row.ListingID,
		BuyerID:        row.BuyerID,
		SellerID:       row.SellerID,
		ConversationID: row.ConversationID,
		Amount:         row.Amount,
		Status:         domain.Status(row.Status),
		PaymentMethod:  row.PaymentMethod,
		TrackingNumber: row.TrackingNumber,
		CancelReason:   row.CancelReason,
		DisputeReason:  row.DisputeReason,
		DisputeDetails: row.DisputeDetails,
		CompletedAt:    row.CompletedAt,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func toDomainConversation(row conversationModel) domain.Conversation {
	return domain.Conversation{
		ConversationID: row.ConversationID,
		ListingID:      row.ListingID,
		BuyerID:        row.BuyerID,
		SellerID:       row.SellerID,
		CreatedAt:      row.CreatedAt,
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
