package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/diacaremarket/safe-deal-service/internal/domain"
)

type CreateTransactionRequest struct {
	ListingID string `json:"listing_id"`
	// Amount is the agreed deal value in minor currency units.
	Amount int64 `json:"amount"`
}

type UpdateStatusRequest struct {
	Status         string `json:"status"`
	PaymentMethod  string `json:"payment_method,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	CancelReason   string `json:"cancel_reason,omitempty"`
	Reason         string `json:"reason,omitempty"`
	Details        string `json:"details,omitempty"`
}

type CreateDisputeRequest struct {
	Reason  string `json:"reason"`
	Details string `json:"details,omitempty"`
}

type ListTransactionsQuery struct {
	Role  string
	Page  int
	Limit int
}

// TransactionView is the externally visible deal record.
type TransactionView struct {
	TransactionID  uuid.UUID  `json:"transaction_id"`
	ListingID      uuid.UUID  `json:"listing_id"`
	BuyerID        uuid.UUID  `json:"buyer_id"`
	SellerID       uuid.UUID  `json:"seller_id"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	Amount         int64      `json:"amount"`
	Status         string     `json:"status"`
	PaymentMethod  *string    `json:"payment_method,omitempty"`
	TrackingNumber *string    `json:"tracking_number,omitempty"`
	CancelReason   *string    `json:"cancel_reason,omitempty"`
	DisputeReason  *string    `json:"dispute_reason,omitempty"`
	DisputeDetails *string    `json:"dispute_details,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toView(t domain.Transaction) TransactionView {
	return TransactionView{
		TransactionID:  t.TransactionID,
		ListingID:      t.ListingID,
		BuyerID:        t.BuyerID,
		SellerID:       t.SellerID,
		ConversationID: t.ConversationID,
		Amount:         t.Amount,
		Status:         string(t.Status),
		PaymentMethod:  t.PaymentMethod,
		TrackingNumber: t.TrackingNumber,
		CancelReason:   t.CancelReason,
		DisputeReason:  t.DisputeReason,
		DisputeDetails: t.DisputeDetails,
		CompletedAt:    t.CompletedAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
