package postgres

import (
	"time"

	"github.com/google/uuid"
)

type transactionModel struct {
	TransactionID  uuid.UUID  `gorm:"column:transaction_id;type:uuid;default:gen_random_uuid();primaryKey"`
	ListingID      uuid.UUID  `gorm:"column:listing_id"`
	BuyerID        uuid.UUID  `gorm:"column:buyer_id"`
	SellerID       uuid.UUID  `gorm:"column:seller_id"`
	ConversationID uuid.UUID  `gorm:"column:conversation_id"`
	Amount         int64      `gorm:"column:amount"`
	Status         string     `gorm:"column:status"`
	PaymentMethod  *string    `gorm:"column:payment_method"`
	TrackingNumber *string    `gorm:"column:tracking_number"`
	CancelReason   *string    `gorm:"column:cancel_reason"`
	DisputeReason  *string    `gorm:"column:dispute_reason"`
	DisputeDetails *string    `gorm:"column:dispute_details"`
	CompletedAt    *time.Time `gorm:"column:completed_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (transactionModel) TableName() string { return "transactions" }

type conversationModel struct {
	ConversationID uuid.UUID `gorm:"column:conversation_id;type:uuid;default:gen_random_uuid();primaryKey"`
	ListingID      uuid.UUID `gorm:"column:listing_id"`
	BuyerID        uuid.UUID `gorm:"column:buyer_id"`
	SellerID       uuid.UUID `gorm:"column:seller_id"`
	ParticipantKey string    `gorm:"column:participant_key"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (conversationModel) TableName() string { return "conversations" }

type dealOutboxModel struct {
	OutboxID       uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	PartitionKey   string     `gorm:"column:partition_key"`
	Payload        string     `gorm:"column:payload;type:jsonb"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	FirstSeenAt    time.Time  `gorm:"column:first_seen_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (dealOutboxModel) TableName() string { return "deal_outbox" }
