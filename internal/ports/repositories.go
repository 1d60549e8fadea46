package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/diacaremarket/safe-deal-service/internal/domain"
)

// CreateTransactionTxParams captures atomic deal-creation inputs.
// The outbox event rides in the same parameters so creation and its
// notification are written in one database transaction.
type CreateTransactionTxParams struct {
	ListingID      uuid.UUID
	BuyerID        uuid.UUID
	SellerID       uuid.UUID
	ConversationID uuid.UUID
	Amount         int64
	CreatedAtUTC   time.Time
}

// TransactionUpdate is the full effect of one state-machine edge: the new
// status plus whichever companion fields the edge sets. Nil pointers leave
// stored columns untouched, which keeps the no-partial-write rule honest.
type TransactionUpdate struct {
	Status         domain.Status
	PaymentMethod  *string
	TrackingNumber *string
	CancelReason   *string
	DisputeReason  *string
	DisputeDetails *string
	CompletedAt    *time.Time
	UpdatedAt      time.Time
}

// TransactionRepository defines persistence for deal records.
//
// UpdateStatusTx must apply the update only while the stored status still
// equals fromStatus, returning domain.ErrConflict when a concurrent writer
// got there first. CreateWithOutboxTx must surface the single-active-deal
// unique guard as domain.ErrConflict.
type TransactionRepository interface {
	CreateWithOutboxTx(ctx context.Context, params CreateTransactionTxParams, event OutboxEvent) (domain.Transaction, error)
	GetByID(ctx context.Context, transactionID uuid.UUID) (domain.Transaction, error)
	ListByParticipant(ctx context.Context, actorID uuid.UUID, role domain.Role, limit, offset int) ([]domain.Transaction, error)
	HasActive(ctx context.Context, listingID, buyerID uuid.UUID) (bool, error)
	UpdateStatusTx(ctx context.Context, transactionID uuid.UUID, fromStatus domain.Status, update TransactionUpdate, events []OutboxEvent) (domain.Transaction, error)
}

// ConversationRepository owns the chat-thread binding for deals.
// FindOrCreate is an idempotent upsert on the participant key: concurrent
// first-contact requests must converge on a single conversation row.
type ConversationRepository interface {
	FindOrCreate(ctx context.Context, listingID, buyerID, sellerID uuid.UUID, now time.Time) (domain.Conversation, error)
}

// OutboxEvent is the write-side event payload prior to storage.
// It is adapter-neutral to keep application code independent of broker specifics.
type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

// OutboxRecord represents durable outbox state, including retry/error metadata.
type OutboxRecord struct {
	OutboxID       uuid.UUID
	EventType      string
	PartitionKey   string
	Payload        []byte
	RetryCount     int
	LastError      *string
	CreatedAt      time.Time
	PublishedAt    *time.Time
	LastErrorAt    *time.Time
	FirstSeenAt    time.Time
	ClaimToken     *string
	ClaimUntil     *time.Time
	DeadLetteredAt *time.Time
}

// OutboxRepository controls publish-retry workflow for deal events.
// This explicit contract enables transactional outbox patterns without leaking DB details.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, claimToken string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
	MarkDeadLettered(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
}
