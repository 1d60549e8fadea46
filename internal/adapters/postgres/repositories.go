package postgres

import (
	"gorm.io/gorm"

	"github.com/diacaremarket/safe-deal-service/internal/ports"
)

type Repositories struct {
	Transactions  ports.TransactionRepository
	Conversations ports.ConversationRepository
	Outbox        ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Transactions:  &transactionRepository{db: db},
		Conversations: &conversationRepository{db: db},
		Outbox:        &outboxRepository{db: db},
	}
}
