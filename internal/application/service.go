package application

import (
	"time"

	"github.com/diacaremarket/safe-deal-service/internal/ports"
)

// Config carries the application-level knobs for the deal flow.
type Config struct {
	ListingCacheTTL time.Duration
	DefaultPageSize int
	MaxPageSize     int
}

type Service struct {
	cfg           Config
	transactions  ports.TransactionRepository
	conversations ports.ConversationRepository
	listings      ports.ListingClient
	listingCache  ports.ListingCache
	nowFn         func() time.Time
}

type Dependencies struct {
	Config        Config
	Transactions  ports.TransactionRepository
	Conversations ports.ConversationRepository
	Listings      ports.ListingClient
	ListingCache  ports.ListingCache
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	if cfg.ListingCacheTTL <= 0 {
		cfg.ListingCacheTTL = time.Minute
	}
	return &Service{
		cfg:           cfg,
		transactions:  deps.Transactions,
		conversations: deps.Conversations,
		listings:      deps.Listings,
		listingCache:  deps.ListingCache,
		nowFn:         func() time.Time { return time.Now().UTC() },
	}
}
