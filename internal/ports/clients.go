package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/diacaremarket/safe-deal-service/internal/domain"
)

// ListingClient looks a listing up in the listing service.
// Implementations return domain.ErrNotFound for unknown ids.
type ListingClient interface {
	GetListing(ctx context.Context, listingID uuid.UUID) (domain.Listing, error)
}

// ListingCache is a short-TTL snapshot cache in front of the listing service.
// A nil result with nil error means a miss; callers fall through to the client.
type ListingCache interface {
	Get(ctx context.Context, listingID uuid.UUID) (*domain.Listing, error)
	Put(ctx context.Context, listing domain.Listing, ttl time.Duration) error
}
