package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/diacaremarket/safe-deal-service/internal/domain"
)

// RedisListingCache keeps short-lived listing snapshots so deal creation does
// not hit the listing service on every request.
type RedisListingCache struct {
	client *redis.Client
}

// NewRedisListingCache creates a listing snapshot cache backed by Redis.
func NewRedisListingCache(client *redis.Client) *RedisListingCache {
	return &RedisListingCache{client: client}
}

func (c *RedisListingCache) Get(ctx context.Context, listingID uuid.UUID) (*domain.Listing, error) {
	raw, err := c.client.Get(ctx, "deal:listing:"+listingID.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var out domain.Listing
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RedisListingCache) Put(ctx context.Context, listing domain.Listing, ttl time.Duration) error {
	raw, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "deal:listing:"+listing.ListingID.String(), raw, ttl).Err()
}
