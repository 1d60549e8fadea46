package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the chat thread binding for a deal. One thread exists per
// (listing, participant pair); the deal flow reuses it instead of opening a
// second channel between the same people about the same listing.
type Conversation struct {
	ConversationID uuid.UUID
	ListingID      uuid.UUID
	BuyerID        uuid.UUID
	SellerID       uuid.UUID
	CreatedAt      time.Time
}

// ParticipantKey is the dedup key for a conversation: listing id plus the
// sorted participant ids. Sorting makes the key order-independent so
// concurrent first-contact requests from either side collide on one row.
func ParticipantKey(listingID, a, b uuid.UUID) string {
	lo, hi := a.String(), b.String()
	if hi < lo {
		lo, hi = hi, lo
	}
	return listingID.String() + ":" + lo + ":" + hi
}
