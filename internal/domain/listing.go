package domain

import "github.com/google/uuid"

// Listing is the snapshot of a traded listing as served by the listing
// service. The deal flow only needs ownership, price, and purchasability;
// everything else about listings stays in the listing service.
type Listing struct {
	ListingID uuid.UUID
	SellerID  uuid.UUID
	// PriceMinor is the listed price in minor currency units.
	PriceMinor int64
	Active     bool
}
