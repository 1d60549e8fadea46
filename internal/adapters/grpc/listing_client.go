package grpc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/diacaremarket/safe-deal-service/internal/domain"
)

const getListingMethod = "/diacaremarket.listing.v1.ListingInternalService/GetListing"

// ListingServiceClient resolves listing snapshots from the listing service
// over its internal gRPC surface. Payloads ride in structpb the same way the
// platform's other internal services exchange them.
type ListingServiceClient struct {
	conn *grpc.ClientConn
}

// DialListingService opens the client connection to the listing service.
func DialListingService(addr string) (*ListingServiceClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial listing service: %w", err)
	}
	return &ListingServiceClient{conn: conn}, nil
}

func (c *ListingServiceClient) Close() error {
	return c.conn.Close()
}

func (c *ListingServiceClient) GetListing(ctx context.Context, listingID uuid.UUID) (domain.Listing, error) {
	req, err := structpb.NewStruct(map[string]any{
		"listing_id": listingID.String(),
	})
	if err != nil {
		return domain.Listing{}, fmt.Errorf("build request: %w", err)
	}

	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, getListingMethod, req, resp); err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.Listing{}, domain.ErrNotFound
		}
		return domain.Listing{}, fmt.Errorf("get listing: %w", err)
	}

	fields := resp.GetFields()
	sellerID, err := uuid.Parse(fields["seller_id"].GetStringValue())
	if err != nil {
		return domain.Listing{}, fmt.Errorf("listing response: parse seller_id: %w", err)
	}

	return domain.Listing{
		ListingID:  listingID,
		SellerID:   sellerID,
		PriceMinor: int64(fields["price_minor"].GetNumberValue()),
		Active:     fields["active"].GetBoolValue(),
	}, nil
}
