package grpc

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/diacaremarket/safe-deal-service/internal/application"
	"github.com/diacaremarket/safe-deal-service/internal/domain"
)

// DealInternalService is the internal lookup surface for sibling services
// (notification, admin tooling) that need a deal snapshot without going
// through the user-facing HTTP API.
type DealInternalService interface {
	GetTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type DealInternalServer struct {
	service *application.Service
}

func NewDealInternalServer(service *application.Service) *DealInternalServer {
	return &DealInternalServer{service: service}
}

func Register(server grpc.ServiceRegistrar, svc DealInternalService) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: "diacaremarket.deal.v1.DealInternalService",
		HandlerType: (*DealInternalService)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetTransaction",
				Handler:    getTransactionHandler(svc),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "proto/deal/v1/deal_internal.proto",
	}, svc)
}

func (s *DealInternalServer) GetTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	rawID := req.GetFields()["transaction_id"].GetStringValue()
	transactionID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "missing or invalid transaction_id")
	}
	rawActor := req.GetFields()["actor_id"].GetStringValue()
	actorID, err := uuid.Parse(rawActor)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "missing or invalid actor_id")
	}

	view, err := s.service.GetTransaction(ctx, actorID, transactionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, status.Error(codes.NotFound, "transaction not found")
		case errors.Is(err, domain.ErrForbidden):
			return nil, status.Error(codes.PermissionDenied, "not a participant")
		default:
			return nil, status.Errorf(codes.Internal, "get transaction: %v", err)
		}
	}

	resp, err := structpb.NewStruct(map[string]any{
		"transaction_id":  view.TransactionID.String(),
		"listing_id":      view.ListingID.String(),
		"buyer_id":        view.BuyerID.String(),
		"seller_id":       view.SellerID.String(),
		"conversation_id": view.ConversationID.String(),
		"amount":          view.Amount,
		"status":          view.Status,
		"created_at":      view.CreatedAt.Unix(),
		"updated_at":      view.UpdatedAt.Unix(),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func getTransactionHandler(svc DealInternalService) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return svc.GetTransaction(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/diacaremarket.deal.v1.DealInternalService/GetTransaction",
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return svc.GetTransaction(ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}
