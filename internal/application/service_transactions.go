package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/diacaremarket/safe-deal-service/internal/domain"
	"github.com/diacaremarket/safe-deal-service/internal/ports"
)

// CreateTransaction opens a safe deal on a listing on behalf of the buyer.
// It resolves the listing, rejects self-purchase, enforces the
// single-active-deal rule, binds the chat conversation, and persists the
// pending record together with its creation event.
func (s *Service) CreateTransaction(ctx context.Context, buyerID uuid.UUID, req CreateTransactionRequest) (TransactionView, error) {
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return TransactionView{}, fmt.Errorf("%w: invalid listing_id", domain.ErrInvalidInput)
	}
	if req.Amount <= 0 {
		return TransactionView{}, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}

	listing, err := s.resolveListing(ctx, listingID)
	if err != nil {
		return TransactionView{}, err
	}
	if !listing.Active {
		return TransactionView{}, domain.ErrListingInactive
	}
	if listing.SellerID == buyerID {
		return TransactionView{}, domain.ErrOwnListing
	}

	// Fast pre-check for a friendlier error; the partial unique index in the
	// store is the authoritative guard against racing creations.
	active, err := s.transactions.HasActive(ctx, listingID, buyerID)
	if err != nil {
		return TransactionView{}, err
	}
	if active {
		return TransactionView{}, fmt.Errorf("%w: active transaction already exists", domain.ErrConflict)
	}

	now := s.nowFn()
	conversation, err := s.conversations.FindOrCreate(ctx, listingID, buyerID, listing.SellerID, now)
	if err != nil {
		return TransactionView{}, err
	}

	payload, _ := json.Marshal(map[string]any{
		"transaction_id": nil,
		"listing_id":     listingID,
		"buyer_id":       buyerID,
		"seller_id":      listing.SellerID,
		"amount":         req.Amount,
		"created_at":     now,
	})
	event := ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    "transaction.created",
		PartitionKey: listingID.String(),
		Payload:      payload,
		OccurredAt:   now,
	}

	created, err := s.transactions.CreateWithOutboxTx(ctx, ports.CreateTransactionTxParams{
		ListingID:      listingID,
		BuyerID:        buyerID,
		SellerID:       listing.SellerID,
		ConversationID: conversation.ConversationID,
		Amount:         req.Amount,
		CreatedAtUTC:   now,
	}, event)
	if err != nil {
		return TransactionView{}, err
	}
	return toView(created), nil
}

// UpdateStatus drives one edge of the deal state machine on behalf of the
// actor. Validation happens against the fetched record; the store re-checks
// the stored status atomically so a racing writer loses with a conflict
// instead of silently overwriting an applied transition.
func (s *Service) UpdateStatus(ctx context.Context, actorID, transactionID uuid.UUID, req UpdateStatusRequest) (TransactionView, error) {
	target, err := domain.ParseStatus(req.Status)
	if err != nil {
		return TransactionView{}, err
	}
	payload := domain.TransitionPayload{
		PaymentMethod:  req.PaymentMethod,
		TrackingNumber: req.TrackingNumber,
		CancelReason:   req.CancelReason,
		DisputeReason:  req.Reason,
		DisputeDetails: req.Details,
	}
	return s.applyTransition(ctx, actorID, transactionID, target, payload)
}

// CreateDispute raises a dispute on the deal. Disputes are terminal here;
// resolution is a manual administrative action outside the service.
func (s *Service) CreateDispute(ctx context.Context, actorID, transactionID uuid.UUID, req CreateDisputeRequest) (TransactionView, error) {
	if req.Reason == "" {
		return TransactionView{}, fmt.Errorf("%w: dispute reason is required", domain.ErrInvalidInput)
	}
	return s.applyTransition(ctx, actorID, transactionID, domain.StatusDisputed, domain.TransitionPayload{
		DisputeReason:  req.Reason,
		DisputeDetails: req.Details,
	})
}

func (s *Service) applyTransition(ctx context.Context, actorID, transactionID uuid.UUID, target domain.Status, payload domain.TransitionPayload) (TransactionView, error) {
	record, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return TransactionView{}, err
	}
	role := record.RoleOf(actorID)
	if role == "" {
		return TransactionView{}, fmt.Errorf("%w: not a participant of this transaction", domain.ErrForbidden)
	}
	if err := domain.ValidateTransition(record.Status, target, role, payload); err != nil {
		return TransactionView{}, err
	}

	now := s.nowFn()
	applied := domain.ApplyTransition(record, target, payload, now)
	update := ports.TransactionUpdate{
		Status:         applied.Status,
		PaymentMethod:  applied.PaymentMethod,
		TrackingNumber: applied.TrackingNumber,
		CancelReason:   applied.CancelReason,
		DisputeReason:  applied.DisputeReason,
		DisputeDetails: applied.DisputeDetails,
		CompletedAt:    applied.CompletedAt,
		UpdatedAt:      now,
	}

	updated, err := s.transactions.UpdateStatusTx(ctx, transactionID, record.Status, update, s.transitionEvents(record, applied, actorID))
	if err != nil {
		return TransactionView{}, err
	}
	return toView(updated), nil
}

// transitionEvents builds the notification hooks for a transition. Only
// dispute creation and deal completion notify the other participants.
func (s *Service) transitionEvents(before, after domain.Transaction, actorID uuid.UUID) []ports.OutboxEvent {
	base := map[string]any{
		"transaction_id": after.TransactionID,
		"listing_id":     after.ListingID,
		"buyer_id":       after.BuyerID,
		"seller_id":      after.SellerID,
		"from_status":    string(before.Status),
		"to_status":      string(after.Status),
		"actor_id":       actorID,
	}
	switch after.Status {
	case domain.StatusDisputed:
		if after.DisputeReason != nil {
			base["reason"] = *after.DisputeReason
		}
		payload, _ := json.Marshal(base)
		return []ports.OutboxEvent{{
			EventID:      uuid.New(),
			EventType:    "transaction.disputed",
			PartitionKey: after.TransactionID.String(),
			Payload:      payload,
			OccurredAt:   after.UpdatedAt,
		}}
	case domain.StatusCompleted:
		payload, _ := json.Marshal(base)
		return []ports.OutboxEvent{{
			EventID:      uuid.New(),
			EventType:    "transaction.completed",
			PartitionKey: after.TransactionID.String(),
			Payload:      payload,
			OccurredAt:   after.UpdatedAt,
		}}
	default:
		return nil
	}
}

// ListTransactions returns the actor's deals, newest first, optionally
// restricted to one side of the counter.
func (s *Service) ListTransactions(ctx context.Context, actorID uuid.UUID, query ListTransactionsQuery) ([]TransactionView, error) {
	role, err := domain.ParseRoleFilter(query.Role)
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	page := query.Page
	if page <= 0 {
		page = 1
	}

	records, err := s.transactions.ListByParticipant(ctx, actorID, role, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	views := make([]TransactionView, 0, len(records))
	for _, record := range records {
		views = append(views, toView(record))
	}
	return views, nil
}

// GetTransaction fetches a single deal, visible to its participants only.
func (s *Service) GetTransaction(ctx context.Context, actorID, transactionID uuid.UUID) (TransactionView, error) {
	record, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return TransactionView{}, err
	}
	if record.RoleOf(actorID) == "" {
		return TransactionView{}, fmt.Errorf("%w: not a participant of this transaction", domain.ErrForbidden)
	}
	return toView(record), nil
}

// resolveListing serves listing lookups through the snapshot cache.
// Cache failures degrade to the listing service rather than failing the deal.
func (s *Service) resolveListing(ctx context.Context, listingID uuid.UUID) (domain.Listing, error) {
	if cached, err := s.listingCache.Get(ctx, listingID); err == nil && cached != nil {
		return *cached, nil
	}
	listing, err := s.listings.GetListing(ctx, listingID)
	if err != nil {
		return domain.Listing{}, err
	}
	_ = s.listingCache.Put(ctx, listing, s.cfg.ListingCacheTTL)
	return listing, nil
}
