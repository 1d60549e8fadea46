package unit

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/diacaremarket/safe-deal-service/internal/application"
	"github.com/diacaremarket/safe-deal-service/internal/domain"
	"github.com/diacaremarket/safe-deal-service/internal/ports"
)

func TestCreateTransactionHappyPath(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	listing := f.addListing(150000, true)
	buyer := uuid.New()

	view, err := f.service.CreateTransaction(ctx, buyer, application.CreateTransactionRequest{
		ListingID: listing.ListingID.String(),
		Amount:    150000,
	})
	if err != nil {
		t.Fatalf("create transaction failed: %v", err)
	}
	if view.Status != string(domain.StatusPending) {
		t.Fatalf("expected pending status, got %s", view.Status)
	}
	if view.SellerID != listing.SellerID || view.BuyerID != buyer {
		t.Fatalf("participants not bound from listing")
	}
	if view.ConversationID == uuid.Nil {
		t.Fatalf("expected conversation bound at creation")
	}
	if got := f.transactions.lastEventType(); got != "transaction.created" {
		t.Fatalf("expected transaction.created event, got %q", got)
	}
}

func TestCreateTransactionReusesConversation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	listing := f.addListing(5000, true)
	buyer := uuid.New()

	first, err := f.service.CreateTransaction(ctx, buyer, application.CreateTransactionRequest{
		ListingID: listing.ListingID.String(),
		Amount:    5000,
	})
	if err != nil {
		t.Fatalf("create transaction failed: %v", err)
	}
	if _, err := f.service.UpdateStatus(ctx, buyer, first.TransactionID, application.UpdateStatusRequest{
		Status: "cancelled",
	}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	second, err := f.service.CreateTransaction(ctx, buyer, application.CreateTransactionRequest{
		ListingID: listing.ListingID.String(),
		Amount:    5000,
	})
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if second.ConversationID != first.ConversationID {
		t.Fatalf("expected the existing conversation to be reused")
	}
	if f.conversations.created != 1 {
		t.Fatalf("expected exactly one conversation row, got %d", f.conversations.created)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	listing := f.addListing(5000, true)
	buyer := uuid.New()

	if _, err := f.service.CreateTransaction(ctx, buyer, application.CreateTransactionRequest{
		ListingID: "not-a-uuid",
		Amount:    5000,
	}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for malformed listing id, got %v", err)
	}

	if _, err := f.service.CreateTransaction(ctx, buyer, application.CreateTransactionRequest{
		ListingID: listing.ListingID.String(),
		Amount:    0,
	}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for non-positive amount, got %v", err)
	}

	if _, err := f.service.CreateTransaction(ctx, buyer, application.CreateTransactionRequest{
		ListingID: uuid.NewString(),
		Amount:    5000,
	}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown listing, got %v", err)
	}

	if _, err := f.service.CreateTransaction(ctx, listing.SellerID, application.CreateTransactionRequest{
		ListingID: listing.ListingID.String(),
		Amount:    5000,
	}); !errors.Is(err, domain.ErrOwnListing) {
		t.Fatalf("expected self-purchase rejection, got %v", err)
	}

	inactive := f.addListing(5000, false)
	if _, err := f.service.CreateTransaction(ctx, buyer, application.CreateTransactionRequest{
		ListingID: inactive.ListingID.String(),
		Amount:    5000,
	}); !errors.Is(err, domain.ErrListingInactive) {
		t.Fatalf("expected inactive-listing rejection, got %v", err)
	}
}

func TestCreateTransactionDuplicateActive(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	listing := f.addListing(5000, true)
	buyer := uuid.New()

	first, err := f.service.CreateTransaction(ctx, buyer, application.CreateTransactionRequest{
		ListingID: listing.ListingID.String(),
		Amount:    5000,
	})
	if err != nil {
		t.Fatalf("create transaction failed: %v", err)
	}

	if _, err := f.service.CreateTransaction(ctx, buyer, application.CreateTransactionRequest{
		ListingID: listing.ListingID.String(),
		Amount:    5000,
	}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for duplicate active transaction, got %v", err)
	}

	// A terminal deal releases the (listing, buyer) pair.
	if _, err := f.service.UpdateStatus(ctx, buyer, first.TransactionID, application.UpdateStatusRequest{
		Status:       "cancelled",
		CancelReason: "changed my mind",
	}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := f.service.CreateTransaction(ctx, buyer, application.CreateTransactionRequest{
		ListingID: listing.ListingID.String(),
		Amount:    5000,
	}); err != nil {
		t.Fatalf("expected creation to succeed after cancellation, got %v", err)
	}
}

func TestFullDealFlow(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	listing := f.addListing(150000, true)
	buyer := uuid.New()

	view, err := f.service.CreateTransaction(ctx, buyer, application.CreateTransactionRequest{
		ListingID: listing.ListingID.String(),
		Amount:    150000,
	})
	if err != nil {
		t.Fatalf("create transaction failed: %v", err)
	}
	id := view.TransactionID

	view, err = f.service.UpdateStatus(ctx, buyer, id, application.UpdateStatusRequest{
		Status:        "paid",
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("pay failed: %v", err)
	}
	if view.Status != "paid" || view.PaymentMethod == nil || *view.PaymentMethod != "card" {
		t.Fatalf("payment not recorded: %+v", view)
	}

	view, err = f.service.UpdateStatus(ctx, listing.SellerID, id, application.UpdateStatusRequest{
		Status:         "shipped",
		TrackingNumber: "RA123456789",
	})
	if err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	if view.TrackingNumber == nil || *view.TrackingNumber != "RA123456789" {
		t.Fatalf("tracking number not recorded: %+v", view)
	}

	if _, err := f.service.UpdateStatus(ctx, buyer, id, application.UpdateStatusRequest{
		Status: "completed",
	}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected completion from shipped to be rejected, got %v", err)
	}

	if _, err := f.service.UpdateStatus(ctx, buyer, id, application.UpdateStatusRequest{
		Status: "delivered",
	}); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}

	view, err = f.service.UpdateStatus(ctx, buyer, id, application.UpdateStatusRequest{
		Status: "completed",
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if view.CompletedAt == nil {
		t.Fatalf("expected completed_at to be set")
	}
	if got := f.transactions.lastEventType(); got != "transaction.completed" {
		t.Fatalf("expected transaction.completed event, got %q", got)
	}
}

func TestTransitionMatrix(t *testing.T) {
	t.Parallel()

	type edge struct {
		from  domain.Status
		to    domain.Status
		actor string
	}
	valid := map[edge]bool{
		{domain.StatusPending, domain.StatusPaid, "buyer"}:        true,
		{domain.StatusPaid, domain.StatusShipped, "seller"}:       true,
		{domain.StatusShipped, domain.StatusDelivered, "buyer"}:   true,
		{domain.StatusDelivered, domain.StatusCompleted, "buyer"}: true,
		{domain.StatusPending, domain.StatusCancelled, "buyer"}:   true,
		{domain.StatusPending, domain.StatusCancelled, "seller"}:  true,
		{domain.StatusPaid, domain.StatusCancelled, "buyer"}:      true,
		{domain.StatusPaid, domain.StatusCancelled, "seller"}:     true,
		{domain.StatusPaid, domain.StatusDisputed, "buyer"}:       true,
		{domain.StatusPaid, domain.StatusDisputed, "seller"}:      true,
		{domain.StatusShipped, domain.StatusDisputed, "buyer"}:    true,
		{domain.StatusShipped, domain.StatusDisputed, "seller"}:   true,
		{domain.StatusDelivered, domain.StatusDisputed, "buyer"}:  true,
		{domain.StatusDelivered, domain.StatusDisputed, "seller"}: true,
	}

	all := []domain.Status{
		domain.StatusPending, domain.StatusPaid, domain.StatusShipped,
		domain.StatusDelivered, domain.StatusCompleted, domain.StatusDisputed,
		domain.StatusCancelled,
	}

	for _, from := range all {
		for _, to := range all {
			for _, actor := range []string{"buyer", "seller"} {
				f := newFixture()
				ctx := context.Background()
				record := f.seedTransaction(from)

				actorID := record.BuyerID
				if actor == "seller" {
					actorID = record.SellerID
				}
				_, err := f.service.UpdateStatus(ctx, actorID, record.TransactionID, application.UpdateStatusRequest{
					Status: string(to),
					Reason: "matrix probe reason",
				})

				key := edge{from, to, actor}
				stored, getErr := f.transactions.GetByID(ctx, record.TransactionID)
				if getErr != nil {
					t.Fatalf("refetch failed: %v", getErr)
				}
				if valid[key] {
					if err != nil {
						t.Fatalf("edge %s -> %s by %s should succeed, got %v", from, to, actor, err)
					}
					if stored.Status != to {
						t.Fatalf("edge %s -> %s by %s did not persist, stored %s", from, to, actor, stored.Status)
					}
					continue
				}
				if err == nil {
					t.Fatalf("edge %s -> %s by %s should fail", from, to, actor)
				}
				if stored.Status != from {
					t.Fatalf("failed edge %s -> %s by %s mutated state to %s", from, to, actor, stored.Status)
				}
			}
		}
	}
}

func TestRoleGating(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	record := f.seedTransaction(domain.StatusPending)
	if _, err := f.service.UpdateStatus(ctx, record.SellerID, record.TransactionID, application.UpdateStatusRequest{
		Status: "paid",
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected seller to be forbidden from confirming payment, got %v", err)
	}

	record = f.seedTransaction(domain.StatusPaid)
	if _, err := f.service.UpdateStatus(ctx, record.BuyerID, record.TransactionID, application.UpdateStatusRequest{
		Status: "shipped",
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected buyer to be forbidden from confirming dispatch, got %v", err)
	}

	stranger := uuid.New()
	if _, err := f.service.UpdateStatus(ctx, stranger, record.TransactionID, application.UpdateStatusRequest{
		Status: "shipped",
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected non-participant to be forbidden, got %v", err)
	}
}

func TestFailedTransitionIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	record := f.seedTransaction(domain.StatusDelivered)

	for i := 0; i < 3; i++ {
		if _, err := f.service.UpdateStatus(ctx, record.BuyerID, record.TransactionID, application.UpdateStatusRequest{
			Status: "cancelled",
		}); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected cancel from delivered to fail, got %v", err)
		}
	}
	stored, err := f.transactions.GetByID(ctx, record.TransactionID)
	if err != nil {
		t.Fatalf("refetch failed: %v", err)
	}
	if stored.Status != domain.StatusDelivered {
		t.Fatalf("repeated failed transition mutated state: %s", stored.Status)
	}
}

func TestDisputeLifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	record := f.seedTransaction(domain.StatusPaid)

	if _, err := f.service.CreateDispute(ctx, record.SellerID, record.TransactionID, application.CreateDisputeRequest{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected missing reason to be rejected, got %v", err)
	}

	view, err := f.service.CreateDispute(ctx, record.SellerID, record.TransactionID, application.CreateDisputeRequest{
		Reason:  "item not sent",
		Details: "buyer unreachable for a week",
	})
	if err != nil {
		t.Fatalf("dispute failed: %v", err)
	}
	if view.Status != "disputed" || view.DisputeReason == nil || *view.DisputeReason != "item not sent" {
		t.Fatalf("dispute not recorded: %+v", view)
	}
	if got := f.transactions.lastEventType(); got != "transaction.disputed" {
		t.Fatalf("expected transaction.disputed event, got %q", got)
	}

	// Disputed deals are terminal; every further transition is rejected.
	for _, target := range []string{"paid", "shipped", "delivered", "completed", "cancelled"} {
		if _, err := f.service.UpdateStatus(ctx, record.BuyerID, record.TransactionID, application.UpdateStatusRequest{
			Status: target,
		}); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected transition to %s from disputed to fail, got %v", target, err)
		}
	}
}

func TestDisputeFromPendingRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	record := f.seedTransaction(domain.StatusPending)

	if _, err := f.service.CreateDispute(ctx, record.BuyerID, record.TransactionID, application.CreateDisputeRequest{
		Reason: "too early",
	}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected dispute from pending to be rejected, got %v", err)
	}
}

func TestConcurrentTransitionLoserGetsConflict(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	record := f.seedTransaction(domain.StatusPaid)

	// Simulate a racer cancelling between our fetch and our conditional write.
	f.transactions.afterGet = func() {
		f.transactions.setStatus(record.TransactionID, domain.StatusCancelled)
		f.transactions.afterGet = nil
	}

	if _, err := f.service.UpdateStatus(ctx, record.SellerID, record.TransactionID, application.UpdateStatusRequest{
		Status:         "shipped",
		TrackingNumber: "RA1",
	}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for lost race, got %v", err)
	}

	stored, err := f.transactions.GetByID(ctx, record.TransactionID)
	if err != nil {
		t.Fatalf("refetch failed: %v", err)
	}
	if stored.Status != domain.StatusCancelled {
		t.Fatalf("lost race must not overwrite the racer's transition, stored %s", stored.Status)
	}
}

func TestListTransactions(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	actor := uuid.New()
	other := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	asBuyer := f.seedTransactionAt(domain.StatusPending, actor, uuid.New(), base)
	asSeller := f.seedTransactionAt(domain.StatusPaid, uuid.New(), actor, base.Add(time.Minute))
	f.seedTransactionAt(domain.StatusPending, other, uuid.New(), base.Add(2*time.Minute))

	views, err := f.service.ListTransactions(ctx, actor, application.ListTransactionsQuery{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected both sides of the counter, got %d", len(views))
	}
	if views[0].TransactionID != asSeller.TransactionID || views[1].TransactionID != asBuyer.TransactionID {
		t.Fatalf("expected newest-first ordering")
	}

	buyerViews, err := f.service.ListTransactions(ctx, actor, application.ListTransactionsQuery{Role: "buyer"})
	if err != nil {
		t.Fatalf("list buyer failed: %v", err)
	}
	if len(buyerViews) != 1 || buyerViews[0].TransactionID != asBuyer.TransactionID {
		t.Fatalf("buyer filter returned wrong records")
	}

	sellerViews, err := f.service.ListTransactions(ctx, actor, application.ListTransactionsQuery{Role: "seller"})
	if err != nil {
		t.Fatalf("list seller failed: %v", err)
	}
	if len(sellerViews) != 1 || sellerViews[0].TransactionID != asSeller.TransactionID {
		t.Fatalf("seller filter returned wrong records")
	}

	if _, err := f.service.ListTransactions(ctx, actor, application.ListTransactionsQuery{Role: "admin"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid role filter to be rejected, got %v", err)
	}
}

func TestGetTransactionVisibility(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	record := f.seedTransaction(domain.StatusPending)

	if _, err := f.service.GetTransaction(ctx, record.BuyerID, record.TransactionID); err != nil {
		t.Fatalf("participant fetch failed: %v", err)
	}
	if _, err := f.service.GetTransaction(ctx, uuid.New(), record.TransactionID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected stranger fetch to be forbidden, got %v", err)
	}
	if _, err := f.service.GetTransaction(ctx, record.BuyerID, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected unknown id to be not found, got %v", err)
	}
}

func TestListingSnapshotCache(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	listing := f.addListing(5000, true)

	for i := 0; i < 3; i++ {
		buyer := uuid.New()
		if _, err := f.service.CreateTransaction(ctx, buyer, application.CreateTransactionRequest{
			ListingID: listing.ListingID.String(),
			Amount:    5000,
		}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	if f.listings.calls != 1 {
		t.Fatalf("expected one listing-service call with warm cache, got %d", f.listings.calls)
	}
}

func newFixture() *fixture {
	transactions := &fakeTransactions{byID: map[uuid.UUID]domain.Transaction{}}
	conversations := &fakeConversations{byKey: map[string]domain.Conversation{}}
	listings := &fakeListings{byID: map[uuid.UUID]domain.Listing{}}
	cache := &fakeListingCache{byID: map[uuid.UUID]domain.Listing{}}

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			ListingCacheTTL: time.Minute,
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Transactions:  transactions,
		Conversations: conversations,
		Listings:      listings,
		ListingCache:  cache,
	})

	return &fixture{
		service:       svc,
		transactions:  transactions,
		conversations: conversations,
		listings:      listings,
		cache:         cache,
	}
}

type fixture struct {
	service       *application.Service
	transactions  *fakeTransactions
	conversations *fakeConversations
	listings      *fakeListings
	cache         *fakeListingCache
}

func (f *fixture) addListing(price int64, active bool) domain.Listing {
	listing := domain.Listing{
		ListingID:  uuid.New(),
		SellerID:   uuid.New(),
		PriceMinor: price,
		Active:     active,
	}
	f.listings.byID[listing.ListingID] = listing
	return listing
}

func (f *fixture) seedTransaction(status domain.Status) domain.Transaction {
	return f.seedTransactionAt(status, uuid.New(), uuid.New(), time.Now().UTC())
}

func (f *fixture) seedTransactionAt(status domain.Status, buyerID, sellerID uuid.UUID, createdAt time.Time) domain.Transaction {
	record := domain.Transaction{
		TransactionID:  uuid.New(),
		ListingID:      uuid.New(),
		BuyerID:        buyerID,
		SellerID:       sellerID,
		ConversationID: uuid.New(),
		Amount:         5000,
		Status:         status,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
	f.transactions.mu.Lock()
	f.transactions.byID[record.TransactionID] = record
	f.transactions.mu.Unlock()
	return record
}

type fakeTransactions struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]domain.Transaction
	events   []ports.OutboxEvent
	afterGet func()
}

func (f *fakeTransactions) CreateWithOutboxTx(_ context.Context, params ports.CreateTransactionTxParams, outboxEvent ports.OutboxEvent) (domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.ListingID == params.ListingID && existing.BuyerID == params.BuyerID && existing.Status.IsActive() {
			return domain.Transaction{}, domain.ErrConflict
		}
	}
	record := domain.Transaction{
		TransactionID:  uuid.New(),
		ListingID:      params.ListingID,
		BuyerID:        params.BuyerID,
		SellerID:       params.SellerID,
		ConversationID: params.ConversationID,
		Amount:         params.Amount,
		Status:         domain.StatusPending,
		CreatedAt:      params.CreatedAtUTC,
		UpdatedAt:      params.CreatedAtUTC,
	}
	f.byID[record.TransactionID] = record
	f.events = append(f.events, outboxEvent)
	return record, nil
}

func (f *fakeTransactions) GetByID(_ context.Context, transactionID uuid.UUID) (domain.Transaction, error) {
	f.mu.Lock()
	record, ok := f.byID[transactionID]
	f.mu.Unlock()
	if !ok {
		return domain.Transaction{}, domain.ErrNotFound
	}
	if f.afterGet != nil {
		f.afterGet()
	}
	return record, nil
}

func (f *fakeTransactions) ListByParticipant(_ context.Context, actorID uuid.UUID, role domain.Role, limit, offset int) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Transaction
	for _, record := range f.byID {
		isBuyer := record.BuyerID == actorID
		isSeller := record.SellerID == actorID
		switch role {
		case domain.RoleBuyer:
			if !isBuyer {
				continue
			}
		case domain.RoleSeller:
			if !isSeller {
				continue
			}
		default:
			if !isBuyer && !isSeller {
				continue
			}
		}
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeTransactions) HasActive(_ context.Context, listingID, buyerID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.byID {
		if record.ListingID == listingID && record.BuyerID == buyerID && record.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTransactions) UpdateStatusTx(_ context.Context, transactionID uuid.UUID, fromStatus domain.Status, update ports.TransactionUpdate, events []ports.OutboxEvent) (domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.byID[transactionID]
	if !ok {
		return domain.Transaction{}, domain.ErrNotFound
	}
	if record.Status != fromStatus {
		return domain.Transaction{}, domain.ErrConflict
	}
	record.Status = update.Status
	record.PaymentMethod = update.PaymentMethod
	record.TrackingNumber = update.TrackingNumber
	record.CancelReason = update.CancelReason
	record.DisputeReason = update.DisputeReason
	record.DisputeDetails = update.DisputeDetails
	record.CompletedAt = update.CompletedAt
	record.UpdatedAt = update.UpdatedAt
	f.byID[transactionID] = record
	f.events = append(f.events, events...)
	return record, nil
}

func (f *fakeTransactions) setStatus(transactionID uuid.UUID, status domain.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record := f.byID[transactionID]
	record.Status = status
	f.byID[transactionID] = record
}

func (f *fakeTransactions) lastEventType() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return ""
	}
	return f.events[len(f.events)-1].EventType
}

type fakeConversations struct {
	mu      sync.Mutex
	byKey   map[string]domain.Conversation
	created int
}

func (f *fakeConversations) FindOrCreate(_ context.Context, listingID, buyerID, sellerID uuid.UUID, now time.Time) (domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := domain.ParticipantKey(listingID, buyerID, sellerID)
	if existing, ok := f.byKey[key]; ok {
		return existing, nil
	}
	conversation := domain.Conversation{
		ConversationID: uuid.New(),
		ListingID:      listingID,
		BuyerID:        buyerID,
		SellerID:       sellerID,
		CreatedAt:      now,
	}
	f.byKey[key] = conversation
	f.created++
	return conversation, nil
}

type fakeListings struct {
	byID  map[uuid.UUID]domain.Listing
	calls int
}

func (f *fakeListings) GetListing(_ context.Context, listingID uuid.UUID) (domain.Listing, error) {
	f.calls++
	listing, ok := f.byID[listingID]
	if !ok {
		return domain.Listing{}, domain.ErrNotFound
	}
	return listing, nil
}

type fakeListingCache struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.Listing
}

func (f *fakeListingCache) Get(_ context.Context, listingID uuid.UUID) (*domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listing, ok := f.byID[listingID]
	if !ok {
		return nil, nil
	}
	return &listing, nil
}

func (f *fakeListingCache) Put(_ context.Context, listing domain.Listing, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[listing.ListingID] = listing
	return nil
}
