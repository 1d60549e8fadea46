package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a safe deal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCompleted Status = "completed"
	StatusDisputed  Status = "disputed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a caller-supplied status string.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered,
		StatusCompleted, StatusDisputed, StatusCancelled:
		return Status(raw), nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, raw)
	}
}

// IsActive reports whether a deal in this status still blocks a new deal
// for the same (listing, buyer) pair.
func (s Status) IsActive() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status accepts no further transitions.
// Disputed deals are terminal here; resolution happens outside the service.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusDisputed
}

// ActiveStatuses is the status set covered by the single-active-deal guard.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusPaid, StatusShipped, StatusDelivered}
}

// Role identifies which side of the deal an actor is on.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	// RoleEither marks transitions available to both participants.
	RoleEither Role = "either"
)

// ParseRoleFilter validates the optional role query filter.
// Empty input means "both sides".
func ParseRoleFilter(raw string) (Role, error) {
	switch raw {
	case "":
		return "", nil
	case string(RoleBuyer):
		return RoleBuyer, nil
	case string(RoleSeller):
		return RoleSeller, nil
	default:
		return "", fmt.Errorf("%w: role must be buyer or seller", ErrInvalidInput)
	}
}

// Transaction is the escrow record coordinating one buyer, one seller,
// one listing, and the chat thread backing the deal. Identity fields and
// the amount are immutable after creation; only the state machine mutates
// the record.
type Transaction struct {
	TransactionID  uuid.UUID
	ListingID      uuid.UUID
	BuyerID        uuid.UUID
	SellerID       uuid.UUID
	ConversationID uuid.UUID
	// Amount is the agreed deal value in minor currency units.
	Amount         int64
	Status         Status
	PaymentMethod  *string
	TrackingNumber *string
	CancelReason   *string
	DisputeReason  *string
	DisputeDetails *string
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RoleOf resolves the actor's side of the deal.
// The zero Role means the actor is not a participant.
func (t Transaction) RoleOf(actorID uuid.UUID) Role {
	switch actorID {
	case t.BuyerID:
		return RoleBuyer
	case t.SellerID:
		return RoleSeller
	default:
		return ""
	}
}

// TransitionPayload carries the optional and required companion fields of a
// status change. Fields irrelevant to the requested edge are ignored.
type TransitionPayload struct {
	PaymentMethod  string
	TrackingNumber string
	CancelReason   string
	DisputeReason  string
	DisputeDetails string
}

// transition is one edge of the deal state machine: who may take it and
// whether it demands a payload.
type transition struct {
	actor          Role
	requiresReason bool
}

// transitions is the full edge table. Encoding the machine as data keeps
// every rule in one place and lets tests enumerate the matrix exhaustively.
var transitions = map[Status]map[Status]transition{
	StatusPending: {
		StatusPaid:      {actor: RoleBuyer},
		StatusCancelled: {actor: RoleEither},
	},
	StatusPaid: {
		StatusShipped:   {actor: RoleSeller},
		StatusCancelled: {actor: RoleEither},
		StatusDisputed:  {actor: RoleEither, requiresReason: true},
	},
	StatusShipped: {
		StatusDelivered: {actor: RoleBuyer},
		StatusDisputed:  {actor: RoleEither, requiresReason: true},
	},
	StatusDelivered: {
		StatusCompleted: {actor: RoleBuyer},
		StatusDisputed:  {actor: RoleEither, requiresReason: true},
	},
}

// CanDispute reports whether a dispute may be raised from the given status.
func CanDispute(from Status) bool {
	edge, ok := transitions[from][StatusDisputed]
	return ok && edge.requiresReason
}

// ValidateTransition checks one requested edge against the table. Order of
// checks matters for error fidelity: an impossible edge is an invalid
// transition regardless of who asks; a possible edge taken by the wrong
// participant is forbidden; a dispute without a reason is invalid input.
func ValidateTransition(from, to Status, actorRole Role, payload TransitionPayload) error {
	edge, ok := transitions[from][to]
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if edge.actor != RoleEither && edge.actor != actorRole {
		return fmt.Errorf("%w: %s -> %s requires the %s", ErrForbidden, from, to, edge.actor)
	}
	if edge.requiresReason && payload.DisputeReason == "" {
		return fmt.Errorf("%w: dispute reason is required", ErrInvalidInput)
	}
	return nil
}

// ApplyTransition returns the record with the edge's effects applied.
// It assumes ValidateTransition has passed; persistence re-checks the stored
// status so concurrent writers cannot both apply an edge.
func ApplyTransition(t Transaction, to Status, payload TransitionPayload, now time.Time) Transaction {
	t.Status = to
	t.UpdatedAt = now
	switch to {
	case StatusPaid:
		if payload.PaymentMethod != "" {
			t.PaymentMethod = &payload.PaymentMethod
		}
	case StatusShipped:
		if payload.TrackingNumber != "" {
			t.TrackingNumber = &payload.TrackingNumber
		}
	case StatusCancelled:
		if payload.CancelReason != "" {
			t.CancelReason = &payload.CancelReason
		}
	case StatusDisputed:
		t.DisputeReason = &payload.DisputeReason
		if payload.DisputeDetails != "" {
			t.DisputeDetails = &payload.DisputeDetails
		}
	case StatusCompleted:
		completed := now
		t.CompletedAt = &completed
	}
	return t
}
