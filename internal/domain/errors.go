package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404/NOT_FOUND.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden signals the actor is not a participant of the deal,
	// or is the wrong participant for the requested role-gated action.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict covers the duplicate-active-deal guard and a transition
	// that lost the race against a concurrent writer on the same record.
	ErrConflict = errors.New("conflict")
	// ErrInvalidTransition is returned when the requested (from, to) status
	// pair is not an edge of the deal state machine. The record is left unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	// ErrOwnListing prevents a buyer from opening a deal on their own listing.
	ErrOwnListing = errors.New("cannot buy your own listing")
	// ErrListingInactive is returned when the referenced listing exists but
	// is no longer purchasable.
	ErrListingInactive = errors.New("listing is not active")
)
