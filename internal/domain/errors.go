package domain

import "errors"

// Failure taxonomy for the order placement flow. Callers branch with
// errors.Is; messages carry the offending product where relevant.
var (
	// ErrInvalidArgument marks malformed caller input, detected before
	// any store access.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a referenced product that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock marks a requested quantity above the
	// available quantity for some line item.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict marks exhaustion of the transaction retry budget
	// under write contention. The whole call may be retried.
	ErrConflict = errors.New("transaction conflict")

	// ErrStoreUnavailable wraps underlying database failures.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrShopMismatch marks an attempt to mix products from different
	// shops in one cart or order batch.
	ErrShopMismatch = errors.New("cart is limited to a single shop")
)
