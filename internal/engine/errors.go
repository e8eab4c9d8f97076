package engine

import "errors"

// Admission errors (spec.md §7). None of these ever escape Submit as a
// returned error — Submit is total: every submission is answered by a
// terminal order-update. They exist so tests and logging can name the
// rejection reason.
var (
	// ErrInvalidAmount is raised when amount is missing (zero value) or
	// non-positive. Amounts arrive already parsed; a string that fails to
	// parse is rejected by the caller before Submit.
	ErrInvalidAmount = errors.New("engine: invalid amount")

	// ErrInvalidLimitPrice is raised when a limit order's price is missing
	// (zero value) or non-positive.
	ErrInvalidLimitPrice = errors.New("engine: invalid limit price")

	// ErrRateLimited is raised when admission would exceed MaxOrdersPerSecond
	// in the trailing 1s window.
	ErrRateLimited = errors.New("engine: rate limited")

	// ErrDuplicateOrderID names a submitter bug: two live orders with the
	// same id on the same pair. The engine does not produce this value
	// itself: a duplicate surfaces as book.ErrDuplicateID from AddResting,
	// which matchLimit logs at error level before cancelling the later
	// order. Neither is ever returned to a caller.
	ErrDuplicateOrderID = errors.New("engine: duplicate order id")
)
