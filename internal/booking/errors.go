// Package booking implements the reservation engine: the sole write path
// that moves an event's seat map and ticket inventory from one consistent
// state to another.
package booking

import "errors"

// Validation errors: the request itself is malformed or inconsistent.  The
// caller can retry with corrected input.  These are detected before any
// mutation happens.
var (
    // ErrSeatCountMismatch is returned when the number of seat coordinates
    // does not equal the total ticket quantity requested.
    ErrSeatCountMismatch = errors.New("seat count does not match ticket quantity")
    // ErrDuplicateSeat is returned when the same coordinate appears twice
    // in one checkout.
    ErrDuplicateSeat = errors.New("duplicate seat coordinate")
    // ErrNoTickets is returned when a checkout requests no tickets at all.
    ErrNoTickets = errors.New("no tickets requested")
    // ErrZeroQuantity is returned when a ticket line requests a quantity
    // of zero.
    ErrZeroQuantity = errors.New("ticket quantity must be positive")
    // ErrUnknownTicketType is returned when a requested ticket type does
    // not belong to the target event.
    ErrUnknownTicketType = errors.New("unknown ticket type")
)

// Conflict errors: the selection was valid when the user made it but is no
// longer satisfiable at commit time.  The whole checkout is rejected with
// no partial effect; the user must re-select.
var (
    // ErrSeatUnavailable is returned when a chosen seat is already
    // reserved, or does not exist on the event's grid.
    ErrSeatUnavailable = errors.New("seat no longer available")
    // ErrInsufficientTickets is returned when a ticket type has fewer
    // remaining tickets than requested.
    ErrInsufficientTickets = errors.New("insufficient tickets remaining")
)

// Eligibility errors: the action is not permitted, and resubmitting the
// same request will not change that.
var (
    // ErrNotCancellable is returned when cancellation is attempted inside
    // the configured window before the event starts.
    ErrNotCancellable = errors.New("order can no longer be cancelled")
    // ErrAlreadyCancelled is returned when cancelling an order twice.
    ErrAlreadyCancelled = errors.New("order already cancelled")
)

// Lookup / ownership errors.
var (
    // ErrEventNotFound is returned when the target event does not exist or
    // is not open for booking.
    ErrEventNotFound = errors.New("event not found")
    // ErrOrderNotFound is returned when the order does not exist.
    ErrOrderNotFound = errors.New("order not found")
    // ErrForbidden is returned when the order belongs to a different user.
    ErrForbidden = errors.New("forbidden")
)

// IsValidation reports whether err is a validation failure the caller can
// fix by correcting the request.
func IsValidation(err error) bool {
    return errors.Is(err, ErrSeatCountMismatch) ||
        errors.Is(err, ErrDuplicateSeat) ||
        errors.Is(err, ErrNoTickets) ||
        errors.Is(err, ErrZeroQuantity) ||
        errors.Is(err, ErrUnknownTicketType)
}

// IsConflict reports whether err means the selection is no longer
// available and the user should re-select.
func IsConflict(err error) bool {
    return errors.Is(err, ErrSeatUnavailable) || errors.Is(err, ErrInsufficientTickets)
}

// IsEligibility reports whether err means the action is not permitted for
// this order in its current state.
func IsEligibility(err error) bool {
    return errors.Is(err, ErrNotCancellable) || errors.Is(err, ErrAlreadyCancelled)
}
