package handler

import (
    "context"

    "github.com/larsholm/event-ticketing/internal/booking"
)

// BookingService is the slice of the reservation engine the HTTP layer
// needs.  Declared here so handler tests can substitute a mock.
type BookingService interface {
    Checkout(ctx context.Context, in booking.CheckoutInput) (*booking.Confirmation, error)
    Cancel(ctx context.Context, orderID, userID uint64) error
}
