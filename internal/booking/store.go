package booking

import (
    "context"
    "time"

    "github.com/larsholm/event-ticketing/internal/model"
)

// SeatRef identifies one seat by its storage position (1-indexed).
type SeatRef struct {
    Row uint32
    Col uint32
}

// CancelInfo is everything Cancel needs to decide eligibility and reverse
// an order's effects: the order itself, the start time and title of its
// event, and the ticket lines to restock.
type CancelInfo struct {
    Order      model.Order
    EventTitle string
    EventVenue string
    EventStart time.Time
    Lines      []model.OrderTicket
    SeatCount  int
}

// StoreTx is the unit-of-work the engine drives.  Every method runs inside
// the same database transaction; if the callback passed to Store.InTx
// returns an error, none of the mutations survive.
//
// The conditional mutations (ReserveSeats, DecrementRemaining) must be
// keyed on current state: reserve only AVAILABLE seats, decrement only
// while remaining covers the quantity. They fail with ErrSeatUnavailable /
// ErrInsufficientTickets when the condition does not hold for every row.
// That rows-affected check inside the transaction is what makes exactly
// one of two racing checkouts win.
type StoreTx interface {
    // EventForBooking loads the published event a checkout targets.
    // Returns ErrEventNotFound for missing or unpublished events.
    EventForBooking(ctx context.Context, eventID uint64) (*model.Event, error)
    // TicketTypesByEvent returns the event's ticket types keyed by ID.
    TicketTypesByEvent(ctx context.Context, eventID uint64) (map[uint64]model.TicketType, error)
    // CreateOrder inserts the order and populates its generated ID.
    CreateOrder(ctx context.Context, o *model.Order) error
    // AddOrderTickets inserts the order's line items.
    AddOrderTickets(ctx context.Context, lines []model.OrderTicket) error
    // ReserveSeats marks every listed seat RESERVED and links it to the
    // order, provided all of them are currently AVAILABLE on this event.
    ReserveSeats(ctx context.Context, eventID, orderID uint64, seats []SeatRef) error
    // DecrementRemaining subtracts qty from a ticket type's remaining
    // count, provided remaining >= qty.
    DecrementRemaining(ctx context.Context, ticketTypeID uint64, qty uint32) error

    // OrderForCancel loads an order with its event and lines.
    OrderForCancel(ctx context.Context, orderID uint64) (*CancelInfo, error)
    // MarkCancelled flips book_status to CANCELLED and records when.
    MarkCancelled(ctx context.Context, orderID uint64, at time.Time) error
    // IncrementRemaining restores qty tickets to a ticket type.
    IncrementRemaining(ctx context.Context, ticketTypeID uint64, qty uint32) error
    // ReleaseSeats returns every seat held by the order to AVAILABLE and
    // clears the back-reference.
    ReleaseSeats(ctx context.Context, orderID uint64) error
}

// Store opens transactional units of work against the persistent store.
type Store interface {
    // InTx runs fn inside one transaction, committing when fn returns nil
    // and rolling back every mutation otherwise.
    InTx(ctx context.Context, fn func(tx StoreTx) error) error
}
