package booking

import (
    "context"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"

    "github.com/larsholm/event-ticketing/internal/model"
)

// BillingInfo is the payment and contact detail captured at checkout.  The
// card fields are used for the charge only; persistence keeps the last
// four digits.
type BillingInfo struct {
    Name            string
    Phone           string
    Email           string
    ShippingAddress string
    BillingAddress  string
    CardNumber      string
    ExpiryDate      string
    CardCVV         string
}

// CheckoutInput carries one checkout attempt: who books what.  Seat
// positions are 1-indexed storage coordinates; the HTTP layer translates
// from the client's 0-indexed grid.
type CheckoutInput struct {
    UserID  uint64
    EventID uint64
    Tickets map[uint64]uint32 // ticketTypeID -> quantity
    Seats   []SeatRef
    Billing BillingInfo
}

// Confirmation is returned on a committed checkout.
type Confirmation struct {
    OrderID   uint64    `json:"order_id"`
    Reference string    `json:"reference"`
    BillCents uint32    `json:"bill_cents"`
    BookedAt  time.Time `json:"booked_at"`
}

// Notification is the payload handed to the notifier after a commit.
type Notification struct {
    OrderID    uint64
    Reference  string
    UserID     uint64
    Email      string
    EventID    uint64
    EventTitle string
    EventVenue string
    EventStart time.Time
    Seats      int
    BillCents  uint32
    OccurredAt time.Time
}

// Notifier delivers best-effort booking notifications.  Implementations
// must not block the caller for long and must never fail the booking:
// errors are the implementation's problem to log.
type Notifier interface {
    OrderConfirmed(ctx context.Context, n Notification) error
    OrderCancelled(ctx context.Context, n Notification) error
}

// Engine is the reservation engine.  It is stateless between calls; all
// shared mutable state lives in the store, and every mutation happens
// inside one transaction so failures leave nothing behind.
type Engine struct {
    store        Store
    notifier     Notifier
    cancelWindow time.Duration
    log          *zap.Logger
    now          func() time.Time
}

// NewEngine builds an Engine.  cancelWindow is how long before an event's
// start a booking remains cancellable.  notifier may be nil to disable
// notifications; log may be nil.
func NewEngine(store Store, notifier Notifier, cancelWindow time.Duration, log *zap.Logger) *Engine {
    if log == nil {
        log = zap.NewNop()
    }
    return &Engine{
        store:        store,
        notifier:     notifier,
        cancelWindow: cancelWindow,
        log:          log,
        now:          time.Now,
    }
}

// Checkout atomically converts a tentative selection into a committed
// order: it validates the request, creates the order and its ticket lines,
// marks every chosen seat reserved and decrements each ticket type's
// remaining count.  Any failure rejects the whole attempt with no partial
// effect.  On success a confirmation notification is dispatched after the
// commit, fire-and-forget.
func (e *Engine) Checkout(ctx context.Context, in CheckoutInput) (*Confirmation, error) {
    var total uint32
    for _, qty := range in.Tickets {
        // A zero line would decrement nothing, which the conditional
        // update cannot tell apart from a lost race.
        if qty == 0 {
            return nil, ErrZeroQuantity
        }
        total += qty
    }
    if total == 0 {
        return nil, ErrNoTickets
    }
    // The client enforces this bound while picking; re-validate rather
    // than trust it.
    if int(total) != len(in.Seats) {
        return nil, ErrSeatCountMismatch
    }
    seen := make(map[SeatRef]struct{}, len(in.Seats))
    for _, s := range in.Seats {
        if _, dup := seen[s]; dup {
            return nil, ErrDuplicateSeat
        }
        seen[s] = struct{}{}
    }

    bookedAt := e.now().UTC()
    order := model.Order{
        Reference:       uuid.NewString(),
        UserID:          in.UserID,
        EventID:         in.EventID,
        BookStatus:      model.BookStatusBooked,
        BookDate:        bookedAt,
        BuyerName:       in.Billing.Name,
        BuyerPhone:      in.Billing.Phone,
        BuyerEmail:      in.Billing.Email,
        ShippingAddress: in.Billing.ShippingAddress,
        BillingAddress:  in.Billing.BillingAddress,
        CardLast4:       lastFour(in.Billing.CardNumber),
    }

    var ev *model.Event
    err := e.store.InTx(ctx, func(tx StoreTx) error {
        var err error
        ev, err = tx.EventForBooking(ctx, in.EventID)
        if err != nil {
            return err
        }
        for _, s := range in.Seats {
            if s.Row == 0 || s.Col == 0 || s.Row > ev.SeatRows || s.Col > ev.SeatCols {
                return ErrSeatUnavailable
            }
        }

        types, err := tx.TicketTypesByEvent(ctx, in.EventID)
        if err != nil {
            return err
        }
        var bill uint32
        lines := make([]model.OrderTicket, 0, len(in.Tickets))
        for id, qty := range in.Tickets {
            tt, ok := types[id]
            if !ok {
                return ErrUnknownTicketType
            }
            if qty > tt.Remaining {
                return ErrInsufficientTickets
            }
            bill += tt.PriceCents * qty
            lines = append(lines, model.OrderTicket{
                TicketTypeID:   id,
                Quantity:       qty,
                UnitPriceCents: tt.PriceCents,
            })
        }
        order.BillCents = bill

        if err := tx.CreateOrder(ctx, &order); err != nil {
            return err
        }
        for i := range lines {
            lines[i].OrderID = order.ID
        }
        if err := tx.AddOrderTickets(ctx, lines); err != nil {
            return err
        }
        // Conditional on current seat state: the losing side of a race
        // fails here and the whole transaction rolls back.
        if err := tx.ReserveSeats(ctx, in.EventID, order.ID, in.Seats); err != nil {
            return err
        }
        for _, line := range lines {
            if err := tx.DecrementRemaining(ctx, line.TicketTypeID, line.Quantity); err != nil {
                return err
            }
        }
        return nil
    })
    if err != nil {
        return nil, err
    }

    e.notify(in.Billing.Email, order, ev.Title, ev.Venue, ev.StartTime, len(in.Seats), true)
    return &Confirmation{
        OrderID:   order.ID,
        Reference: order.Reference,
        BillCents: order.BillCents,
        BookedAt:  bookedAt,
    }, nil
}

// Cancel reverses a committed order: restores every ticket line's
// remaining count and frees every reserved seat, atomically with the
// status flip.  Cancellation is only permitted while the event's start is
// further away than the configured window, and only once per order.
func (e *Engine) Cancel(ctx context.Context, orderID, userID uint64) error {
    var info *CancelInfo
    cancelledAt := e.now().UTC()
    err := e.store.InTx(ctx, func(tx StoreTx) error {
        var err error
        info, err = tx.OrderForCancel(ctx, orderID)
        if err != nil {
            return err
        }
        if info.Order.UserID != userID {
            return ErrForbidden
        }
        if info.Order.BookStatus == model.BookStatusCancelled {
            return ErrAlreadyCancelled
        }
        if !cancelledAt.Add(e.cancelWindow).Before(info.EventStart) {
            return ErrNotCancellable
        }
        if err := tx.MarkCancelled(ctx, orderID, cancelledAt); err != nil {
            return err
        }
        for _, line := range info.Lines {
            if err := tx.IncrementRemaining(ctx, line.TicketTypeID, line.Quantity); err != nil {
                return err
            }
        }
        return tx.ReleaseSeats(ctx, orderID)
    })
    if err != nil {
        return err
    }

    e.notify(info.Order.BuyerEmail, info.Order, info.EventTitle, info.EventVenue, info.EventStart, info.SeatCount, false)
    return nil
}

// notify dispatches a post-commit notification in the background.  The
// transaction has already committed; a failed or slow notification must
// not affect the outcome, so errors are only logged.
func (e *Engine) notify(email string, order model.Order, title, venue string, start time.Time, seats int, confirmed bool) {
    if e.notifier == nil {
        return
    }
    n := Notification{
        OrderID:    order.ID,
        Reference:  order.Reference,
        UserID:     order.UserID,
        Email:      email,
        EventID:    order.EventID,
        EventTitle: title,
        EventVenue: venue,
        EventStart: start,
        Seats:      seats,
        BillCents:  order.BillCents,
        OccurredAt: e.now().UTC(),
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        var err error
        if confirmed {
            err = e.notifier.OrderConfirmed(ctx, n)
        } else {
            err = e.notifier.OrderCancelled(ctx, n)
        }
        if err != nil {
            e.log.Warn("notification dispatch failed",
                zap.Uint64("order_id", n.OrderID),
                zap.Bool("confirmed", confirmed),
                zap.Error(err),
            )
        }
    }()
}

func lastFour(card string) string {
    if len(card) <= 4 {
        return card
    }
    return card[len(card)-4:]
}
