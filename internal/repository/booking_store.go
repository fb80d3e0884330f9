package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/larsholm/event-ticketing/internal/booking"
    "github.com/larsholm/event-ticketing/internal/model"
)

// BookingStore implements booking.Store on top of MySQL.  All mutations a
// checkout or cancellation makes go through one sql.Tx, so an order row
// can never exist without its seats and decremented counts, and vice
// versa.  Seat and inventory races are resolved by conditional UPDATEs
// whose rows-affected counts are verified before commit.
type BookingStore struct {
    db *sql.DB
}

// NewBookingStore returns a BookingStore bound to the given database.
func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{db: db} }

// InTx runs fn inside a single transaction.  The transaction commits only
// when fn returns nil; any error rolls back every mutation fn performed.
func (s *BookingStore) InTx(ctx context.Context, fn func(tx booking.StoreTx) error) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := fn(&bookingTx{tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// bookingTx is one unit of work.  Every method executes against the same
// sql.Tx.
type bookingTx struct {
    tx *sql.Tx
}

// EventForBooking loads the event a checkout targets.  Draft and
// cancelled events are not bookable, so anything non-PUBLISHED reports
// booking.ErrEventNotFound just like a missing row.
func (t *bookingTx) EventForBooking(ctx context.Context, eventID uint64) (*model.Event, error) {
    const q = `SELECT id, organizer_id, title, description, type, category, venue, is_online,
                      start_time, end_time, status, seat_rows, seat_cols, created_at, updated_at
               FROM events WHERE id = ? AND status = ?`
    var ev model.Event
    err := t.tx.QueryRowContext(ctx, q, eventID, model.EventStatusPublished).Scan(
        &ev.ID, &ev.OrganizerID, &ev.Title, &ev.Description, &ev.Type, &ev.Category,
        &ev.Venue, &ev.IsOnline, &ev.StartTime, &ev.EndTime, &ev.Status,
        &ev.SeatRows, &ev.SeatCols, &ev.CreatedAt, &ev.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, booking.ErrEventNotFound
        }
        return nil, err
    }
    return &ev, nil
}

// TicketTypesByEvent returns the event's ticket types keyed by ID.
func (t *bookingTx) TicketTypesByEvent(ctx context.Context, eventID uint64) (map[uint64]model.TicketType, error) {
    const q = `SELECT id, event_id, name, description, price_cents, capacity, remaining, created_at, updated_at
               FROM ticket_types WHERE event_id = ?`
    rows, err := t.tx.QueryContext(ctx, q, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    types := make(map[uint64]model.TicketType)
    for rows.Next() {
        var tt model.TicketType
        if err := rows.Scan(
            &tt.ID, &tt.EventID, &tt.Name, &tt.Description, &tt.PriceCents,
            &tt.Capacity, &tt.Remaining, &tt.CreatedAt, &tt.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        types[tt.ID] = tt
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return types, nil
}

// CreateOrder inserts the order row and populates its generated ID.
func (t *bookingTx) CreateOrder(ctx context.Context, o *model.Order) error {
    const q = `INSERT INTO orders (reference, user_id, event_id, book_status, bill_cents, book_date,
                                   buyer_name, buyer_phone, buyer_email, shipping_address, billing_address, card_last4)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := t.tx.ExecContext(ctx, q,
        o.Reference, o.UserID, o.EventID, o.BookStatus, o.BillCents, o.BookDate.UTC(),
        o.BuyerName, o.BuyerPhone, o.BuyerEmail, o.ShippingAddress, o.BillingAddress, o.CardLast4,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    o.ID = uint64(id)
    return nil
}

// AddOrderTickets bulk-inserts the order's line items.
func (t *bookingTx) AddOrderTickets(ctx context.Context, lines []model.OrderTicket) error {
    if len(lines) == 0 {
        return nil
    }
    query := `INSERT INTO order_tickets (order_id, ticket_type_id, quantity, unit_price_cents) VALUES `
    args := make([]interface{}, 0, len(lines)*4)
    for i, l := range lines {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?)"
        args = append(args, l.OrderID, l.TicketTypeID, l.Quantity, l.UnitPriceCents)
    }
    _, err := t.tx.ExecContext(ctx, query, args...)
    return err
}

// ReserveSeats flips the listed seats from AVAILABLE to RESERVED and
// links them to the order in one conditional UPDATE.  If any seat is
// already taken (or does not exist on this event) the affected-row count
// falls short and the whole checkout fails with booking.ErrSeatUnavailable;
// the transaction rollback releases any seats this statement did flip.
func (t *bookingTx) ReserveSeats(ctx context.Context, eventID, orderID uint64, seats []booking.SeatRef) error {
    if len(seats) == 0 {
        return nil
    }
    var sb strings.Builder
    sb.WriteString(`UPDATE seats SET status = 'RESERVED', order_id = ?
                    WHERE event_id = ? AND status = 'AVAILABLE' AND (`)
    args := make([]interface{}, 0, len(seats)*2+2)
    args = append(args, orderID, eventID)
    for i, s := range seats {
        if i > 0 {
            sb.WriteString(" OR ")
        }
        sb.WriteString("(row_num = ? AND col_num = ?)")
        args = append(args, s.Row, s.Col)
    }
    sb.WriteString(")")

    res, err := t.tx.ExecContext(ctx, sb.String(), args...)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected != int64(len(seats)) {
        return booking.ErrSeatUnavailable
    }
    return nil
}

// DecrementRemaining subtracts qty from a ticket type's remaining count.
// The WHERE clause refuses the update when remaining would go negative;
// a zero affected-row count means a concurrent checkout got there first
// and surfaces as booking.ErrInsufficientTickets.
func (t *bookingTx) DecrementRemaining(ctx context.Context, ticketTypeID uint64, qty uint32) error {
    res, err := t.tx.ExecContext(ctx,
        `UPDATE ticket_types SET remaining = remaining - ? WHERE id = ? AND remaining >= ?`,
        qty, ticketTypeID, qty)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        return booking.ErrInsufficientTickets
    }
    return nil
}

// OrderForCancel loads an order together with its event and ticket lines.
func (t *bookingTx) OrderForCancel(ctx context.Context, orderID uint64) (*booking.CancelInfo, error) {
    const q = `SELECT o.id, o.reference, o.user_id, o.event_id, o.book_status, o.bill_cents,
                      o.book_date, o.cancellation_date, o.buyer_name, o.buyer_phone, o.buyer_email,
                      o.shipping_address, o.billing_address, o.card_last4, o.created_at, o.updated_at,
                      e.title, e.venue, e.start_time,
                      (SELECT COUNT(*) FROM seats s WHERE s.order_id = o.id)
               FROM orders o
               JOIN events e ON e.id = o.event_id
               WHERE o.id = ?
               FOR UPDATE`
    var info booking.CancelInfo
    err := t.tx.QueryRowContext(ctx, q, orderID).Scan(
        &info.Order.ID, &info.Order.Reference, &info.Order.UserID, &info.Order.EventID,
        &info.Order.BookStatus, &info.Order.BillCents, &info.Order.BookDate, &info.Order.CancellationDate,
        &info.Order.BuyerName, &info.Order.BuyerPhone, &info.Order.BuyerEmail,
        &info.Order.ShippingAddress, &info.Order.BillingAddress, &info.Order.CardLast4,
        &info.Order.CreatedAt, &info.Order.UpdatedAt,
        &info.EventTitle, &info.EventVenue, &info.EventStart,
        &info.SeatCount,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, booking.ErrOrderNotFound
        }
        return nil, err
    }

    const lq = `SELECT id, order_id, ticket_type_id, quantity, unit_price_cents, created_at
                FROM order_tickets WHERE order_id = ?`
    rows, err := t.tx.QueryContext(ctx, lq, orderID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var l model.OrderTicket
        if err := rows.Scan(&l.ID, &l.OrderID, &l.TicketTypeID, &l.Quantity, &l.UnitPriceCents, &l.CreatedAt); err != nil {
            return nil, err
        }
        info.Lines = append(info.Lines, l)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return &info, nil
}

// MarkCancelled flips book_status keyed on the current BOOKED state, so a
// second cancellation racing the first loses on rows-affected and reports
// booking.ErrAlreadyCancelled.
func (t *bookingTx) MarkCancelled(ctx context.Context, orderID uint64, at time.Time) error {
    res, err := t.tx.ExecContext(ctx,
        `UPDATE orders SET book_status = ?, cancellation_date = ? WHERE id = ? AND book_status = ?`,
        model.BookStatusCancelled, at.UTC(), orderID, model.BookStatusBooked)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        return booking.ErrAlreadyCancelled
    }
    return nil
}

// IncrementRemaining restores qty tickets to a ticket type, capped at
// capacity by the table's CHECK constraint.
func (t *bookingTx) IncrementRemaining(ctx context.Context, ticketTypeID uint64, qty uint32) error {
    _, err := t.tx.ExecContext(ctx,
        `UPDATE ticket_types SET remaining = remaining + ? WHERE id = ?`,
        qty, ticketTypeID)
    return err
}

// ReleaseSeats returns every seat held by the order to AVAILABLE and
// clears the back-reference.
func (t *bookingTx) ReleaseSeats(ctx context.Context, orderID uint64) error {
    _, err := t.tx.ExecContext(ctx,
        `UPDATE seats SET status = 'AVAILABLE', order_id = NULL WHERE order_id = ?`,
        orderID)
    return err
}
