package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/larsholm/event-ticketing/internal/model"
)

// OrderRepo provides read access to committed orders for the "my orders"
// views.  Orders are written and cancelled only through the booking store.
type OrderRepo struct {
    db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// OrderSummary is one entry in a user's order listing, joined with the
// event it was booked for.
type OrderSummary struct {
    Order      model.Order
    EventTitle string
    EventVenue string
    EventStart time.Time
    SeatCount  int
}

// OrderDetail is a single order with its ticket lines and seat positions.
type OrderDetail struct {
    Order      model.Order
    EventTitle string
    EventVenue string
    EventStart time.Time
    Lines      []OrderLine
    Seats      []SeatCoord
}

// OrderLine is one ticket line of an order joined with the ticket type
// name for display.
type OrderLine struct {
    TicketTypeID   uint64
    TicketTypeName string
    Quantity       uint32
    UnitPriceCents uint32
}

// ListByUser returns all orders placed by a user, newest event first.
// Cancelled orders are included so users can see their booking history.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]OrderSummary, error) {
    const q = `SELECT o.id, o.reference, o.user_id, o.event_id, o.book_status, o.bill_cents,
                      o.book_date, o.cancellation_date, o.buyer_name, o.buyer_phone, o.buyer_email,
                      o.shipping_address, o.billing_address, o.card_last4, o.created_at, o.updated_at,
                      e.title, e.venue, e.start_time,
                      (SELECT COUNT(*) FROM seats s WHERE s.order_id = o.id)
               FROM orders o
               JOIN events e ON e.id = o.event_id
               WHERE o.user_id = ?
               ORDER BY e.start_time DESC, o.id DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    summaries := make([]OrderSummary, 0)
    for rows.Next() {
        var s OrderSummary
        if err := scanOrder(rows, &s.Order, &s.EventTitle, &s.EventVenue, &s.EventStart, &s.SeatCount); err != nil {
            return nil, err
        }
        summaries = append(summaries, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return summaries, nil
}

// GetDetailForUser retrieves one order with its ticket lines and seats.
// Returns ErrOrderNotFound when the order does not exist and ErrForbidden
// when it belongs to a different user.
func (r *OrderRepo) GetDetailForUser(ctx context.Context, orderID, userID uint64) (*OrderDetail, error) {
    const q = `SELECT o.id, o.reference, o.user_id, o.event_id, o.book_status, o.bill_cents,
                      o.book_date, o.cancellation_date, o.buyer_name, o.buyer_phone, o.buyer_email,
                      o.shipping_address, o.billing_address, o.card_last4, o.created_at, o.updated_at,
                      e.title, e.venue, e.start_time
               FROM orders o
               JOIN events e ON e.id = o.event_id
               WHERE o.id = ?`
    var d OrderDetail
    err := r.db.QueryRowContext(ctx, q, orderID).Scan(
        &d.Order.ID, &d.Order.Reference, &d.Order.UserID, &d.Order.EventID,
        &d.Order.BookStatus, &d.Order.BillCents, &d.Order.BookDate, &d.Order.CancellationDate,
        &d.Order.BuyerName, &d.Order.BuyerPhone, &d.Order.BuyerEmail,
        &d.Order.ShippingAddress, &d.Order.BillingAddress, &d.Order.CardLast4,
        &d.Order.CreatedAt, &d.Order.UpdatedAt,
        &d.EventTitle, &d.EventVenue, &d.EventStart,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrOrderNotFound
        }
        return nil, err
    }
    if d.Order.UserID != userID {
        return nil, ErrForbidden
    }

    const lq = `SELECT ot.ticket_type_id, tt.name, ot.quantity, ot.unit_price_cents
                FROM order_tickets ot
                JOIN ticket_types tt ON tt.id = ot.ticket_type_id
                WHERE ot.order_id = ?
                ORDER BY ot.id`
    lrows, err := r.db.QueryContext(ctx, lq, orderID)
    if err != nil {
        return nil, err
    }
    defer lrows.Close()
    for lrows.Next() {
        var l OrderLine
        if err := lrows.Scan(&l.TicketTypeID, &l.TicketTypeName, &l.Quantity, &l.UnitPriceCents); err != nil {
            return nil, err
        }
        d.Lines = append(d.Lines, l)
    }
    if err := lrows.Err(); err != nil {
        return nil, err
    }

    const sq = `SELECT row_num, col_num FROM seats WHERE order_id = ? ORDER BY row_num, col_num`
    srows, err := r.db.QueryContext(ctx, sq, orderID)
    if err != nil {
        return nil, err
    }
    defer srows.Close()
    for srows.Next() {
        var c SeatCoord
        if err := srows.Scan(&c.Row, &c.Col); err != nil {
            return nil, err
        }
        d.Seats = append(d.Seats, c)
    }
    if err := srows.Err(); err != nil {
        return nil, err
    }
    return &d, nil
}

// scanOrder scans an order row plus joined event columns from a listing
// query.  Kept separate so the column order lives in one place.
func scanOrder(rows *sql.Rows, o *model.Order, title, venue *string, start *time.Time, seatCount *int) error {
    return rows.Scan(
        &o.ID, &o.Reference, &o.UserID, &o.EventID, &o.BookStatus, &o.BillCents,
        &o.BookDate, &o.CancellationDate, &o.BuyerName, &o.BuyerPhone, &o.BuyerEmail,
        &o.ShippingAddress, &o.BillingAddress, &o.CardLast4, &o.CreatedAt, &o.UpdatedAt,
        title, venue, start, seatCount,
    )
}
