package model

import "time"

// Order statuses as stored in the orders.book_status column.  The only
// permitted transition is BOOKED -> CANCELLED; a cancelled order is never
// resurrected.
const (
    BookStatusBooked    = "BOOKED"
    BookStatusCancelled = "CANCELLED"
)

// Order records a user's committed booking of specific ticket quantities
// and seats for one event.  Billing, seats and ticket lines are immutable
// after creation; only BookStatus and CancellationDate ever change.  This
// struct corresponds to a row in the `orders` table.
//
// Fields:
//  ID               – primary key identifier.
//  Reference        – public order reference (UUID) used in notifications.
//  UserID           – user who placed the order.
//  EventID          – event the order is for.
//  BookStatus       – BOOKED or CANCELLED.
//  BillCents        – computed total in cents across all ticket lines.
//  BookDate         – when the order was committed.
//  CancellationDate – when the order was cancelled (nil while booked).
//  BuyerName        – billing contact name.
//  BuyerPhone       – billing contact phone.
//  BuyerEmail       – address confirmation emails are sent to.
//  ShippingAddress  – shipping address captured at checkout.
//  BillingAddress   – billing address captured at checkout.
//  CardLast4        – last four digits of the payment card.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Order struct {
    ID               uint64     // orders.id
    Reference        string     // orders.reference
    UserID           uint64     // orders.user_id
    EventID          uint64     // orders.event_id
    BookStatus       string     // orders.book_status
    BillCents        uint32     // orders.bill_cents
    BookDate         time.Time  // orders.book_date
    CancellationDate *time.Time // orders.cancellation_date (nullable)
    BuyerName        string     // orders.buyer_name
    BuyerPhone       string     // orders.buyer_phone
    BuyerEmail       string     // orders.buyer_email
    ShippingAddress  string     // orders.shipping_address
    BillingAddress   string     // orders.billing_address
    CardLast4        string     // orders.card_last4
    CreatedAt        time.Time  // orders.created_at
    UpdatedAt        time.Time  // orders.updated_at
}

// OrderTicket is one line item of an order: a quantity of a single ticket
// type at the unit price in effect when the order was committed.  This
// struct corresponds to a row in the `order_tickets` table.
//
// Fields:
//  ID             – primary key identifier.
//  OrderID        – order this line belongs to.
//  TicketTypeID   – ticket type purchased.
//  Quantity       – number of tickets of this type.
//  UnitPriceCents – price per ticket at booking time.
//  CreatedAt      – creation timestamp.
type OrderTicket struct {
    ID             uint64    // order_tickets.id
    OrderID        uint64    // order_tickets.order_id
    TicketTypeID   uint64    // order_tickets.ticket_type_id
    Quantity       uint32    // order_tickets.quantity
    UnitPriceCents uint32    // order_tickets.unit_price_cents
    CreatedAt      time.Time // order_tickets.created_at
}
