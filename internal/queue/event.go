// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderConfirmedEvent is published when a checkout commits.  It carries
// enough information for downstream consumers to log, notify, or trigger
// analytics without querying the primary database.
type OrderConfirmedEvent struct {
    OrderID    uint64 `json:"order_id"`
    Reference  string `json:"reference"`
    UserID     uint64 `json:"user_id"`
    Email      string `json:"email"`
    EventID    uint64 `json:"event_id"`
    EventTitle string `json:"event_title"`
    Venue      string `json:"venue"`
    StartsAt   string `json:"starts_at"`
    SeatCount  int    `json:"seat_count"`
    BillCents  uint32 `json:"bill_cents"`
    BookedAt   string `json:"booked_at"`
}

// OrderCancelledEvent is published when an order is cancelled and its
// seats and tickets have been restocked.
type OrderCancelledEvent struct {
    OrderID     uint64 `json:"order_id"`
    Reference   string `json:"reference"`
    UserID      uint64 `json:"user_id"`
    Email       string `json:"email"`
    EventID     uint64 `json:"event_id"`
    EventTitle  string `json:"event_title"`
    Venue       string `json:"venue"`
    StartsAt    string `json:"starts_at"`
    SeatCount   int    `json:"seat_count"`
    BillCents   uint32 `json:"bill_cents"`
    CancelledAt string `json:"cancelled_at"`
}
