package model

import "time"

// Seat statuses as stored in the seats.status column.
const (
    SeatStatusAvailable = "AVAILABLE"
    SeatStatusReserved  = "RESERVED"
)

// Seat is an individually reservable grid cell tied to an event.  Seat
// positions are 1-indexed in storage; the API boundary translates to the
// 0-indexed coordinates clients use.  Status and OrderID change together,
// atomically: a seat is RESERVED iff it is referenced by a non-cancelled
// order.  This struct corresponds to a row in the `seats` table.
//
// Fields:
//  ID        – primary key identifier.
//  EventID   – event this seat belongs to.
//  Row       – row position, 1-based.
//  Col       – column position, 1-based.
//  Status    – AVAILABLE or RESERVED.
//  OrderID   – order currently holding the seat (nil when available).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Seat struct {
    ID        uint64    // seats.id
    EventID   uint64    // seats.event_id
    Row       uint32    // seats.row_num
    Col       uint32    // seats.col_num
    Status    string    // seats.status
    OrderID   *uint64   // seats.order_id (nullable)
    CreatedAt time.Time // seats.created_at
    UpdatedAt time.Time // seats.updated_at
}
