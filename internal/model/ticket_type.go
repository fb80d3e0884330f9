package model

import "time"

// TicketType is a priced category of admission with finite capacity.
// Capacity is immutable after creation; Remaining moves only through the
// reservation engine: decremented by successful checkouts, incremented by
// cancellations, and never below zero.  This struct corresponds to a row
// in the `ticket_types` table.
//
// Fields:
//  ID          – primary key identifier.
//  EventID     – event this ticket type belongs to.
//  Name        – display name of the ticket type (e.g. "Early Bird").
//  Description – optional description text.
//  PriceCents  – price per ticket in cents.
//  Capacity    – total number of tickets that exist.
//  Remaining   – tickets still available, 0 <= Remaining <= Capacity.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type TicketType struct {
    ID          uint64    // ticket_types.id
    EventID     uint64    // ticket_types.event_id
    Name        string    // ticket_types.name
    Description string    // ticket_types.description
    PriceCents  uint32    // ticket_types.price_cents
    Capacity    uint32    // ticket_types.capacity
    Remaining   uint32    // ticket_types.remaining
    CreatedAt   time.Time // ticket_types.created_at
    UpdatedAt   time.Time // ticket_types.updated_at
}
