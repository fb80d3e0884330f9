package model

import "time"

// Event statuses as stored in the events.status column.
const (
    EventStatusDraft     = "DRAFT"
    EventStatusPublished = "PUBLISHED"
    EventStatusCancelled = "CANCELLED"
)

// Event represents a hosted occasion with a fixed seat grid and one or
// more ticket types.  The grid dimensions are fixed at creation time;
// every (row, col) cell inside the grid has a corresponding row in the
// seats table.  This struct corresponds to a row in the `events` table.
//
// Fields:
//  ID          – primary key identifier.
//  OrganizerID – user ID of the organizer who created the event.
//  Title       – display title of the event.
//  Description – free-form description.
//  Type        – event type (e.g. concert, conference).
//  Category    – event category used by discovery filters.
//  Venue       – venue name or address.
//  IsOnline    – whether the event is held online.
//  StartTime   – when the event begins (UTC).
//  EndTime     – when the event ends (UTC).
//  Status      – DRAFT, PUBLISHED or CANCELLED.
//  SeatRows    – number of seat rows in the grid.
//  SeatCols    – number of seat columns in the grid.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Event struct {
    ID          uint64    // events.id
    OrganizerID uint64    // events.organizer_id
    Title       string    // events.title
    Description string    // events.description
    Type        string    // events.type
    Category    string    // events.category
    Venue       string    // events.venue
    IsOnline    bool      // events.is_online
    StartTime   time.Time // events.start_time
    EndTime     time.Time // events.end_time
    Status      string    // events.status
    SeatRows    uint32    // events.seat_rows
    SeatCols    uint32    // events.seat_cols
    CreatedAt   time.Time // events.created_at
    UpdatedAt   time.Time // events.updated_at
}
