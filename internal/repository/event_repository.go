package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/larsholm/event-ticketing/internal/model"
)

// EventRepo provides CRUD operations for events and their ticket types and
// seat grids.  An event's ticket types and seats are created together with
// the event row inside one transaction so a half-created event can never be
// booked.  All timestamp fields are stored in UTC.
type EventRepo struct {
    db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

// NewTicketType describes one ticket type to create alongside an event.
// Capacity doubles as the initial remaining count.
type NewTicketType struct {
    Name        string
    Description string
    PriceCents  uint32
    Capacity    uint32
}

// Create inserts an event, its ticket types and its full seat grid in a
// single transaction.  Seats are generated row-major and 1-indexed, all
// AVAILABLE.  On success the generated event ID is populated on ev.  The
// caller is responsible for having validated that the grid can hold the
// total ticket capacity.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event, tickets []NewTicketType) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    const q = `INSERT INTO events (organizer_id, title, description, type, category, venue, is_online, start_time, end_time, status, seat_rows, seat_cols)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q,
        ev.OrganizerID, ev.Title, ev.Description, ev.Type, ev.Category, ev.Venue,
        ev.IsOnline, ev.StartTime.UTC(), ev.EndTime.UTC(), ev.Status, ev.SeatRows, ev.SeatCols,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    ev.ID = uint64(id)

    if len(tickets) > 0 {
        query := `INSERT INTO ticket_types (event_id, name, description, price_cents, capacity, remaining) VALUES `
        args := make([]interface{}, 0, len(tickets)*6)
        for i, tt := range tickets {
            if i > 0 {
                query += ","
            }
            query += "(?, ?, ?, ?, ?, ?)"
            args = append(args, ev.ID, tt.Name, tt.Description, tt.PriceCents, tt.Capacity, tt.Capacity)
        }
        if _, err := tx.ExecContext(ctx, query, args...); err != nil {
            return err
        }
    }

    if ev.SeatRows > 0 && ev.SeatCols > 0 {
        query := `INSERT INTO seats (event_id, row_num, col_num, status) VALUES `
        args := make([]interface{}, 0, int(ev.SeatRows)*int(ev.SeatCols)*4)
        first := true
        for row := uint32(1); row <= ev.SeatRows; row++ {
            for col := uint32(1); col <= ev.SeatCols; col++ {
                if !first {
                    query += ","
                }
                first = false
                query += "(?, ?, ?, ?)"
                args = append(args, ev.ID, row, col, model.SeatStatusAvailable)
            }
        }
        if _, err := tx.ExecContext(ctx, query, args...); err != nil {
            return err
        }
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByID retrieves a single event.  Returns ErrEventNotFound when no row
// matches.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
    const q = `SELECT id, organizer_id, title, description, type, category, venue, is_online,
                      start_time, end_time, status, seat_rows, seat_cols, created_at, updated_at
               FROM events WHERE id = ?`
    var ev model.Event
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &ev.ID, &ev.OrganizerID, &ev.Title, &ev.Description, &ev.Type, &ev.Category,
        &ev.Venue, &ev.IsOnline, &ev.StartTime, &ev.EndTime, &ev.Status,
        &ev.SeatRows, &ev.SeatCols, &ev.CreatedAt, &ev.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrEventNotFound
        }
        return nil, err
    }
    return &ev, nil
}

// EventFilter narrows and orders the event listing.  Zero values mean "no
// filter".  DateBucket accepts "today", "tomorrow" or "weekend" relative
// to Now; SortKey accepts "date" or "venue".
type EventFilter struct {
    Category      string
    Type          string
    OnlineOnly    bool
    DateBucket    string
    SortKey       string
    SortDesc      bool
    Now           time.Time
    IncludeDrafts bool
}

// List returns events matching the filter.  Only PUBLISHED events are
// included unless IncludeDrafts is set (owner views).  The date bucket is
// computed in UTC against filter.Now so listings are testable.
func (r *EventRepo) List(ctx context.Context, f EventFilter) ([]model.Event, error) {
    var sb strings.Builder
    sb.WriteString(`SELECT id, organizer_id, title, description, type, category, venue, is_online,
                           start_time, end_time, status, seat_rows, seat_cols, created_at, updated_at
                    FROM events WHERE 1=1`)
    var args []interface{}
    if !f.IncludeDrafts {
        sb.WriteString(" AND status = ?")
        args = append(args, model.EventStatusPublished)
    }
    if f.Category != "" {
        sb.WriteString(" AND category = ?")
        args = append(args, f.Category)
    }
    if f.Type != "" {
        sb.WriteString(" AND type = ?")
        args = append(args, f.Type)
    }
    if f.OnlineOnly {
        sb.WriteString(" AND is_online = 1")
    }
    if from, to, ok := dateBucketRange(f.DateBucket, f.Now); ok {
        sb.WriteString(" AND start_time >= ? AND start_time < ?")
        args = append(args, from, to)
    }
    switch f.SortKey {
    case "venue":
        sb.WriteString(" ORDER BY venue")
    default:
        sb.WriteString(" ORDER BY start_time")
    }
    if f.SortDesc {
        sb.WriteString(" DESC")
    }

    rows, err := r.db.QueryContext(ctx, sb.String(), args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    events := make([]model.Event, 0)
    for rows.Next() {
        var ev model.Event
        if err := rows.Scan(
            &ev.ID, &ev.OrganizerID, &ev.Title, &ev.Description, &ev.Type, &ev.Category,
            &ev.Venue, &ev.IsOnline, &ev.StartTime, &ev.EndTime, &ev.Status,
            &ev.SeatRows, &ev.SeatCols, &ev.CreatedAt, &ev.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        events = append(events, ev)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return events, nil
}

// dateBucketRange translates a named bucket into a [from, to) UTC range.
// "weekend" covers the Saturday and Sunday of the current week (or the
// remainder of a weekend already in progress).
func dateBucketRange(bucket string, now time.Time) (time.Time, time.Time, bool) {
    if bucket == "" {
        return time.Time{}, time.Time{}, false
    }
    now = now.UTC()
    midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
    switch bucket {
    case "today":
        return midnight, midnight.AddDate(0, 0, 1), true
    case "tomorrow":
        return midnight.AddDate(0, 0, 1), midnight.AddDate(0, 0, 2), true
    case "weekend":
        daysToSat := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
        sat := midnight.AddDate(0, 0, daysToSat)
        if now.Weekday() == time.Sunday {
            // Sunday counts as the tail of the current weekend.
            return midnight, midnight.AddDate(0, 0, 1), true
        }
        return sat, sat.AddDate(0, 0, 2), true
    }
    return time.Time{}, time.Time{}, false
}

// UpdateInfo modifies an event's descriptive fields.  The seat grid and
// ticket types are deliberately not updatable; inventory only moves
// through bookings.  Ownership is enforced via organizer_id.  Returns
// ErrEventNotFound when the event does not exist and ErrForbidden when it
// belongs to a different organizer.
func (r *EventRepo) UpdateInfo(ctx context.Context, ev *model.Event, organizerID uint64) error {
    ownerID, err := r.ownerOf(ctx, ev.ID)
    if err != nil {
        return err
    }
    if ownerID != organizerID {
        return ErrForbidden
    }
    const q = `UPDATE events SET title = ?, description = ?, type = ?, category = ?, venue = ?,
                      is_online = ?, start_time = ?, end_time = ?
               WHERE id = ?`
    _, err = r.db.ExecContext(ctx, q,
        ev.Title, ev.Description, ev.Type, ev.Category, ev.Venue,
        ev.IsOnline, ev.StartTime.UTC(), ev.EndTime.UTC(), ev.ID,
    )
    return err
}

// Publish moves a draft event to PUBLISHED so it becomes bookable.
func (r *EventRepo) Publish(ctx context.Context, eventID, organizerID uint64) error {
    ownerID, err := r.ownerOf(ctx, eventID)
    if err != nil {
        return err
    }
    if ownerID != organizerID {
        return ErrForbidden
    }
    _, err = r.db.ExecContext(ctx,
        `UPDATE events SET status = ? WHERE id = ?`, model.EventStatusPublished, eventID)
    return err
}

// Delete removes an event along with its ticket types and seats (FK
// cascade).  Deletion is refused with ErrConflict while any non-cancelled
// order references the event, so committed bookings are never orphaned.
func (r *EventRepo) Delete(ctx context.Context, eventID, organizerID uint64) error {
    ownerID, err := r.ownerOf(ctx, eventID)
    if err != nil {
        return err
    }
    if ownerID != organizerID {
        return ErrForbidden
    }
    var active int
    err = r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM orders WHERE event_id = ? AND book_status = ?`,
        eventID, model.BookStatusBooked,
    ).Scan(&active)
    if err != nil {
        return err
    }
    if active > 0 {
        return ErrConflict
    }
    _, err = r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, eventID)
    return err
}

// ownerOf returns the organizer_id of an event, or ErrEventNotFound.
func (r *EventRepo) ownerOf(ctx context.Context, eventID uint64) (uint64, error) {
    var ownerID uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT organizer_id FROM events WHERE id = ?`, eventID).Scan(&ownerID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return 0, ErrEventNotFound
        }
        return 0, err
    }
    return ownerID, nil
}
