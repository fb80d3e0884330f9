package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/larsholm/event-ticketing/internal/model"
)

// TicketTypeRepo provides read access to ticket types.  Remaining counts
// are only ever mutated through the booking store's conditional updates,
// so this repository exposes no write methods.
type TicketTypeRepo struct {
    db *sql.DB
}

// NewTicketTypeRepo returns a new TicketTypeRepo bound to the given database.
func NewTicketTypeRepo(db *sql.DB) *TicketTypeRepo { return &TicketTypeRepo{db: db} }

// ListByEvent returns all ticket types for an event ordered by price.
// Used by the availability endpoint; an event with no ticket types yields
// an empty slice, not an error.
func (r *TicketTypeRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.TicketType, error) {
    const q = `SELECT id, event_id, name, description, price_cents, capacity, remaining, created_at, updated_at
               FROM ticket_types WHERE event_id = ? ORDER BY price_cents, id`
    rows, err := r.db.QueryContext(ctx, q, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    types := make([]model.TicketType, 0)
    for rows.Next() {
        var tt model.TicketType
        if err := rows.Scan(
            &tt.ID, &tt.EventID, &tt.Name, &tt.Description, &tt.PriceCents,
            &tt.Capacity, &tt.Remaining, &tt.CreatedAt, &tt.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        types = append(types, tt)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return types, nil
}

// GetByID retrieves a single ticket type.  Returns ErrTicketTypeNotFound
// when no row matches.
func (r *TicketTypeRepo) GetByID(ctx context.Context, id uint64) (*model.TicketType, error) {
    const q = `SELECT id, event_id, name, description, price_cents, capacity, remaining, created_at, updated_at
               FROM ticket_types WHERE id = ?`
    var tt model.TicketType
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &tt.ID, &tt.EventID, &tt.Name, &tt.Description, &tt.PriceCents,
        &tt.Capacity, &tt.Remaining, &tt.CreatedAt, &tt.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrTicketTypeNotFound
        }
        return nil, err
    }
    return &tt, nil
}
