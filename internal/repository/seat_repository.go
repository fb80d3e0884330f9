package repository

import (
    "context"
    "database/sql"
)

// SeatRepo provides read access to seat state.  Seat mutations (reserve on
// checkout, release on cancel) happen exclusively through the booking
// store so they stay inside the same transaction as the order row.
type SeatRepo struct {
    db *sql.DB
}

// NewSeatRepo returns a new SeatRepo bound to the given database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// SeatCoord is a 1-indexed grid position as stored in the seats table.
type SeatCoord struct {
    Row uint32
    Col uint32
}

// ReservedCoords returns the positions of all RESERVED seats for an
// event in row-major order.  Handlers translate these to the 0-indexed
// coordinates clients render.
func (r *SeatRepo) ReservedCoords(ctx context.Context, eventID uint64) ([]SeatCoord, error) {
    const q = `SELECT row_num, col_num FROM seats
               WHERE event_id = ? AND status = 'RESERVED'
               ORDER BY row_num, col_num`
    rows, err := r.db.QueryContext(ctx, q, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    coords := make([]SeatCoord, 0)
    for rows.Next() {
        var c SeatCoord
        if err := rows.Scan(&c.Row, &c.Col); err != nil {
            return nil, err
        }
        coords = append(coords, c)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return coords, nil
}

// CoordsByOrder returns the seat positions held by a specific order in
// row-major order.  An order with no seats (a fully cancelled one, or a
// data race during cancellation) yields an empty slice.
func (r *SeatRepo) CoordsByOrder(ctx context.Context, orderID uint64) ([]SeatCoord, error) {
    const q = `SELECT row_num, col_num FROM seats
               WHERE order_id = ?
               ORDER BY row_num, col_num`
    rows, err := r.db.QueryContext(ctx, q, orderID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    coords := make([]SeatCoord, 0)
    for rows.Next() {
        var c SeatCoord
        if err := rows.Scan(&c.Row, &c.Col); err != nil {
            return nil, err
        }
        coords = append(coords, c)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return coords, nil
}
