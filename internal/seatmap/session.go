package seatmap

import "errors"

// ErrPickMismatch is returned by Session.Validate when the number of picked
// seats does not equal the total ticket quantity selected.
var ErrPickMismatch = errors.New("picked seats do not match ticket quantity")

// Session is the explicit state of one checkout flow: the ticket quantities
// the user has chosen and the seat map they are picking from.  It replaces
// ambient shared selection state: everything the checkout submission needs
// lives here, and the reservation engine itself stays stateless.
type Session struct {
    Map        *Map
    quantities map[uint64]uint32 // ticketTypeID -> quantity
}

// NewSession starts a checkout session over the given seat map with no
// tickets selected.
func NewSession(m *Map) *Session {
    return &Session{Map: m, quantities: make(map[uint64]uint32)}
}

// SetQuantity records the chosen quantity for a ticket type.  Setting zero
// removes the entry.  Lowering the total does not evict seats the user has
// already picked; Validate blocks submission instead until the user
// deselects the excess.
func (s *Session) SetQuantity(ticketTypeID uint64, qty uint32) {
    if qty == 0 {
        delete(s.quantities, ticketTypeID)
        return
    }
    s.quantities[ticketTypeID] = qty
}

// Quantities returns a copy of the selected ticket quantities.
func (s *Session) Quantities() map[uint64]uint32 {
    out := make(map[uint64]uint32, len(s.quantities))
    for id, q := range s.quantities {
        out[id] = q
    }
    return out
}

// TotalQuantity is the seat-pick bound: the sum of all selected quantities.
func (s *Session) TotalQuantity() uint32 {
    var total uint32
    for _, q := range s.quantities {
        total += q
    }
    return total
}

// Toggle picks or unpicks a seat, bounded by the current total quantity.
func (s *Session) Toggle(row, col uint32) {
    s.Map.Toggle(row, col, s.TotalQuantity())
}

// Validate checks the client-side precondition the engine re-verifies
// server-side: exactly one picked seat per requested ticket.
func (s *Session) Validate() error {
    if s.Map.PickedCount() != s.TotalQuantity() {
        return ErrPickMismatch
    }
    return nil
}
