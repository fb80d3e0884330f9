package booking

import (
    "context"
    "sync"
    "time"

    "github.com/larsholm/event-ticketing/internal/model"
)

// memStore is an in-memory Store with real transaction semantics: every
// InTx call works on a deep copy of the state and the copy only replaces
// the live state when the callback succeeds.  A mutex serialises
// transactions, standing in for the database's isolation.
type memStore struct {
    mu     sync.Mutex
    events map[uint64]model.Event
    types  map[uint64]model.TicketType
    seats  map[uint64]map[SeatRef]memSeat // eventID -> position -> seat
    orders map[uint64]*memOrder
    nextID uint64
}

type memSeat struct {
    status  string
    orderID uint64
}

type memOrder struct {
    order model.Order
    lines []model.OrderTicket
    seats []SeatRef
}

func newMemStore() *memStore {
    return &memStore{
        events: make(map[uint64]model.Event),
        types:  make(map[uint64]model.TicketType),
        seats:  make(map[uint64]map[SeatRef]memSeat),
        orders: make(map[uint64]*memOrder),
        nextID: 1,
    }
}

// addEvent seeds a published event with a full seat grid.
func (s *memStore) addEvent(ev model.Event) {
    s.events[ev.ID] = ev
    grid := make(map[SeatRef]memSeat)
    for r := uint32(1); r <= ev.SeatRows; r++ {
        for c := uint32(1); c <= ev.SeatCols; c++ {
            grid[SeatRef{Row: r, Col: c}] = memSeat{status: model.SeatStatusAvailable}
        }
    }
    s.seats[ev.ID] = grid
}

func (s *memStore) addTicketType(tt model.TicketType) {
    s.types[tt.ID] = tt
}

func (s *memStore) clone() *memStore {
    c := newMemStore()
    c.nextID = s.nextID
    for id, ev := range s.events {
        c.events[id] = ev
    }
    for id, tt := range s.types {
        c.types[id] = tt
    }
    for evID, grid := range s.seats {
        g := make(map[SeatRef]memSeat, len(grid))
        for ref, seat := range grid {
            g[ref] = seat
        }
        c.seats[evID] = g
    }
    for id, o := range s.orders {
        cp := &memOrder{order: o.order}
        cp.lines = append(cp.lines, o.lines...)
        cp.seats = append(cp.seats, o.seats...)
        c.orders[id] = cp
    }
    return c
}

// snapshot returns a copy for before/after comparisons in tests.
func (s *memStore) snapshot() *memStore {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.clone()
}

func (s *memStore) InTx(ctx context.Context, fn func(tx StoreTx) error) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    work := s.clone()
    if err := fn(&memTx{state: work}); err != nil {
        return err
    }
    s.events, s.types, s.seats, s.orders, s.nextID =
        work.events, work.types, work.seats, work.orders, work.nextID
    return nil
}

type memTx struct {
    state *memStore
}

func (t *memTx) EventForBooking(_ context.Context, eventID uint64) (*model.Event, error) {
    ev, ok := t.state.events[eventID]
    if !ok || ev.Status != model.EventStatusPublished {
        return nil, ErrEventNotFound
    }
    return &ev, nil
}

func (t *memTx) TicketTypesByEvent(_ context.Context, eventID uint64) (map[uint64]model.TicketType, error) {
    out := make(map[uint64]model.TicketType)
    for id, tt := range t.state.types {
        if tt.EventID == eventID {
            out[id] = tt
        }
    }
    return out, nil
}

func (t *memTx) CreateOrder(_ context.Context, o *model.Order) error {
    o.ID = t.state.nextID
    t.state.nextID++
    t.state.orders[o.ID] = &memOrder{order: *o}
    return nil
}

func (t *memTx) AddOrderTickets(_ context.Context, lines []model.OrderTicket) error {
    for _, line := range lines {
        o := t.state.orders[line.OrderID]
        o.lines = append(o.lines, line)
    }
    return nil
}

func (t *memTx) ReserveSeats(_ context.Context, eventID, orderID uint64, seats []SeatRef) error {
    grid := t.state.seats[eventID]
    for _, ref := range seats {
        seat, ok := grid[ref]
        if !ok || seat.status != model.SeatStatusAvailable {
            return ErrSeatUnavailable
        }
        grid[ref] = memSeat{status: model.SeatStatusReserved, orderID: orderID}
    }
    o := t.state.orders[orderID]
    o.seats = append(o.seats, seats...)
    return nil
}

func (t *memTx) DecrementRemaining(_ context.Context, ticketTypeID uint64, qty uint32) error {
    tt, ok := t.state.types[ticketTypeID]
    if !ok || tt.Remaining < qty {
        return ErrInsufficientTickets
    }
    tt.Remaining -= qty
    t.state.types[ticketTypeID] = tt
    return nil
}

func (t *memTx) OrderForCancel(_ context.Context, orderID uint64) (*CancelInfo, error) {
    o, ok := t.state.orders[orderID]
    if !ok {
        return nil, ErrOrderNotFound
    }
    ev := t.state.events[o.order.EventID]
    return &CancelInfo{
        Order:      o.order,
        EventTitle: ev.Title,
        EventVenue: ev.Venue,
        EventStart: ev.StartTime,
        Lines:      append([]model.OrderTicket(nil), o.lines...),
        SeatCount:  len(o.seats),
    }, nil
}

func (t *memTx) MarkCancelled(_ context.Context, orderID uint64, at time.Time) error {
    o, ok := t.state.orders[orderID]
    if !ok {
        return ErrOrderNotFound
    }
    o.order.BookStatus = model.BookStatusCancelled
    o.order.CancellationDate = &at
    return nil
}

func (t *memTx) IncrementRemaining(_ context.Context, ticketTypeID uint64, qty uint32) error {
    tt := t.state.types[ticketTypeID]
    tt.Remaining += qty
    t.state.types[ticketTypeID] = tt
    return nil
}

func (t *memTx) ReleaseSeats(_ context.Context, orderID uint64) error {
    o, ok := t.state.orders[orderID]
    if !ok {
        return ErrOrderNotFound
    }
    grid := t.state.seats[o.order.EventID]
    for _, ref := range o.seats {
        grid[ref] = memSeat{status: model.SeatStatusAvailable}
    }
    return nil
}
