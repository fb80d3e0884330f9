package booking

import (
    "context"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/larsholm/event-ticketing/internal/model"
)

const (
    testEventID  = uint64(1)
    testTypeID   = uint64(10)
    testUserID   = uint64(100)
    ticketPrice  = uint32(2500)
    testCapacity = uint32(10)
)

func seedStore(t *testing.T, startIn time.Duration) *memStore {
    t.Helper()
    store := newMemStore()
    store.addEvent(model.Event{
        ID:        testEventID,
        Title:     "Harbour Jazz Night",
        Venue:     "Pier 12",
        Status:    model.EventStatusPublished,
        StartTime: time.Now().UTC().Add(startIn),
        SeatRows:  5,
        SeatCols:  8,
    })
    store.addTicketType(model.TicketType{
        ID:         testTypeID,
        EventID:    testEventID,
        Name:       "General",
        PriceCents: ticketPrice,
        Capacity:   testCapacity,
        Remaining:  testCapacity,
    })
    return store
}

func newTestEngine(store Store) *Engine {
    return NewEngine(store, nil, 7*24*time.Hour, nil)
}

func checkoutInput(qty uint32, seats ...SeatRef) CheckoutInput {
    return CheckoutInput{
        UserID:  testUserID,
        EventID: testEventID,
        Tickets: map[uint64]uint32{testTypeID: qty},
        Seats:   seats,
        Billing: BillingInfo{
            Name:       "Rina Morel",
            Email:      "rina@example.com",
            CardNumber: "4242424242424242",
        },
    }
}

// equalState compares the parts of the store the invariants talk about.
func equalState(t *testing.T, want, got *memStore) {
    t.Helper()
    assert.Equal(t, want.types, got.types, "ticket inventory")
    assert.Equal(t, want.seats, got.seats, "seat map")
    assert.Equal(t, len(want.orders), len(got.orders), "order count")
}

func TestCheckoutSuccess(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    eng := newTestEngine(store)

    conf, err := eng.Checkout(context.Background(), checkoutInput(3,
        SeatRef{Row: 1, Col: 1}, SeatRef{Row: 1, Col: 2}, SeatRef{Row: 2, Col: 5}))
    require.NoError(t, err)
    require.NotNil(t, conf)
    assert.NotEmpty(t, conf.Reference)
    assert.Equal(t, 3*ticketPrice, conf.BillCents)

    assert.Equal(t, testCapacity-3, store.types[testTypeID].Remaining)
    for _, ref := range []SeatRef{{1, 1}, {1, 2}, {2, 5}} {
        seat := store.seats[testEventID][ref]
        assert.Equal(t, model.SeatStatusReserved, seat.status)
        assert.Equal(t, conf.OrderID, seat.orderID)
    }
    order := store.orders[conf.OrderID]
    assert.Equal(t, model.BookStatusBooked, order.order.BookStatus)
    assert.Equal(t, "4242", order.order.CardLast4)
    require.Len(t, order.lines, 1)
    assert.Equal(t, uint32(3), order.lines[0].Quantity)
    assert.Equal(t, ticketPrice, order.lines[0].UnitPriceCents)
}

// A checkout spanning two ticket types: one line per type priced at that
// type's rate, each remaining count decremented independently, and a
// cancel restoring both.
func TestCheckoutTwoTicketTypes(t *testing.T) {
    const (
        vipTypeID = uint64(11)
        vipPrice  = uint32(6000)
    )
    store := seedStore(t, 30*24*time.Hour)
    store.addTicketType(model.TicketType{
        ID:         vipTypeID,
        EventID:    testEventID,
        Name:       "VIP",
        PriceCents: vipPrice,
        Capacity:   4,
        Remaining:  4,
    })
    eng := newTestEngine(store)
    before := store.snapshot()

    in := checkoutInput(3, SeatRef{1, 1}, SeatRef{1, 2}, SeatRef{2, 1})
    in.Tickets = map[uint64]uint32{testTypeID: 2, vipTypeID: 1}
    conf, err := eng.Checkout(context.Background(), in)
    require.NoError(t, err)
    assert.Equal(t, 2*ticketPrice+vipPrice, conf.BillCents)

    assert.Equal(t, testCapacity-2, store.types[testTypeID].Remaining)
    assert.Equal(t, uint32(3), store.types[vipTypeID].Remaining)

    order := store.orders[conf.OrderID]
    require.Len(t, order.lines, 2)
    byType := make(map[uint64]model.OrderTicket, len(order.lines))
    for _, line := range order.lines {
        byType[line.TicketTypeID] = line
    }
    assert.Equal(t, uint32(2), byType[testTypeID].Quantity)
    assert.Equal(t, ticketPrice, byType[testTypeID].UnitPriceCents)
    assert.Equal(t, uint32(1), byType[vipTypeID].Quantity)
    assert.Equal(t, vipPrice, byType[vipTypeID].UnitPriceCents)

    require.NoError(t, eng.Cancel(context.Background(), conf.OrderID, testUserID))
    after := store.snapshot()
    assert.Equal(t, before.types, after.types, "both remaining counts restored")
    assert.Equal(t, before.seats, after.seats, "seats freed")
}

func TestCheckoutZeroQuantityLine(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    eng := newTestEngine(store)
    before := store.snapshot()

    in := checkoutInput(0)
    _, err := eng.Checkout(context.Background(), in)
    require.ErrorIs(t, err, ErrZeroQuantity)
    assert.True(t, IsValidation(err))
    equalState(t, before, store.snapshot())
}

func TestCheckoutSeatCountMismatch(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    eng := newTestEngine(store)
    before := store.snapshot()

    _, err := eng.Checkout(context.Background(), checkoutInput(5,
        SeatRef{1, 1}, SeatRef{1, 2}, SeatRef{1, 3}, SeatRef{1, 4}))
    require.ErrorIs(t, err, ErrSeatCountMismatch)
    assert.True(t, IsValidation(err))
    equalState(t, before, store.snapshot())
}

func TestCheckoutInsufficientTickets(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    tt := store.types[testTypeID]
    tt.Remaining = 2
    store.types[testTypeID] = tt
    eng := newTestEngine(store)
    before := store.snapshot()

    _, err := eng.Checkout(context.Background(), checkoutInput(5,
        SeatRef{1, 1}, SeatRef{1, 2}, SeatRef{1, 3}, SeatRef{1, 4}, SeatRef{1, 5}))
    require.ErrorIs(t, err, ErrInsufficientTickets)
    assert.True(t, IsConflict(err))
    equalState(t, before, store.snapshot())
}

func TestCheckoutUnknownTicketType(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    eng := newTestEngine(store)
    before := store.snapshot()

    in := checkoutInput(1, SeatRef{1, 1})
    in.Tickets = map[uint64]uint32{999: 1}
    _, err := eng.Checkout(context.Background(), in)
    require.ErrorIs(t, err, ErrUnknownTicketType)
    assert.True(t, IsValidation(err))
    equalState(t, before, store.snapshot())
}

func TestCheckoutDuplicateSeat(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    eng := newTestEngine(store)

    _, err := eng.Checkout(context.Background(), checkoutInput(2,
        SeatRef{1, 1}, SeatRef{1, 1}))
    require.ErrorIs(t, err, ErrDuplicateSeat)
}

func TestCheckoutNoTickets(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    eng := newTestEngine(store)

    in := checkoutInput(1, SeatRef{1, 1})
    in.Tickets = nil
    in.Seats = nil
    _, err := eng.Checkout(context.Background(), in)
    require.ErrorIs(t, err, ErrNoTickets)
}

func TestCheckoutSeatOutsideGrid(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    eng := newTestEngine(store)
    before := store.snapshot()

    _, err := eng.Checkout(context.Background(), checkoutInput(1, SeatRef{Row: 6, Col: 1}))
    require.ErrorIs(t, err, ErrSeatUnavailable)
    equalState(t, before, store.snapshot())
}

func TestCheckoutSeatAlreadyReserved(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    eng := newTestEngine(store)

    _, err := eng.Checkout(context.Background(), checkoutInput(1, SeatRef{2, 5}))
    require.NoError(t, err)

    before := store.snapshot()
    _, err = eng.Checkout(context.Background(), checkoutInput(1, SeatRef{2, 5}))
    require.ErrorIs(t, err, ErrSeatUnavailable)
    assert.True(t, IsConflict(err))
    equalState(t, before, store.snapshot())
}

// Two checkouts race for seat (2,5): exactly one wins, the loser is
// rejected whole, and the final state shows the seat held by one order.
func TestCheckoutConcurrentSameSeat(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    eng := newTestEngine(store)

    var wg sync.WaitGroup
    errs := make([]error, 2)
    for i := 0; i < 2; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            _, errs[i] = eng.Checkout(context.Background(), checkoutInput(1, SeatRef{Row: 2, Col: 5}))
        }(i)
    }
    wg.Wait()

    var wins, conflicts int
    for _, err := range errs {
        switch {
        case err == nil:
            wins++
        case IsConflict(err):
            conflicts++
        default:
            t.Fatalf("unexpected error: %v", err)
        }
    }
    assert.Equal(t, 1, wins)
    assert.Equal(t, 1, conflicts)
    assert.Equal(t, model.SeatStatusReserved, store.seats[testEventID][SeatRef{2, 5}].status)
    assert.Equal(t, testCapacity-1, store.types[testTypeID].Remaining)
    assert.Len(t, store.orders, 1)
}

func TestCheckoutEventNotFound(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    eng := newTestEngine(store)

    in := checkoutInput(1, SeatRef{1, 1})
    in.EventID = 42
    _, err := eng.Checkout(context.Background(), in)
    require.ErrorIs(t, err, ErrEventNotFound)
}

// Checkout then cancel restores every touched counter and seat.
func TestCancelRoundTrip(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    eng := newTestEngine(store)
    before := store.snapshot()

    conf, err := eng.Checkout(context.Background(), checkoutInput(2,
        SeatRef{3, 3}, SeatRef{3, 4}))
    require.NoError(t, err)

    require.NoError(t, eng.Cancel(context.Background(), conf.OrderID, testUserID))

    after := store.snapshot()
    assert.Equal(t, before.types, after.types, "remaining restored")
    assert.Equal(t, before.seats, after.seats, "seats freed")
    order := store.orders[conf.OrderID]
    assert.Equal(t, model.BookStatusCancelled, order.order.BookStatus)
    require.NotNil(t, order.order.CancellationDate)
}

func TestCancelWindow(t *testing.T) {
    // 8 days out: allowed. 3 days out: rejected, nothing mutated.
    store := seedStore(t, 8*24*time.Hour)
    eng := newTestEngine(store)
    conf, err := eng.Checkout(context.Background(), checkoutInput(1, SeatRef{1, 1}))
    require.NoError(t, err)
    require.NoError(t, eng.Cancel(context.Background(), conf.OrderID, testUserID))

    store = seedStore(t, 3*24*time.Hour)
    eng = newTestEngine(store)
    conf, err = eng.Checkout(context.Background(), checkoutInput(1, SeatRef{1, 1}))
    require.NoError(t, err)
    before := store.snapshot()

    err = eng.Cancel(context.Background(), conf.OrderID, testUserID)
    require.ErrorIs(t, err, ErrNotCancellable)
    assert.True(t, IsEligibility(err))
    equalState(t, before, store.snapshot())
    assert.Equal(t, model.BookStatusBooked, store.orders[conf.OrderID].order.BookStatus)
}

func TestCancelTwice(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    eng := newTestEngine(store)
    conf, err := eng.Checkout(context.Background(), checkoutInput(1, SeatRef{1, 1}))
    require.NoError(t, err)

    require.NoError(t, eng.Cancel(context.Background(), conf.OrderID, testUserID))
    before := store.snapshot()

    err = eng.Cancel(context.Background(), conf.OrderID, testUserID)
    require.ErrorIs(t, err, ErrAlreadyCancelled)
    assert.True(t, IsEligibility(err))
    equalState(t, before, store.snapshot())
}

func TestCancelWrongUser(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    eng := newTestEngine(store)
    conf, err := eng.Checkout(context.Background(), checkoutInput(1, SeatRef{1, 1}))
    require.NoError(t, err)

    err = eng.Cancel(context.Background(), conf.OrderID, testUserID+1)
    require.ErrorIs(t, err, ErrForbidden)
    assert.Equal(t, model.BookStatusBooked, store.orders[conf.OrderID].order.BookStatus)
}

func TestCancelUnknownOrder(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    eng := newTestEngine(store)
    err := eng.Cancel(context.Background(), 777, testUserID)
    require.ErrorIs(t, err, ErrOrderNotFound)
}

// recordingNotifier captures dispatched notifications for assertions.
type recordingNotifier struct {
    mu        sync.Mutex
    confirmed []Notification
    cancelled []Notification
    done      chan struct{}
}

func (r *recordingNotifier) OrderConfirmed(_ context.Context, n Notification) error {
    r.mu.Lock()
    r.confirmed = append(r.confirmed, n)
    r.mu.Unlock()
    r.done <- struct{}{}
    return nil
}

func (r *recordingNotifier) OrderCancelled(_ context.Context, n Notification) error {
    r.mu.Lock()
    r.cancelled = append(r.cancelled, n)
    r.mu.Unlock()
    r.done <- struct{}{}
    return nil
}

func TestNotificationsDispatchedAfterCommit(t *testing.T) {
    store := seedStore(t, 30*24*time.Hour)
    notifier := &recordingNotifier{done: make(chan struct{}, 2)}
    eng := NewEngine(store, notifier, 7*24*time.Hour, nil)

    conf, err := eng.Checkout(context.Background(), checkoutInput(2,
        SeatRef{4, 1}, SeatRef{4, 2}))
    require.NoError(t, err)
    waitNotify(t, notifier.done)

    require.NoError(t, eng.Cancel(context.Background(), conf.OrderID, testUserID))
    waitNotify(t, notifier.done)

    notifier.mu.Lock()
    defer notifier.mu.Unlock()
    require.Len(t, notifier.confirmed, 1)
    require.Len(t, notifier.cancelled, 1)
    assert.Equal(t, "rina@example.com", notifier.confirmed[0].Email)
    assert.Equal(t, "Harbour Jazz Night", notifier.confirmed[0].EventTitle)
    assert.Equal(t, 2, notifier.confirmed[0].Seats)
    assert.Equal(t, conf.Reference, notifier.cancelled[0].Reference)
}

func waitNotify(t *testing.T, done chan struct{}) {
    t.Helper()
    select {
    case <-done:
    case <-time.After(2 * time.Second):
        t.Fatal("notification never dispatched")
    }
}

func TestErrorClassifiers(t *testing.T) {
    assert.True(t, IsValidation(ErrSeatCountMismatch))
    assert.True(t, IsValidation(ErrDuplicateSeat))
    assert.True(t, IsConflict(ErrSeatUnavailable))
    assert.True(t, IsConflict(ErrInsufficientTickets))
    assert.True(t, IsEligibility(ErrNotCancellable))
    assert.False(t, IsValidation(ErrSeatUnavailable))
    assert.False(t, IsConflict(ErrNotCancellable))
    assert.False(t, IsEligibility(ErrOrderNotFound))
}
