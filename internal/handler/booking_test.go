package handler

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/mock"
    "github.com/stretchr/testify/require"

    "github.com/larsholm/event-ticketing/internal/booking"
)

type mockBookingService struct {
    mock.Mock
}

func (m *mockBookingService) Checkout(ctx context.Context, in booking.CheckoutInput) (*booking.Confirmation, error) {
    args := m.Called(ctx, in)
    if args.Get(0) == nil {
        return nil, args.Error(1)
    }
    return args.Get(0).(*booking.Confirmation), args.Error(1)
}

func (m *mockBookingService) Cancel(ctx context.Context, orderID, userID uint64) error {
    args := m.Called(ctx, orderID, userID)
    return args.Error(0)
}

func newTestEcho() *echo.Echo {
    e := echo.New()
    e.Validator = NewValidator()
    return e
}

const checkoutBody = `{
    "tickets": [{"ticket_type_id": 10, "quantity": 2}],
    "seats": [{"row": 0, "col": 0}, {"row": 0, "col": 1}],
    "billing": {
        "name": "Jo Reader",
        "phone": "555-0100",
        "email": "jo@example.com",
        "billing_address": "1 Main St",
        "card_number": "4111111111111111",
        "expiry_date": "12/27",
        "card_cvv": "123"
    }
}`

func checkoutContext(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
    req := httptest.NewRequest(http.MethodPost, "/v1/events/1/checkout", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath("/v1/events/:id/checkout")
    c.SetParamNames("id")
    c.SetParamValues("1")
    c.Set("user_id", float64(100)) // as JWTAuth stores it
    return c, rec
}

func TestCheckoutTranslatesSeatsAndReturnsConfirmation(t *testing.T) {
    e := newTestEcho()
    svc := new(mockBookingService)
    conf := &booking.Confirmation{OrderID: 7, Reference: "ref-7", BillCents: 5000, BookedAt: time.Now().UTC()}
    svc.On("Checkout", mock.Anything, mock.MatchedBy(func(in booking.CheckoutInput) bool {
        // Client sent 0-indexed (0,0) and (0,1); storage wants (1,1) and (1,2).
        return in.UserID == 100 && in.EventID == 1 &&
            in.Tickets[10] == 2 &&
            len(in.Seats) == 2 &&
            in.Seats[0] == booking.SeatRef{Row: 1, Col: 1} &&
            in.Seats[1] == booking.SeatRef{Row: 1, Col: 2}
    })).Return(conf, nil)

    h := NewBookingHandler(svc, nil)
    c, rec := checkoutContext(e, checkoutBody)

    require.NoError(t, h.Checkout(c))
    assert.Equal(t, http.StatusCreated, rec.Code)

    var got booking.Confirmation
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
    assert.Equal(t, uint64(7), got.OrderID)
    assert.Equal(t, "ref-7", got.Reference)
    svc.AssertExpectations(t)
}

func TestCheckoutWithoutUserIs401(t *testing.T) {
    e := newTestEcho()
    h := NewBookingHandler(new(mockBookingService), nil)

    req := httptest.NewRequest(http.MethodPost, "/v1/events/1/checkout", strings.NewReader(checkoutBody))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetParamNames("id")
    c.SetParamValues("1")

    require.NoError(t, h.Checkout(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckoutErrorMapping(t *testing.T) {
    cases := []struct {
        name string
        err  error
        code int
    }{
        {"seat taken is conflict", booking.ErrSeatUnavailable, http.StatusConflict},
        {"sold out is conflict", booking.ErrInsufficientTickets, http.StatusConflict},
        {"count mismatch is bad request", booking.ErrSeatCountMismatch, http.StatusBadRequest},
        {"unknown ticket type is bad request", booking.ErrUnknownTicketType, http.StatusBadRequest},
        {"missing event is not found", booking.ErrEventNotFound, http.StatusNotFound},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            e := newTestEcho()
            svc := new(mockBookingService)
            svc.On("Checkout", mock.Anything, mock.Anything).Return(nil, tc.err)

            h := NewBookingHandler(svc, nil)
            c, rec := checkoutContext(e, checkoutBody)

            require.NoError(t, h.Checkout(c))
            assert.Equal(t, tc.code, rec.Code)
        })
    }
}

func TestCheckoutRejectsInvalidBody(t *testing.T) {
    e := newTestEcho()
    svc := new(mockBookingService)
    h := NewBookingHandler(svc, nil)

    c, _ := checkoutContext(e, `{"tickets": [], "seats": []}`)
    err := h.Checkout(c)
    require.Error(t, err)
    he, ok := err.(*echo.HTTPError)
    require.True(t, ok)
    assert.Equal(t, http.StatusBadRequest, he.Code)
    svc.AssertNotCalled(t, "Checkout")
}

func cancelContext(e *echo.Echo, orderID string) (echo.Context, *httptest.ResponseRecorder) {
    req := httptest.NewRequest(http.MethodDelete, "/v1/orders/"+orderID, nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath("/v1/orders/:id")
    c.SetParamNames("id")
    c.SetParamValues(orderID)
    c.Set("user_id", float64(100))
    return c, rec
}

func TestCancelSuccess(t *testing.T) {
    e := newTestEcho()
    svc := new(mockBookingService)
    svc.On("Cancel", mock.Anything, uint64(7), uint64(100)).Return(nil)

    h := NewBookingHandler(svc, nil)
    c, rec := cancelContext(e, "7")

    require.NoError(t, h.Cancel(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), "CANCELLED")
    svc.AssertExpectations(t)
}

func TestCancelErrorMapping(t *testing.T) {
    cases := []struct {
        name string
        err  error
        code int
    }{
        {"window passed", booking.ErrNotCancellable, http.StatusUnprocessableEntity},
        {"already cancelled", booking.ErrAlreadyCancelled, http.StatusUnprocessableEntity},
        {"someone else's order", booking.ErrForbidden, http.StatusForbidden},
        {"unknown order", booking.ErrOrderNotFound, http.StatusNotFound},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            e := newTestEcho()
            svc := new(mockBookingService)
            svc.On("Cancel", mock.Anything, uint64(7), uint64(100)).Return(tc.err)

            h := NewBookingHandler(svc, nil)
            c, rec := cancelContext(e, "7")

            require.NoError(t, h.Cancel(c))
            assert.Equal(t, tc.code, rec.Code)
        })
    }
}
