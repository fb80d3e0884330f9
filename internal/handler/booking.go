package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/larsholm/event-ticketing/internal/booking"
    "github.com/larsholm/event-ticketing/internal/metrics"
)

// BookingHandler exposes checkout and cancellation over HTTP.  It owns
// the translation between the client's 0-indexed seat coordinates and the
// 1-indexed positions used in storage, and the mapping from engine errors
// to status codes.
type BookingHandler struct {
    Engine  BookingService
    Metrics *metrics.Metrics
}

func NewBookingHandler(engine BookingService, m *metrics.Metrics) *BookingHandler {
    if engine == nil {
        panic("nil engine passed to NewBookingHandler")
    }
    return &BookingHandler{Engine: engine, Metrics: m}
}

// ----- DTOs -----

type seatDTO struct {
    Row uint32 `json:"row"`
    Col uint32 `json:"col"`
}

type ticketLineDTO struct {
    TicketTypeID uint64 `json:"ticket_type_id" validate:"required"`
    Quantity     uint32 `json:"quantity" validate:"required,min=1"`
}

type billingDTO struct {
    Name            string `json:"name" validate:"required"`
    Phone           string `json:"phone" validate:"required"`
    Email           string `json:"email" validate:"required,email"`
    ShippingAddress string `json:"shipping_address"`
    BillingAddress  string `json:"billing_address" validate:"required"`
    CardNumber      string `json:"card_number" validate:"required,min=12"`
    ExpiryDate      string `json:"expiry_date" validate:"required"`
    CardCVV         string `json:"card_cvv" validate:"required,min=3"`
}

type checkoutReq struct {
    Tickets []ticketLineDTO `json:"tickets" validate:"required,min=1,dive"`
    Seats   []seatDTO       `json:"seats" validate:"required,min=1"`
    Billing billingDTO      `json:"billing" validate:"required"`
}

// Checkout handles POST /v1/events/:id/checkout.  The request carries the
// ticket quantities, the picked seats in 0-indexed grid coordinates and
// the billing detail.  On success it returns 201 with the confirmation;
// validation failures map to 400, lost races to 409.
func (h *BookingHandler) Checkout(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    var req checkoutReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    tickets := make(map[uint64]uint32, len(req.Tickets))
    for _, l := range req.Tickets {
        tickets[l.TicketTypeID] += l.Quantity
    }
    // Clients speak 0-indexed coordinates; storage is 1-indexed.
    seats := make([]booking.SeatRef, len(req.Seats))
    for i, s := range req.Seats {
        seats[i] = booking.SeatRef{Row: s.Row + 1, Col: s.Col + 1}
    }

    conf, err := h.Engine.Checkout(c.Request().Context(), booking.CheckoutInput{
        UserID:  userID,
        EventID: eventID,
        Tickets: tickets,
        Seats:   seats,
        Billing: booking.BillingInfo{
            Name:            req.Billing.Name,
            Phone:           req.Billing.Phone,
            Email:           req.Billing.Email,
            ShippingAddress: req.Billing.ShippingAddress,
            BillingAddress:  req.Billing.BillingAddress,
            CardNumber:      req.Billing.CardNumber,
            ExpiryDate:      req.Billing.ExpiryDate,
            CardCVV:         req.Billing.CardCVV,
        },
    })
    if err != nil {
        h.countCheckout(checkoutOutcome(err))
        return h.bookingError(c, err)
    }

    h.countCheckout("booked")
    return c.JSON(http.StatusCreated, conf)
}

// Cancel handles DELETE /v1/orders/:id.  Eligibility is decided by
// the engine; ineligible orders map to 422.
func (h *BookingHandler) Cancel(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    orderID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
    }

    if err := h.Engine.Cancel(c.Request().Context(), orderID, userID); err != nil {
        h.countCancel(cancelOutcome(err))
        return h.bookingError(c, err)
    }

    h.countCancel("cancelled")
    return c.JSON(http.StatusOK, echo.Map{"order_id": orderID, "status": "CANCELLED"})
}

// bookingError maps engine sentinels to HTTP responses.  Conflicts (a
// seat or ticket lost to a concurrent checkout) are 409 so clients know
// to refresh availability and retry; eligibility failures are 422.
func (h *BookingHandler) bookingError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, booking.ErrEventNotFound), errors.Is(err, booking.ErrOrderNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, booking.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case booking.IsConflict(err):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case booking.IsEligibility(err):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
    case booking.IsValidation(err):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
    }
}

func checkoutOutcome(err error) string {
    switch {
    case booking.IsConflict(err):
        return "conflict"
    case booking.IsValidation(err):
        return "validation"
    default:
        return "error"
    }
}

func cancelOutcome(err error) string {
    switch {
    case booking.IsEligibility(err):
        return "rejected"
    default:
        return "error"
    }
}

func (h *BookingHandler) countCheckout(status string) {
    if h.Metrics != nil {
        h.Metrics.CheckoutsTotal.WithLabelValues(status).Inc()
    }
}

func (h *BookingHandler) countCancel(status string) {
    if h.Metrics != nil {
        h.Metrics.CancellationsTotal.WithLabelValues(status).Inc()
    }
}
