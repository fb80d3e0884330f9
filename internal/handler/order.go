package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/larsholm/event-ticketing/internal/repository"
)

// OrderHandler serves the authenticated user's booking history.  Writes
// go through BookingHandler; this one only reads.
type OrderHandler struct {
    Orders *repository.OrderRepo
}

func NewOrderHandler(orders *repository.OrderRepo) *OrderHandler {
    if orders == nil {
        panic("nil repository passed to NewOrderHandler")
    }
    return &OrderHandler{Orders: orders}
}

type orderSummaryDTO struct {
    ID          uint64     `json:"id"`
    Reference   string     `json:"reference"`
    EventID     uint64     `json:"event_id"`
    EventTitle  string     `json:"event_title"`
    EventVenue  string     `json:"event_venue"`
    EventStart  time.Time  `json:"event_start"`
    Status      string     `json:"status"`
    BillCents   uint32     `json:"bill_cents"`
    BookedAt    time.Time  `json:"booked_at"`
    CancelledAt *time.Time `json:"cancelled_at,omitempty"`
    SeatCount   int        `json:"seat_count"`
}

type orderLineDTO struct {
    TicketTypeID   uint64 `json:"ticket_type_id"`
    TicketTypeName string `json:"ticket_type_name"`
    Quantity       uint32 `json:"quantity"`
    UnitPriceCents uint32 `json:"unit_price_cents"`
}

type orderDetailDTO struct {
    orderSummaryDTO
    BuyerName  string         `json:"buyer_name"`
    BuyerEmail string         `json:"buyer_email"`
    CardLast4  string         `json:"card_last4"`
    Lines      []orderLineDTO `json:"tickets"`
    Seats      []seatDTO      `json:"seats"`
}

// ListMine handles GET /v1/my-orders.  Orders are sorted by event start,
// newest first, and include cancelled bookings.
func (h *OrderHandler) ListMine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    summaries, err := h.Orders.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    out := make([]orderSummaryDTO, 0, len(summaries))
    for _, s := range summaries {
        out = append(out, summaryDTO(s))
    }
    return c.JSON(http.StatusOK, echo.Map{"orders": out})
}

// Get handles GET /v1/orders/:id.  Only the order's owner may view it.
func (h *OrderHandler) Get(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    orderID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
    }

    d, err := h.Orders.GetDetailForUser(c.Request().Context(), orderID, userID)
    if err != nil {
        switch err {
        case repository.ErrOrderNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
        case repository.ErrForbidden:
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    resp := orderDetailDTO{
        orderSummaryDTO: summaryDTO(repository.OrderSummary{
            Order:      d.Order,
            EventTitle: d.EventTitle,
            EventVenue: d.EventVenue,
            EventStart: d.EventStart,
            SeatCount:  len(d.Seats),
        }),
        BuyerName:  d.Order.BuyerName,
        BuyerEmail: d.Order.BuyerEmail,
        CardLast4:  d.Order.CardLast4,
        Lines:      make([]orderLineDTO, 0, len(d.Lines)),
        Seats:      make([]seatDTO, 0, len(d.Seats)),
    }
    for _, l := range d.Lines {
        resp.Lines = append(resp.Lines, orderLineDTO{
            TicketTypeID:   l.TicketTypeID,
            TicketTypeName: l.TicketTypeName,
            Quantity:       l.Quantity,
            UnitPriceCents: l.UnitPriceCents,
        })
    }
    for _, s := range d.Seats {
        resp.Seats = append(resp.Seats, seatDTO{Row: s.Row - 1, Col: s.Col - 1})
    }
    return c.JSON(http.StatusOK, resp)
}

func summaryDTO(s repository.OrderSummary) orderSummaryDTO {
    return orderSummaryDTO{
        ID:          s.Order.ID,
        Reference:   s.Order.Reference,
        EventID:     s.Order.EventID,
        EventTitle:  s.EventTitle,
        EventVenue:  s.EventVenue,
        EventStart:  s.EventStart,
        Status:      s.Order.BookStatus,
        BillCents:   s.Order.BillCents,
        BookedAt:    s.Order.BookDate,
        CancelledAt: s.Order.CancellationDate,
        SeatCount:   s.SeatCount,
    }
}
