package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/larsholm/event-ticketing/internal/repository"
)

// AvailabilityHandler serves the read side of booking: how many tickets
// of each type remain and which seats are taken.  These endpoints sit
// behind the response cache; the short TTL keeps the view close to the
// committed state without a database hit per page load.
type AvailabilityHandler struct {
    Events  *repository.EventRepo
    Tickets *repository.TicketTypeRepo
    Seats   *repository.SeatRepo
}

func NewAvailabilityHandler(events *repository.EventRepo, tickets *repository.TicketTypeRepo, seats *repository.SeatRepo) *AvailabilityHandler {
    if events == nil || tickets == nil || seats == nil {
        panic("nil repository passed to NewAvailabilityHandler")
    }
    return &AvailabilityHandler{Events: events, Tickets: tickets, Seats: seats}
}

type ticketAvailabilityDTO struct {
    ID         uint64 `json:"id"`
    Name       string `json:"name"`
    PriceCents uint32 `json:"price_cents"`
    Capacity   uint32 `json:"capacity"`
    Remaining  uint32 `json:"remaining"`
}

type seatStateResp struct {
    EventID  uint64    `json:"event_id"`
    Rows     uint32    `json:"rows"`
    Cols     uint32    `json:"cols"`
    Reserved []seatDTO `json:"reserved_seats"`
}

// GetTickets handles GET /v1/events/:id/tickets: each ticket type with
// its price and remaining count.
func (h *AvailabilityHandler) GetTickets(c echo.Context) error {
    eventID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    ctx := c.Request().Context()

    if _, err := h.Events.GetByID(ctx, eventID); err != nil {
        if err == repository.ErrEventNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    types, err := h.Tickets.ListByEvent(ctx, eventID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    out := make([]ticketAvailabilityDTO, 0, len(types))
    for _, tt := range types {
        out = append(out, ticketAvailabilityDTO{
            ID:         tt.ID,
            Name:       tt.Name,
            PriceCents: tt.PriceCents,
            Capacity:   tt.Capacity,
            Remaining:  tt.Remaining,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"event_id": eventID, "tickets": out})
}

// GetSeats handles GET /v1/events/:id/seats: grid dimensions plus the
// positions already reserved.  Positions are returned 0-indexed, matching
// the coordinates clients send back at checkout.
func (h *AvailabilityHandler) GetSeats(c echo.Context) error {
    eventID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    ctx := c.Request().Context()

    ev, err := h.Events.GetByID(ctx, eventID)
    if err != nil {
        if err == repository.ErrEventNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    reserved, err := h.Seats.ReservedCoords(ctx, eventID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    resp := seatStateResp{
        EventID:  ev.ID,
        Rows:     ev.SeatRows,
        Cols:     ev.SeatCols,
        Reserved: make([]seatDTO, 0, len(reserved)),
    }
    for _, s := range reserved {
        resp.Reserved = append(resp.Reserved, seatDTO{Row: s.Row - 1, Col: s.Col - 1})
    }
    return c.JSON(http.StatusOK, resp)
}
