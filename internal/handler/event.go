package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/larsholm/event-ticketing/internal/model"
    "github.com/larsholm/event-ticketing/internal/repository"
)

// EventHandler covers event discovery for attendees and event management
// for organizers.  Management endpoints assume the ORGANIZER role has
// been enforced by middleware; ownership of the individual event is
// checked in the repository.
type EventHandler struct {
    Events  *repository.EventRepo
    Tickets *repository.TicketTypeRepo
}

func NewEventHandler(events *repository.EventRepo, tickets *repository.TicketTypeRepo) *EventHandler {
    if events == nil || tickets == nil {
        panic("nil repository passed to NewEventHandler")
    }
    return &EventHandler{Events: events, Tickets: tickets}
}

// ----- DTOs -----

type ticketTypeReq struct {
    Name        string `json:"name" validate:"required"`
    Description string `json:"description"`
    PriceCents  uint32 `json:"price_cents" validate:"required,min=1"`
    Capacity    uint32 `json:"capacity" validate:"required,min=1"`
}

type createEventReq struct {
    Title       string          `json:"title" validate:"required"`
    Description string          `json:"description"`
    Type        string          `json:"type" validate:"required"`
    Category    string          `json:"category" validate:"required"`
    Venue       string          `json:"venue" validate:"required"`
    IsOnline    bool            `json:"is_online"`
    StartTime   time.Time       `json:"start_time" validate:"required"`
    EndTime     time.Time       `json:"end_time" validate:"required"`
    SeatRows    uint32          `json:"seat_rows" validate:"required,min=1"`
    SeatCols    uint32          `json:"seat_cols" validate:"required,min=1"`
    Tickets     []ticketTypeReq `json:"tickets" validate:"required,min=1,dive"`
}

type updateEventReq struct {
    Title       string    `json:"title" validate:"required"`
    Description string    `json:"description"`
    Type        string    `json:"type" validate:"required"`
    Category    string    `json:"category" validate:"required"`
    Venue       string    `json:"venue" validate:"required"`
    IsOnline    bool      `json:"is_online"`
    StartTime   time.Time `json:"start_time" validate:"required"`
    EndTime     time.Time `json:"end_time" validate:"required"`
}

type eventDTO struct {
    ID          uint64    `json:"id"`
    Title       string    `json:"title"`
    Description string    `json:"description"`
    Type        string    `json:"type"`
    Category    string    `json:"category"`
    Venue       string    `json:"venue"`
    IsOnline    bool      `json:"is_online"`
    StartTime   time.Time `json:"start_time"`
    EndTime     time.Time `json:"end_time"`
    Status      string    `json:"status"`
    SeatRows    uint32    `json:"seat_rows"`
    SeatCols    uint32    `json:"seat_cols"`
}

func eventToDTO(ev model.Event) eventDTO {
    return eventDTO{
        ID:          ev.ID,
        Title:       ev.Title,
        Description: ev.Description,
        Type:        ev.Type,
        Category:    ev.Category,
        Venue:       ev.Venue,
        IsOnline:    ev.IsOnline,
        StartTime:   ev.StartTime,
        EndTime:     ev.EndTime,
        Status:      ev.Status,
        SeatRows:    ev.SeatRows,
        SeatCols:    ev.SeatCols,
    }
}

// List handles GET /v1/events.  Query parameters narrow the listing:
// category, type, online=true, date=today|tomorrow|weekend, and
// sort=date|venue with desc=true for descending order.  Only PUBLISHED
// events appear.
func (h *EventHandler) List(c echo.Context) error {
    f := repository.EventFilter{
        Category:   c.QueryParam("category"),
        Type:       c.QueryParam("type"),
        OnlineOnly: c.QueryParam("online") == "true",
        DateBucket: c.QueryParam("date"),
        SortKey:    c.QueryParam("sort"),
        SortDesc:   c.QueryParam("desc") == "true",
        Now:        time.Now().UTC(),
    }
    events, err := h.Events.List(c.Request().Context(), f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]eventDTO, 0, len(events))
    for _, ev := range events {
        out = append(out, eventToDTO(ev))
    }
    return c.JSON(http.StatusOK, echo.Map{"events": out})
}

// Get handles GET /v1/events/:id with the event's ticket types inline.
func (h *EventHandler) Get(c echo.Context) error {
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
    types, err := h.Tickets.ListByEvent(ctx, eventID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    tickets := make([]ticketAvailabilityDTO, 0, len(types))
    for _, tt := range types {
        tickets = append(tickets, ticketAvailabilityDTO{
            ID:         tt.ID,
            Name:       tt.Name,
            PriceCents: tt.PriceCents,
            Capacity:   tt.Capacity,
            Remaining:  tt.Remaining,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"event": eventToDTO(*ev), "tickets": tickets})
}

// Create handles POST /v1/organizer/events.  The event starts in DRAFT;
// the seat grid must be able to hold every ticket that could be sold, so
// rows*cols is validated against the summed capacity before anything is
// written.
func (h *EventHandler) Create(c echo.Context) error {
    organizerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createEventReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    if !req.EndTime.After(req.StartTime) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
    }
    var totalCapacity uint64
    for _, tt := range req.Tickets {
        totalCapacity += uint64(tt.Capacity)
    }
    if totalCapacity > uint64(req.SeatRows)*uint64(req.SeatCols) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat grid smaller than total ticket capacity"})
    }

    ev := model.Event{
        OrganizerID: organizerID,
        Title:       req.Title,
        Description: req.Description,
        Type:        req.Type,
        Category:    req.Category,
        Venue:       req.Venue,
        IsOnline:    req.IsOnline,
        StartTime:   req.StartTime,
        EndTime:     req.EndTime,
        Status:      model.EventStatusDraft,
        SeatRows:    req.SeatRows,
        SeatCols:    req.SeatCols,
    }
    tickets := make([]repository.NewTicketType, 0, len(req.Tickets))
    for _, tt := range req.Tickets {
        tickets = append(tickets, repository.NewTicketType{
            Name:        tt.Name,
            Description: tt.Description,
            PriceCents:  tt.PriceCents,
            Capacity:    tt.Capacity,
        })
    }

    if err := h.Events.Create(c.Request().Context(), &ev, tickets); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"event": eventToDTO(ev)})
}

// ListMine handles GET /v1/organizer/events, including drafts.
func (h *EventHandler) ListMine(c echo.Context) error {
    organizerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    events, err := h.Events.List(c.Request().Context(), repository.EventFilter{
        IncludeDrafts: true,
        Now:           time.Now().UTC(),
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]eventDTO, 0, len(events))
    for _, ev := range events {
        if ev.OrganizerID == organizerID {
            out = append(out, eventToDTO(ev))
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"events": out})
}

// Update handles PUT /v1/organizer/events/:id.  Grid dimensions and
// ticket types are immutable; only descriptive fields change.
func (h *EventHandler) Update(c echo.Context) error {
    organizerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    var req updateEventReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    if !req.EndTime.After(req.StartTime) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
    }

    ev := model.Event{
        ID:          eventID,
        Title:       req.Title,
        Description: req.Description,
        Type:        req.Type,
        Category:    req.Category,
        Venue:       req.Venue,
        IsOnline:    req.IsOnline,
        StartTime:   req.StartTime,
        EndTime:     req.EndTime,
    }
    if err := h.Events.UpdateInfo(c.Request().Context(), &ev, organizerID); err != nil {
        return h.repoError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"event_id": eventID})
}

// Publish handles POST /v1/organizer/events/:id/publish.
func (h *EventHandler) Publish(c echo.Context) error {
    organizerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    if err := h.Events.Publish(c.Request().Context(), eventID, organizerID); err != nil {
        return h.repoError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"event_id": eventID, "status": model.EventStatusPublished})
}

// Delete handles DELETE /v1/organizer/events/:id.  Events with active
// bookings cannot be deleted.
func (h *EventHandler) Delete(c echo.Context) error {
    organizerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    if err := h.Events.Delete(c.Request().Context(), eventID, organizerID); err != nil {
        if err == repository.ErrConflict {
            return c.JSON(http.StatusConflict, echo.Map{"error": "event has active bookings"})
        }
        return h.repoError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

func (h *EventHandler) repoError(c echo.Context, err error) error {
    switch err {
    case repository.ErrEventNotFound:
        return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
    case repository.ErrForbidden:
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
