package queue_publisher

import (
    "context"
    "time"

    "go.uber.org/zap"

    "github.com/larsholm/event-ticketing/internal/booking"
    q "github.com/larsholm/event-ticketing/internal/queue"
)

// QueueNotifier adapts the RabbitMQ publisher to the reservation engine's
// notifier contract.  Each dispatch happens after the booking transaction
// has committed; a publish failure is logged by the publisher and never
// propagates back into the booking outcome.
type QueueNotifier struct {
    log *zap.Logger
}

// NewQueueNotifier returns a notifier publishing to RabbitMQ.  log may be
// nil.
func NewQueueNotifier(log *zap.Logger) *QueueNotifier {
    if log == nil {
        log = zap.NewNop()
    }
    return &QueueNotifier{log: log}
}

// OrderConfirmed publishes an order.confirmed event.
func (n *QueueNotifier) OrderConfirmed(ctx context.Context, ntf booking.Notification) error {
    return PublishOrderConfirmed(ctx, n.log, q.OrderConfirmedEvent{
        OrderID:    ntf.OrderID,
        Reference:  ntf.Reference,
        UserID:     ntf.UserID,
        Email:      ntf.Email,
        EventID:    ntf.EventID,
        EventTitle: ntf.EventTitle,
        Venue:      ntf.EventVenue,
        StartsAt:   ntf.EventStart.UTC().Format(time.RFC3339),
        SeatCount:  ntf.Seats,
        BillCents:  ntf.BillCents,
        BookedAt:   ntf.OccurredAt.UTC().Format(time.RFC3339),
    })
}

// OrderCancelled publishes an order.cancelled event.
func (n *QueueNotifier) OrderCancelled(ctx context.Context, ntf booking.Notification) error {
    return PublishOrderCancelled(ctx, n.log, q.OrderCancelledEvent{
        OrderID:     ntf.OrderID,
        Reference:   ntf.Reference,
        UserID:      ntf.UserID,
        Email:       ntf.Email,
        EventID:     ntf.EventID,
        EventTitle:  ntf.EventTitle,
        Venue:       ntf.EventVenue,
        StartsAt:    ntf.EventStart.UTC().Format(time.RFC3339),
        SeatCount:   ntf.Seats,
        BillCents:   ntf.BillCents,
        CancelledAt: ntf.OccurredAt.UTC().Format(time.RFC3339),
    })
}
