package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zvrva/reservio/internal/domain"
)

// Handler receives every dispatched notification and is expected to filter
// by its own channel; the dispatcher broadcasts, it does not route.
type Handler interface {
	Name() string
	Handle(ctx context.Context, n *domain.Notification) error
}

// Dispatcher fans notifications out to an ordered set of handlers.
type Dispatcher struct {
	mu       sync.Mutex
	handlers []Handler
	log      *zap.Logger
}

func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

// Attach registers a handler at the end of the dispatch order. Attaching the
// same handler twice is a no-op.
func (d *Dispatcher) Attach(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.handlers {
		if existing == h {
			return
		}
	}
	d.handlers = append(d.handlers, h)
}

func (d *Dispatcher) Detach(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, existing := range d.handlers {
		if existing == h {
			d.handlers = append(d.handlers[:i], d.handlers[i+1:]...)
			return
		}
	}
}

// Dispatch calls every attached handler synchronously, in attachment order.
// A failing or panicking handler is logged and does not stop the rest.
func (d *Dispatcher) Dispatch(ctx context.Context, n *domain.Notification) {
	d.mu.Lock()
	handlers := make([]Handler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.Unlock()

	for _, h := range handlers {
		d.invoke(ctx, h, n)
	}
}

func (d *Dispatcher) invoke(ctx context.Context, h Handler, n *domain.Notification) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("notification handler panicked",
				zap.String("handler", h.Name()),
				zap.String("notification_id", n.ID),
				zap.Any("panic", r))
		}
	}()
	if err := h.Handle(ctx, n); err != nil {
		d.log.Error("notification handler failed",
			zap.String("handler", h.Name()),
			zap.String("notification_id", n.ID),
			zap.Error(err))
	}
}

// SendNotification builds a notification with a fresh id and current
// timestamp, dispatches it and returns it.
func (d *Dispatcher) SendNotification(ctx context.Context, userID, message string, channel domain.Channel) *domain.Notification {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		Channel:   channel,
		CreatedAt: time.Now(),
	}
	d.Dispatch(ctx, n)
	return n
}

// SendReservationConfirmation emits the confirmation on EMAIL and IN_APP.
func (d *Dispatcher) SendReservationConfirmation(ctx context.Context, userID, reservationID string) {
	message := fmt.Sprintf("Your reservation %s has been confirmed.", reservationID)
	d.SendNotification(ctx, userID, message, domain.ChannelEmail)
	d.SendNotification(ctx, userID, message, domain.ChannelInApp)
}

// SendPaymentConfirmation emits the confirmation on EMAIL and SMS.
func (d *Dispatcher) SendPaymentConfirmation(ctx context.Context, userID, paymentID string) {
	message := fmt.Sprintf("Your payment %s was processed successfully.", paymentID)
	d.SendNotification(ctx, userID, message, domain.ChannelEmail)
	d.SendNotification(ctx, userID, message, domain.ChannelSMS)
}
