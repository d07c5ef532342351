package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"go.uber.org/zap"
)

func (l *Ledger) Confirm(ctx context.Context, id string) (models.Order, error) {
	return l.transition(ctx, id, models.OrderStatusConfirmed, "")
}

func (l *Ledger) Deliver(ctx context.Context, id string) (models.Order, error) {
	return l.transition(ctx, id, models.OrderStatusDelivered, "")
}

func (l *Ledger) Cancel(ctx context.Context, id string) (models.Order, error) {
	return l.transition(ctx, id, models.OrderStatusCancelled, "")
}

// Ship moves a confirmed order to shipped and records the delivery date.
// The date must fall on today or later in the ledger's location.
func (l *Ledger) Ship(ctx context.Context, id string, deliveryDate time.Time) (models.Order, error) {
	day := civilDay(deliveryDate.In(l.loc))
	today := civilDay(l.now().In(l.loc))
	if day.Before(today) {
		return models.Order{}, ErrDeliveryDateInPast
	}
	return l.transition(ctx, id, models.OrderStatusShipped, day.Format(models.DeliveryDateLayout))
}

// ShipOn is Ship for a "2006-01-02" date string.
func (l *Ledger) ShipOn(ctx context.Context, id, date string) (models.Order, error) {
	if date == "" {
		return models.Order{}, ErrDeliveryDateRequired
	}
	day, err := time.ParseInLocation(models.DeliveryDateLayout, date, l.loc)
	if err != nil {
		return models.Order{}, fmt.Errorf("parse delivery date %q: %w", date, err)
	}
	return l.Ship(ctx, id, day)
}

// SetStatus is the generic status control. Shipping needs a delivery date,
// so status shipped is refused here; use Ship.
func (l *Ledger) SetStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	switch {
	case !status.Valid():
		return models.Order{}, ErrUnknownStatus
	case status == models.OrderStatusShipped:
		return models.Order{}, ErrDeliveryDateRequired
	}
	return l.transition(ctx, id, status, "")
}

func (l *Ledger) transition(ctx context.Context, id string, to models.OrderStatus, deliveryDate string) (models.Order, error) {
	l.mu.Lock()

	i := l.indexOf(id)
	if i < 0 {
		l.mu.Unlock()
		return models.Order{}, ErrOrderNotFound
	}

	from := l.orders[i].Status
	if !from.CanTransitionTo(to) {
		l.mu.Unlock()
		return models.Order{}, &TransitionError{OrderID: id, From: from, To: to}
	}

	l.orders[i].Status = to
	if deliveryDate != "" {
		l.orders[i].DeliveryDate = deliveryDate
	}
	updated := l.orders[i].Clone()
	l.save(ctx)
	l.mu.Unlock()

	l.pub.Publish(events.Event{Kind: events.OrderUpdated, Subject: id})
	l.logger.Info("order status changed",
		zap.String("order_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("delivery_date", deliveryDate))
	return updated, nil
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
