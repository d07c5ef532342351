// Package orders is the ledger of placed orders and the administrator's
// status workflow over them.
package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/paging"
	"github.com/safar/go-storefront/internal/store"
	"go.uber.org/zap"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrDuplicateOrder       = errors.New("order already exists")
	ErrOrderNotPending      = errors.New("new orders must be pending")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrDeliveryDateRequired = errors.New("delivery date required to ship")
	ErrDeliveryDateInPast   = errors.New("delivery date is in the past")
	ErrUnknownStatus        = errors.New("unknown order status")
)

// TransitionError names the rejected move. It matches ErrInvalidTransition
// under errors.Is.
type TransitionError struct {
	OrderID string
	From    models.OrderStatus
	To      models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order %s: cannot move from %s to %s", e.OrderID, e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

type Ledger struct {
	mu     sync.Mutex
	orders []models.Order

	store  store.Store
	logger *zap.Logger
	pub    events.Publisher
	now    func() time.Time
	loc    *time.Location
}

type Option func(*Ledger)

// WithClock replaces time.Now, for the delivery-date check.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLocation sets the time zone that defines a calendar day.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// Open loads the ledger stored under store.KeyOrders.
func Open(ctx context.Context, s store.Store, logger *zap.Logger, pub events.Publisher, opts ...Option) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pub == nil {
		pub = events.Discard
	}

	l := &Ledger{
		store:  s,
		logger: logger.Named("orders"),
		pub:    pub,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.orders, _ = store.Load[[]models.Order](ctx, s, store.KeyOrders, l.logger)
	return l
}

// Append records a new order. Only pending orders with an unused id are
// accepted; the ledger keeps its own copy.
func (l *Ledger) Append(ctx context.Context, order models.Order) error {
	if order.Status != models.OrderStatusPending {
		return ErrOrderNotPending
	}

	l.mu.Lock()
	if l.indexOf(order.ID) >= 0 {
		l.mu.Unlock()
		return ErrDuplicateOrder
	}
	l.orders = append(l.orders, order.Clone())
	l.save(ctx)
	l.mu.Unlock()

	l.pub.Publish(events.Event{Kind: events.OrderPlaced, Subject: order.ID})
	l.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.String("total", order.Total.String()),
		zap.String("payment_method", string(order.PaymentMethod)))
	return nil
}

func (l *Ledger) Get(id string) (models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return models.Order{}, ErrOrderNotFound
	}
	return l.orders[i].Clone(), nil
}

// All returns every order in placement order.
func (l *Ledger) All() []models.Order {
	return l.filter(func(models.Order) bool { return true })
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.orders)
}

// Last returns the most recently appended order.
func (l *Ledger) Last() (models.Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.orders) == 0 {
		return models.Order{}, false
	}
	return l.orders[len(l.orders)-1].Clone(), true
}

func (l *Ledger) ForUser(userID string) []models.Order {
	return l.filter(func(o models.Order) bool { return o.UserID == userID })
}

// On returns orders placed on the calendar day of day, in the ledger's
// location.
func (l *Ledger) On(day time.Time) []models.Order {
	y, m, d := day.In(l.loc).Date()
	return l.filter(func(o models.Order) bool {
		oy, om, od := o.CreatedAt.In(l.loc).Date()
		return oy == y && om == m && od == d
	})
}

// OnDate is On for a "2006-01-02" string.
func (l *Ledger) OnDate(date string) ([]models.Order, error) {
	day, err := time.ParseInLocation(models.DeliveryDateLayout, date, l.loc)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", date, err)
	}
	return l.On(day), nil
}

// List pages through all orders, newest first.
func (l *Ledger) List(page, pageSize int) *paging.OffsetPage[models.Order] {
	return paging.Offset(newestFirst(l.All()), page, pageSize)
}

// ListForUser pages through one user's orders, newest first, using an
// opaque cursor from the previous page.
func (l *Ledger) ListForUser(userID, cursor string, limit int) (*paging.CursorPage[models.Order], error) {
	after, ok, err := paging.DecodeCursor(cursor)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	_, limit = paging.Normalize(1, limit)

	var items []models.Order
	for _, o := range newestFirst(l.ForUser(userID)) {
		if ok && !after.Before(o.CreatedAt, o.ID) {
			continue
		}
		items = append(items, o)
		if len(items) > limit {
			break
		}
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var next string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		next = paging.EncodeCursor(paging.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &paging.CursorPage[models.Order]{
		Items:      items,
		NextCursor: next,
		HasMore:    hasMore,
	}, nil
}

func (l *Ledger) filter(keep func(models.Order) bool) []models.Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []models.Order
	for _, o := range l.orders {
		if keep(o) {
			out = append(out, o.Clone())
		}
	}
	return out
}

func (l *Ledger) indexOf(id string) int {
	for i, o := range l.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) save(ctx context.Context) {
	store.Persist(ctx, l.store, store.KeyOrders, l.orders, l.logger)
}

func newestFirst(orders []models.Order) []models.Order {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}
