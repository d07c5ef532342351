// Package cart aggregates the active session's product selections.
package cart

import (
	"context"
	"sync"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cart holds at most one item per product id, in first-added order. Every
// mutation writes the whole cart back under store.KeyCart; a failed write is
// logged and the in-memory cart stays authoritative.
type Cart struct {
	mu    sync.Mutex
	items []models.CartItem

	store  store.Store
	logger *zap.Logger
	pub    events.Publisher
}

// New restores the cart persisted in s. A corrupt or missing value starts
// an empty cart.
func New(ctx context.Context, s store.Store, logger *zap.Logger, pub events.Publisher) *Cart {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pub == nil {
		pub = events.Discard
	}

	c := &Cart{store: s, logger: logger.Named("cart"), pub: pub}

	items, _ := store.Load[[]models.CartItem](ctx, s, store.KeyCart, c.logger)
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		if i := c.indexOf(item.Product.ID); i >= 0 {
			c.items[i].Quantity += item.Quantity
			continue
		}
		c.items = append(c.items, item)
	}

	return c
}

// Add increments the quantity of product if it is already in the cart, or
// appends it with quantity 1.
func (c *Cart) Add(ctx context.Context, product models.Product) {
	c.mu.Lock()
	if i := c.indexOf(product.ID); i >= 0 {
		c.items[i].Quantity++
	} else {
		c.items = append(c.items, models.CartItem{Product: product.Clone(), Quantity: 1})
	}
	c.save(ctx)
	c.mu.Unlock()

	c.pub.Publish(events.Event{Kind: events.CartChanged, Subject: product.ID})
}

// UpdateQuantity sets the quantity of productID. A quantity of zero or less
// removes the item; an unknown productID is ignored.
func (c *Cart) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(ctx, productID)
		return
	}

	c.mu.Lock()
	i := c.indexOf(productID)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	c.items[i].Quantity = quantity
	c.save(ctx)
	c.mu.Unlock()

	c.pub.Publish(events.Event{Kind: events.CartChanged, Subject: productID})
}

func (c *Cart) Remove(ctx context.Context, productID string) {
	c.mu.Lock()
	i := c.indexOf(productID)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	c.save(ctx)
	c.mu.Unlock()

	c.pub.Publish(events.Event{Kind: events.CartChanged, Subject: productID})
}

// Clear empties the cart and erases its stored copy.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	c.items = nil
	store.Erase(ctx, c.store, store.KeyCart, c.logger)
	c.mu.Unlock()

	c.pub.Publish(events.Event{Kind: events.CartChanged})
}

// Items returns a deep copy of the cart contents.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.CloneItems(c.items)
}

func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.SumItems(c.items)
}

// ItemCount is the sum of quantities, not the number of distinct products.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

func (c *Cart) indexOf(productID string) int {
	for i, item := range c.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) save(ctx context.Context) {
	items := c.items
	if items == nil {
		items = []models.CartItem{}
	}
	store.Persist(ctx, c.store, store.KeyCart, items, c.logger)
}
