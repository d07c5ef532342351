// Package catalog serves the product list: the bundled defaults, or the
// administrator's edited copy once one exists.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrOutOfStock      = errors.New("product out of stock")
)

// CategoryAll selects every category in ByCategory.
const CategoryAll = "all"

// ProductInput is what an administrator supplies for a new product. A nil
// InStock means in stock.
type ProductInput struct {
	Name          string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Discount      *int
	Category      models.Category
	Image         string
	InStock       *bool
	Description   string
}

type Catalog struct {
	mu       sync.RWMutex
	defaults []models.Product
	override []models.Product // nil until adminProducts exists

	store  store.Store
	logger *zap.Logger
	pub    events.Publisher
	newID  func() string
}

// New loads the admin override from s, falling back to defaults when the key
// is absent or corrupt.
func New(ctx context.Context, s store.Store, defaults []models.Product, logger *zap.Logger, pub events.Publisher) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pub == nil {
		pub = events.Discard
	}

	c := &Catalog{
		defaults: cloneProducts(defaults),
		store:    s,
		logger:   logger.Named("catalog"),
		pub:      pub,
		newID:    models.NewID,
	}

	if override, ok := store.Load[[]models.Product](ctx, s, store.KeyAdminProducts, c.logger); ok {
		if override == nil {
			override = []models.Product{}
		}
		c.override = override
	}

	return c
}

func (c *Catalog) active() []models.Product {
	if c.override != nil {
		return c.override
	}
	return c.defaults
}

// Overridden reports whether the admin list is in effect.
func (c *Catalog) Overridden() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.override != nil
}

func (c *Catalog) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneProducts(c.active())
}

// ByCategory filters the active list. An empty category or CategoryAll
// returns everything.
func (c *Catalog) ByCategory(category string) []models.Product {
	if category == "" || category == CategoryAll {
		return c.Products()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []models.Product
	for _, p := range c.active() {
		if string(p.Category) == category {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Search matches query against name and description, ignoring case.
func (c *Catalog) Search(query string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.Products()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []models.Product
	for _, p := range c.active() {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (c *Catalog) Get(id string) (models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.active() {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (c *Catalog) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	if in.Category == "" {
		in.Category = models.CategoryAccessories
	}
	if err := validate(in.Name, in.Price, in.Category); err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		ID:          c.newID(),
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Category:    in.Category,
		Image:       in.Image,
		Rating:      4.0,
		Reviews:     0,
		InStock:     true,
		Description: in.Description,
	}
	p = models.ProductPatch{OriginalPrice: in.OriginalPrice, Discount: in.Discount, InStock: in.InStock}.Apply(p)

	c.mu.Lock()
	next := append(cloneProducts(c.active()), p)
	c.commit(ctx, next)
	c.mu.Unlock()

	c.pub.Publish(events.Event{Kind: events.CatalogChanged, Subject: p.ID})
	c.logger.Info("product created", zap.String("product_id", p.ID), zap.String("name", p.Name))
	return p.Clone(), nil
}

func (c *Catalog) Update(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	c.mu.Lock()

	next := cloneProducts(c.active())
	idx := indexOf(next, id)
	if idx < 0 {
		c.mu.Unlock()
		return models.Product{}, ErrProductNotFound
	}

	updated := patch.Apply(next[idx])
	if err := validate(updated.Name, updated.Price, updated.Category); err != nil {
		c.mu.Unlock()
		return models.Product{}, err
	}
	next[idx] = updated
	c.commit(ctx, next)
	c.mu.Unlock()

	c.pub.Publish(events.Event{Kind: events.CatalogChanged, Subject: id})
	return updated.Clone(), nil
}

func (c *Catalog) Delete(ctx context.Context, id string) error {
	c.mu.Lock()

	current := c.active()
	idx := indexOf(current, id)
	if idx < 0 {
		c.mu.Unlock()
		return ErrProductNotFound
	}

	next := make([]models.Product, 0, len(current)-1)
	next = append(next, cloneProducts(current[:idx])...)
	next = append(next, cloneProducts(current[idx+1:])...)
	c.commit(ctx, next)
	c.mu.Unlock()

	c.pub.Publish(events.Event{Kind: events.CatalogChanged, Subject: id})
	c.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}

// Reset drops the admin list so the defaults apply again.
func (c *Catalog) Reset(ctx context.Context) {
	c.mu.Lock()
	c.override = nil
	store.Erase(ctx, c.store, store.KeyAdminProducts, c.logger)
	c.mu.Unlock()

	c.pub.Publish(events.Event{Kind: events.CatalogChanged})
}

// commit installs next as the admin list. Callers hold c.mu.
func (c *Catalog) commit(ctx context.Context, next []models.Product) {
	c.override = next
	store.Persist(ctx, c.store, store.KeyAdminProducts, next, c.logger)
}

func validate(name string, price decimal.Decimal, category models.Category) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	case !category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, category)
	}
	return nil
}

func indexOf(products []models.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func cloneProducts(in []models.Product) []models.Product {
	out := make([]models.Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
