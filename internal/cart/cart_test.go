package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, price int64) models.Product {
	return models.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.NewFromInt(price),
		Category: models.CategoryAccessories,
		InStock:  true,
	}
}

// brokenStore reads like Memory but refuses every write.
type brokenStore struct {
	*store.Memory
}

var errDiskFull = errors.New("disk full")

func (brokenStore) Set(context.Context, string, string) error { return errDiskFull }
func (brokenStore) Remove(context.Context, string) error      { return errDiskFull }

func TestAddTwiceMerges(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, store.NewMemory(), nil, nil)

	p := product("a", 100)
	c.Add(ctx, p)
	c.Add(ctx, p)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Product.ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, c.ItemCount())
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()

	for _, q := range []int{0, -1} {
		viaUpdate := New(ctx, store.NewMemory(), nil, nil)
		viaRemove := New(ctx, store.NewMemory(), nil, nil)
		for _, c := range []*Cart{viaUpdate, viaRemove} {
			c.Add(ctx, product("a", 100))
			c.Add(ctx, product("b", 50))
		}

		viaUpdate.UpdateQuantity(ctx, "a", q)
		viaRemove.Remove(ctx, "a")

		assert.Equal(t, viaRemove.Items(), viaUpdate.Items(), "quantity %d", q)
	}
}

func TestUpdateQuantitySetsAbsoluteValue(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, store.NewMemory(), nil, nil)
	c.Add(ctx, product("a", 100))
	c.Add(ctx, product("a", 100))

	c.UpdateQuantity(ctx, "a", 5)
	assert.Equal(t, 5, c.ItemCount())

	c.UpdateQuantity(ctx, "missing", 3)
	assert.Equal(t, 5, c.ItemCount())
	assert.Len(t, c.Items(), 1)
}

func TestRemoveMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, store.NewMemory(), nil, nil)
	c.Add(ctx, product("a", 100))

	c.Remove(ctx, "zzz")
	assert.Len(t, c.Items(), 1)
}

func TestTotalIgnoresAddOrder(t *testing.T) {
	ctx := context.Background()
	adds := []models.Product{product("a", 100), product("b", 50), product("a", 100), product("c", 7)}

	forward := New(ctx, store.NewMemory(), nil, nil)
	for _, p := range adds {
		forward.Add(ctx, p)
	}
	backward := New(ctx, store.NewMemory(), nil, nil)
	for i := len(adds) - 1; i >= 0; i-- {
		backward.Add(ctx, adds[i])
	}

	want := decimal.NewFromInt(257)
	assert.True(t, forward.Total().Equal(want), "forward total %s", forward.Total())
	assert.True(t, backward.Total().Equal(want), "backward total %s", backward.Total())
}

func TestEmptyCartTotals(t *testing.T) {
	c := New(context.Background(), store.NewMemory(), nil, nil)

	assert.True(t, c.Total().IsZero())
	assert.Equal(t, 0, c.ItemCount())
	assert.True(t, c.Empty())
}

func TestCartPersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	c := New(ctx, s, nil, nil)
	c.Add(ctx, product("a", 100))
	c.Add(ctx, product("b", 50))
	c.UpdateQuantity(ctx, "b", 3)

	restored := New(ctx, s, nil, nil)
	assert.Equal(t, 4, restored.ItemCount())
	assert.True(t, restored.Total().Equal(decimal.NewFromInt(250)))

	restored.Clear(ctx)
	_, ok, err := s.Get(ctx, store.KeyCart)
	require.NoError(t, err)
	assert.False(t, ok, "clear should erase the stored cart")
	assert.True(t, New(ctx, s, nil, nil).Empty())
}

func TestCorruptCartStartsEmpty(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.Set(ctx, store.KeyCart, `[{"product":`))

	c := New(ctx, s, nil, nil)
	assert.True(t, c.Empty())
}

func TestRestoreMergesDuplicateEntries(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	raw := `[{"product":{"id":"a","price":10},"quantity":1},
	         {"product":{"id":"a","price":10},"quantity":2},
	         {"product":{"id":"b","price":5},"quantity":0}]`
	require.NoError(t, s.Set(ctx, store.KeyCart, raw))

	c := New(ctx, s, nil, nil)
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, brokenStore{store.NewMemory()}, nil, nil)

	c.Add(ctx, product("a", 100))
	c.Add(ctx, product("a", 100))
	assert.Equal(t, 2, c.ItemCount())

	c.Clear(ctx)
	assert.True(t, c.Empty())
}

func TestItemsAreSnapshots(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, store.NewMemory(), nil, nil)
	p := product("a", 100)
	c.Add(ctx, p)

	items := c.Items()
	items[0].Quantity = 40
	items[0].Product.Name = "mutated"

	fresh := c.Items()
	assert.Equal(t, 1, fresh[0].Quantity)
	assert.Equal(t, "Product a", fresh[0].Product.Name)
}
