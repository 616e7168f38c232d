package cart

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/infrastructure/storage"
	"github.com/your-org/storefront/internal/pkg/logger"
)

func newTestStore() *storage.Store {
	return storage.NewMemoryProvider(logger.Discard()).Open("device", "session")
}

func newTestManager(t *testing.T, store storage.KV) *Manager {
	t.Helper()
	return NewManager(context.Background(), store, logger.Discard())
}

func storedItems(t *testing.T, store storage.KV) []LineItem {
	t.Helper()
	raw, ok := store.Read(context.Background(), storage.Durable, StorageKey)
	require.True(t, ok, "cart should be persisted")

	var items []LineItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	return items
}

func TestAddToCartMergesQuantities(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, newTestStore())
	p := product.Product{ID: "1", Name: "Lamp", Price: 100, Discount: 10}

	require.NoError(t, m.AddToCart(ctx, p, 1))
	require.NoError(t, m.AddToCart(ctx, p, 2))

	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.InDelta(t, 270.0, m.CalculateItemTotal(items[0]), 1e-9)
}

func TestAddToCartRejectsInvalidQuantity(t *testing.T) {
	m := newTestManager(t, newTestStore())

	err := m.AddToCart(context.Background(), product.Product{ID: "1"}, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, m.Items())
}

func TestCartTotal(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, newTestStore())

	require.NoError(t, m.AddToCart(ctx, product.Product{ID: "1", Price: 50}, 2))
	require.NoError(t, m.AddToCart(ctx, product.Product{ID: "2", Price: 200, Discount: 50}, 1))

	assert.InDelta(t, 200.0, m.CalculateCartTotal(), 1e-9)
	assert.Equal(t, 3, m.GetTotalQuantity())
	assert.Equal(t, Totals{ItemCount: 2, TotalQuantity: 3, Total: 200}, m.Totals())
}

func TestPriceWithDiscount(t *testing.T) {
	assert.Equal(t, 80.0, PriceWithDiscount(LineItem{Price: 100, Discount: 20}))
	assert.Equal(t, 100.0, PriceWithDiscount(LineItem{Price: 100}))
	assert.Equal(t, 100.0, PriceWithDiscount(LineItem{Price: 100, Discount: -5}))
	assert.Equal(t, 0.0, PriceWithDiscount(LineItem{Price: 100, Discount: 100}))
	// no currency rounding
	assert.InDelta(t, 6.66333, PriceWithDiscount(LineItem{Price: 9.99, Discount: 33.3}), 1e-9)
}

func TestDecreaseQuantityRemovesLastUnit(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	m := newTestManager(t, store)

	require.NoError(t, m.AddToCart(ctx, product.Product{ID: "1"}, 2))

	m.DecreaseQuantity(ctx, "1")
	assert.Equal(t, 1, m.GetProductQuantity("1"))

	m.DecreaseQuantity(ctx, "1")
	assert.False(t, m.IsInCart("1"))
	assert.Equal(t, 0, m.GetProductQuantity("1"))
	assert.Empty(t, storedItems(t, store))
}

func TestMutationsOnMissingIDAreNoOps(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, newTestStore())
	require.NoError(t, m.AddToCart(ctx, product.Product{ID: "1"}, 1))

	before := m.Items()
	m.RemoveFromCart(ctx, "nope")
	m.IncreaseQuantity(ctx, "nope")
	m.DecreaseQuantity(ctx, "nope")
	assert.Equal(t, before, m.Items())
}

func TestRemoveFromCartIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	m := newTestManager(t, store)
	require.NoError(t, m.AddToCart(ctx, product.Product{ID: "1"}, 1))
	require.NoError(t, m.AddToCart(ctx, product.Product{ID: "2"}, 1))

	m.RemoveFromCart(ctx, "1")
	once := m.Items()
	m.RemoveFromCart(ctx, "1")

	assert.Equal(t, once, m.Items())
	assert.Equal(t, once, storedItems(t, store))
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	m := newTestManager(t, store)
	require.NoError(t, m.AddToCart(ctx, product.Product{ID: "1"}, 4))

	m.ClearCart(ctx)
	assert.Empty(t, m.Items())
	assert.Equal(t, 0, m.GetTotalQuantity())
	assert.Empty(t, storedItems(t, store))
}

func TestRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	m := newTestManager(t, store)

	require.NoError(t, m.AddToCart(ctx, product.Product{ID: "3", Name: "C", Price: 30, Image: "c.png"}, 1))
	require.NoError(t, m.AddToCart(ctx, product.Product{ID: "1", Name: "A", Price: 10, Discount: 5}, 2))
	require.NoError(t, m.AddToCart(ctx, product.Product{ID: "2", Name: "B", Price: 20}, 1))
	m.IncreaseQuantity(ctx, "2")

	restored := newTestManager(t, store)
	assert.Equal(t, m.Items(), restored.Items())
	assert.Equal(t, m.Totals(), restored.Totals())
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	require.NoError(t, store.Write(ctx, storage.Durable, StorageKey, "not json"))

	m := newTestManager(t, store)
	assert.Empty(t, m.Items())

	_, ok := store.Read(ctx, storage.Durable, StorageKey)
	assert.False(t, ok, "corrupt snapshot should be discarded")
}

func TestRestoreDropsInvalidEntries(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	require.NoError(t, store.Write(ctx, storage.Durable, StorageKey,
		`[{"id":"1","quantity":2},{"id":"2","quantity":0},{"id":"1","quantity":5}]`))

	m := newTestManager(t, store)
	assert.Equal(t, []LineItem{{ID: "1", Quantity: 2}}, m.Items())
}

func TestRestoreDropsOutOfRangePrices(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	require.NoError(t, store.Write(ctx, storage.Durable, StorageKey, `[
		{"id":"1","price":-10,"quantity":1},
		{"id":"2","price":50,"discount":120,"quantity":1},
		{"id":"3","price":50,"discount":-5,"quantity":1},
		{"id":"4","price":80,"discount":100,"quantity":1},
		{"id":"5","price":20,"quantity":2}
	]`))

	m := newTestManager(t, store)
	items := m.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "4", items[0].ID)
	assert.Equal(t, "5", items[1].ID)
	assert.InDelta(t, 40.0, m.CalculateCartTotal(), 1e-9)
}

type brokenBackend struct{ *storage.MemoryBackend }

func (brokenBackend) Set(context.Context, string, string) error {
	return errors.New("quota exceeded")
}

func TestWriteFailureKeepsInMemoryState(t *testing.T) {
	ctx := context.Background()
	provider := storage.NewProvider(brokenBackend{storage.NewMemoryBackend()}, storage.NewMemoryBackend(), logger.Discard())
	m := newTestManager(t, provider.Open("d", "s"))

	require.NoError(t, m.AddToCart(ctx, product.Product{ID: "1"}, 2))
	assert.Equal(t, 2, m.GetProductQuantity("1"))
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, newTestStore())

	var seen [][]LineItem
	unsubscribe := m.Subscribe(func(items []LineItem) {
		seen = append(seen, items)
	})

	require.NoError(t, m.AddToCart(ctx, product.Product{ID: "1"}, 1))
	m.IncreaseQuantity(ctx, "1")
	unsubscribe()
	m.ClearCart(ctx)

	require.Len(t, seen, 2)
	assert.Equal(t, 1, seen[0][0].Quantity)
	assert.Equal(t, 2, seen[1][0].Quantity)
}

func TestItemsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, newTestStore())
	require.NoError(t, m.AddToCart(ctx, product.Product{ID: "1"}, 1))

	items := m.Items()
	items[0].Quantity = 99
	assert.Equal(t, 1, m.GetProductQuantity("1"))
}

// TestRandomOperationsKeepInvariants drives the manager with a random mix of
// mutations and checks it against a simple model after every step.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	m := newTestManager(t, store)
	rng := rand.New(rand.NewSource(7))
	ids := []string{"1", "2", "3", "4"}

	for step := 0; step < 500; step++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(4) {
		case 0:
			require.NoError(t, m.AddToCart(ctx, product.Product{ID: id, Price: float64(rng.Intn(500)), Discount: float64(rng.Intn(60))}, 1+rng.Intn(3)))
		case 1:
			m.RemoveFromCart(ctx, id)
		case 2:
			m.IncreaseQuantity(ctx, id)
		case 3:
			m.DecreaseQuantity(ctx, id)
		}

		items := m.Items()
		sumQty := 0
		sumTotal := 0.0
		seen := map[string]bool{}
		for _, item := range items {
			require.GreaterOrEqual(t, item.Quantity, 1)
			require.False(t, seen[item.ID], "duplicate id %s", item.ID)
			seen[item.ID] = true
			sumQty += item.Quantity
			sumTotal += ItemTotal(item)
		}
		require.Equal(t, sumQty, m.GetTotalQuantity())
		require.InDelta(t, sumTotal, m.CalculateCartTotal(), 1e-6)
		require.Equal(t, items, storedItems(t, store))
	}
}
