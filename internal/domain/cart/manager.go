// internal/domain/cart/manager.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/infrastructure/storage"
)

// StorageKey is the durable key the cart snapshot is stored under
const StorageKey = "cart"

// ErrInvalidQuantity is returned when adding fewer than one unit
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Listener is called with a snapshot of the items after every mutation
type Listener func(items []LineItem)

// Manager owns the cart line items of one browser and persists the full
// state to durable storage after every mutation.
type Manager struct {
	mu        sync.Mutex
	items     []LineItem
	store     storage.KV
	logger    logrus.FieldLogger
	listeners map[int]Listener
	nextID    int
}

// NewManager restores the cart from durable storage. A missing or corrupt
// snapshot yields an empty cart.
func NewManager(ctx context.Context, store storage.KV, logger logrus.FieldLogger) *Manager {
	m := &Manager{
		items:     []LineItem{},
		store:     store,
		logger:    logger.WithField("component", "cart"),
		listeners: make(map[int]Listener),
	}

	var saved []LineItem
	if store.ReadJSON(ctx, storage.Durable, StorageKey, &saved) {
		m.items = sanitize(saved)
	}

	return m
}

// sanitize drops entries that break the line item invariants (quantity of at
// least one, non-negative price, discount within 0..100), keeping the first
// occurrence of each id.
func sanitize(items []LineItem) []LineItem {
	clean := make([]LineItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.Quantity < 1 || item.Price < 0 || item.Discount < 0 || item.Discount > 100 || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		clean = append(clean, item)
	}
	return clean
}

// AddToCart adds quantity units of p, merging into an existing line item
func (m *Manager) AddToCart(ctx context.Context, p product.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	m.mu.Lock()
	if i := m.indexOf(p.ID); i >= 0 {
		m.items[i].Quantity += quantity
	} else {
		m.items = append(m.items, newLineItem(p, quantity))
	}
	m.commit(ctx)
	return nil
}

// RemoveFromCart deletes the line item with id, if present
func (m *Manager) RemoveFromCart(ctx context.Context, id string) {
	m.mu.Lock()
	if i := m.indexOf(id); i >= 0 {
		m.items = append(m.items[:i], m.items[i+1:]...)
	}
	m.commit(ctx)
}

// IncreaseQuantity adds one unit to the line item with id, if present
func (m *Manager) IncreaseQuantity(ctx context.Context, id string) {
	m.mu.Lock()
	if i := m.indexOf(id); i >= 0 {
		m.items[i].Quantity++
	}
	m.commit(ctx)
}

// DecreaseQuantity removes one unit from the line item with id; the last
// unit removes the line item itself.
func (m *Manager) DecreaseQuantity(ctx context.Context, id string) {
	m.mu.Lock()
	if i := m.indexOf(id); i >= 0 {
		if m.items[i].Quantity > 1 {
			m.items[i].Quantity--
		} else {
			m.items = append(m.items[:i], m.items[i+1:]...)
		}
	}
	m.commit(ctx)
}

// ClearCart empties the cart
func (m *Manager) ClearCart(ctx context.Context) {
	m.mu.Lock()
	m.items = []LineItem{}
	m.commit(ctx)
}

// IsInCart reports whether a line item with id exists
func (m *Manager) IsInCart(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexOf(id) >= 0
}

// GetProductQuantity returns the quantity of id, or 0 when it is not in the cart
func (m *Manager) GetProductQuantity(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(id); i >= 0 {
		return m.items[i].Quantity
	}
	return 0
}

// CalculatePriceWithDiscount returns the discounted unit price of item
func (m *Manager) CalculatePriceWithDiscount(item LineItem) float64 {
	return PriceWithDiscount(item)
}

// CalculateItemTotal returns the discounted line total of item
func (m *Manager) CalculateItemTotal(item LineItem) float64 {
	return ItemTotal(item)
}

// CalculateCartTotal sums the line totals of every item
func (m *Manager) CalculateCartTotal() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0.0
	for _, item := range m.items {
		total += ItemTotal(item)
	}
	return total
}

// GetTotalQuantity sums the quantities of every item
func (m *Manager) GetTotalQuantity() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, item := range m.items {
		total += item.Quantity
	}
	return total
}

// Items returns a copy of the line items in insertion order
func (m *Manager) Items() []LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Totals returns the cart summary
func (m *Manager) Totals() Totals {
	m.mu.Lock()
	defer m.mu.Unlock()

	totals := Totals{ItemCount: len(m.items)}
	for _, item := range m.items {
		totals.TotalQuantity += item.Quantity
		totals.Total += ItemTotal(item)
	}
	return totals
}

// Subscribe registers fn to be called after every mutation and returns a
// function that removes it.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Manager) indexOf(id string) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) snapshot() []LineItem {
	items := make([]LineItem, len(m.items))
	copy(items, m.items)
	return items
}

// commit persists the current state and notifies listeners. It must be
// called with m.mu held and releases it.
func (m *Manager) commit(ctx context.Context) {
	items := m.snapshot()
	listeners := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}

	data, err := json.Marshal(items)
	if err != nil {
		m.logger.WithError(err).Error("failed to encode cart")
	} else if err := m.store.Write(ctx, storage.Durable, StorageKey, string(data)); err != nil {
		m.logger.WithError(err).Warn("failed to persist cart, keeping in-memory state")
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(items)
	}
}
