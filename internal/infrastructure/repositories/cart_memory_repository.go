package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/acme/cartsvc/internal/core/domain/cart"
)

// CartMemoryRepository keeps carts in process memory. It is the fallback for
// CartRedisRepository and implements the same contract with no failure modes.
type CartMemoryRepository struct {
	mu    sync.RWMutex
	carts map[string]cart.Cart
}

func NewCartMemoryRepository() *CartMemoryRepository {
	return &CartMemoryRepository{carts: make(map[string]cart.Cart)}
}

func (r *CartMemoryRepository) CreateCart(ctx context.Context) (string, error) {
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[id] = cart.Cart{}
	return id, nil
}

func (r *CartMemoryRepository) GetCart(ctx context.Context, id string) (cart.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(id), nil
}

func (r *CartMemoryRepository) SetCart(ctx context.Context, id string, c cart.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[id] = c.Normalize()
	return nil
}

func (r *CartMemoryRepository) DeleteCart(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, id)
	return nil
}

func (r *CartMemoryRepository) IncrementQty(ctx context.Context, id string, sku cart.SKU, qty int64, size string, rental bool) (cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[id]
	if !ok {
		c = cart.Cart{}
		r.carts[id] = c
	}
	lineID := cart.LineID(sku.ID, size)
	line := c[lineID]
	line.SKU, line.Size, line.Rental = sku, size, rental
	line.Qty += qty
	if line.Qty <= 0 {
		delete(c, lineID)
	} else {
		c[lineID] = line
	}
	return r.snapshot(id), nil
}

func (r *CartMemoryRepository) SetQty(ctx context.Context, id, lineID string, qty int64) (cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[id]
	if !ok {
		return nil, cart.ErrLineNotFound
	}
	line, ok := c[lineID]
	if !ok {
		return nil, cart.ErrLineNotFound
	}
	if qty <= 0 {
		delete(c, lineID)
	} else {
		line.Qty = qty
		c[lineID] = line
	}
	return r.snapshot(id), nil
}

func (r *CartMemoryRepository) RemoveItem(ctx context.Context, id, lineID string) (cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[id]
	if !ok {
		return nil, cart.ErrLineNotFound
	}
	if _, ok := c[lineID]; !ok {
		return nil, cart.ErrLineNotFound
	}
	delete(c, lineID)
	return r.snapshot(id), nil
}

// snapshot copies the cart so callers never share the stored map. Caller holds the lock.
func (r *CartMemoryRepository) snapshot(id string) cart.Cart {
	c, ok := r.carts[id]
	if !ok {
		return cart.Cart{}
	}
	return c.Clone()
}
