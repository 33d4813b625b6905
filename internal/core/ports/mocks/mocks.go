package mocks

import (
	"context"
	"time"

	"github.com/acme/cartsvc/internal/core/domain/cart"
	"github.com/acme/cartsvc/internal/core/ports"
)

// CartStoreMock is a lightweight mock for ports.CartStore
type CartStoreMock struct {
	CreateCartFn   func(ctx context.Context) (string, error)
	GetCartFn      func(ctx context.Context, id string) (cart.Cart, error)
	SetCartFn      func(ctx context.Context, id string, c cart.Cart) error
	DeleteCartFn   func(ctx context.Context, id string) error
	IncrementQtyFn func(ctx context.Context, id string, sku cart.SKU, qty int64, size string, rental bool) (cart.Cart, error)
	SetQtyFn       func(ctx context.Context, id, lineID string, qty int64) (cart.Cart, error)
	RemoveItemFn   func(ctx context.Context, id, lineID string) (cart.Cart, error)
}

func (m *CartStoreMock) CreateCart(ctx context.Context) (string, error) {
	if m.CreateCartFn != nil {
		return m.CreateCartFn(ctx)
	}
	return "cart-1", nil
}
func (m *CartStoreMock) GetCart(ctx context.Context, id string) (cart.Cart, error) {
	if m.GetCartFn != nil {
		return m.GetCartFn(ctx, id)
	}
	return cart.Cart{}, nil
}
func (m *CartStoreMock) SetCart(ctx context.Context, id string, c cart.Cart) error {
	if m.SetCartFn != nil {
		return m.SetCartFn(ctx, id, c)
	}
	return nil
}
func (m *CartStoreMock) DeleteCart(ctx context.Context, id string) error {
	if m.DeleteCartFn != nil {
		return m.DeleteCartFn(ctx, id)
	}
	return nil
}
func (m *CartStoreMock) IncrementQty(ctx context.Context, id string, sku cart.SKU, qty int64, size string, rental bool) (cart.Cart, error) {
	if m.IncrementQtyFn != nil {
		return m.IncrementQtyFn(ctx, id, sku, qty, size, rental)
	}
	return cart.Cart{}, nil
}
func (m *CartStoreMock) SetQty(ctx context.Context, id, lineID string, qty int64) (cart.Cart, error) {
	if m.SetQtyFn != nil {
		return m.SetQtyFn(ctx, id, lineID, qty)
	}
	return nil, cart.ErrLineNotFound
}
func (m *CartStoreMock) RemoveItem(ctx context.Context, id, lineID string) (cart.Cart, error) {
	if m.RemoveItemFn != nil {
		return m.RemoveItemFn(ctx, id, lineID)
	}
	return nil, cart.ErrLineNotFound
}

// CartServiceMock is a lightweight mock for ports.CartService
type CartServiceMock struct {
	EnsureCartFn  func(ctx context.Context, id string) (string, error)
	GetCartFn     func(ctx context.Context, id string) (cart.Cart, error)
	AddItemFn     func(ctx context.Context, id string, req *ports.AddItemRequest) (cart.Cart, error)
	ReplaceCartFn func(ctx context.Context, id string, req *ports.ReplaceCartRequest) (string, cart.Cart, error)
	UpdateQtyFn   func(ctx context.Context, id string, req *ports.UpdateQtyRequest) (cart.Cart, error)
	RemoveItemFn  func(ctx context.Context, id string, req *ports.RemoveItemRequest) (cart.Cart, error)
}

func (m *CartServiceMock) EnsureCart(ctx context.Context, id string) (string, error) {
	if m.EnsureCartFn != nil {
		return m.EnsureCartFn(ctx, id)
	}
	if id != "" {
		return id, nil
	}
	return "new-cart", nil
}
func (m *CartServiceMock) GetCart(ctx context.Context, id string) (cart.Cart, error) {
	if m.GetCartFn != nil {
		return m.GetCartFn(ctx, id)
	}
	return cart.Cart{}, nil
}
func (m *CartServiceMock) AddItem(ctx context.Context, id string, req *ports.AddItemRequest) (cart.Cart, error) {
	if m.AddItemFn != nil {
		return m.AddItemFn(ctx, id, req)
	}
	return cart.Cart{}, nil
}
func (m *CartServiceMock) ReplaceCart(ctx context.Context, id string, req *ports.ReplaceCartRequest) (string, cart.Cart, error) {
	if m.ReplaceCartFn != nil {
		return m.ReplaceCartFn(ctx, id, req)
	}
	if id == "" {
		id = "new-cart"
	}
	return id, cart.Cart{}, nil
}
func (m *CartServiceMock) UpdateQty(ctx context.Context, id string, req *ports.UpdateQtyRequest) (cart.Cart, error) {
	if m.UpdateQtyFn != nil {
		return m.UpdateQtyFn(ctx, id, req)
	}
	return nil, cart.ErrLineNotFound
}
func (m *CartServiceMock) RemoveItem(ctx context.Context, id string, req *ports.RemoveItemRequest) (cart.Cart, error) {
	if m.RemoveItemFn != nil {
		return m.RemoveItemFn(ctx, id, req)
	}
	return nil, cart.ErrLineNotFound
}

// RateLimitRepositoryMock is a lightweight mock for ports.RateLimitRepository
type RateLimitRepositoryMock struct {
	IncrementWindowFn func(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error)
}

func (m *RateLimitRepositoryMock) IncrementWindow(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	if m.IncrementWindowFn != nil {
		return m.IncrementWindowFn(ctx, key, window, keyPrefix, ttl)
	}
	return 1, time.Now().Truncate(window), nil
}

// RateLimiterMock is a lightweight mock for ports.RateLimiterService
type RateLimiterMock struct {
	AllowFn func(ctx context.Context, key string) (bool, int, int, time.Time, error)
}

func (m *RateLimiterMock) Allow(ctx context.Context, key string) (bool, int, int, time.Time, error) {
	if m.AllowFn != nil {
		return m.AllowFn(ctx, key)
	}
	// Default to allowing requests in tests.
	return true, 100, 1000, time.Now().Add(time.Minute), nil
}

// HealthCheckerMock is a lightweight mock for ports.HealthChecker
type HealthCheckerMock struct {
	NameValue string
	CheckFn   func(ctx context.Context) error
}

func (m *HealthCheckerMock) Name() string { return m.NameValue }
func (m *HealthCheckerMock) Check(ctx context.Context) error {
	if m.CheckFn != nil {
		return m.CheckFn(ctx)
	}
	return nil
}

var (
	_ ports.CartStore           = (*CartStoreMock)(nil)
	_ ports.CartService         = (*CartServiceMock)(nil)
	_ ports.RateLimitRepository = (*RateLimitRepositoryMock)(nil)
	_ ports.RateLimiterService  = (*RateLimiterMock)(nil)
	_ ports.HealthChecker       = (*HealthCheckerMock)(nil)
)
