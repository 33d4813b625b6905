package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/acme/cartsvc/internal/core/domain/cart"
	"github.com/acme/cartsvc/internal/core/ports"
	cb "github.com/acme/cartsvc/internal/infrastructure/circuitbreaker"
)

// CartRedisRepository stores each cart as two hashes in the remote store: the
// quantity hash at the cart id (line id -> qty) and the metadata hash at
// cart.SkuKey(id) (line id -> encoded cart.Meta). Both share one TTL.
//
// Every remote call goes through the breaker. When any sub-operation of a
// logical operation fails, the whole operation is handed to the fallback
// store instead, so a partially applied remote write is never reported as a
// result.
type CartRedisRepository struct {
	store    ports.HashStore
	ttl      time.Duration
	breaker  *cb.Breaker
	fallback ports.CartStore
	logger   *logrus.Logger
}

func NewCartRedisRepository(store ports.HashStore, ttl time.Duration, breaker *cb.Breaker, fallback ports.CartStore, logger *logrus.Logger) *CartRedisRepository {
	return &CartRedisRepository{store: store, ttl: ttl, breaker: breaker, fallback: fallback, logger: logger}
}

// expireBoth refreshes the TTL of both hashes of a cart. It is the only place
// that sets a TTL, so the two keys always expire together.
func (r *CartRedisRepository) expireBoth(id string) []cb.Step {
	return []cb.Step{
		cb.Run(r.breaker, "expire", func(ctx context.Context) (bool, error) {
			return r.store.Expire(ctx, id, r.ttl)
		}),
		cb.Run(r.breaker, "expire", func(ctx context.Context) (bool, error) {
			return r.store.Expire(ctx, cart.SkuKey(id), r.ttl)
		}),
	}
}

func (r *CartRedisRepository) delBoth(id string) cb.Step {
	return cb.Run(r.breaker, "del", func(ctx context.Context) (int64, error) {
		return r.store.Del(ctx, id, cart.SkuKey(id))
	})
}

func (r *CartRedisRepository) CreateCart(ctx context.Context) (string, error) {
	id := uuid.NewString()
	steps := append([]cb.Step{r.delBoth(id)}, r.expireBoth(id)...)
	fid, fellBack, err := cb.WithFallback(ctx, r.breaker, "create_cart", steps, r.fallback.CreateCart)
	if fellBack {
		return fid, err
	}
	return id, nil
}

func (r *CartRedisRepository) GetCart(ctx context.Context, id string) (cart.Cart, error) {
	var qty, meta map[string]string
	readBoth := func(ctx context.Context) bool {
		var qtyOK, metaOK bool
		var g errgroup.Group
		g.Go(func() error {
			qtyOK = cb.Do(r.breaker, "hgetall", func(ctx context.Context) (map[string]string, error) {
				return r.store.HGetAll(ctx, id)
			}, &qty)(ctx)
			return nil
		})
		g.Go(func() error {
			metaOK = cb.Do(r.breaker, "hgetall", func(ctx context.Context) (map[string]string, error) {
				return r.store.HGetAll(ctx, cart.SkuKey(id))
			}, &meta)(ctx)
			return nil
		})
		_ = g.Wait()
		return qtyOK && metaOK
	}
	fc, fellBack, err := cb.WithFallback(ctx, r.breaker, "get_cart", []cb.Step{readBoth}, func(ctx context.Context) (cart.Cart, error) {
		return r.fallback.GetCart(ctx, id)
	})
	if fellBack {
		return fc, err
	}
	c, err := joinHashes(qty, meta)
	if err != nil && r.logger != nil {
		r.logger.WithFields(logrus.Fields{"cart_id": id}).WithError(err).Error("stored cart is corrupt")
	}
	return c, err
}

// joinHashes rebuilds a cart from its two hashes. A quantity without
// metadata is treated as an absent line.
func joinHashes(qty, meta map[string]string) (cart.Cart, error) {
	c := make(cart.Cart, len(qty))
	for lineID, rawQty := range qty {
		n, err := strconv.ParseInt(rawQty, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: quantity %q for line %s", cart.ErrMalformedMeta, rawQty, lineID)
		}
		if n <= 0 {
			continue
		}
		raw, ok := meta[lineID]
		if !ok {
			continue
		}
		m, err := cart.DecodeMeta(&raw)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", lineID, err)
		}
		c[lineID] = cart.Line{SKU: m.SKU, Size: m.Size, Rental: m.Rental, Qty: n}
	}
	return c, nil
}

func (r *CartRedisRepository) SetCart(ctx context.Context, id string, c cart.Cart) error {
	qty, meta, err := c.Split()
	if err != nil {
		return err
	}
	steps := []cb.Step{r.delBoth(id)}
	if len(qty) > 0 {
		qtyFields := make(map[string]any, len(qty))
		for k, v := range qty {
			qtyFields[k] = v
		}
		metaFields := make(map[string]any, len(meta))
		for k, v := range meta {
			metaFields[k] = v
		}
		steps = append(steps,
			cb.Run(r.breaker, "hset", func(ctx context.Context) (int64, error) {
				return r.store.HSet(ctx, id, qtyFields)
			}),
			cb.Run(r.breaker, "hset", func(ctx context.Context) (int64, error) {
				return r.store.HSet(ctx, cart.SkuKey(id), metaFields)
			}),
		)
	}
	steps = append(steps, r.expireBoth(id)...)
	_, _, err = cb.WithFallback(ctx, r.breaker, "set_cart", steps, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.fallback.SetCart(ctx, id, c)
	})
	return err
}

func (r *CartRedisRepository) DeleteCart(ctx context.Context, id string) error {
	_, _, err := cb.WithFallback(ctx, r.breaker, "delete_cart", []cb.Step{r.delBoth(id)}, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.fallback.DeleteCart(ctx, id)
	})
	return err
}

// IncrementQty adds qty (negative values decrement) to a line and returns the
// whole cart as read back after the write.
func (r *CartRedisRepository) IncrementQty(ctx context.Context, id string, sku cart.SKU, qty int64, size string, rental bool) (cart.Cart, error) {
	lineID := cart.LineID(sku.ID, size)
	raw, err := cart.EncodeMeta(&cart.Meta{SKU: sku, Size: size, Rental: rental})
	if err != nil {
		return nil, err
	}
	var total int64
	hdelQty := cb.Run(r.breaker, "hdel", func(ctx context.Context) (int64, error) {
		return r.store.HDel(ctx, id, lineID)
	})
	hdelMeta := cb.Run(r.breaker, "hdel", func(ctx context.Context) (int64, error) {
		return r.store.HDel(ctx, cart.SkuKey(id), lineID)
	})
	hsetMeta := cb.Run(r.breaker, "hset", func(ctx context.Context) (int64, error) {
		return r.store.HSet(ctx, cart.SkuKey(id), map[string]any{lineID: *raw})
	})
	steps := []cb.Step{
		cb.Do(r.breaker, "hincrby", func(ctx context.Context) (int64, error) {
			return r.store.HIncrBy(ctx, id, lineID, qty)
		}, &total),
		// a line decremented to zero or below is dropped from both hashes
		func(ctx context.Context) bool {
			if total <= 0 {
				return hdelQty(ctx) && hdelMeta(ctx)
			}
			return hsetMeta(ctx)
		},
	}
	steps = append(steps, r.expireBoth(id)...)
	fc, fellBack, err := cb.WithFallback(ctx, r.breaker, "increment_qty", steps, func(ctx context.Context) (cart.Cart, error) {
		return r.fallback.IncrementQty(ctx, id, sku, qty, size, rental)
	})
	if fellBack {
		return fc, err
	}
	return r.GetCart(ctx, id)
}

// SetQty overwrites the quantity of an existing line; zero removes it.
func (r *CartRedisRepository) SetQty(ctx context.Context, id, lineID string, qty int64) (cart.Cart, error) {
	fallback := func(ctx context.Context) (cart.Cart, error) {
		return r.fallback.SetQty(ctx, id, lineID, qty)
	}

	var exists bool
	check := cb.Do(r.breaker, "hexists", func(ctx context.Context) (bool, error) {
		return r.store.HExists(ctx, id, lineID)
	}, &exists)
	if fc, fellBack, err := cb.WithFallback(ctx, r.breaker, "set_qty", []cb.Step{check}, fallback); fellBack {
		return fc, err
	}
	if !exists {
		return nil, cart.ErrLineNotFound
	}

	var steps []cb.Step
	if qty <= 0 {
		steps = append(steps,
			cb.Run(r.breaker, "hdel", func(ctx context.Context) (int64, error) {
				return r.store.HDel(ctx, id, lineID)
			}),
			cb.Run(r.breaker, "hdel", func(ctx context.Context) (int64, error) {
				return r.store.HDel(ctx, cart.SkuKey(id), lineID)
			}),
		)
	} else {
		steps = append(steps, cb.Run(r.breaker, "hset", func(ctx context.Context) (int64, error) {
			return r.store.HSet(ctx, id, map[string]any{lineID: qty})
		}))
	}
	steps = append(steps, r.expireBoth(id)...)
	if fc, fellBack, err := cb.WithFallback(ctx, r.breaker, "set_qty", steps, fallback); fellBack {
		return fc, err
	}
	return r.GetCart(ctx, id)
}

// RemoveItem deletes a line from both hashes.
func (r *CartRedisRepository) RemoveItem(ctx context.Context, id, lineID string) (cart.Cart, error) {
	fallback := func(ctx context.Context) (cart.Cart, error) {
		return r.fallback.RemoveItem(ctx, id, lineID)
	}

	var removed int64
	del := cb.Do(r.breaker, "hdel", func(ctx context.Context) (int64, error) {
		return r.store.HDel(ctx, id, lineID)
	}, &removed)
	if fc, fellBack, err := cb.WithFallback(ctx, r.breaker, "remove_item", []cb.Step{del}, fallback); fellBack {
		return fc, err
	}
	if removed == 0 {
		return nil, cart.ErrLineNotFound
	}

	steps := append([]cb.Step{
		cb.Run(r.breaker, "hdel", func(ctx context.Context) (int64, error) {
			return r.store.HDel(ctx, cart.SkuKey(id), lineID)
		}),
	}, r.expireBoth(id)...)
	if fc, fellBack, err := cb.WithFallback(ctx, r.breaker, "remove_item", steps, fallback); fellBack {
		return fc, err
	}
	return r.GetCart(ctx, id)
}
