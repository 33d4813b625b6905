package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/acme/cartsvc/internal/core/domain/cart"
	"github.com/acme/cartsvc/internal/core/ports"
)

type CartService struct {
	store  ports.CartStore
	logger *logrus.Logger
}

func NewCartService(store ports.CartStore, logger *logrus.Logger) *CartService {
	return &CartService{store: store, logger: logger}
}

func (s *CartService) EnsureCart(ctx context.Context, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	id, err := s.store.CreateCart(ctx)
	if err != nil {
		return "", err
	}
	if s.logger != nil {
		s.logger.WithField("cart_id", id).Debug("cart created")
	}
	return id, nil
}

func (s *CartService) GetCart(ctx context.Context, id string) (cart.Cart, error) {
	if id == "" {
		return nil, cart.ErrCartNotFound
	}
	return s.store.GetCart(ctx, id)
}

func (s *CartService) AddItem(ctx context.Context, id string, req *ports.AddItemRequest) (cart.Cart, error) {
	if id == "" {
		return nil, cart.ErrCartNotFound
	}
	return s.store.IncrementQty(ctx, id, req.SKU, req.Qty, req.Size, req.Rental)
}

func (s *CartService) ReplaceCart(ctx context.Context, id string, req *ports.ReplaceCartRequest) (string, cart.Cart, error) {
	if id != "" {
		current, err := s.store.GetCart(ctx, id)
		if err != nil {
			return "", nil, err
		}
		if len(current) == 0 {
			return "", nil, cart.ErrCartNotFound
		}
	} else {
		var err error
		if id, err = s.EnsureCart(ctx, ""); err != nil {
			return "", nil, err
		}
	}

	// Repeated line ids collapse into one line with the summed quantity.
	c := make(cart.Cart, len(req.Lines))
	for _, l := range req.Lines {
		line := cart.Line{SKU: l.SKU, Size: l.Size, Rental: l.Rental, Qty: l.Qty}
		if prev, ok := c[line.ID()]; ok {
			line.Qty += prev.Qty
		}
		c[line.ID()] = line
	}
	c = c.Normalize()
	if err := s.store.SetCart(ctx, id, c); err != nil {
		return "", nil, err
	}
	return id, c, nil
}

func (s *CartService) UpdateQty(ctx context.Context, id string, req *ports.UpdateQtyRequest) (cart.Cart, error) {
	if id == "" {
		return nil, cart.ErrCartNotFound
	}
	var qty int64
	if req.Qty != nil {
		qty = *req.Qty
	}
	c, err := s.store.SetQty(ctx, id, req.ID, qty)
	s.logMissingLine(err, id, req.ID)
	return c, err
}

func (s *CartService) RemoveItem(ctx context.Context, id string, req *ports.RemoveItemRequest) (cart.Cart, error) {
	if id == "" {
		return nil, cart.ErrCartNotFound
	}
	c, err := s.store.RemoveItem(ctx, id, req.ID)
	s.logMissingLine(err, id, req.ID)
	return c, err
}

func (s *CartService) logMissingLine(err error, id, lineID string) {
	if s.logger != nil && errors.Is(err, cart.ErrLineNotFound) {
		s.logger.WithFields(logrus.Fields{"cart_id": id, "line_id": lineID}).Debug("cart line not found")
	}
}
