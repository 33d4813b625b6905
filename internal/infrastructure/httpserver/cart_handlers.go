package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acme/cartsvc/internal/core/domain/cart"
	"github.com/acme/cartsvc/internal/core/ports"
	"github.com/acme/cartsvc/internal/infrastructure/httpserver/helpers"
)

func (s *Server) getCart(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := s.cartSvc.EnsureCart(ctx, helpers.GetCartID(c))
	if err != nil {
		return s.cartError(err)
	}
	crt, err := s.cartSvc.GetCart(ctx, id)
	if err != nil {
		return s.cartError(err)
	}
	return s.respondCart(c, id, map[string]interface{}{"cart": crt})
}

func (s *Server) addItem(c echo.Context) error {
	var req ports.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	id, err := s.cartSvc.EnsureCart(ctx, helpers.GetCartID(c))
	if err != nil {
		return s.cartError(err)
	}
	crt, err := s.cartSvc.AddItem(ctx, id, &req)
	if err != nil {
		return s.cartError(err)
	}
	return s.respondCart(c, id, map[string]interface{}{"ok": true, "cart": crt})
}

func (s *Server) replaceCart(c echo.Context) error {
	var req ports.ReplaceCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, crt, err := s.cartSvc.ReplaceCart(c.Request().Context(), helpers.GetCartID(c), &req)
	if err != nil {
		return s.cartError(err)
	}
	return s.respondCart(c, id, map[string]interface{}{"ok": true, "cart": crt})
}

func (s *Server) updateQty(c echo.Context) error {
	var req ports.UpdateQtyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id := helpers.GetCartID(c)
	crt, err := s.cartSvc.UpdateQty(c.Request().Context(), id, &req)
	if err != nil {
		return s.cartError(err)
	}
	return s.respondCart(c, id, map[string]interface{}{"ok": true, "cart": crt})
}

func (s *Server) removeItem(c echo.Context) error {
	var req ports.RemoveItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id := helpers.GetCartID(c)
	crt, err := s.cartSvc.RemoveItem(c.Request().Context(), id, &req)
	if err != nil {
		return s.cartError(err)
	}
	return s.respondCart(c, id, map[string]interface{}{"ok": true, "cart": crt})
}

// respondCart refreshes the cart cookie and writes body.
func (s *Server) respondCart(c echo.Context, id string, body map[string]interface{}) error {
	ck, err := s.cookies.Cookie(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to sign cart cookie")
	}
	c.SetCookie(ck)
	return c.JSON(http.StatusOK, body)
}

func (s *Server) cartError(err error) error {
	switch {
	case errors.Is(err, cart.ErrCartNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "cart not found")
	case errors.Is(err, cart.ErrLineNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	default:
		if s.logger != nil {
			s.logger.WithError(err).Error("cart operation failed")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cart operation failed")
	}
}
