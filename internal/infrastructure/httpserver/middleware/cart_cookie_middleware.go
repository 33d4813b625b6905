package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/acme/cartsvc/internal/infrastructure/httpserver/helpers"
)

type CartCookieMiddleware struct {
	cookies *helpers.CartCookie
	logger  *logrus.Logger
}

func NewCartCookieMiddleware(cookies *helpers.CartCookie, logger *logrus.Logger) *CartCookieMiddleware {
	return &CartCookieMiddleware{cookies: cookies, logger: logger}
}

// ResolveCart puts the cart id of a valid cart cookie into the context. A
// missing, forged or expired cookie leaves the request without a cart.
func (m *CartCookieMiddleware) ResolveCart() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(helpers.CartCookieName)
			if err != nil || ck.Value == "" {
				return next(c)
			}
			id, err := m.cookies.Decode(ck.Value)
			if err != nil {
				if m.logger != nil {
					m.logger.WithError(err).Debug("ignoring invalid cart cookie")
				}
				return next(c)
			}
			helpers.SetCartID(c, id)
			return next(c)
		}
	}
}
