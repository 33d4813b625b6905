package helpers

import (
	"github.com/labstack/echo/v4"
)

type ctxKey string

const (
	keyCartID ctxKey = "cart_id"
)

// SetCartID stores the cart id resolved from the request cookie.
func SetCartID(c echo.Context, id string) { c.Set(string(keyCartID), id) }

// GetCartID returns the cart id of the request, or "" when there is none.
func GetCartID(c echo.Context) string {
	id, _ := c.Get(string(keyCartID)).(string)
	return id
}
