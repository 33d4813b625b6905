package helpers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CartCookieName carries the signed cart id. The __Host- prefix forces
// Secure, Path=/ and no Domain.
const CartCookieName = "__Host-CART_ID"

// CartCookie signs cart ids into HS256 tokens so clients cannot pick
// someone else's cart id.
type CartCookie struct {
	secret []byte
	ttl    time.Duration
}

func NewCartCookie(secret string, ttl time.Duration) *CartCookie {
	return &CartCookie{secret: []byte(secret), ttl: ttl}
}

func (cc *CartCookie) Encode(cartID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   cartID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cc.ttl)),
	})
	return token.SignedString(cc.secret)
}

// Decode returns the cart id of a valid, unexpired token.
func (cc *CartCookie) Decode(value string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cc.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid cart cookie")
	}
	return claims.Subject, nil
}

// Cookie builds the Set-Cookie value for cartID.
func (cc *CartCookie) Cookie(cartID string) (*http.Cookie, error) {
	value, err := cc.Encode(cartID)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     CartCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cc.ttl / time.Second),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}
