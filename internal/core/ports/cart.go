package ports

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/acme/cartsvc/internal/core/domain/cart"
)

// CartStore is the contract shared by the remote cart store and its local
// fallback. SetQty and RemoveItem return cart.ErrLineNotFound when the line
// is not present.
type CartStore interface {
	CreateCart(ctx context.Context) (string, error)
	GetCart(ctx context.Context, id string) (cart.Cart, error)
	SetCart(ctx context.Context, id string, c cart.Cart) error
	DeleteCart(ctx context.Context, id string) error
	IncrementQty(ctx context.Context, id string, sku cart.SKU, qty int64, size string, rental bool) (cart.Cart, error)
	SetQty(ctx context.Context, id, lineID string, qty int64) (cart.Cart, error)
	RemoveItem(ctx context.Context, id, lineID string) (cart.Cart, error)
}

// AddItemRequest adds qty (which may be negative) of a SKU to a cart.
type AddItemRequest struct {
	SKU    cart.SKU `json:"sku"`
	Qty    int64    `json:"qty"`
	Size   string   `json:"size,omitempty"`
	Rental bool     `json:"rental,omitempty"`
}

func (r AddItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SKU, validation.By(validateSKU)),
		validation.Field(&r.Qty, validation.Required),
	)
}

// ReplaceCartRequest overwrites a cart with the given lines.
type ReplaceCartRequest struct {
	Lines []ReplaceLine `json:"lines"`
}

type ReplaceLine struct {
	SKU    cart.SKU `json:"sku"`
	Qty    int64    `json:"qty"`
	Size   string   `json:"size,omitempty"`
	Rental bool     `json:"rental,omitempty"`
}

func (l ReplaceLine) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.SKU, validation.By(validateSKU)),
		validation.Field(&l.Qty, validation.Min(int64(0))),
	)
}

func (r ReplaceCartRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Lines, validation.NotNil),
	)
}

type UpdateQtyRequest struct {
	ID  string `json:"id"`
	Qty *int64 `json:"qty"`
}

func (r UpdateQtyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Qty, validation.NotNil, validation.Min(int64(0))),
	)
}

type RemoveItemRequest struct {
	ID string `json:"id"`
}

func (r RemoveItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
	)
}

func validateSKU(value interface{}) error {
	sku, ok := value.(cart.SKU)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a sku")
	}
	return validation.ValidateStruct(&sku,
		validation.Field(&sku.ID, validation.Required),
	)
}

// CartService is the cart business logic consumed by HTTP handlers. The cart
// id comes from the caller's cookie; an empty id means no cart yet.
type CartService interface {
	// EnsureCart returns id when set, otherwise a freshly created cart id.
	EnsureCart(ctx context.Context, id string) (string, error)
	GetCart(ctx context.Context, id string) (cart.Cart, error)
	AddItem(ctx context.Context, id string, req *AddItemRequest) (cart.Cart, error)
	// ReplaceCart overwrites the cart and returns its id. An empty id creates
	// a new cart; a known id whose cart is empty yields cart.ErrCartNotFound.
	ReplaceCart(ctx context.Context, id string, req *ReplaceCartRequest) (string, cart.Cart, error)
	UpdateQty(ctx context.Context, id string, req *UpdateQtyRequest) (cart.Cart, error)
	RemoveItem(ctx context.Context, id string, req *RemoveItemRequest) (cart.Cart, error)
}
