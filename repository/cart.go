package repository

import (
	"context"
	"net/url"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
)

// CheckoutConfirmation carries the server-confirmed outcome of a checkout.
// These values, not the client's pre-submit estimates, are authoritative for
// receipt generation.
type CheckoutConfirmation struct {
	OrderID          string
	PaymentStatus    domain.PaymentStatus
	AmountPaid       float64
	RemainingBalance float64
	Message          string
}

// CartAPI is the cart surface of the backend. Every mutating call returns the
// server's authoritative cart snapshot, which replaces the local one
// wholesale.
type CartAPI interface {
	Get(ctx context.Context) (*domain.Cart, error)
	Add(ctx context.Context, productID string, quantity int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, itemID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, itemID string) (*domain.Cart, error)
	Clear(ctx context.Context) (*domain.Cart, error)
	AddFromQR(ctx context.Context, productID string, quantity int) (*domain.Cart, error)
	Checkout(ctx context.Context, req transport.CheckoutRequest) (*CheckoutConfirmation, error)
	AllCarts(ctx context.Context, query url.Values) ([]domain.Cart, transport.Page, error)
}
