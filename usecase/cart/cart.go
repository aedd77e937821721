// Package cart keeps the local mirror of the server-authoritative cart and
// drives checkout, including partial-payment settlement.
package cart

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
	"github.com/shoplite/client/repository"
)

// TokenSource reports the current bearer token so cart operations can fail
// fast before touching the network when no user is signed in.
type TokenSource interface {
	AccessToken() string
}

// ProductLookup resolves a scanned QR reference to a product.
type ProductLookup interface {
	GetByQR(ctx context.Context, qrRef string) (*domain.Product, error)
}

// Manager mirrors the server cart. The server snapshot returned by every
// mutating call replaces the local one wholesale; the client never merges.
type Manager struct {
	carts    repository.CartAPI
	products ProductLookup
	tokens   TokenSource
	store    repository.SnapshotStore
	logger   *zap.Logger

	mu   sync.Mutex
	cart domain.Cart
}

// New builds a cart manager. products may be nil when QR scanning is unused.
func New(carts repository.CartAPI, products ProductLookup, tokens TokenSource, store repository.SnapshotStore, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		carts:    carts,
		products: products,
		tokens:   tokens,
		store:    store,
		logger:   logger,
	}
}

// Current returns a copy of the local cart snapshot.
func (m *Manager) Current() domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart
}

// Load rehydrates the persisted cart snapshot.
func (m *Manager) Load() error {
	if m.store == nil {
		return nil
	}
	var saved domain.Cart
	found, err := m.store.Load(repository.SnapshotCart, &saved)
	if err != nil {
		return err
	}
	if found {
		m.mu.Lock()
		m.cart = saved
		m.mu.Unlock()
	}
	return nil
}

// Sync fetches the authoritative cart from the server.
func (m *Manager) Sync(ctx context.Context) (domain.Cart, error) {
	if err := m.requireAuth(); err != nil {
		return domain.Cart{}, err
	}
	cart, err := m.carts.Get(ctx)
	if err != nil {
		return domain.Cart{}, err
	}
	return m.replace(cart), nil
}

// Add puts quantity units of a product in the cart.
func (m *Manager) Add(ctx context.Context, productID string, quantity int) (domain.Cart, error) {
	if err := m.requireAuth(); err != nil {
		return domain.Cart{}, err
	}
	if productID == "" || quantity <= 0 {
		return domain.Cart{}, domain.ErrInvalidPayload
	}
	cart, err := m.carts.Add(ctx, productID, quantity)
	if err != nil {
		return domain.Cart{}, err
	}
	return m.replace(cart), nil
}

// UpdateQuantity sets the quantity of an existing cart line.
func (m *Manager) UpdateQuantity(ctx context.Context, itemID string, quantity int) (domain.Cart, error) {
	if err := m.requireAuth(); err != nil {
		return domain.Cart{}, err
	}
	if quantity <= 0 {
		return m.Remove(ctx, itemID)
	}
	cart, err := m.carts.UpdateItem(ctx, itemID, quantity)
	if err != nil {
		return domain.Cart{}, err
	}
	return m.replace(cart), nil
}

// Remove deletes a cart line.
func (m *Manager) Remove(ctx context.Context, itemID string) (domain.Cart, error) {
	if err := m.requireAuth(); err != nil {
		return domain.Cart{}, err
	}
	cart, err := m.carts.RemoveItem(ctx, itemID)
	if err != nil {
		return domain.Cart{}, err
	}
	return m.replace(cart), nil
}

// Clear empties the cart server-side and locally.
func (m *Manager) Clear(ctx context.Context) (domain.Cart, error) {
	if err := m.requireAuth(); err != nil {
		return domain.Cart{}, err
	}
	cart, err := m.carts.Clear(ctx)
	if err != nil {
		return domain.Cart{}, err
	}
	return m.replace(cart), nil
}

// ScanQR resolves a scanned code to a product and adds it to the cart.
func (m *Manager) ScanQR(ctx context.Context, qrRef string, quantity int) (domain.Cart, *domain.Product, error) {
	if err := m.requireAuth(); err != nil {
		return domain.Cart{}, nil, err
	}
	if quantity <= 0 {
		quantity = 1
	}
	var product *domain.Product
	if m.products != nil {
		found, err := m.products.GetByQR(ctx, qrRef)
		if err != nil {
			return domain.Cart{}, nil, err
		}
		product = found
	}
	cart, err := m.carts.AddFromQR(ctx, qrRef, quantity)
	if err != nil {
		return domain.Cart{}, nil, err
	}
	return m.replace(cart), product, nil
}

// CheckoutInput is the buyer-supplied side of a checkout. RemainingBalance is
// normally derived from the cart total; a non-nil value overrides it, clamped
// at zero.
type CheckoutInput struct {
	PaymentMethod    string
	CustomerInfo     domain.CustomerInfo
	AmountPaid       float64
	RemainingBalance *float64
}

// CheckoutResult is the server-confirmed settlement. These figures, not the
// client's pre-submit estimates, go on the receipt.
type CheckoutResult struct {
	OrderID          string
	PaymentStatus    domain.PaymentStatus
	AmountPaid       float64
	RemainingBalance float64
	Message          string
}

// Checkout submits the cart for settlement. An empty cart or missing token is
// rejected before any network activity. When the server declines for stock
// reasons the returned error is a *domain.UnavailableError listing the
// offending lines; the local cart is kept so the buyer can amend it.
func (m *Manager) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if err := m.requireAuth(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	cart := m.cart
	m.mu.Unlock()

	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	remaining := domain.RemainingBalance(cart.Total, input.AmountPaid)
	if input.RemainingBalance != nil {
		remaining = *input.RemainingBalance
		if remaining < 0 {
			remaining = 0
		}
	}

	req := transport.CheckoutRequest{
		PaymentMethod:    input.PaymentMethod,
		CustomerInfo:     input.CustomerInfo,
		PaymentStatus:    domain.DerivePaymentStatus(cart.Total, input.AmountPaid),
		AmountPaid:       input.AmountPaid,
		RemainingBalance: remaining,
		Items:            checkoutItems(cart.Items),
	}

	confirmation, err := m.carts.Checkout(ctx, req)
	if err != nil {
		return nil, err
	}

	// The order is placed; the server cart is gone.
	m.replace(&domain.Cart{})

	return &CheckoutResult{
		OrderID:          confirmation.OrderID,
		PaymentStatus:    confirmation.PaymentStatus,
		AmountPaid:       confirmation.AmountPaid,
		RemainingBalance: confirmation.RemainingBalance,
		Message:          confirmation.Message,
	}, nil
}

// AllCarts lists every customer cart. Admin only, enforced server-side.
func (m *Manager) AllCarts(ctx context.Context, query url.Values) ([]domain.Cart, transport.Page, error) {
	if err := m.requireAuth(); err != nil {
		return nil, transport.Page{}, err
	}
	return m.carts.AllCarts(ctx, query)
}

// Reset drops the local snapshot without touching the server, used when the
// session is cleared.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = domain.Cart{}
	if m.store != nil {
		if err := m.store.Delete(repository.SnapshotCart); err != nil {
			m.logger.Warn("failed to drop cart snapshot", zap.Error(err))
		}
	}
}

func (m *Manager) requireAuth() error {
	if m.tokens == nil || m.tokens.AccessToken() == "" {
		return domain.ErrNotAuthenticated
	}
	return nil
}

// replace installs the server snapshot as the local cart and persists it.
func (m *Manager) replace(cart *domain.Cart) domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart != nil {
		m.cart = *cart
	} else {
		m.cart = domain.Cart{}
	}
	if m.store != nil {
		if err := m.store.Save(repository.SnapshotCart, m.cart); err != nil {
			m.logger.Warn("failed to persist cart snapshot", zap.Error(err))
		}
	}
	return m.cart
}

func checkoutItems(items []domain.CartItem) []transport.CheckoutItem {
	out := make([]transport.CheckoutItem, 0, len(items))
	for _, item := range items {
		out = append(out, transport.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return out
}
