package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
	"github.com/shoplite/client/repository"
)

// fakeCartAPI scripts the cart backend and records traffic.
type fakeCartAPI struct {
	cart        *domain.Cart
	err         error
	checkout    *repository.CheckoutConfirmation
	checkoutErr error

	calls        int
	lastCheckout transport.CheckoutRequest
}

func (f *fakeCartAPI) Get(ctx context.Context) (*domain.Cart, error) {
	f.calls++
	return f.cart, f.err
}

func (f *fakeCartAPI) Add(ctx context.Context, productID string, quantity int) (*domain.Cart, error) {
	f.calls++
	return f.cart, f.err
}

func (f *fakeCartAPI) UpdateItem(ctx context.Context, itemID string, quantity int) (*domain.Cart, error) {
	f.calls++
	return f.cart, f.err
}

func (f *fakeCartAPI) RemoveItem(ctx context.Context, itemID string) (*domain.Cart, error) {
	f.calls++
	return f.cart, f.err
}

func (f *fakeCartAPI) Clear(ctx context.Context) (*domain.Cart, error) {
	f.calls++
	return f.cart, f.err
}

func (f *fakeCartAPI) AddFromQR(ctx context.Context, productID string, quantity int) (*domain.Cart, error) {
	f.calls++
	return f.cart, f.err
}

func (f *fakeCartAPI) Checkout(ctx context.Context, req transport.CheckoutRequest) (*repository.CheckoutConfirmation, error) {
	f.calls++
	f.lastCheckout = req
	return f.checkout, f.checkoutErr
}

func (f *fakeCartAPI) AllCarts(ctx context.Context, query url.Values) ([]domain.Cart, transport.Page, error) {
	f.calls++
	return nil, transport.Page{}, f.err
}

type staticTokens string

func (t staticTokens) AccessToken() string { return string(t) }

// fakeStore is an in-memory SnapshotStore.
type fakeStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeStore() *fakeStore { return &fakeStore{data: map[string][]byte{}} }

func (s *fakeStore) Save(key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = payload
	return nil
}

func (s *fakeStore) Load(key string, out interface{}) (bool, error) {
	s.mu.Lock()
	payload, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(payload, out)
}

func (s *fakeStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *fakeStore) Close() error { return nil }

func serverCart() *domain.Cart {
	return &domain.Cart{
		Items: []domain.CartItem{
			{ID: "l1", ProductID: "p1", Name: "rice", Price: 40, Quantity: 2},
			{ID: "l2", ProductID: "p2", Name: "oil", Price: 20, Quantity: 1},
		},
		Subtotal: 100,
		Total:    100,
	}
}

func TestAddReplacesLocalSnapshotWholesale(t *testing.T) {
	api := &fakeCartAPI{cart: serverCart()}
	store := newFakeStore()
	m := New(api, nil, staticTokens("tok"), store, nil)

	// Seed a stale local cart that must not survive the server response.
	m.replace(&domain.Cart{
		Items: []domain.CartItem{{ID: "stale", Name: "ghost", Quantity: 9}},
		Total: 999,
	})

	cart, err := m.Add(context.Background(), "p1", 2)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(cart.Items) != 2 || cart.Total != 100 {
		t.Errorf("local cart not replaced by server snapshot: %+v", cart)
	}

	var persisted domain.Cart
	found, err := store.Load(repository.SnapshotCart, &persisted)
	if err != nil || !found {
		t.Fatalf("snapshot not persisted: found=%v err=%v", found, err)
	}
	if persisted.Total != 100 {
		t.Errorf("persisted total = %v, want 100", persisted.Total)
	}
}

func TestOperationsFailFastWithoutToken(t *testing.T) {
	api := &fakeCartAPI{cart: serverCart()}
	m := New(api, nil, staticTokens(""), nil, nil)

	if _, err := m.Add(context.Background(), "p1", 1); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("Add error = %v, want ErrNotAuthenticated", err)
	}
	if _, err := m.Checkout(context.Background(), CheckoutInput{}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("Checkout error = %v, want ErrNotAuthenticated", err)
	}
	if api.calls != 0 {
		t.Errorf("backend was called %d times before auth check", api.calls)
	}
}

func TestCheckoutRejectsEmptyCartBeforeNetwork(t *testing.T) {
	api := &fakeCartAPI{}
	m := New(api, nil, staticTokens("tok"), nil, nil)

	_, err := m.Checkout(context.Background(), CheckoutInput{AmountPaid: 50})
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("Checkout error = %v, want ErrEmptyCart", err)
	}
	if api.calls != 0 {
		t.Errorf("backend was called %d times for an empty cart", api.calls)
	}
}

func TestCheckoutDerivesStatusAndBalance(t *testing.T) {
	tests := []struct {
		name          string
		amountPaid    float64
		wantStatus    domain.PaymentStatus
		wantRemaining float64
	}{
		{name: "full payment", amountPaid: 100, wantStatus: domain.PaymentPaid, wantRemaining: 0},
		{name: "partial payment", amountPaid: 60, wantStatus: domain.PaymentPartial, wantRemaining: 40},
		{name: "no payment", amountPaid: 0, wantStatus: domain.PaymentUnpaid, wantRemaining: 100},
		{name: "overpayment clamps", amountPaid: 150, wantStatus: domain.PaymentPaid, wantRemaining: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeCartAPI{
				cart: serverCart(),
				checkout: &repository.CheckoutConfirmation{
					OrderID:          "o1",
					PaymentStatus:    tt.wantStatus,
					AmountPaid:       tt.amountPaid,
					RemainingBalance: tt.wantRemaining,
				},
			}
			m := New(api, nil, staticTokens("tok"), newFakeStore(), nil)
			m.replace(serverCart())

			result, err := m.Checkout(context.Background(), CheckoutInput{
				PaymentMethod: "cash",
				AmountPaid:    tt.amountPaid,
			})
			if err != nil {
				t.Fatalf("Checkout: %v", err)
			}

			req := api.lastCheckout
			if req.PaymentStatus != tt.wantStatus {
				t.Errorf("request status = %v, want %v", req.PaymentStatus, tt.wantStatus)
			}
			if req.RemainingBalance != tt.wantRemaining {
				t.Errorf("request remaining = %v, want %v", req.RemainingBalance, tt.wantRemaining)
			}
			if len(req.Items) != 2 || req.Items[0].ProductID != "p1" {
				t.Errorf("request items = %+v", req.Items)
			}
			if result.OrderID != "o1" {
				t.Errorf("result order = %q", result.OrderID)
			}
			// The local cart is cleared once the order is placed.
			current := m.Current()
			if !current.IsEmpty() {
				t.Error("local cart survived a successful checkout")
			}
		})
	}
}

func TestCheckoutHonoursExplicitRemainingBalance(t *testing.T) {
	api := &fakeCartAPI{
		cart:     serverCart(),
		checkout: &repository.CheckoutConfirmation{OrderID: "o1"},
	}
	m := New(api, nil, staticTokens("tok"), nil, nil)
	m.replace(serverCart())

	negative := -10.0
	if _, err := m.Checkout(context.Background(), CheckoutInput{
		AmountPaid:       60,
		RemainingBalance: &negative,
	}); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if api.lastCheckout.RemainingBalance != 0 {
		t.Errorf("negative override not clamped: %v", api.lastCheckout.RemainingBalance)
	}

	// The first checkout emptied the cart; re-seed before the next one.
	m.replace(serverCart())
	explicit := 25.0
	if _, err := m.Checkout(context.Background(), CheckoutInput{
		AmountPaid:       60,
		RemainingBalance: &explicit,
	}); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if api.lastCheckout.RemainingBalance != 25 {
		t.Errorf("explicit override ignored: %v", api.lastCheckout.RemainingBalance)
	}
}

func TestCheckoutSurfacesUnavailableItems(t *testing.T) {
	api := &fakeCartAPI{
		cart: serverCart(),
		checkoutErr: &domain.UnavailableError{
			Msg: "some items are out of stock",
			Items: []domain.UnavailableItem{
				{Name: "rice", Requested: 2, Available: 1},
			},
		},
	}
	m := New(api, nil, staticTokens("tok"), nil, nil)
	m.replace(serverCart())

	_, err := m.Checkout(context.Background(), CheckoutInput{AmountPaid: 100})
	var unavailable *domain.UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("Checkout error = %v, want *domain.UnavailableError", err)
	}
	if len(unavailable.Items) != 1 || unavailable.Items[0].Name != "rice" {
		t.Errorf("unavailable items = %+v", unavailable.Items)
	}
	// The buyer amends the cart, so it must survive the rejection.
	current := m.Current()
	if current.IsEmpty() {
		t.Error("local cart was cleared on a rejected checkout")
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	removed := &domain.Cart{Items: []domain.CartItem{{ID: "l2", Name: "oil", Quantity: 1}}}
	api := &fakeCartAPI{cart: removed}
	m := New(api, nil, staticTokens("tok"), nil, nil)
	m.replace(serverCart())

	cart, err := m.UpdateQuantity(context.Background(), "l1", 0)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ID != "l2" {
		t.Errorf("cart after zero-quantity update = %+v", cart.Items)
	}
}

func TestLoadRehydratesPersistedCart(t *testing.T) {
	store := newFakeStore()
	if err := store.Save(repository.SnapshotCart, serverCart()); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	m := New(&fakeCartAPI{}, nil, staticTokens("tok"), store, nil)
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Current().Total != 100 {
		t.Errorf("rehydrated total = %v, want 100", m.Current().Total)
	}
}
