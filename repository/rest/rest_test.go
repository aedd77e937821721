package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
	"github.com/shoplite/client/internal/restclient"
)

type staticTokens string

func (t staticTokens) AccessToken() string { return string(t) }

func newClient(t *testing.T, handler http.HandlerFunc) *restclient.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := restclient.New(restclient.Config{BaseURL: server.URL, Timeout: 5 * time.Second}, nil)
	client.SetTokenSource(staticTokens("token-1"))
	return client
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		status int
		want   domain.ErrorCode
	}{
		{http.StatusBadRequest, domain.ErrCodeInvalid},
		{http.StatusUnauthorized, domain.ErrCodeUnauthorized},
		{http.StatusForbidden, domain.ErrCodeForbidden},
		{http.StatusNotFound, domain.ErrCodeNotFound},
		{http.StatusConflict, domain.ErrCodeConflict},
		{http.StatusInternalServerError, domain.ErrCodeInternal},
		{http.StatusTeapot, domain.ErrCodeRejected},
	}
	for _, tt := range tests {
		err := statusError(tt.status, "boom")
		if err.Code != tt.want {
			t.Errorf("statusError(%d) code = %v, want %v", tt.status, err.Code, tt.want)
		}
		if err.Message != "boom" {
			t.Errorf("statusError(%d) message = %q", tt.status, err.Message)
		}
	}

	if err := statusError(http.StatusBadRequest, ""); err.Message == "" {
		t.Error("empty server message should fall back to a generic one")
	}
}

func TestLoginDecodesUserAndTokens(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{
			"status": "success",
			"message": "welcome back",
			"data": {
				"user": {"id": "u1", "username": "amina", "email": "amina@example.com", "isAdmin": true},
				"tokens": {"accessToken": "access-1", "refreshToken": "refresh-1"}
			}
		}`))
	})

	api := NewAuthAPI(client)
	session, err := api.Login(context.Background(), "amina@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.User.ID != "u1" || !session.User.IsAdmin {
		t.Errorf("user = %+v", session.User)
	}
	if session.Tokens.AccessToken != "access-1" || session.Tokens.RefreshToken != "refresh-1" {
		t.Errorf("tokens = %+v", session.Tokens)
	}
	if session.Message != "welcome back" {
		t.Errorf("message = %q", session.Message)
	}
}

func TestLoginSurfacesServerMessageOnFailure(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status": "error", "message": "invalid credentials"}`))
	})

	api := NewAuthAPI(client)
	_, err := api.Login(context.Background(), "amina@example.com", "wrong")
	if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Fatalf("error = %v, want unauthorized domain error", err)
	}
	if got := domain.ErrorMessage(err, ""); got != "invalid credentials" {
		t.Errorf("message = %q", got)
	}
}

func TestLoginRejectsEnvelopeWithoutTokens(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "success", "data": {"user": {"id": "u1"}}}`))
	})

	api := NewAuthAPI(client)
	if _, err := api.Login(context.Background(), "a@b.c", "pw"); !domain.IsDomainError(err, domain.ErrCodeTransport) {
		t.Errorf("error = %v, want transport error", err)
	}
}

func TestCheckoutSurfacesUnavailableItems(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{
			"success": false,
			"message": "some items are out of stock",
			"unavailableItems": [
				{"name": "rice", "requested": 3, "available": 1}
			]
		}`))
	})

	api := NewCartAPI(client)
	_, err := api.Checkout(context.Background(), transport.CheckoutRequest{
		PaymentMethod: "cash",
		AmountPaid:    100,
	})

	var unavailable *domain.UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("error = %v, want *domain.UnavailableError", err)
	}
	if unavailable.Msg != "some items are out of stock" {
		t.Errorf("message = %q", unavailable.Msg)
	}
	if len(unavailable.Items) != 1 || unavailable.Items[0].Available != 1 {
		t.Errorf("items = %+v", unavailable.Items)
	}
}

func TestCheckoutFallsBackThroughOrderIDFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "data orderId",
			body: `{"success": true, "data": {"orderId": "o1", "paymentStatus": "paid"}}`,
			want: "o1",
		},
		{
			name: "data reportId",
			body: `{"success": true, "data": {"reportId": "r1"}}`,
			want: "r1",
		},
		{
			name: "top-level orderId",
			body: `{"success": true, "orderId": "o2", "data": {}}`,
			want: "o2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			api := NewCartAPI(client)
			confirmation, err := api.Checkout(context.Background(), transport.CheckoutRequest{})
			if err != nil {
				t.Fatalf("Checkout: %v", err)
			}
			if confirmation.OrderID != tt.want {
				t.Errorf("OrderID = %q, want %q", confirmation.OrderID, tt.want)
			}
		})
	}
}

func TestGetProductMapsNotFound(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success": false, "message": "not found"}`))
	})

	api := NewProductAPI(client)
	if _, err := api.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("error = %v, want ErrProductNotFound", err)
	}
}

func TestProductListDecodesPagination(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"success": true,
			"data": [
				{"_id": "p1", "name": "rice", "price": 40, "quantity": 12},
				{"_id": "p2", "name": "oil", "price": 20, "quantity": 3}
			],
			"total": 27,
			"totalPages": 3,
			"currentPage": 1
		}`))
	})

	api := NewProductAPI(client)
	products, page, err := api.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(products) != 2 || products[0].Name != "rice" {
		t.Errorf("products = %+v", products)
	}
	if page.Total != 27 || page.TotalPages != 3 || page.CurrentPage != 1 {
		t.Errorf("page = %+v", page)
	}
}

func TestDebtOverdueCarriesTotalAmount(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"success": true,
			"data": [{"_id": "d1", "customerName": "Kwame", "amount": 80, "amountPaid": 20, "status": "overdue"}],
			"totalOverdueAmount": 60
		}`))
	})

	api := NewDebtAPI(client)
	debts, total, err := api.Overdue(context.Background())
	if err != nil {
		t.Fatalf("Overdue: %v", err)
	}
	if len(debts) != 1 || debts[0].Outstanding() != 60 {
		t.Errorf("debts = %+v", debts)
	}
	if total != 60 {
		t.Errorf("total overdue = %v, want 60", total)
	}
}

func TestDashboardResetReportsDeletedCount(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "message": "dashboard reset", "deletedReports": 14}`))
	})

	api := NewDashboardAPI(client)
	count, msg, err := api.ResetDashboard(context.Background())
	if err != nil {
		t.Fatalf("ResetDashboard: %v", err)
	}
	if count != 14 {
		t.Errorf("count = %d, want 14", count)
	}
	if msg != "dashboard reset" {
		t.Errorf("message = %q", msg)
	}
}
