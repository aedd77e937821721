package rest

import (
	"context"
	"net/url"

	"github.com/valyala/fasthttp"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
	"github.com/shoplite/client/internal/restclient"
	"github.com/shoplite/client/repository"
)

type cartAPI struct {
	client *restclient.Client
}

// NewCartAPI creates the REST-backed cart repository.
func NewCartAPI(client *restclient.Client) repository.CartAPI {
	return &cartAPI{client: client}
}

func (c *cartAPI) Get(ctx context.Context) (*domain.Cart, error) {
	resp, err := c.client.DoJSON(ctx, fasthttp.MethodGet, "/cart", nil, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeCart(resp)
}

func (c *cartAPI) Add(ctx context.Context, productID string, quantity int) (*domain.Cart, error) {
	req := transport.CartAddRequest{ProductID: productID, Quantity: quantity}
	resp, err := c.client.DoJSON(ctx, fasthttp.MethodPost, "/cart/add", nil, req, true)
	if err != nil {
		return nil, err
	}
	return decodeCart(resp)
}

func (c *cartAPI) UpdateItem(ctx context.Context, itemID string, quantity int) (*domain.Cart, error) {
	req := transport.CartQuantityRequest{Quantity: quantity}
	resp, err := c.client.DoJSON(ctx, fasthttp.MethodPut, "/cart/item/"+itemID, nil, req, true)
	if err != nil {
		return nil, err
	}
	return decodeCart(resp)
}

func (c *cartAPI) RemoveItem(ctx context.Context, itemID string) (*domain.Cart, error) {
	resp, err := c.client.DoJSON(ctx, fasthttp.MethodDelete, "/cart/item/"+itemID, nil, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeCart(resp)
}

func (c *cartAPI) Clear(ctx context.Context) (*domain.Cart, error) {
	resp, err := c.client.DoJSON(ctx, fasthttp.MethodDelete, "/cart/clear", nil, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeCart(resp)
}

func (c *cartAPI) AddFromQR(ctx context.Context, productID string, quantity int) (*domain.Cart, error) {
	req := transport.CartQuantityRequest{Quantity: quantity}
	resp, err := c.client.DoJSON(ctx, fasthttp.MethodPost, "/product/qr/"+productID+"/add-to-cart", nil, req, true)
	if err != nil {
		return nil, err
	}
	return decodeCart(resp)
}

// checkoutData is the data payload of a successful checkout.
type checkoutData struct {
	OrderID          string               `json:"orderId"`
	ReportID         string               `json:"reportId"`
	PaymentStatus    domain.PaymentStatus `json:"paymentStatus"`
	AmountPaid       float64              `json:"amountPaid"`
	RemainingBalance float64              `json:"remainingBalance"`
}

func (c *cartAPI) Checkout(ctx context.Context, req transport.CheckoutRequest) (*repository.CheckoutConfirmation, error) {
	resp, err := c.client.DoJSON(ctx, fasthttp.MethodPost, "/cart/checkout", nil, req, true)
	if err != nil {
		return nil, err
	}

	// Decode before the status check: a rejected checkout may still carry a
	// structured unavailable-items payload the caller must branch on.
	var env transport.Envelope
	if decodeErr := resp.Decode(&env); decodeErr != nil {
		if !resp.OK() {
			return nil, statusError(resp.StatusCode, "")
		}
		return nil, decodeErr
	}
	if !resp.OK() || !env.OK() {
		if len(env.UnavailableItems) > 0 {
			return nil, &domain.UnavailableError{Msg: env.Message, Items: env.UnavailableItems}
		}
		return nil, statusError(resp.StatusCode, env.Message)
	}

	var data checkoutData
	if err := env.DecodeData(&data); err != nil {
		return nil, domain.WrapError(domain.ErrCodeTransport, "malformed checkout payload", err)
	}
	orderID := data.OrderID
	if orderID == "" {
		orderID = data.ReportID
	}
	if orderID == "" {
		orderID = env.OrderID
	}
	return &repository.CheckoutConfirmation{
		OrderID:          orderID,
		PaymentStatus:    data.PaymentStatus,
		AmountPaid:       data.AmountPaid,
		RemainingBalance: data.RemainingBalance,
		Message:          env.Message,
	}, nil
}

func (c *cartAPI) AllCarts(ctx context.Context, query url.Values) ([]domain.Cart, transport.Page, error) {
	resp, err := c.client.DoJSON(ctx, fasthttp.MethodGet, "/cart/all", query, nil, true)
	if err != nil {
		return nil, transport.Page{}, err
	}
	env, err := envelope(resp)
	if err != nil {
		return nil, transport.Page{}, err
	}
	var carts []domain.Cart
	if err := env.DecodeData(&carts); err != nil {
		return nil, transport.Page{}, domain.WrapError(domain.ErrCodeTransport, "malformed cart list", err)
	}
	return carts, transport.PageOf(env), nil
}

func decodeCart(resp *restclient.Response) (*domain.Cart, error) {
	env, err := envelope(resp)
	if err != nil {
		return nil, err
	}
	var cart domain.Cart
	if err := env.DecodeData(&cart); err != nil {
		return nil, domain.WrapError(domain.ErrCodeTransport, "malformed cart payload", err)
	}
	return &cart, nil
}
