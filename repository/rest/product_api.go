package rest

import (
	"context"
	"net/url"
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
	"github.com/shoplite/client/internal/restclient"
	"github.com/shoplite/client/repository"
)

type productAPI struct {
	client *restclient.Client
}

// NewProductAPI creates the REST-backed inventory repository.
func NewProductAPI(client *restclient.Client) repository.ProductAPI {
	return &productAPI{client: client}
}

func (p *productAPI) List(ctx context.Context, query url.Values) ([]domain.Product, transport.Page, error) {
	resp, err := p.client.DoJSON(ctx, fasthttp.MethodGet, "/product", query, nil, false)
	if err != nil {
		return nil, transport.Page{}, err
	}
	env, err := envelope(resp)
	if err != nil {
		return nil, transport.Page{}, err
	}
	var products []domain.Product
	if err := env.DecodeData(&products); err != nil {
		return nil, transport.Page{}, domain.WrapError(domain.ErrCodeTransport, "malformed product list", err)
	}
	return products, transport.PageOf(env), nil
}

func (p *productAPI) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return p.single(ctx, "/product/"+id)
}

func (p *productAPI) GetByQR(ctx context.Context, qrRef string) (*domain.Product, error) {
	return p.single(ctx, "/product/qr/"+qrRef)
}

func (p *productAPI) single(ctx context.Context, path string) (*domain.Product, error) {
	resp, err := p.client.DoJSON(ctx, fasthttp.MethodGet, path, nil, nil, false)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == fasthttp.StatusNotFound {
		return nil, domain.ErrProductNotFound
	}
	return decodeProduct(resp)
}

func (p *productAPI) Create(ctx context.Context, form repository.ProductForm) (*domain.Product, error) {
	resp, err := p.client.DoMultipart(ctx, fasthttp.MethodPost, "/product",
		formFields(form), "image", form.ImageName, form.Image, true)
	if err != nil {
		return nil, err
	}
	return decodeProduct(resp)
}

func (p *productAPI) Update(ctx context.Context, id string, form repository.ProductForm) (*domain.Product, error) {
	resp, err := p.client.DoMultipart(ctx, fasthttp.MethodPut, "/product/"+id,
		formFields(form), "image", form.ImageName, form.Image, true)
	if err != nil {
		return nil, err
	}
	return decodeProduct(resp)
}

func (p *productAPI) Delete(ctx context.Context, id string) error {
	resp, err := p.client.DoJSON(ctx, fasthttp.MethodDelete, "/product/"+id, nil, nil, true)
	if err != nil {
		return err
	}
	_, err = envelope(resp)
	return err
}

func (p *productAPI) InventoryStats(ctx context.Context) (*domain.InventoryStats, error) {
	resp, err := p.client.DoJSON(ctx, fasthttp.MethodGet, "/product/stats", nil, nil, true)
	if err != nil {
		return nil, err
	}
	env, err := envelope(resp)
	if err != nil {
		return nil, err
	}
	var stats domain.InventoryStats
	if err := env.DecodeData(&stats); err != nil {
		return nil, domain.WrapError(domain.ErrCodeTransport, "malformed stats payload", err)
	}
	return &stats, nil
}

func formFields(form repository.ProductForm) map[string]string {
	fields := map[string]string{
		"name":     form.Name,
		"price":    strconv.FormatFloat(form.Price, 'f', -1, 64),
		"quantity": strconv.Itoa(form.Quantity),
	}
	if form.Description != "" {
		fields["description"] = form.Description
	}
	if form.Category != "" {
		fields["category"] = form.Category
	}
	if form.Unit != "" {
		fields["unit"] = form.Unit
	}
	return fields
}

func decodeProduct(resp *restclient.Response) (*domain.Product, error) {
	env, err := envelope(resp)
	if err != nil {
		return nil, err
	}
	var product domain.Product
	if err := env.DecodeData(&product); err != nil {
		return nil, domain.WrapError(domain.ErrCodeTransport, "malformed product payload", err)
	}
	return &product, nil
}
