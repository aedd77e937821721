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

type reportAPI struct {
	client *restclient.Client
}

// NewReportAPI creates the REST-backed report repository. It also serves the
// dashboard endpoints, which live under the same /reports prefix.
func NewReportAPI(client *restclient.Client) repository.ReportAPI {
	return &reportAPI{client: client}
}

// NewDashboardAPI exposes the dashboard surface of the same backing client.
func NewDashboardAPI(client *restclient.Client) repository.DashboardAPI {
	return &reportAPI{client: client}
}

func (r *reportAPI) Sales(ctx context.Context, query url.Values) ([]domain.SalesPoint, error) {
	var points []domain.SalesPoint
	if err := r.list(ctx, "/reports/sales", query, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (r *reportAPI) Products(ctx context.Context, query url.Values) ([]domain.ProductSales, error) {
	var products []domain.ProductSales
	if err := r.list(ctx, "/reports/products", query, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *reportAPI) Categories(ctx context.Context, query url.Values) ([]domain.CategorySales, error) {
	var categories []domain.CategorySales
	if err := r.list(ctx, "/reports/categories", query, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *reportAPI) PaymentMethods(ctx context.Context, query url.Values) ([]domain.PaymentMethodSales, error) {
	var methods []domain.PaymentMethodSales
	if err := r.list(ctx, "/reports/payment-methods", query, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

func (r *reportAPI) InventoryValuation(ctx context.Context) (*domain.InventoryValuation, error) {
	resp, err := r.client.DoJSON(ctx, fasthttp.MethodGet, "/reports/inventory-valuation", nil, nil, true)
	if err != nil {
		return nil, err
	}
	env, err := envelope(resp)
	if err != nil {
		return nil, err
	}
	var valuation domain.InventoryValuation
	if err := env.DecodeData(&valuation); err != nil {
		return nil, domain.WrapError(domain.ErrCodeTransport, "malformed valuation payload", err)
	}
	return &valuation, nil
}

func (r *reportAPI) ExportSales(ctx context.Context, query url.Values) (*repository.Export, error) {
	data, contentType, err := r.client.Download(ctx, "/reports/sales/export", query)
	if err != nil {
		return nil, err
	}
	return &repository.Export{Data: data, ContentType: contentType}, nil
}

func (r *reportAPI) Delete(ctx context.Context, id string) error {
	resp, err := r.client.DoJSON(ctx, fasthttp.MethodDelete, "/reports/"+id, nil, nil, true)
	if err != nil {
		return err
	}
	_, err = envelope(resp)
	return err
}

func (r *reportAPI) DeleteRange(ctx context.Context, req transport.ReportDeleteRequest) (int, error) {
	resp, err := r.client.DoJSON(ctx, fasthttp.MethodPost, "/reports/delete-range", nil, req, true)
	if err != nil {
		return 0, err
	}
	return deletedReports(resp)
}

func (r *reportAPI) DeleteAll(ctx context.Context) (int, error) {
	resp, err := r.client.DoJSON(ctx, fasthttp.MethodDelete, "/reports/all", nil, nil, true)
	if err != nil {
		return 0, err
	}
	return deletedReports(resp)
}

func (r *reportAPI) Dashboard(ctx context.Context) (*domain.DashboardData, error) {
	resp, err := r.client.DoJSON(ctx, fasthttp.MethodGet, "/reports/dashboard", nil, nil, true)
	if err != nil {
		return nil, err
	}
	env, err := envelope(resp)
	if err != nil {
		return nil, err
	}
	var data domain.DashboardData
	if err := env.DecodeData(&data); err != nil {
		return nil, domain.WrapError(domain.ErrCodeTransport, "malformed dashboard payload", err)
	}
	return &data, nil
}

func (r *reportAPI) ResetDashboard(ctx context.Context) (int, string, error) {
	resp, err := r.client.DoJSON(ctx, fasthttp.MethodPost, "/reports/dashboard/reset", nil, nil, true)
	if err != nil {
		return 0, "", err
	}
	env, err := envelope(resp)
	if err != nil {
		return 0, "", err
	}
	count := env.DeletedReports
	if count == 0 {
		count = env.DeletedCount
	}
	return count, env.Message, nil
}

func (r *reportAPI) list(ctx context.Context, path string, query url.Values, out interface{}) error {
	resp, err := r.client.DoJSON(ctx, fasthttp.MethodGet, path, query, nil, true)
	if err != nil {
		return err
	}
	env, err := envelope(resp)
	if err != nil {
		return err
	}
	if err := env.DecodeData(out); err != nil {
		return domain.WrapError(domain.ErrCodeTransport, "malformed report payload", err)
	}
	return nil
}

func deletedReports(resp *restclient.Response) (int, error) {
	env, err := envelope(resp)
	if err != nil {
		return 0, err
	}
	if env.DeletedReports > 0 {
		return env.DeletedReports, nil
	}
	return env.DeletedCount, nil
}
