package repository

import (
	"context"
	"net/url"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
)

// Export holds a rendered report document.
type Export struct {
	Data        []byte
	ContentType string
}

// ReportAPI is the reporting surface of the backend.
type ReportAPI interface {
	Sales(ctx context.Context, query url.Values) ([]domain.SalesPoint, error)
	Products(ctx context.Context, query url.Values) ([]domain.ProductSales, error)
	Categories(ctx context.Context, query url.Values) ([]domain.CategorySales, error)
	PaymentMethods(ctx context.Context, query url.Values) ([]domain.PaymentMethodSales, error)
	InventoryValuation(ctx context.Context) (*domain.InventoryValuation, error)
	ExportSales(ctx context.Context, query url.Values) (*Export, error)
	Delete(ctx context.Context, id string) error
	DeleteRange(ctx context.Context, req transport.ReportDeleteRequest) (int, error)
	DeleteAll(ctx context.Context) (int, error)
}

// DashboardAPI is the aggregate-dashboard surface, served under /reports.
type DashboardAPI interface {
	Dashboard(ctx context.Context) (*domain.DashboardData, error)
	ResetDashboard(ctx context.Context) (int, string, error)
}
