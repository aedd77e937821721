// Package report serves sales analytics and report housekeeping.
package report

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
	"github.com/shoplite/client/repository"
)

type snapshot struct {
	Sales      []domain.SalesPoint         `json:"sales,omitempty"`
	Products   []domain.ProductSales       `json:"products,omitempty"`
	Categories []domain.CategorySales      `json:"categories,omitempty"`
	Methods    []domain.PaymentMethodSales `json:"paymentMethods,omitempty"`
	Valuation  *domain.InventoryValuation  `json:"valuation,omitempty"`
}

// Manager serves sales reports, caching the last fetched series so a restart
// can render something immediately.
type Manager struct {
	reports repository.ReportAPI
	store   repository.SnapshotStore
	logger  *zap.Logger

	mu   sync.Mutex
	last snapshot
}

func New(reports repository.ReportAPI, store repository.SnapshotStore, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		reports: reports,
		store:   store,
		logger:  logger,
	}
}

// Load rehydrates the persisted report snapshot.
func (m *Manager) Load() error {
	if m.store == nil {
		return nil
	}
	var saved snapshot
	found, err := m.store.Load(repository.SnapshotReport, &saved)
	if err != nil {
		return err
	}
	if found {
		m.mu.Lock()
		m.last = saved
		m.mu.Unlock()
	}
	return nil
}

// Sales fetches an aggregated sales series for the given period and range.
func (m *Manager) Sales(ctx context.Context, query url.Values) ([]domain.SalesPoint, error) {
	points, err := m.reports.Sales(ctx, query)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.last.Sales = points
	m.persistLocked()
	m.mu.Unlock()
	return points, nil
}

// Products ranks products by sales volume.
func (m *Manager) Products(ctx context.Context, query url.Values) ([]domain.ProductSales, error) {
	products, err := m.reports.Products(ctx, query)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.last.Products = products
	m.persistLocked()
	m.mu.Unlock()
	return products, nil
}

// Categories aggregates sales per product category.
func (m *Manager) Categories(ctx context.Context, query url.Values) ([]domain.CategorySales, error) {
	categories, err := m.reports.Categories(ctx, query)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.last.Categories = categories
	m.persistLocked()
	m.mu.Unlock()
	return categories, nil
}

// PaymentMethods breaks revenue down by payment method.
func (m *Manager) PaymentMethods(ctx context.Context, query url.Values) ([]domain.PaymentMethodSales, error) {
	methods, err := m.reports.PaymentMethods(ctx, query)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.last.Methods = methods
	m.persistLocked()
	m.mu.Unlock()
	return methods, nil
}

// InventoryValuation fetches the current valuation of stock on hand.
func (m *Manager) InventoryValuation(ctx context.Context) (*domain.InventoryValuation, error) {
	valuation, err := m.reports.InventoryValuation(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.last.Valuation = valuation
	m.persistLocked()
	m.mu.Unlock()
	return valuation, nil
}

// ExportSales downloads a rendered sales report document.
func (m *Manager) ExportSales(ctx context.Context, query url.Values) (*repository.Export, error) {
	return m.reports.ExportSales(ctx, query)
}

// Delete removes a single report record.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.reports.Delete(ctx, id)
}

// DeleteRange removes report records inside a date range and reports the
// count.
func (m *Manager) DeleteRange(ctx context.Context, req transport.ReportDeleteRequest) (int, error) {
	if req.StartDate == "" || req.EndDate == "" {
		return 0, domain.ErrInvalidPayload
	}
	return m.reports.DeleteRange(ctx, req)
}

// DeleteAll clears the report history and drops the cached series.
func (m *Manager) DeleteAll(ctx context.Context) (int, error) {
	count, err := m.reports.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	m.last = snapshot{}
	m.persistLocked()
	m.mu.Unlock()
	return count, nil
}

// ResetLocal drops the cached series without touching the server.
func (m *Manager) ResetLocal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = snapshot{}
	if m.store != nil {
		if err := m.store.Delete(repository.SnapshotReport); err != nil {
			m.logger.Warn("failed to drop report snapshot", zap.Error(err))
		}
	}
}

func (m *Manager) persistLocked() {
	if m.store == nil {
		return
	}
	if err := m.store.Save(repository.SnapshotReport, m.last); err != nil {
		m.logger.Warn("failed to persist report snapshot", zap.Error(err))
	}
}
