// Package product caches the catalogue locally and forwards inventory
// mutations to the backend.
package product

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
	"github.com/shoplite/client/repository"
)

// snapshot is the persisted slice of catalogue state.
type snapshot struct {
	Products []domain.Product `json:"products"`
	Page     transport.Page   `json:"page"`
}

// Manager serves the product catalogue. Reads are public; mutations go
// through the authorized transport.
type Manager struct {
	products repository.ProductAPI
	store    repository.SnapshotStore
	logger   *zap.Logger

	mu   sync.Mutex
	last snapshot
}

func New(products repository.ProductAPI, store repository.SnapshotStore, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		products: products,
		store:    store,
		logger:   logger,
	}
}

// Load rehydrates the last fetched catalogue page.
func (m *Manager) Load() error {
	if m.store == nil {
		return nil
	}
	var saved snapshot
	found, err := m.store.Load(repository.SnapshotProduct, &saved)
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

// Cached returns the last fetched catalogue page without touching the
// network.
func (m *Manager) Cached() ([]domain.Product, transport.Page) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last.Products, m.last.Page
}

// List fetches a catalogue page and caches it.
func (m *Manager) List(ctx context.Context, query url.Values) ([]domain.Product, transport.Page, error) {
	products, page, err := m.products.List(ctx, query)
	if err != nil {
		return nil, transport.Page{}, err
	}
	m.mu.Lock()
	m.last = snapshot{Products: products, Page: page}
	if m.store != nil {
		if err := m.store.Save(repository.SnapshotProduct, m.last); err != nil {
			m.logger.Warn("failed to persist product snapshot", zap.Error(err))
		}
	}
	m.mu.Unlock()
	return products, page, nil
}

// Get fetches a single product by ID.
func (m *Manager) Get(ctx context.Context, id string) (*domain.Product, error) {
	return m.products.GetByID(ctx, id)
}

// GetByQR resolves a scanned code to a product. Satisfies the cart manager's
// lookup dependency.
func (m *Manager) GetByQR(ctx context.Context, qrRef string) (*domain.Product, error) {
	return m.products.GetByQR(ctx, qrRef)
}

// Create adds a catalogue entry, uploading the image when one is attached.
func (m *Manager) Create(ctx context.Context, form repository.ProductForm) (*domain.Product, error) {
	if form.Name == "" || form.Price < 0 {
		return nil, domain.ErrInvalidPayload
	}
	return m.products.Create(ctx, form)
}

// Update edits a catalogue entry.
func (m *Manager) Update(ctx context.Context, id string, form repository.ProductForm) (*domain.Product, error) {
	if id == "" {
		return nil, domain.ErrProductNotFound
	}
	return m.products.Update(ctx, id, form)
}

// Delete removes a catalogue entry and evicts it from the cache.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.products.Delete(ctx, id); err != nil {
		return err
	}
	m.mu.Lock()
	kept := m.last.Products[:0]
	for _, p := range m.last.Products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	m.last.Products = kept
	if m.store != nil {
		if err := m.store.Save(repository.SnapshotProduct, m.last); err != nil {
			m.logger.Warn("failed to persist product snapshot", zap.Error(err))
		}
	}
	m.mu.Unlock()
	return nil
}

// ResetLocal drops the cached catalogue without touching the server.
func (m *Manager) ResetLocal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = snapshot{}
	if m.store != nil {
		if err := m.store.Delete(repository.SnapshotProduct); err != nil {
			m.logger.Warn("failed to drop product snapshot", zap.Error(err))
		}
	}
}

// InventoryStats reports stock levels across the catalogue.
func (m *Manager) InventoryStats(ctx context.Context) (*domain.InventoryStats, error) {
	return m.products.InventoryStats(ctx)
}
