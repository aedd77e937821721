// Package expenditure drives the spend-approval flow: employees raise spend
// requests, admins approve and complete them.
package expenditure

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
	Expenditures []domain.Expenditure     `json:"expenditures"`
	Statistics   *domain.ExpenditureStats `json:"statistics,omitempty"`
}

// Manager serves the expenditure workflow.
type Manager struct {
	expenditures repository.ExpenditureAPI
	store        repository.SnapshotStore
	logger       *zap.Logger

	mu   sync.Mutex
	last snapshot
}

func New(expenditures repository.ExpenditureAPI, store repository.SnapshotStore, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		expenditures: expenditures,
		store:        store,
		logger:       logger,
	}
}

// Load rehydrates the persisted expenditure snapshot.
func (m *Manager) Load() error {
	if m.store == nil {
		return nil
	}
	var saved snapshot
	found, err := m.store.Load(repository.SnapshotExpenditure, &saved)
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

// Create raises a spend request.
func (m *Manager) Create(ctx context.Context, req transport.ExpenditureCreateRequest) (*domain.Expenditure, error) {
	if req.Amount <= 0 || req.Description == "" {
		return nil, domain.ErrInvalidPayload
	}
	item, err := m.expenditures.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.last.Expenditures = append([]domain.Expenditure{*item}, m.last.Expenditures...)
	m.persistLocked()
	m.mu.Unlock()
	return item, nil
}

// List fetches a page of spend requests and caches it.
func (m *Manager) List(ctx context.Context, query url.Values) ([]domain.Expenditure, transport.Page, error) {
	items, page, err := m.expenditures.List(ctx, query)
	if err != nil {
		return nil, transport.Page{}, err
	}
	m.mu.Lock()
	m.last.Expenditures = items
	m.persistLocked()
	m.mu.Unlock()
	return items, page, nil
}

// Statistics aggregates spend by approval state.
func (m *Manager) Statistics(ctx context.Context, query url.Values) (*domain.ExpenditureStats, error) {
	stats, err := m.expenditures.Statistics(ctx, query)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.last.Statistics = stats
	m.persistLocked()
	m.mu.Unlock()
	return stats, nil
}

// Approve marks a pending request approved. Transitions are enforced
// server-side; the updated record replaces the cached one.
func (m *Manager) Approve(ctx context.Context, id string) (*domain.Expenditure, error) {
	item, err := m.expenditures.Approve(ctx, id)
	if err != nil {
		return nil, err
	}
	m.refresh(item)
	return item, nil
}

// Complete marks an approved request completed.
func (m *Manager) Complete(ctx context.Context, id string) (*domain.Expenditure, error) {
	item, err := m.expenditures.Complete(ctx, id)
	if err != nil {
		return nil, err
	}
	m.refresh(item)
	return item, nil
}

func (m *Manager) refresh(item *domain.Expenditure) {
	m.mu.Lock()
	for i := range m.last.Expenditures {
		if m.last.Expenditures[i].ID == item.ID {
			m.last.Expenditures[i] = *item
			break
		}
	}
	m.persistLocked()
	m.mu.Unlock()
}

// ResetLocal drops the cached requests without touching the server.
func (m *Manager) ResetLocal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = snapshot{}
	if m.store != nil {
		if err := m.store.Delete(repository.SnapshotExpenditure); err != nil {
			m.logger.Warn("failed to drop expenditure snapshot", zap.Error(err))
		}
	}
}

func (m *Manager) persistLocked() {
	if m.store == nil {
		return
	}
	if err := m.store.Save(repository.SnapshotExpenditure, m.last); err != nil {
		m.logger.Warn("failed to persist expenditure snapshot", zap.Error(err))
	}
}
