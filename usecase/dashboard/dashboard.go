// Package dashboard serves the aggregate landing snapshot.
package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shoplite/client/domain"
	"github.com/shoplite/client/repository"
)

type snapshot struct {
	Data      *domain.DashboardData `json:"data,omitempty"`
	FetchedAt time.Time             `json:"fetchedAt,omitempty"`
}

// Manager caches the dashboard aggregate with a short freshness window so
// repeated screen loads don't hammer the backend.
type Manager struct {
	dashboards repository.DashboardAPI
	store      repository.SnapshotStore
	logger     *zap.Logger
	maxAge     time.Duration

	mu   sync.Mutex
	last snapshot

	now func() time.Time
}

func New(dashboards repository.DashboardAPI, store repository.SnapshotStore, maxAge time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxAge <= 0 {
		maxAge = time.Minute
	}
	return &Manager{
		dashboards: dashboards,
		store:      store,
		logger:     logger,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Load rehydrates the persisted dashboard snapshot.
func (m *Manager) Load() error {
	if m.store == nil {
		return nil
	}
	var saved snapshot
	found, err := m.store.Load(repository.SnapshotDashboard, &saved)
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

// Get returns the dashboard aggregate, serving the cached copy while it is
// fresh. force bypasses the cache.
func (m *Manager) Get(ctx context.Context, force bool) (*domain.DashboardData, error) {
	m.mu.Lock()
	if !force && m.last.Data != nil && m.now().Sub(m.last.FetchedAt) < m.maxAge {
		data := *m.last.Data
		m.mu.Unlock()
		return &data, nil
	}
	m.mu.Unlock()

	data, err := m.dashboards.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.last = snapshot{Data: data, FetchedAt: m.now()}
	m.persistLocked()
	m.mu.Unlock()
	return data, nil
}

// Reset wipes the server-side dashboard history and the local cache,
// reporting how many records were removed.
func (m *Manager) Reset(ctx context.Context) (int, string, error) {
	count, msg, err := m.dashboards.ResetDashboard(ctx)
	if err != nil {
		return 0, "", err
	}
	m.mu.Lock()
	m.last = snapshot{}
	if m.store != nil {
		if err := m.store.Delete(repository.SnapshotDashboard); err != nil {
			m.logger.Warn("failed to drop dashboard snapshot", zap.Error(err))
		}
	}
	m.mu.Unlock()
	return count, msg, nil
}

// ResetLocal drops the cached snapshot without touching the server.
func (m *Manager) ResetLocal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = snapshot{}
	if m.store != nil {
		if err := m.store.Delete(repository.SnapshotDashboard); err != nil {
			m.logger.Warn("failed to drop dashboard snapshot", zap.Error(err))
		}
	}
}

func (m *Manager) persistLocked() {
	if m.store == nil {
		return
	}
	if err := m.store.Save(repository.SnapshotDashboard, m.last); err != nil {
		m.logger.Warn("failed to persist dashboard snapshot", zap.Error(err))
	}
}
