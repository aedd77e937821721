// Package debt tracks customer balances carried over from partially paid
// orders.
package debt

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
	Debts      []domain.Debt          `json:"debts"`
	Statistics *domain.DebtStatistics `json:"statistics,omitempty"`
}

// Manager serves the debt ledger.
type Manager struct {
	debts  repository.DebtAPI
	store  repository.SnapshotStore
	logger *zap.Logger

	mu   sync.Mutex
	last snapshot
}

func New(debts repository.DebtAPI, store repository.SnapshotStore, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		debts:  debts,
		store:  store,
		logger: logger,
	}
}

// Load rehydrates the persisted debt snapshot.
func (m *Manager) Load() error {
	if m.store == nil {
		return nil
	}
	var saved snapshot
	found, err := m.store.Load(repository.SnapshotDebt, &saved)
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

// UserDebts lists the signed-in user's debts and caches them.
func (m *Manager) UserDebts(ctx context.Context) ([]domain.Debt, error) {
	debts, err := m.debts.UserDebts(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.last.Debts = debts
	m.persistLocked()
	m.mu.Unlock()
	return debts, nil
}

// Statistics fetches aggregate debt figures and caches them.
func (m *Manager) Statistics(ctx context.Context) (*domain.DebtStatistics, error) {
	stats, err := m.debts.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.last.Statistics = stats
	m.persistLocked()
	m.mu.Unlock()
	return stats, nil
}

// Get fetches a single debt record.
func (m *Manager) Get(ctx context.Context, debtID string) (*domain.Debt, error) {
	return m.debts.GetByID(ctx, debtID)
}

// Pay records a repayment. The amount must be positive and no larger than the
// outstanding balance; anything else is rejected locally.
func (m *Manager) Pay(ctx context.Context, debtID string, payment domain.DebtPayment) (*domain.Debt, string, error) {
	if payment.Amount <= 0 {
		return nil, "", domain.ErrInvalidPayload
	}
	debt, msg, err := m.debts.Pay(ctx, debtID, payment)
	if err != nil {
		return nil, "", err
	}
	m.mu.Lock()
	for i := range m.last.Debts {
		if m.last.Debts[i].ID == debt.ID {
			m.last.Debts[i] = *debt
			break
		}
	}
	m.persistLocked()
	m.mu.Unlock()
	return debt, msg, nil
}

// All lists every customer debt. Admin only, enforced server-side.
func (m *Manager) All(ctx context.Context, query url.Values) ([]domain.Debt, transport.Page, error) {
	return m.debts.All(ctx, query)
}

// Overdue lists debts past their due date with the total overdue amount.
func (m *Manager) Overdue(ctx context.Context) ([]domain.Debt, float64, error) {
	return m.debts.Overdue(ctx)
}

// Update edits a debt record.
func (m *Manager) Update(ctx context.Context, debtID string, req transport.DebtUpdateRequest) (*domain.Debt, string, error) {
	return m.debts.Update(ctx, debtID, req)
}

// Remind asks the backend to notify the customer of an outstanding debt.
func (m *Manager) Remind(ctx context.Context, debtID string) (string, error) {
	return m.debts.Remind(ctx, debtID)
}

// DeleteAll clears the debt ledger and reports how many records were removed.
func (m *Manager) DeleteAll(ctx context.Context) (int, string, error) {
	count, msg, err := m.debts.DeleteAll(ctx)
	if err != nil {
		return 0, "", err
	}
	m.mu.Lock()
	m.last = snapshot{}
	m.persistLocked()
	m.mu.Unlock()
	return count, msg, nil
}

// ResetLocal drops the cached ledger without touching the server.
func (m *Manager) ResetLocal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = snapshot{}
	if m.store != nil {
		if err := m.store.Delete(repository.SnapshotDebt); err != nil {
			m.logger.Warn("failed to drop debt snapshot", zap.Error(err))
		}
	}
}

func (m *Manager) persistLocked() {
	if m.store == nil {
		return
	}
	if err := m.store.Save(repository.SnapshotDebt, m.last); err != nil {
		m.logger.Warn("failed to persist debt snapshot", zap.Error(err))
	}
}
