package repository

import (
	"context"
	"net/url"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
)

// DebtAPI is the debt-tracking surface of the backend. The /debt/admin
// endpoints require an admin session; the server enforces that.
type DebtAPI interface {
	UserDebts(ctx context.Context) ([]domain.Debt, error)
	Statistics(ctx context.Context) (*domain.DebtStatistics, error)
	GetByID(ctx context.Context, debtID string) (*domain.Debt, error)
	Pay(ctx context.Context, debtID string, payment domain.DebtPayment) (*domain.Debt, string, error)
	All(ctx context.Context, query url.Values) ([]domain.Debt, transport.Page, error)
	Overdue(ctx context.Context) ([]domain.Debt, float64, error)
	Update(ctx context.Context, debtID string, req transport.DebtUpdateRequest) (*domain.Debt, string, error)
	Remind(ctx context.Context, debtID string) (string, error)
	DeleteAll(ctx context.Context) (int, string, error)
}
