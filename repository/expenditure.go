package repository

import (
	"context"
	"net/url"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
)

// ExpenditureAPI is the spend-approval surface of the backend.
type ExpenditureAPI interface {
	Create(ctx context.Context, req transport.ExpenditureCreateRequest) (*domain.Expenditure, error)
	List(ctx context.Context, query url.Values) ([]domain.Expenditure, transport.Page, error)
	Statistics(ctx context.Context, query url.Values) (*domain.ExpenditureStats, error)
	Approve(ctx context.Context, id string) (*domain.Expenditure, error)
	Complete(ctx context.Context, id string) (*domain.Expenditure, error)
}
