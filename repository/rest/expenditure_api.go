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

type expenditureAPI struct {
	client *restclient.Client
}

// NewExpenditureAPI creates the REST-backed expenditure repository.
func NewExpenditureAPI(client *restclient.Client) repository.ExpenditureAPI {
	return &expenditureAPI{client: client}
}

func (e *expenditureAPI) Create(ctx context.Context, req transport.ExpenditureCreateRequest) (*domain.Expenditure, error) {
	resp, err := e.client.DoJSON(ctx, fasthttp.MethodPost, "/expenditures", nil, req, true)
	if err != nil {
		return nil, err
	}
	return decodeExpenditure(resp)
}

func (e *expenditureAPI) List(ctx context.Context, query url.Values) ([]domain.Expenditure, transport.Page, error) {
	resp, err := e.client.DoJSON(ctx, fasthttp.MethodGet, "/expenditures", query, nil, true)
	if err != nil {
		return nil, transport.Page{}, err
	}
	env, err := envelope(resp)
	if err != nil {
		return nil, transport.Page{}, err
	}
	var items []domain.Expenditure
	if err := env.DecodeData(&items); err != nil {
		return nil, transport.Page{}, domain.WrapError(domain.ErrCodeTransport, "malformed expenditure list", err)
	}
	return items, transport.PageOf(env), nil
}

func (e *expenditureAPI) Statistics(ctx context.Context, query url.Values) (*domain.ExpenditureStats, error) {
	resp, err := e.client.DoJSON(ctx, fasthttp.MethodGet, "/expenditures/statistics", query, nil, true)
	if err != nil {
		return nil, err
	}
	env, err := envelope(resp)
	if err != nil {
		return nil, err
	}
	var stats domain.ExpenditureStats
	if err := env.DecodeData(&stats); err != nil {
		return nil, domain.WrapError(domain.ErrCodeTransport, "malformed expenditure statistics", err)
	}
	return &stats, nil
}

func (e *expenditureAPI) Approve(ctx context.Context, id string) (*domain.Expenditure, error) {
	return e.patchStatus(ctx, "/expenditures/"+id+"/approve")
}

func (e *expenditureAPI) Complete(ctx context.Context, id string) (*domain.Expenditure, error) {
	return e.patchStatus(ctx, "/expenditures/"+id+"/complete")
}

func (e *expenditureAPI) patchStatus(ctx context.Context, path string) (*domain.Expenditure, error) {
	resp, err := e.client.DoJSON(ctx, fasthttp.MethodPatch, path, nil, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeExpenditure(resp)
}

func decodeExpenditure(resp *restclient.Response) (*domain.Expenditure, error) {
	env, err := envelope(resp)
	if err != nil {
		return nil, err
	}
	var item domain.Expenditure
	if err := env.DecodeData(&item); err != nil {
		return nil, domain.WrapError(domain.ErrCodeTransport, "malformed expenditure payload", err)
	}
	return &item, nil
}
