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

type debtAPI struct {
	client *restclient.Client
}

// NewDebtAPI creates the REST-backed debt repository.
func NewDebtAPI(client *restclient.Client) repository.DebtAPI {
	return &debtAPI{client: client}
}

func (d *debtAPI) UserDebts(ctx context.Context) ([]domain.Debt, error) {
	resp, err := d.client.DoJSON(ctx, fasthttp.MethodGet, "/debt", nil, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeDebtList(resp)
}

func (d *debtAPI) Statistics(ctx context.Context) (*domain.DebtStatistics, error) {
	resp, err := d.client.DoJSON(ctx, fasthttp.MethodGet, "/debt/statistics", nil, nil, true)
	if err != nil {
		return nil, err
	}
	env, err := envelope(resp)
	if err != nil {
		return nil, err
	}
	var stats domain.DebtStatistics
	if err := env.DecodeData(&stats); err != nil {
		return nil, domain.WrapError(domain.ErrCodeTransport, "malformed debt statistics", err)
	}
	return &stats, nil
}

func (d *debtAPI) GetByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	resp, err := d.client.DoJSON(ctx, fasthttp.MethodGet, "/debt/"+debtID, nil, nil, true)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == fasthttp.StatusNotFound {
		return nil, domain.ErrDebtNotFound
	}
	debt, _, err := decodeDebt(resp)
	return debt, err
}

func (d *debtAPI) Pay(ctx context.Context, debtID string, payment domain.DebtPayment) (*domain.Debt, string, error) {
	resp, err := d.client.DoJSON(ctx, fasthttp.MethodPost, "/debt/"+debtID+"/pay", nil, payment, true)
	if err != nil {
		return nil, "", err
	}
	return decodeDebt(resp)
}

func (d *debtAPI) All(ctx context.Context, query url.Values) ([]domain.Debt, transport.Page, error) {
	resp, err := d.client.DoJSON(ctx, fasthttp.MethodGet, "/debt/admin/all", query, nil, true)
	if err != nil {
		return nil, transport.Page{}, err
	}
	env, err := envelope(resp)
	if err != nil {
		return nil, transport.Page{}, err
	}
	var debts []domain.Debt
	if err := env.DecodeData(&debts); err != nil {
		return nil, transport.Page{}, domain.WrapError(domain.ErrCodeTransport, "malformed debt list", err)
	}
	return debts, transport.PageOf(env), nil
}

func (d *debtAPI) Overdue(ctx context.Context) ([]domain.Debt, float64, error) {
	resp, err := d.client.DoJSON(ctx, fasthttp.MethodGet, "/debt/admin/overdue", nil, nil, true)
	if err != nil {
		return nil, 0, err
	}
	env, err := envelope(resp)
	if err != nil {
		return nil, 0, err
	}
	var debts []domain.Debt
	if err := env.DecodeData(&debts); err != nil {
		return nil, 0, domain.WrapError(domain.ErrCodeTransport, "malformed overdue list", err)
	}
	return debts, env.TotalOverdueAmount, nil
}

func (d *debtAPI) Update(ctx context.Context, debtID string, req transport.DebtUpdateRequest) (*domain.Debt, string, error) {
	resp, err := d.client.DoJSON(ctx, fasthttp.MethodPut, "/debt/admin/"+debtID, nil, req, true)
	if err != nil {
		return nil, "", err
	}
	return decodeDebt(resp)
}

func (d *debtAPI) Remind(ctx context.Context, debtID string) (string, error) {
	resp, err := d.client.DoJSON(ctx, fasthttp.MethodPost, "/debt/admin/"+debtID+"/remind", nil, nil, true)
	if err != nil {
		return "", err
	}
	env, err := envelope(resp)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (d *debtAPI) DeleteAll(ctx context.Context) (int, string, error) {
	resp, err := d.client.DoJSON(ctx, fasthttp.MethodDelete, "/debt/admin/all", nil, nil, true)
	if err != nil {
		return 0, "", err
	}
	env, err := envelope(resp)
	if err != nil {
		return 0, "", err
	}
	return env.DeletedCount, env.Message, nil
}

func decodeDebt(resp *restclient.Response) (*domain.Debt, string, error) {
	env, err := envelope(resp)
	if err != nil {
		return nil, "", err
	}
	var debt domain.Debt
	if err := env.DecodeData(&debt); err != nil {
		return nil, "", domain.WrapError(domain.ErrCodeTransport, "malformed debt payload", err)
	}
	return &debt, env.Message, nil
}

func decodeDebtList(resp *restclient.Response) ([]domain.Debt, error) {
	env, err := envelope(resp)
	if err != nil {
		return nil, err
	}
	var debts []domain.Debt
	if err := env.DecodeData(&debts); err != nil {
		return nil, domain.WrapError(domain.ErrCodeTransport, "malformed debt list", err)
	}
	return debts, nil
}
