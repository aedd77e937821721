package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shoplite/client/internal/config"
	"github.com/shoplite/client/internal/lifecycle"
	"github.com/shoplite/client/internal/restclient"
	"github.com/shoplite/client/pkg/logger"
	"github.com/shoplite/client/repository/localstore"
	"github.com/shoplite/client/repository/rest"
	cartUC "github.com/shoplite/client/usecase/cart"
	dashboardUC "github.com/shoplite/client/usecase/dashboard"
	debtUC "github.com/shoplite/client/usecase/debt"
	expenditureUC "github.com/shoplite/client/usecase/expenditure"
	productUC "github.com/shoplite/client/usecase/product"
	reportUC "github.com/shoplite/client/usecase/report"
	sessionUC "github.com/shoplite/client/usecase/session"
)

// App wires the transport, the snapshot store and the managers together for
// the command tree.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Session      *sessionUC.Manager
	Cart         *cartUC.Manager
	Products     *productUC.Manager
	Debts        *debtUC.Manager
	Expenditures *expenditureUC.Manager
	Dashboard    *dashboardUC.Manager
	Reports      *reportUC.Manager

	lifecycle *lifecycle.Manager
}

var app *App

// getApp builds the application graph on first use.
func getApp() (*App, error) {
	if app != nil {
		return app, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Register("logger", func(ctx context.Context) error {
		_ = zapLogger.Sync()
		return nil
	})

	store, err := localstore.Open(cfg.State.Path, cfg.State.Bucket)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	manager.Register("state_store", func(ctx context.Context) error {
		return store.Close()
	})

	client := restclient.New(restclient.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	}, zapLogger)

	session := sessionUC.New(rest.NewAuthAPI(client), store, sessionUC.Config{
		TokenLifetime: cfg.Session.TokenLifetime,
		RefreshLead:   cfg.Session.RefreshLead,
	}, zapLogger)
	client.SetTokenSource(session)
	manager.Register("session", func(ctx context.Context) error {
		session.Close()
		return nil
	})

	products := productUC.New(rest.NewProductAPI(client), store, zapLogger)
	cart := cartUC.New(rest.NewCartAPI(client), products, session, store, zapLogger)
	debts := debtUC.New(rest.NewDebtAPI(client), store, zapLogger)
	expenditures := expenditureUC.New(rest.NewExpenditureAPI(client), store, zapLogger)
	dashboard := dashboardUC.New(rest.NewDashboardAPI(client), store, time.Minute, zapLogger)
	reports := reportUC.New(rest.NewReportAPI(client), store, zapLogger)

	app = &App{
		Config:       cfg,
		Logger:       zapLogger,
		Session:      session,
		Cart:         cart,
		Products:     products,
		Debts:        debts,
		Expenditures: expenditures,
		Dashboard:    dashboard,
		Reports:      reports,
		lifecycle:    manager,
	}
	return app, nil
}

// bootstrap builds the app and rehydrates persisted state.
func bootstrap(ctx context.Context) (*App, error) {
	a, err := getApp()
	if err != nil {
		return nil, err
	}
	if err := a.Session.Load(ctx); err != nil {
		a.Logger.Warn("session rehydration failed", zap.Error(err))
	}
	if err := a.Cart.Load(); err != nil {
		a.Logger.Warn("cart rehydration failed", zap.Error(err))
	}
	if err := a.Products.Load(); err != nil {
		a.Logger.Warn("product rehydration failed", zap.Error(err))
	}
	if err := a.Debts.Load(); err != nil {
		a.Logger.Warn("debt rehydration failed", zap.Error(err))
	}
	if err := a.Expenditures.Load(); err != nil {
		a.Logger.Warn("expenditure rehydration failed", zap.Error(err))
	}
	if err := a.Dashboard.Load(); err != nil {
		a.Logger.Warn("dashboard rehydration failed", zap.Error(err))
	}
	if err := a.Reports.Load(); err != nil {
		a.Logger.Warn("report rehydration failed", zap.Error(err))
	}
	return a, nil
}

// Shutdown tears the application graph down.
func Shutdown(ctx context.Context) error {
	if app == nil {
		return nil
	}
	return app.lifecycle.Shutdown(ctx)
}
