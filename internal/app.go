package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Roma7-7-7/salon-notifier/internal/api"
	"github.com/Roma7-7-7/salon-notifier/internal/appointments"
	"github.com/Roma7-7-7/salon-notifier/internal/notifier"
	"github.com/Roma7-7-7/salon-notifier/internal/register"
	"github.com/Roma7-7-7/salon-notifier/internal/storage/records"
	"github.com/Roma7-7-7/salon-notifier/internal/storage/sqlite"
	"github.com/Roma7-7-7/salon-notifier/internal/telegram"
	"github.com/Roma7-7-7/salon-notifier/pkg/clock"
	pkgSSM "github.com/Roma7-7-7/salon-notifier/pkg/ssm"
)

type (
	// App holds the components shared by every deployment.
	App struct {
		Clock     clock.Interface
		Store     appointments.Store
		Register  register.Store
		Notifier  *notifier.Notifier
		Responder *telegram.Responder
		API       *api.Service
		Registry  *prometheus.Registry

		closers []func() error
		log     *slog.Logger
	}

	appOptions struct {
		clock   clock.Interface
		ssm     pkgSSM.Client
		senders []telegram.SenderOption
	}

	AppOption func(*appOptions)
)

// WithClock overrides the business-zone clock derived from the config.
func WithClock(c clock.Interface) AppOption {
	return func(o *appOptions) {
		o.clock = c
	}
}

// WithSSMClient sets the client used by the SSM register instead of loading AWS config.
func WithSSMClient(client pkgSSM.Client) AppOption {
	return func(o *appOptions) {
		o.ssm = client
	}
}

func WithSenderOptions(opts ...telegram.SenderOption) AppOption {
	return func(o *appOptions) {
		o.senders = append(o.senders, opts...)
	}
}

func NewApp(ctx context.Context, conf *Config, log *slog.Logger, opts ...AppOption) (*App, error) {
	options := &appOptions{}
	for _, o := range opts {
		o(options)
	}
	if options.clock == nil {
		options.clock = clock.NewOffsetClock(conf.UTCOffsetHours)
	}

	app := &App{
		Clock:    options.clock,
		Registry: prometheus.NewRegistry(),
		log:      log,
	}

	var (
		storeRegister register.Store
		err           error
	)
	app.Store, storeRegister, err = app.openStore(ctx, conf)
	if err != nil {
		return nil, err
	}

	switch conf.Register.Backend {
	case RegisterSSM:
		client := options.ssm
		if client == nil {
			cfg, err := config.LoadDefaultConfig(ctx)
			if err != nil {
				_ = app.Close()
				return nil, fmt.Errorf("load aws config: %w", err)
			}
			client = ssm.NewFromConfig(cfg)
		}
		app.Register = register.NewSSM(pkgSSM.NewParameterStore(client, conf.Register.SSMPath))
	default:
		app.Register = storeRegister
	}

	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := notifier.MustNewMetrics(app.Registry)

	connect := telegram.Connector(log, options.senders...)
	svc := appointments.NewService(app.Store, app.Clock)

	app.Notifier = notifier.New(svc, app.Register, connect, app.Clock, conf.NotifierSettings(), metrics, log)
	app.Responder = telegram.NewResponder(svc, app.Clock)
	app.API = api.NewService(conf.TriggerSecret, conf.WebhookSecret, app.Notifier, app.Responder, app.Register, connect, log)

	return app, nil
}

func (a *App) openStore(ctx context.Context, conf *Config) (appointments.Store, register.Store, error) {
	switch conf.Store.Backend {
	case StoreRecords:
		httpClient := &http.Client{
			Timeout: 5 * time.Second, //nolint:mnd // reasonable timeout
		}
		client := records.NewClient(conf.Store.RecordsURL, conf.Store.RecordsToken, httpClient, 5, time.Second, a.log) //nolint:mnd // reasonable retry config
		return client, client, nil
	default:
		db, err := sqlite.Open(ctx, conf.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		return sqlite.NewAppointmentRepository(db), sqlite.NewRegisterRepository(db), nil
	}
}

// NewBot creates a long-polling bot using the credential currently held in the register.
func (a *App) NewBot(ctx context.Context) (*telegram.Bot, error) {
	snapshot, err := register.Load(ctx, a.Register)
	if err != nil {
		return nil, fmt.Errorf("load register: %w", err)
	}
	if snapshot.Credential == "" {
		return nil, fmt.Errorf("%w: no messaging credential", register.ErrConfigurationMissing)
	}
	return telegram.NewBot(snapshot.Credential, a.Responder, a.Register, a.log)
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}
