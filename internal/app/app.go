package app

import (
	"context"
	"fmt"
	"net"

	"github.com/barryq93/promPGRestore/internal/db"
	"github.com/barryq93/promPGRestore/internal/types"
	"github.com/barryq93/promPGRestore/internal/utils"
	"github.com/sirupsen/logrus"
)

// SizeClient is the part of db.DBClient the run loop needs.
type SizeClient interface {
	DatabaseSizes(ctx context.Context) ([]types.DatabaseSize, error)
	Close() error
}

// Dialer opens a SizeClient for one configured section.
type Dialer func(ctx context.Context, conn types.Connection) (SizeClient, error)

// IdentityFunc resolves the labels attached to every pushed sample.
type IdentityFunc func(ctx context.Context) (types.HostIdentity, error)

func dialPostgres(ctx context.Context, conn types.Connection) (SizeClient, error) {
	client, err := db.NewDBClient(ctx, conn)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func resolveLocalHost(ctx context.Context) (types.HostIdentity, error) {
	return utils.ResolveHostIdentity(ctx, net.DefaultResolver)
}

type Application struct {
	configFile string
	reporter   Reporter
	dial       Dialer
	identify   IdentityFunc
	logger     logrus.FieldLogger
}

type Option func(*Application)

func WithLogger(l logrus.FieldLogger) Option {
	return func(app *Application) { app.logger = l }
}

func WithDialer(d Dialer) Option {
	return func(app *Application) { app.dial = d }
}

func WithIdentity(f IdentityFunc) Option {
	return func(app *Application) { app.identify = f }
}

func NewApplication(configFile string, reporter Reporter, opts ...Option) *Application {
	app := &Application{
		configFile: configFile,
		reporter:   reporter,
		dial:       dialPostgres,
		identify:   resolveLocalHost,
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run processes every configured database in file order and stops at the
// first error. The host identity is resolved once, before the first dial, so
// a resolution failure contacts no database.
func (app *Application) Run(ctx context.Context) error {
	config, err := LoadConfig(app.configFile)
	if err != nil {
		return err
	}
	if config.Len() == 0 {
		app.logger.WithField("config_file", app.configFile).Warn("No database sections configured")
		return nil
	}

	host, err := app.identify(ctx)
	if err != nil {
		return err
	}

	for _, conn := range config.Sections() {
		if err := app.processSection(ctx, conn, host); err != nil {
			return err
		}
	}
	app.logger.WithField("sections", config.Len()).Info("All databases reported")
	return nil
}

func (app *Application) processSection(ctx context.Context, conn types.Connection, host types.HostIdentity) error {
	logger := app.logger.WithFields(logrus.Fields{"section": conn.Section, "host": conn.Host})

	logger.Info("Connecting to the PostgreSQL database")
	client, err := app.dial(ctx, conn)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warnf("Closing database connection: %v", err)
			return
		}
		logger.Info("Database connection closed")
	}()

	sizes, err := client.DatabaseSizes(ctx)
	if err != nil {
		return err
	}

	for _, size := range sizes {
		sample := types.MetricSample{
			Job:         size.Name,
			Hostname:    host.Hostname,
			GroupingKey: host.GroupingKey(),
			Value:       float64(size.SizeBytes),
		}
		if err := app.reporter.Report(ctx, sample); err != nil {
			return fmt.Errorf("section %s, database %s: %w", conn.Section, size.Name, err)
		}
		logger.WithFields(logrus.Fields{
			"database":   size.Name,
			"size_bytes": size.SizeBytes,
		}).Debug("Pushed database size")
	}
	return nil
}
