package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/catalog"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/internal/core/session"
	"github.com/niksmo/storefront/pkg/retry"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

var dbRetry = retry.RetryConfig{
	MaxAttempts: 5,
	Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
}

type serdes struct {
	cartEvent schema.Serde
}

type producers struct {
	cartEvents *kafka.CartEventsProducer
}

type streams struct {
	cartActivity port.CartActivityProcessor
	popularity   *kafka.PopularityView
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	tlsConfig  *tls.Config
	sqldb      *storage.SQLDB
	catalog    domain.Catalog
	serdes     serdes
	producers  producers
	streams    streams
	sessions   *session.Registry
	service    service.Service
	httpServer httphandler.HTTPServer
	wg         sync.WaitGroup
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initCatalog()
	if cfg.Broker.Enabled {
		app.initTLS()
		app.initSerdes()
		app.initOutboundAdapters()
		app.initStreams()
	}
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initCatalog() {
	const op = "App.initCatalog"

	var src port.CatalogSource = catalog.NewStatic()
	if app.cfg.Catalog.Source == config.CatalogSourceSQL {
		sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.Catalog.SQLDB, dbRetry)
		if err != nil {
			app.fallDown(op, err)
		}
		app.sqldb = &sqldb
		src = storage.NewCatalogRepository(sqldb)
	}

	c, err := service.LoadCatalog(app.ctx, src)
	if err != nil {
		app.fallDown(op, err)
	}
	app.catalog = c

	slog.Info(
		"catalog loaded",
		"op", op,
		"source", app.cfg.Catalog.Source,
		"products", c.Len(),
	)
}

func (app *App) initTLS() {
	const op = "App.initTLS"

	files := app.cfg.Broker.TLS
	if !files.Enabled() {
		return
	}

	tlsConfig, err := adapter.MakeTLSConfig(files.CA, files.Cert, files.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	app.tlsConfig = tlsConfig
	kafka.UseTLS(tlsConfig)
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"

	srOpts := []sr.ClientOpt{sr.URLs(app.cfg.Broker.SchemaRegistryURLs...)}
	if app.tlsConfig != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(app.tlsConfig))
	}
	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	schemaIdentifier := schema.NewSchemaIdentifier(srClient)

	cartEventSubject := schema.TopicSubject(app.cfg.Broker.Topics.CartEvents)
	cartEventSerde, err := schema.NewSerdeCartEventV1(
		app.ctx,
		schema.SubjectOpt(cartEventSubject),
		schema.SchemaIdentifierOpt(schemaIdentifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serdes.cartEvent = cartEventSerde
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	cartEventsProducer, err := kafka.NewCartEventsProducer(
		kafka.ProducerClientOpt(
			app.ctx,
			app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.Topics.CartEvents,
			app.tlsConfig,
		),
		kafka.ProducerEncoderOpt(app.serdes.cartEvent),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.producers.cartEvents = &cartEventsProducer
}

func (app *App) initStreams() {
	const op = "App.initStreams"

	seedBrokers := app.cfg.Broker.SeedBrokers
	group := app.cfg.Broker.Consumers.CartActivityGroup

	cartActivity, err := kafka.NewCartActivityProc(
		seedBrokers,
		app.cfg.Broker.Topics.CartEvents,
		group,
		app.serdes.cartEvent,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	popularity, err := kafka.NewPopularityView(seedBrokers, group)
	if err != nil {
		app.fallDown(op, err)
	}

	app.streams.cartActivity = cartActivity
	app.streams.popularity = popularity
}

func (app *App) initCoreService() {
	var pub port.CartEventsPublisher
	if app.producers.cartEvents != nil {
		pub = app.producers.cartEvents
	}
	app.service = service.New(app.catalog, pub)
	app.sessions = session.NewRegistry(app.cfg.Session.IdleTimeout)
}

func (app *App) initInboundAdapters() {
	var popularity port.PopularityReader
	if app.streams.popularity != nil {
		popularity = app.streams.popularity
	}

	mux := http.NewServeMux()
	httphandler.RegisterCatalog(
		mux, app.service, app.service, app.service, popularity,
	)
	httphandler.RegisterFilter(mux, app.service)
	httphandler.RegisterCart(mux, app.service)

	handler := httphandler.CartSession(
		app.sessions, app.cfg.Session.CookieName,
	)(mux)
	handler = httphandler.AllowJSON(handler)
	handler = httphandler.LogRequests(handler)

	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	go app.sessions.Run(app.ctx, app.cfg.Session.SweepInterval)

	if app.streams.cartActivity != nil {
		app.wg.Add(2)
		go app.streams.cartActivity.Run(app.ctx, stopFn, &app.wg)
		go app.streams.popularity.Run(app.ctx, stopFn, &app.wg)
		go func() {
			app.wg.Wait()
			slog.Info("cart activity streams are ready")
		}()
	}

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.streams.cartActivity != nil {
		app.streams.cartActivity.Close()
	}
	if app.producers.cartEvents != nil {
		app.producers.cartEvents.Close()
	}
	if app.sqldb != nil {
		app.sqldb.Close()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
