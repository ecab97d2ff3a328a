package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"auditgate/internal/admission/handler"
	admissionmetrics "auditgate/internal/admission/metrics"
	"auditgate/internal/admission/ports"
	"auditgate/internal/admission/service"
	memrecords "auditgate/internal/admission/store/memory"
	pgrecords "auditgate/internal/admission/store/postgres"
	sqliterecords "auditgate/internal/admission/store/sqlite"
	"auditgate/internal/attempts"
	kafkaleads "auditgate/internal/attempts/leads/kafka"
	redisleads "auditgate/internal/attempts/leads/redis"
	attemptsmetrics "auditgate/internal/attempts/metrics"
	memattempts "auditgate/internal/attempts/store/memory"
	pgattempts "auditgate/internal/attempts/store/postgres"
	"auditgate/internal/bypass"
	"auditgate/internal/platform/config"
	httpmetrics "auditgate/internal/platform/metrics"
	"auditgate/internal/platform/postgres"
	platformredis "auditgate/internal/platform/redis"
	"auditgate/internal/platform/sqlite"
	"auditgate/pkg/platform/middleware/metadata"
	"auditgate/pkg/platform/middleware/requestid"
	"auditgate/pkg/platform/middleware/requesttime"
)

const (
	poolRetries    = 5
	poolRetryDelay = 2 * time.Second
	leadPartitions = 3
)

// recordBackend is what every audit-record store provides.
type recordBackend interface {
	ports.RecordStore
	ports.RecordWriter
	Ping(ctx context.Context) error
}

// app holds the wired components and the resources to release on exit.
type app struct {
	router   chi.Router
	attempts *attempts.Logger
	signer   *bypass.Signer
	closers  []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			a.close()
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	records, err := a.openRecordStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	attemptLog, err := a.buildAttemptLogger(ctx, cfg, log, reg)
	if err != nil {
		return nil, err
	}
	a.attempts = attemptLog

	signer, err := buildSigner(cfg)
	if err != nil {
		return nil, err
	}
	a.signer = signer

	svcOpts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(admissionmetrics.New(reg)),
		service.WithRecordWriter(records),
		service.WithAttemptLogger(attemptLog),
	}
	handlerOpts := []handler.Option{
		handler.WithLeadSource(attemptLog),
		handler.WithHealthCheck("records", records.Ping),
	}
	if signer != nil {
		svcOpts = append(svcOpts, service.WithTokenVerifier(signer))
		handlerOpts = append(handlerOpts, handler.WithTokenIssuer(signer))
	}

	svc, err := service.New(records, cfg.Admission, svcOpts...)
	if err != nil {
		return nil, err
	}
	h := handler.New(svc, log, handlerOpts...)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(chimiddleware.Recoverer)
	r.Use(httpmetrics.New(reg).Middleware)
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))

	h.Register(r)
	if cfg.Admission.AdminOverrideEnabled() {
		h.RegisterAdmin(r, cfg.Admission.AdminKey)
	} else {
		log.Warn("admin key not configured; admin routes disabled")
	}
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	a.router = r
	ok = true
	return a, nil
}

func (a *app) openRecordStore(ctx context.Context, cfg config.Config) (recordBackend, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := postgres.OpenDB(ctx, cfg.Store.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("open audit-record database: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		store := pgrecords.NewPostgresRecordStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.Store.SQLitePath})
		if err != nil {
			return nil, fmt.Errorf("open audit-record database: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		return sqliterecords.NewSQLiteRecordStore(db), nil
	default:
		return memrecords.NewInMemoryRecordStore(memrecords.WithAddressRetention(cfg.Admission.Window)), nil
	}
}

func (a *app) buildAttemptLogger(ctx context.Context, cfg config.Config, log *slog.Logger, reg prometheus.Registerer) (*attempts.Logger, error) {
	var store attempts.Store
	if cfg.Attempts.PostgresURL != "" {
		pool, err := postgres.OpenPool(ctx, cfg.Attempts.PostgresURL, poolRetries, poolRetryDelay)
		if err != nil {
			return nil, fmt.Errorf("open attempt log database: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		pg := pgattempts.New(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		store = pg
	} else {
		store = memattempts.NewRingStore(cfg.Attempts.RingCapacity)
	}

	opts := []attempts.Option{
		attempts.WithLogger(log),
		attempts.WithMetrics(attemptsmetrics.New(reg)),
		attempts.WithQueueSize(cfg.Attempts.QueueSize),
	}

	switch cfg.Attempts.LeadSink {
	case config.LeadSinkRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect lead stream: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		opts = append(opts, attempts.WithLeadPublisher(redisleads.New(client, redisleads.WithStream(cfg.Redis.LeadStream))))
	case config.LeadSinkKafka:
		client, err := kafkaleads.NewClient(cfg.Kafka.Brokers, cfg.Kafka.ClientID)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		if err := kafkaleads.EnsureTopic(ctx, client, cfg.Kafka.Topic, leadPartitions, 1); err != nil {
			return nil, err
		}
		opts = append(opts, attempts.WithLeadPublisher(kafkaleads.New(client, cfg.Kafka.Topic)))
	}

	return attempts.New(store, opts...)
}

// buildSigner returns nil when neither a token secret nor an admin key is
// configured; tokens are then rejected at admission.
func buildSigner(cfg config.Config) (*bypass.Signer, error) {
	opts := []bypass.Option{
		bypass.WithDefaultTTL(cfg.Tokens.DefaultTTL),
		bypass.WithMaxTTL(cfg.Tokens.MaxTTL),
	}
	switch {
	case cfg.Tokens.Secret != "":
		return bypass.NewSigner([]byte(cfg.Tokens.Secret), opts...)
	case cfg.Admission.AdminKey != "":
		return bypass.NewSignerFromAdminKey(cfg.Admission.AdminKey, opts...)
	default:
		return nil, nil
	}
}
