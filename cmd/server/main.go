package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pandora/internal/override"
	overridehandler "pandora/internal/override/handler"
	"pandora/internal/p2pshare"
	p2psharehandler "pandora/internal/p2pshare/handler"
	sharemetrics "pandora/internal/p2pshare/metrics"
	"pandora/internal/platform/config"
	"pandora/internal/platform/database"
	"pandora/internal/platform/health"
	"pandora/internal/platform/kafka"
	"pandora/internal/platform/kafka/producer"
	"pandora/internal/platform/logger"
	platformredis "pandora/internal/platform/redis"
	"pandora/internal/policy"
	policyhandler "pandora/internal/policy/handler"
	policymetrics "pandora/internal/policy/metrics"
	"pandora/internal/workers/sweep"
	sweepmetrics "pandora/internal/workers/sweep/metrics"
	id "pandora/pkg/domain"
	"pandora/pkg/platform/audit"
	"pandora/pkg/platform/audit/publisher"
	"pandora/pkg/platform/middleware/auth"
	"pandora/pkg/platform/middleware/device"
	"pandora/pkg/platform/middleware/metadata"
	"pandora/pkg/platform/middleware/request"
	"pandora/pkg/platform/middleware/requesttime"
	"pandora/pkg/platform/validation"
)

// localResolver maps file IDs onto the configured storage root. Deployments
// with an external file service replace this with a client for it.
type localResolver struct {
	root string
}

func (r localResolver) Resolve(_ context.Context, fileID id.FileID) (p2pshare.FilePath, error) {
	return p2pshare.FilePath(filepath.Join(r.root, fileID.String())), nil
}

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing pandora",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage. Every backend is optional; missing ones fall back to the
	// in-memory stores so a development process starts with zero config.
	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close() //nolint:errcheck // process exit
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck // process exit
	}

	// Audit pipeline: Kafka when brokers are configured, otherwise straight
	// to the durable store, otherwise in memory.
	var auditStore audit.Store
	var kafkaProducer *producer.Producer
	switch {
	case len(cfg.KafkaBrokers) > 0:
		producerCfg := kafka.DefaultProducerConfig()
		producerCfg.Brokers = strings.Join(cfg.KafkaBrokers, ",")
		kafkaProducer, err = producer.New(producerCfg, log)
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		auditStore = audit.NewKafkaSink(kafkaProducer, producerCfg.Topic)
	case pool != nil:
		auditStore = audit.NewPostgres(pool.DB())
	default:
		auditStore = audit.NewInMemoryStore()
	}
	auditor := publisher.New(auditStore,
		publisher.WithAsyncBuffer(cfg.AuditBuffer),
		publisher.WithLogger(log),
	)
	defer auditor.Close()

	var overrideStore override.Store
	if pool != nil {
		overrideStore = override.NewPostgres(pool.DB())
	} else {
		overrideStore = override.NewInMemoryStore()
	}

	var shareStore p2pshare.Store
	switch {
	case redisClient != nil:
		shareStore = p2pshare.NewRedis(redisClient.Client)
	case pool != nil:
		shareStore = p2pshare.NewPostgres(pool.DB())
	default:
		shareStore = p2pshare.NewInMemoryStore()
	}

	// Services.
	overrideSvc := override.New(overrideStore, auditor, override.WithLogger(log))
	shareSvc := p2pshare.New(shareStore, localResolver{root: cfg.FileRoot}, auditor,
		p2pshare.WithLogger(log),
		p2pshare.WithMetrics(sharemetrics.New()),
	)
	engine := policy.New(overrideStore, auditor,
		policy.WithLogger(log),
		policy.WithMetrics(policymetrics.New()),
	)

	// Expiry sweep.
	scheduler := sweep.New(overrideStore, shareSvc,
		sweep.WithLogger(log),
		sweep.WithInterval(cfg.SweepInterval),
		sweep.WithBatchSize(cfg.SweepBatchSize),
		sweep.WithMetrics(sweepmetrics.New()),
	)
	go func() {
		if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("sweep scheduler stopped", "error", err)
		}
	}()

	// HTTP surface.
	validator := auth.NewValidator(cfg.JWTSigningKey)
	requestMetrics := request.NewMetrics()

	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.NewMiddleware(metadata.DefaultConfig()).Handler)
	r.Use(device.Middleware)
	r.Use(request.Logger(log))
	r.Use(request.LatencyMiddleware(requestMetrics))
	r.Use(request.Timeout(30 * time.Second))

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("database", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(checkCtx)
		})
	}
	if redisClient != nil {
		healthHandler.RegisterCheck("redis", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(checkCtx)
		})
	}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaCheck := kafka.NewHealthChecker(strings.Join(cfg.KafkaBrokers, ","))
		healthHandler.RegisterCheck("kafka", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return kafkaCheck.Check(checkCtx)
		})
	}
	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(validator, log))
		r.Use(request.ContentTypeJSON)
		r.Use(request.BodyLimit(validation.MaxBodySize))

		policyhandler.New(engine, log).Register(r)
		overridehandler.New(overrideSvc, log).Register(r)
		p2psharehandler.New(shareSvc, log).Register(r)
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			log.Warn("kafka producer close failed", "error", err)
		}
	}

	log.Info("server stopped")
}
