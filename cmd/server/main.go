package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/erp/fulfillment/docs"
	appevent "github.com/erp/fulfillment/internal/application/event"
	appfulfillment "github.com/erp/fulfillment/internal/application/fulfillment"
	appprocurement "github.com/erp/fulfillment/internal/application/procurement"
	"github.com/erp/fulfillment/internal/domain/procurement"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/infrastructure/auth"
	"github.com/erp/fulfillment/internal/infrastructure/cache"
	"github.com/erp/fulfillment/internal/infrastructure/config"
	"github.com/erp/fulfillment/internal/infrastructure/event"
	"github.com/erp/fulfillment/internal/infrastructure/logger"
	"github.com/erp/fulfillment/internal/infrastructure/migration"
	"github.com/erp/fulfillment/internal/infrastructure/persistence"
	"github.com/erp/fulfillment/internal/infrastructure/printing"
	"github.com/erp/fulfillment/internal/infrastructure/scheduler"
	"github.com/erp/fulfillment/internal/infrastructure/storage"
	"github.com/erp/fulfillment/internal/infrastructure/telemetry"
	"github.com/erp/fulfillment/internal/interfaces/http/handler"
	"github.com/erp/fulfillment/internal/interfaces/http/middleware"
	"github.com/erp/fulfillment/internal/interfaces/http/router"
	"github.com/erp/fulfillment/migrations"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//	@title			ERP Fulfillment API
//	@version		1.0
//	@description	Sales order fulfillment: allocate, pick, pack, ship and deliver

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	shutdownTimeout    = 30 * time.Second
	requestTimeout     = 30 * time.Second
	gaugeInterval      = 30 * time.Second
	runHistoryKeep     = 30 * 24 * time.Hour
	meterName          = "erp-fulfillment"
	cleanupSchedule    = "@hourly"
	runHistorySchedule = "@daily"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The OTLP log bridge needs a logger of its own before the real one exists
	bootLog := logger.New(cfg.Log)
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log := logger.New(cfg.Log, logProvider.ZapCore(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)))
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting fulfillment service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	otlpMetrics := cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled && cfg.Telemetry.MetricsBackend == "otlp"
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           otlpMetrics,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	meter := meterProvider.Meter(meterName)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Telemetry.ProfilingSpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	db, err := persistence.NewDatabase(cfg.Database, log,
		persistence.WithLogLevel(logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))
	if err := prepareSchema(ctx, db, cfg.Database, log); err != nil {
		log.Fatal("Failed to prepare schema", zap.Error(err))
	}

	dbMetrics, err := telemetry.InstrumentDB(db.DB, meterProvider, telemetry.DBConfig{
		TracingEnabled:     cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		MetricsEnabled:     otlpMetrics,
		LogFullSQL:         cfg.App.Env == "development",
		SlowQueryThreshold: cfg.Database.SlowQuery,
	}, log)
	if err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	if dbMetrics != nil {
		if sqlDB, err := db.DB.DB(); err == nil {
			dbMetrics.StartPoolStatsCollection(ctx, sqlDB)
		}
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if rdb == nil {
		log.Info("Redis not configured; using in-process caches")
	}

	// Metrics sink for transitions and documents
	var recorder appfulfillment.TransitionRecorder
	var promRecorder *telemetry.PrometheusRecorder
	var fulfillmentMetrics *telemetry.FulfillmentMetrics
	switch {
	case cfg.Telemetry.MetricsEnabled && cfg.Telemetry.MetricsBackend == "prometheus":
		promRecorder = telemetry.NewPrometheusRecorder("erp")
		recorder = promRecorder
	case otlpMetrics:
		fulfillmentMetrics, err = telemetry.NewFulfillmentMetrics(telemetry.FulfillmentMetricsConfig{
			Meter:  meter,
			Logger: log,
			Stats:  telemetry.NewGormStatsProvider(db.DB),
		})
		if err != nil {
			log.Fatal("Failed to create fulfillment metrics", zap.Error(err))
		}
		fulfillmentMetrics.StartPeriodicCollection(ctx, gaugeInterval)
		recorder = fulfillmentMetrics
	}

	workflows, err := newWorkflowResolver(cfg.Workflow, db, rdb, log)
	if err != nil {
		log.Fatal("Failed to configure workflows", zap.Error(err))
	}
	go func() {
		if err := workflows.StartInvalidationSubscription(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Workflow invalidation subscription stopped", zap.Error(err))
		}
	}()

	documentStore, renderer, err := newDocumentStore(ctx, cfg.Documents, log)
	if err != nil {
		log.Fatal("Failed to configure document generation", zap.Error(err))
	}

	scope := persistence.NewGormTransactionScope(db.DB)
	audit := persistence.NewGormAuditRecorder(db.DB, log)
	docOpts := []appfulfillment.DocumentServiceOption{
		appfulfillment.WithDocumentAudit(audit),
		appfulfillment.WithMaxAttempts(cfg.Documents.MaxAttempts),
	}
	if recorder != nil {
		docOpts = append(docOpts, appfulfillment.WithDocumentMetrics(recorder))
	}
	documents := appfulfillment.NewDocumentService(
		persistence.NewGormDocumentNumberIssuer(db.DB, log),
		documentStore,
		scope,
		log,
		docOpts...,
	)

	costBasis, err := procurement.ParseCostBasis(cfg.Fulfillment.ReturnCostBasis)
	if err != nil {
		log.Fatal("Invalid return cost basis", zap.Error(err))
	}
	dispatcher := event.NewTxDispatcher(log)
	dispatcher.Register(appprocurement.NewReturnOrderHandler(costBasis, log))

	serializer := event.NewEventSerializer()
	event.RegisterFulfillmentEvents(serializer)

	orchOpts := []appfulfillment.OrchestratorOption{
		appfulfillment.WithEventDispatcher(dispatcher),
		appfulfillment.WithAuditRecorder(audit),
	}
	if cfg.Outbox.Enabled {
		orchOpts = append(orchOpts, appfulfillment.WithOutbox(serializer))
	}
	if recorder != nil {
		orchOpts = append(orchOpts, appfulfillment.WithTransitionRecorder(recorder))
	}
	orchestrator := appfulfillment.NewOrchestrator(scope, workflows, documents, log, orchOpts...)

	bus := event.NewInMemoryEventBus(log)
	seen := newIdempotencyStore(rdb)
	subscribe := func(scope string, h shared.EventHandler) {
		bus.Subscribe(event.NewIdempotentHandler(h, seen,
			shared.IdempotencyConfig{TTL: cfg.Outbox.DedupTTL, Enabled: true, Scope: scope}, log))
	}
	subscribe("log", event.NewLogHandler(log))
	if otlpMetrics {
		relayed, err := event.NewMetricsHandler(meter)
		if err != nil {
			log.Fatal("Failed to create event metrics", zap.Error(err))
		}
		subscribe("metrics", relayed)
	}
	outboxRepo := persistence.NewGormOutboxRepository(db.DB)
	relay := event.NewOutboxRelay(outboxRepo, bus, serializer, event.OutboxRelayConfig{
		BatchSize: cfg.Outbox.BatchSize,
		Retention: cfg.Outbox.CleanupRetention,
	}, log)

	runs := scheduler.NewJobRunRepository(db.DB)
	jobs := scheduler.New(log, scheduler.WithRunRecorder(runs))
	jobList := []scheduler.Job{
		scheduler.DocumentRetryJob(documents, cfg.Documents.RetrySchedule, cfg.Documents.RetryBatchSize, log),
		scheduler.RunHistoryCleanupJob(runs, runHistorySchedule, runHistoryKeep),
	}
	if cfg.Outbox.Enabled {
		jobList = append(jobList,
			scheduler.OutboxRelayJob(relay, cfg.Outbox.RelaySchedule),
			scheduler.OutboxCleanupJob(relay, cleanupSchedule),
		)
	}
	for _, job := range jobList {
		if err := jobs.Register(job); err != nil {
			log.Fatal("Failed to register job", zap.String("job", job.Name), zap.Error(err))
		}
	}
	jobs.Start(ctx)

	middleware.SetupValidator()
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Timeout(requestTimeout))
	engine.Use(middleware.HTTPMetrics(meter, log))

	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, checks)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if promRecorder != nil {
		engine.GET("/metrics", gin.WrapH(promRecorder.Handler()))
	}

	r := router.NewRouter(engine)
	if cfg.JWT.Enabled {
		jwtCfg := middleware.DefaultJWTConfig(auth.NewJWTService(cfg.JWT))
		jwtCfg.Logger = log
		if rdb != nil {
			jwtCfg.Blacklist = auth.NewRedisTokenBlacklist(rdb)
		} else {
			jwtCfg.Blacklist = auth.NewInMemoryTokenBlacklist()
		}
		r.Use(middleware.JWTAuthMiddleware(jwtCfg))
	}
	tenantCfg := middleware.DefaultTenantConfig(!cfg.JWT.Enabled)
	tenantCfg.Logger = log
	r.Use(middleware.TenantMiddleware(tenantCfg), middleware.SpanEnricher())
	if profiler.IsEnabled() {
		r.Use(middleware.Profiling())
	}
	if cfg.HTTP.RateLimitRequests > 0 {
		r.Use(middleware.RateLimit(newLimiter(ctx, cfg.HTTP, rdb), middleware.RateLimitKey))
	}

	r.Register(handler.NewFulfillmentHandler(orchestrator, documentStore)).
		Register(handler.NewOutboxHandler(appevent.NewOutboxService(outboxRepo, log))).
		Register(handler.NewJobHandler(jobs)).
		Mount("/system", router.RegistrarFunc(func(rg *gin.RouterGroup) {
			rg.GET("/info", systemHandler.GetSystemInfo)
		}))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Error("Scheduler did not stop cleanly", zap.Error(err))
	}
	if fulfillmentMetrics != nil {
		fulfillmentMetrics.Stop()
	}
	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	if err := workflows.Close(); err != nil {
		log.Error("Error closing workflow cache", zap.Error(err))
	}
	if err := renderer.Close(); err != nil {
		log.Error("Error closing renderer", zap.Error(err))
	}
	if err := seen.Close(); err != nil {
		log.Error("Error closing idempotency store", zap.Error(err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("Error closing Redis", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracing", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		bootLog.Error("Error shutting down log export", zap.Error(err))
	}
}

// newWorkflowResolver layers the in-process cache over Redis (when
// configured) over the workflow_definitions table, with configured
// definitions as the last fallback.
func newWorkflowResolver(cfg config.WorkflowConfig, db *persistence.Database, rdb *redis.Client, log *zap.Logger) (*cache.TieredWorkflowResolver, error) {
	static, err := cache.ParseStaticDefinitions(cfg.Definitions)
	if err != nil {
		return nil, err
	}
	opts := []cache.TieredWorkflowResolverOption{
		cache.WithStaticDefinitions(static),
		cache.WithResolverLogger(log),
	}
	if rdb != nil {
		opts = append(opts,
			cache.WithRemoteCache(cache.NewRedisWorkflowCache(rdb, cfg.RedisTTL)),
			cache.WithInvalidator(cache.NewRedisWorkflowInvalidator(rdb, cache.WithInvalidatorLogger(log))),
		)
	}
	local := cache.NewLocalWorkflowCache(cache.WithLocalTTL(cfg.LocalTTL), cache.WithLocalLogger(log))
	return cache.NewTieredWorkflowResolver(local, persistence.NewGormWorkflowDefinitionRepository(db.DB), opts...), nil
}

// newDocumentStore builds the template, render and artifact storage chain
func newDocumentStore(ctx context.Context, cfg config.DocumentsConfig, log *zap.Logger) (*printing.DocumentStore, printing.Renderer, error) {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, nil, err
	}
	engine := printing.NewTemplateEngine(printing.WithLanguage(tag))
	templates, err := printing.NewTemplateStore(engine, cfg.TemplateDir)
	if err != nil {
		return nil, nil, err
	}

	var renderer printing.Renderer
	switch cfg.Renderer {
	case "chromedp":
		renderer = printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.RenderTimeout,
			RemoteURL:      cfg.ChromeURL,
			NoSandbox:      true,
			Logger:         log,
		})
	default:
		renderer = printing.NewHTMLOnlyRenderer()
	}

	var artifacts printing.ArtifactStore
	switch cfg.Storage {
	case "s3":
		s3Store, err := storage.NewS3ObjectStorage(ctx, storage.S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			UsePathStyle: cfg.S3UsePathStyle,
		}, storage.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}
		if err := s3Store.EnsureBucket(ctx); err != nil {
			return nil, nil, err
		}
		artifacts = s3Store
	default:
		fsStore, err := storage.NewFileSystemStorage(cfg.FSRoot, log)
		if err != nil {
			return nil, nil, err
		}
		artifacts = fsStore
	}

	log.Info("Document generation configured",
		zap.String("renderer", cfg.Renderer),
		zap.String("storage", cfg.Storage),
	)
	return printing.NewDocumentStore(templates, engine, renderer, artifacts, log), renderer, nil
}

// prepareSchema builds SQLite schemas from the models and, when enabled,
// brings postgres up to the latest embedded migration
func prepareSchema(ctx context.Context, db *persistence.Database, cfg config.DatabaseConfig, log *zap.Logger) error {
	if cfg.Driver == "sqlite" {
		return db.AutoMigrate()
	}
	if !cfg.MigrateOnStart {
		return nil
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(ctx, sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

// newIdempotencyStore keeps relayed event IDs in Redis when it is
// available so every instance skips the same redeliveries
func newIdempotencyStore(rdb *redis.Client) shared.IdempotencyStore {
	if rdb != nil {
		return cache.NewRedisIdempotencyStore(rdb, "")
	}
	return cache.NewMemoryIdempotencyStore(time.Hour)
}

// newLimiter shares request counts across instances through Redis when it
// is available
func newLimiter(ctx context.Context, cfg config.HTTPConfig, rdb *redis.Client) middleware.Limiter {
	if rdb != nil {
		return middleware.NewRedisLimiter(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	limiter := middleware.NewMemoryLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	go func() {
		ticker := time.NewTicker(cfg.RateLimitWindow)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Sweep()
			}
		}
	}()
	return limiter
}
