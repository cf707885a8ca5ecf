package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/localisation/backend/internal/application/identity"
	localisationapp "github.com/localisation/backend/internal/application/localisation"
	"github.com/localisation/backend/internal/domain/identity"
	"github.com/localisation/backend/internal/domain/localisation"
	"github.com/localisation/backend/internal/domain/shared"
	"github.com/localisation/backend/internal/infrastructure/auth"
	"github.com/localisation/backend/internal/infrastructure/cache"
	"github.com/localisation/backend/internal/infrastructure/config"
	"github.com/localisation/backend/internal/infrastructure/event"
	"github.com/localisation/backend/internal/infrastructure/logger"
	"github.com/localisation/backend/internal/infrastructure/persistence"
	"github.com/localisation/backend/internal/infrastructure/persistence/memory"
	"github.com/localisation/backend/internal/infrastructure/persistence/seed"
	"github.com/localisation/backend/internal/infrastructure/storage"
	"github.com/localisation/backend/internal/infrastructure/telemetry"
	"github.com/localisation/backend/internal/interfaces/http/handler"
	"github.com/localisation/backend/internal/interfaces/http/middleware"
	"github.com/localisation/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const meterName = "github.com/localisation/backend"

// application holds the assembled engine and everything that must be released on shutdown
type application struct {
	engine  *gin.Engine
	logger  *zap.Logger
	closers []closer
}

type closer struct {
	name string
	fn   func(ctx context.Context) error
}

func (a *application) onClose(name string, fn func(ctx context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// close releases resources in reverse order of acquisition
func (a *application) close(ctx context.Context, log *zap.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(ctx); err != nil {
			log.Error("Error closing "+c.name, zap.Error(err))
		}
	}
}

// buildApplication wires configuration into repositories, services and the gin engine.
// On error every resource opened so far is released.
func buildApplication(ctx context.Context, cfg *config.Config, log *zap.Logger) (_ *application, err error) {
	app := &application{logger: log}
	defer func() {
		if err != nil {
			app.close(context.Background(), log)
		}
	}()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, err
	}
	app.onClose("tracer provider", tracerProvider.Shutdown)

	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, err
	}
	app.onClose("meter provider", meterProvider.Shutdown)
	meter := meterProvider.Meter(meterName)

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, err
	}
	app.onClose("logger provider", loggerProvider.Shutdown)
	log = loggerProvider.Bridge(log, zapcore.InfoLevel)
	app.logger = log

	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		return nil, err
	}
	app.onClose("profiler", func(context.Context) error { return profiler.Stop() })
	if profiler.IsEnabled() && cfg.Telemetry.SpanProfilesEnabled {
		tracerProvider.EnableSpanProfiles()
	}

	data, err := loadSeed(cfg.Catalog.SeedFile, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}

	dossiers, err := memory.NewDossierStore(data.Dossiers...)
	if err != nil {
		return nil, fmt.Errorf("failed to load dossiers: %w", err)
	}
	log.Info("Dossier store ready", zap.Int("dossiers", dossiers.Len()))

	var (
		catalog localisation.ReferenceCatalog
		users   identity.UserRepository
	)
	checks := map[string]handler.HealthCheck{}

	switch cfg.Catalog.Source {
	case "database":
		db, err := openDatabase(cfg, log)
		if err != nil {
			return nil, err
		}
		app.onClose("database", func(context.Context) error { return db.Close() })
		if _, err := db.SeedIfEmpty(ctx, data, log); err != nil {
			return nil, err
		}
		catalog = persistence.NewGormReferenceCatalog(db.DB)
		users = persistence.NewGormUserRepository(db.DB)
		checks["database"] = func(context.Context) error { return db.Ping() }
	default:
		catalog = memory.NewCatalog(data.Reservistes, data.Brigades, data.Campagnes)
		users = memory.NewUserRepository(data.Users...)
	}

	metrics, err := telemetry.NewDossierMetrics(meter, dossiers, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create dossier metrics: %w", err)
	}
	app.onClose("dossier metrics", func(context.Context) error { return metrics.Close() })

	opts := []localisationapp.DossierServiceOption{localisationapp.WithMetrics(metrics)}

	if cfg.Idempotency.Enabled {
		store, err := cache.NewIdempotencyStoreFactory(cfg.Idempotency, cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
		if err != nil {
			return nil, err
		}
		app.onClose("idempotency store", func(context.Context) error { return store.Close() })
		opts = append(opts, localisationapp.WithIdempotencyStore(store))
	}

	publisher, err := newPublisher(cfg.Events, log)
	if err != nil {
		return nil, err
	}
	if c, ok := publisher.(interface{ Close() error }); ok {
		app.onClose("event publisher", func(context.Context) error { return c.Close() })
	}
	opts = append(opts, localisationapp.WithEventPublisher(publisher))

	documents, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise document storage: %w", err)
	}
	log.Info("Document storage ready", zap.String("driver", cfg.Storage.Driver))

	jwtCfg := cfg.JWT
	if jwtCfg.Secret == "" {
		jwtCfg.Secret = randomSecret()
		log.Warn("jwt.secret is empty, using a random secret; tokens will not survive a restart")
	}
	jwtService := auth.NewJWTService(jwtCfg)

	dossierService := localisationapp.NewDossierService(dossiers, catalog, localisationapp.DossierServiceConfig{
		DefaultActor:            cfg.Auth.DefaultActor,
		AllowUnassignedTransfer: cfg.Dossier.AllowUnassignedTransfer,
		IdempotencyTTL:          cfg.Idempotency.TTL,
	}, opts...)

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(identityapp.NewAuthService(users, jwtService, log)),
		User:      handler.NewUserHandler(identityapp.NewUserService(users, cfg.Auth.BcryptCost)),
		Reference: handler.NewReferenceHandler(localisationapp.NewReferenceService(catalog)),
		Dossier:   handler.NewDossierHandler(dossierService),
		Document:  handler.NewDocumentHandler(localisationapp.NewDocumentService(dossiers, documents)),
		Health:    handler.NewHealthHandler(checks),
	}

	engineCfg := router.EngineConfig{
		HTTP:        cfg.HTTP,
		RequireAuth: cfg.Auth.RequireAuth,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		JWTService: jwtService,
		Profiling:  profiler.IsEnabled(),
		Swagger:    cfg.Swagger,
		Logger:     log,
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled {
		engineCfg.Meter = meter
	}
	app.engine = router.NewEngine(engineCfg, handlers)

	return app, nil
}

func loadSeed(path string, bcryptCost int) (*seed.Data, error) {
	var (
		file *seed.File
		err  error
	)
	if path == "" {
		file, err = seed.Default()
	} else {
		file, err = seed.Load(path)
	}
	if err != nil {
		return nil, err
	}
	return file.Build(bcryptCost)
}

func openDatabase(cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(gormLog),
		persistence.WithTracing(cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled),
	)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))
	return db, nil
}

func newPublisher(cfg config.EventsConfig, log *zap.Logger) (shared.EventPublisher, error) {
	if !cfg.Enabled {
		return event.NewLogPublisher(log), nil
	}
	p, err := event.NewNATSPublisher(cfg, log)
	if err != nil {
		return nil, err
	}
	log.Info("Publishing dossier events to NATS",
		zap.String("url", cfg.URL),
		zap.String("subject_prefix", cfg.SubjectPrefix),
	)
	return p, nil
}

func randomSecret() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
