package router

import (
	"github.com/gin-gonic/gin"
	_ "github.com/localisation/backend/docs"
	"github.com/localisation/backend/internal/infrastructure/auth"
	"github.com/localisation/backend/internal/infrastructure/config"
	"github.com/localisation/backend/internal/infrastructure/logger"
	"github.com/localisation/backend/internal/interfaces/http/handler"
	"github.com/localisation/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by NewEngine
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Reference *handler.ReferenceHandler
	Dossier   *handler.DossierHandler
	Document  *handler.DocumentHandler
	Health    *handler.HealthHandler
}

// EngineConfig carries the settings NewEngine needs
type EngineConfig struct {
	HTTP        config.HTTPConfig
	RequireAuth bool
	Tracing     middleware.TracingConfig
	JWTService  *auth.JWTService
	// Meter enables per-route HTTP metrics when set
	Meter metric.Meter
	// Profiling tags request profiles with route labels
	Profiling bool
	Swagger   config.SwaggerConfig
	Logger    *zap.Logger
}

// NewEngine builds the gin engine serving the localisation API.
//
// Middleware order: request id, panic recovery, access log, tracing, security
// headers, CORS, body limit, metrics, then profiling labels.
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.Tracing))
	engine.Use(middleware.SpanAttributes())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig(cfg.HTTP)))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if cfg.Meter != nil {
		engine.Use(middleware.HTTPMetrics(cfg.Meter, log))
	}
	engine.Use(middleware.Profiling(middleware.DefaultProfilingConfig(cfg.Profiling)))

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}

	// Reference data stays readable without a token; a valid token is still decoded
	optionalAuth := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService: cfg.JWTService,
		Logger:     log,
	})
	protectedAuth := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService: cfg.JWTService,
		Required:   cfg.RequireAuth,
		Logger:     log,
	})

	swaggerAuth := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService: cfg.JWTService,
		Required:   true,
		Logger:     log,
	})
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger, swaggerAuth), ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := NewRouter(engine, WithAPIVersion("v1"))

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", h.Auth.Login)

	userRoutes := NewDomainGroup("users", "/users").Use(protectedAuth)
	userRoutes.GET("", h.User.List)
	userRoutes.POST("", h.User.Create)

	reservisteRoutes := NewDomainGroup("reservistes", "/reservistes").Use(optionalAuth)
	reservisteRoutes.GET("", h.Reference.ListReservistes)
	reservisteRoutes.GET("/:cin", h.Reference.GetReserviste)

	brigadeRoutes := NewDomainGroup("brigades", "/brigades").Use(optionalAuth)
	brigadeRoutes.GET("", h.Reference.ListBrigades)
	brigadeRoutes.GET("/:id", h.Reference.GetBrigade)

	campagneRoutes := NewDomainGroup("campagnes", "/campagnes").Use(optionalAuth)
	campagneRoutes.GET("", h.Reference.ListCampagnes)
	campagneRoutes.POST("", h.Reference.CreateCampagne)
	campagneRoutes.GET("/:id", h.Reference.GetCampagne)

	dossierRoutes := NewDomainGroup("dossiers", "/dossiers").Use(protectedAuth)
	dossierRoutes.GET("", h.Dossier.List)
	dossierRoutes.GET("/:id", h.Dossier.Get)
	dossierRoutes.POST("/:id/:action", h.Dossier.ApplyAction)
	dossierRoutes.GET("/:id/pvs/:pvId/fichier", h.Document.GetPVFile)
	dossierRoutes.GET("/:id/bordereaux/:bordereauId/fichier", h.Document.GetBordereauFile)

	brRoutes := NewDomainGroup("br", "/br").Use(protectedAuth)
	brRoutes.POST("/upload-fichier", h.Document.UploadBR)

	grRoutes := NewDomainGroup("gr", "/gr").Use(protectedAuth)
	grRoutes.GET("/resultats", h.Dossier.Results)

	r.Register(authRoutes).
		Register(userRoutes).
		Register(reservisteRoutes).
		Register(brigadeRoutes).
		Register(campagneRoutes).
		Register(dossierRoutes).
		Register(brRoutes).
		Register(grRoutes)
	r.Setup()

	return engine
}
