// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"centrebooks/internal/app"
	"centrebooks/internal/core/period"
	"centrebooks/internal/domain/reports"
	"centrebooks/internal/infrastructure/http/v1/handlers"
	"centrebooks/internal/infrastructure/http/v1/middleware"
	"centrebooks/internal/observability/metrics"
	"centrebooks/pkg/logger"
)

// RouterConfig holds everything the router needs.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Services backs every handler
	Services *app.Services

	// DB is pinged by the readiness probe
	DB handlers.Pinger

	// Driver names the storage driver in /health/info
	Driver string

	// Version reported by /health/info
	Version string

	// Metrics is created when nil
	Metrics *metrics.Metrics

	// Resolver turns period query parameters into report windows
	Resolver *period.Resolver

	// PinnedItems are the two columns of the VIAT/ACT export
	PinnedItems reports.PinnedItems

	// CORSOrigins allowed for browser clients
	CORSOrigins []string

	// LoginLimiter throttles login and refresh per client IP
	LoginLimiter *middleware.RateLimiter
}

func (cfg *RouterConfig) defaults() {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.Resolver == nil {
		cfg.Resolver = period.NewResolver(nil)
	}
	if cfg.PinnedItems == (reports.PinnedItems{}) {
		cfg.PinnedItems = reports.DefaultPinnedItems()
	}
	if cfg.LoginLimiter == nil {
		cfg.LoginLimiter = middleware.NewRateLimiter(0, 0)
	}
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	cfg.defaults()

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.Metrics(cfg.Metrics))

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Driver, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}
	router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.Services.JWT))

		registerCatalogRoutes(protected, cfg)
		registerStatementRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	authHandler := handlers.NewAuthHandler(handlers.NewBaseHandler(), cfg.Services.Auth, cfg.Metrics)

	publicAuth := rg.Group("/auth")

	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.Services.JWT))

	authHandler.RegisterRoutes(publicAuth, protectedAuth, cfg.LoginLimiter.Middleware())
}

// registerCatalogRoutes registers centre and item endpoints. Creation is
// reserved to administrators.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	base := handlers.NewBaseHandler()

	centres := handlers.NewCentreHandler(base, cfg.Services.Centres)
	centresGroup := rg.Group("/centres")
	{
		centresGroup.GET("", centres.List)
		centresGroup.GET("/:id", centres.Get)
		centresGroup.POST("", middleware.RequireAdmin(), centres.Create)
	}

	items := handlers.NewItemHandler(base, cfg.Services.Items)
	itemsGroup := rg.Group("/items")
	{
		itemsGroup.GET("", items.List)
		itemsGroup.GET("/:id", items.Get)
		itemsGroup.POST("", middleware.RequireAdmin(), items.Create)
	}
}

// registerStatementRoutes registers statement CRUD and its audit history.
func registerStatementRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	handler := handlers.NewStatementHandler(handlers.NewBaseHandler(), cfg.Services.Statements, cfg.Services.Trail, cfg.Metrics)

	group := rg.Group("/statements")
	{
		group.GET("", handler.List)
		group.POST("", handler.Create)
		group.GET("/:id", handler.Get)
		group.PUT("/:id", handler.Update)
		group.DELETE("/:id", handler.Delete)
		group.GET("/:id/history", handler.History)
	}
}

// registerReportRoutes registers the matrix reports, their exports and the dashboard.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	handler := handlers.NewReportsHandler(handlers.NewBaseHandler(), cfg.Services.Reports, cfg.Resolver, cfg.PinnedItems, cfg.Metrics)

	rg.GET("/dashboard", handler.Dashboard)

	group := rg.Group("/reports")
	{
		group.GET("/weekly", handler.Matrix(period.KindWeek))
		group.GET("/monthly", handler.Matrix(period.KindMonth))
		group.GET("/quarterly", handler.Matrix(period.KindQuarter))
		group.GET("/yearly", handler.Matrix(period.KindYear))
		group.GET("/global", handler.Matrix(period.KindGlobal))

		group.GET("/monthly/xlsx", handler.ExportXLSX(period.KindMonth))
		group.GET("/quarterly/xlsx", handler.ExportXLSX(period.KindQuarter))
		group.GET("/yearly/xlsx", handler.ExportXLSX(period.KindYear))
		group.GET("/global/xlsx", handler.ExportXLSX(period.KindGlobal))

		group.GET("/monthly/pdf", handler.ExportPDF(period.KindMonth))
		group.GET("/quarterly/pdf", handler.ExportPDF(period.KindQuarter))
		group.GET("/yearly/pdf", handler.ExportPDF(period.KindYear))
	}
}
