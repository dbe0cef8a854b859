package server

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ostrauer/briefshelf-backend/internal/http/handlers"
	"github.com/ostrauer/briefshelf-backend/internal/http/middleware"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	Gate *middleware.AccessGate

	// StaticDir holds the built dashboard frontend. Empty means the API runs
	// headless and page routes are not served.
	StaticDir string

	HealthHandler    *handlers.HealthHandler
	AuthHandler      *handlers.AuthHandler
	BookHandler      *handlers.BookHandler
	CoverHandler     *handlers.CoverHandler
	LeadHandler      *handlers.LeadHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	WorkflowHandler  *handlers.WorkflowHandler
	HookHandler      *handlers.HookHandler
	EventHandler     *handlers.EventHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("briefshelf-backend"))
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS())

	// Public
	router.GET("/healthz", cfg.HealthHandler.HealthCheck)
	auth := router.Group("/auth")
	{
		auth.POST("/login", cfg.AuthHandler.Login)
		auth.POST("/logout", cfg.AuthHandler.Logout)
		auth.POST("/recover", cfg.AuthHandler.Recover)
	}

	// Workflow callbacks authenticate with a shared secret, not a session.
	hooks := router.Group("/hooks")
	{
		hooks.POST("/enrichment", cfg.HookHandler.EnrichmentComplete)
	}

	// Admin API
	api := router.Group("/api")
	api.Use(cfg.Gate.RequireAdminAPI())
	{
		api.POST("/auth/password", cfg.AuthHandler.UpdatePassword)

		api.POST("/books", cfg.BookHandler.Create)
		api.GET("/books", cfg.BookHandler.List)
		api.GET("/books/:id", cfg.BookHandler.Get)
		api.PATCH("/books/:id", cfg.BookHandler.Update)
		api.DELETE("/books/:id", cfg.BookHandler.Delete)
		api.POST("/books/:id/enrich", cfg.BookHandler.Enrich)
		api.PUT("/books/:id/cover", cfg.CoverHandler.Upload)
		api.DELETE("/books/:id/cover", cfg.CoverHandler.Delete)

		api.GET("/leads/dentists", cfg.LeadHandler.ListDentists)
		api.GET("/leads/advisors", cfg.LeadHandler.ListAdvisors)
		api.PATCH("/leads/dentists/:id/duplicate", cfg.LeadHandler.SetDentistDuplicate)
		api.PATCH("/leads/advisors/:id/duplicate", cfg.LeadHandler.SetAdvisorDuplicate)

		api.GET("/analytics/usage", cfg.AnalyticsHandler.Usage)
		api.GET("/analytics/campaigns/dentists", cfg.AnalyticsHandler.DentistCampaign)
		api.GET("/analytics/campaigns/advisors", cfg.AnalyticsHandler.AdvisorCampaign)

		api.POST("/upload", cfg.WorkflowHandler.Upload)
		api.POST("/preview", cfg.WorkflowHandler.Preview)

		api.GET("/events", cfg.EventHandler.Stream)
	}

	// Dashboard pages. Every page route runs through the gate, which
	// redirects to /login or /unauthorized rather than answering JSON.
	if cfg.StaticDir != "" {
		router.Static("/assets", filepath.Join(cfg.StaticDir, "assets"))
		router.StaticFile("/favicon.ico", filepath.Join(cfg.StaticDir, "favicon.ico"))
		index := filepath.Join(cfg.StaticDir, "index.html")
		router.NoRoute(cfg.Gate.Gate(), func(c *gin.Context) {
			c.File(index)
		})
	}

	return router
}
