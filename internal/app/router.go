package app

import (
	"github.com/gin-gonic/gin"

	"github.com/ostrauer/briefshelf-backend/internal/http/middleware"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
	"github.com/ostrauer/briefshelf-backend/internal/server"
)

func wireRouter(log *logger.Logger, cfg Config, gate *middleware.AccessGate, h Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:       log,
		Gate:      gate,
		StaticDir: cfg.StaticDir,

		HealthHandler:    h.Health,
		AuthHandler:      h.Auth,
		BookHandler:      h.Book,
		CoverHandler:     h.Cover,
		LeadHandler:      h.Lead,
		AnalyticsHandler: h.Analytics,
		WorkflowHandler:  h.Workflow,
		HookHandler:      h.Hook,
		EventHandler:     h.Event,
	})
}
