package app

import (
	"github.com/gin-gonic/gin"

	"github.com/voyageprep/voyage-backend/internal/server"
)

func wireRouter(cfg Config, h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Mode:               cfg.Mode,
		AllowOrigins:       cfg.AllowOrigins,
		AuthMiddleware:     m.Auth,
		HealthcheckHandler: h.Healthcheck,
		AuthHandler:        h.Auth,
		ProfileHandler:     h.Profile,
		TaskHandler:        h.Task,
		ShortlistHandler:   h.Shortlist,
		UniversityHandler:  h.University,
		DocumentHandler:    h.Document,
		ChatHandler:        h.Chat,
		EventsHandler:      h.Events,
	})
}
