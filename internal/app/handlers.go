package app

import (
	"github.com/voyageprep/voyage-backend/internal/handlers"
	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/sse"
)

type Handlers struct {
	Healthcheck *handlers.HealthcheckHandler
	Auth        *handlers.AuthHandler
	Profile     *handlers.ProfileHandler
	Task        *handlers.TaskHandler
	Shortlist   *handlers.ShortlistHandler
	University  *handlers.UniversityHandler
	Document    *handlers.DocumentHandler
	Chat        *handlers.ChatHandler
	Events      *handlers.EventsHandler
}

func wireHandlers(log *logger.Logger, cfg Config, s Services, c Clients, hub *sse.Hub) Handlers {
	return Handlers{
		Healthcheck: handlers.NewHealthcheckHandler(),
		Auth:        handlers.NewAuthHandler(s.Auth),
		Profile:     handlers.NewProfileHandler(s.Profile),
		Task:        handlers.NewTaskHandler(s.Task),
		Shortlist:   handlers.NewShortlistHandler(s.Shortlist),
		University: handlers.NewUniversityHandler(
			log,
			s.Catalog,
			s.Search,
			s.Profile,
			c.Cache,
			cfg.RecommendCacheTTL,
			cfg.SearchRateLimit,
			cfg.SearchRateWindow,
		),
		Document: handlers.NewDocumentHandler(s.Document),
		Chat:     handlers.NewChatHandler(log, s.Chat),
		Events:   handlers.NewEventsHandler(hub),
	}
}
