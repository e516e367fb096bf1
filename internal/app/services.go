package app

import (
	"gorm.io/gorm"

	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/services"
	"github.com/voyageprep/voyage-backend/internal/sse"
)

type Services struct {
	Embedding services.EmbeddingService
	Search    services.SearchService
	Catalog   services.CatalogService
	Notifier  services.JourneyNotifier
	Task      services.TaskService
	Stage     services.StageService
	Shortlist services.ShortlistService
	Profile   services.ProfileService
	Document  services.DocumentService
	Auth      services.AuthService
	Chat      services.ChatService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients, hub *sse.Hub) (Services, error) {
	var s Services

	s.Embedding = services.NewEmbeddingService(log, c.HuggingFace, cfg.VectorDimension)
	s.Search = services.NewSearchService(db, log, s.Embedding, c.Vectors)
	s.Catalog = services.NewCatalogService(db, log, r.University, s.Embedding, c.Vectors)
	s.Notifier = services.NewJourneyNotifier(log, hub, c.Bus)

	task, err := services.NewTaskService(db, log, r.Task, r.Profile, s.Notifier)
	if err != nil {
		return Services{}, err
	}
	s.Task = task

	s.Stage = services.NewStageService(db, log, r.Profile, r.University, s.Task, s.Notifier)
	s.Shortlist = services.NewShortlistService(db, log, r.Shortlist, r.University, s.Task, s.Stage)
	s.Profile = services.NewProfileService(db, log, r.Profile, s.Stage, s.Task)
	s.Document = services.NewDocumentService(db, log, r.Document, s.Notifier)
	s.Auth = services.NewAuthService(db, log, r.Profile, s.Task, cfg.JWTSecret, cfg.TokenTTL)
	s.Chat = services.NewChatService(db, log, r.Chat, r.Profile, r.University, c.Groq, s.Search, s.Task, s.Document, s.Shortlist, s.Stage)

	return s, nil
}
