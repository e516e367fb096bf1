package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/voyageprep/voyage-backend/internal/handlers"
	"github.com/voyageprep/voyage-backend/internal/middleware"
)

type RouterConfig struct {
	Mode               string
	AllowOrigins       []string
	AuthMiddleware     *middleware.AuthMiddleware
	HealthcheckHandler *handlers.HealthcheckHandler
	AuthHandler        *handlers.AuthHandler
	ProfileHandler     *handlers.ProfileHandler
	TaskHandler        *handlers.TaskHandler
	ShortlistHandler   *handlers.ShortlistHandler
	UniversityHandler  *handlers.UniversityHandler
	DocumentHandler    *handlers.DocumentHandler
	ChatHandler        *handlers.ChatHandler
	EventsHandler      *handlers.EventsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Profile
	protected.GET("/me", cfg.ProfileHandler.GetMe)
	protected.PATCH("/me", cfg.ProfileHandler.PatchMe)

	// Tasks
	protected.GET("/tasks", cfg.TaskHandler.List)
	protected.POST("/tasks", cfg.TaskHandler.Create)
	protected.PATCH("/tasks/:id/toggle", cfg.TaskHandler.Toggle)
	protected.DELETE("/tasks/:id", cfg.TaskHandler.Delete)

	// Shortlist
	protected.GET("/shortlist", cfg.ShortlistHandler.List)
	protected.POST("/shortlist/:universityId", cfg.ShortlistHandler.Add)
	protected.DELETE("/shortlist/:universityId", cfg.ShortlistHandler.Remove)

	// Universities and recommendations
	protected.GET("/universities", cfg.UniversityHandler.List)
	protected.GET("/universities/:id", cfg.UniversityHandler.Get)
	protected.POST("/universities/seed", cfg.UniversityHandler.Seed)
	protected.POST("/universities/reindex", cfg.UniversityHandler.Reindex)
	protected.GET("/recommendations", cfg.UniversityHandler.Recommend)

	// Documents
	protected.GET("/documents", cfg.DocumentHandler.List)
	protected.POST("/documents", cfg.DocumentHandler.Create)
	protected.GET("/documents/:id", cfg.DocumentHandler.Get)
	protected.PATCH("/documents/:id", cfg.DocumentHandler.Update)
	protected.DELETE("/documents/:id", cfg.DocumentHandler.Delete)

	// Chat
	protected.GET("/chat/sessions", cfg.ChatHandler.ListSessions)
	protected.POST("/chat/sessions", cfg.ChatHandler.CreateSession)
	protected.GET("/chat/sessions/:id/messages", cfg.ChatHandler.ListMessages)
	protected.POST("/chat/sessions/:id/messages", cfg.ChatHandler.Stream)
	protected.DELETE("/chat/sessions/:id", cfg.ChatHandler.DeleteSession)

	// Journey events
	protected.GET("/events", cfg.EventsHandler.Stream)

	return router
}
