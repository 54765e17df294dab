package routes

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/daily-planner-api/internal/constants"
	"github.com/yukikurage/daily-planner-api/internal/handlers"
	"github.com/yukikurage/daily-planner-api/internal/logging"
	"github.com/yukikurage/daily-planner-api/internal/middleware"
	"github.com/yukikurage/daily-planner-api/internal/services"
	"gorm.io/gorm"
)

// Deps is everything the router needs to build its handlers.
type Deps struct {
	DB             *gorm.DB
	Logger         logging.Logger
	Tokens         *services.TokenService
	AuthService    *services.AuthService
	TaskService    *services.TaskService
	NoteService    *services.NoteService
	AllowedOrigins []string
}

// SetupRouter builds the HTTP engine with all routes registered.
func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	taskHandler := handlers.NewItemHandler(deps.TaskService)
	noteHandler := handlers.NewItemHandler(deps.NoteService)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	requireAuth := middleware.RequireAuth(deps.Tokens)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.List)
			tasks.POST("", taskHandler.Create)
			tasks.GET("/count", taskHandler.Count)
			tasks.GET("/:id", taskHandler.Get)
			tasks.PATCH("/:id", taskHandler.Update)
			tasks.DELETE("/:id", taskHandler.Delete)
		}

		// Note routes (protected)
		notes := api.Group("/notes")
		notes.Use(requireAuth)
		{
			notes.GET("", noteHandler.List)
			notes.POST("", noteHandler.Create)
			notes.GET("/count", noteHandler.Count)
			notes.GET("/:id", noteHandler.Get)
			notes.PATCH("/:id", noteHandler.Update)
			notes.DELETE("/:id", noteHandler.Delete)
		}
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", constants.HeaderRequestID},
		ExposeHeaders: []string{constants.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return config
}
