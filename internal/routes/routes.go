package routes

import (
	"net/http"
	"slices"
	"time"

	"task-tracker-api/internal/handlers"
	"task-tracker-api/internal/logger"
	"task-tracker-api/internal/middleware"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Options carries the collaborators the router needs.
type Options struct {
	Store            store.TaskStore
	Hub              *realtime.Hub
	Logger           logrus.FieldLogger
	AuthRequired     bool
	CORSAllowOrigins []string
}

func SetupRoutes(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = logger.Logger
	}
	if opts.Hub == nil {
		opts.Hub = realtime.GetHub()
	}

	ginRouter := gin.New()
	ginRouter.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logging(opts.Logger),
		middleware.Metrics(),
		cors.New(corsConfig(opts.CORSAllowOrigins)),
	)

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task tracker API is running",
		})
	})
	ginRouter.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))

	// Public routes
	ginRouter.POST("/login", handlers.Login)
	ginRouter.POST("/users", handlers.CreateUser)
	ginRouter.GET("/ws", middleware.JWTAuthMiddleware(), handlers.WebSocketHandler(opts.Hub))

	api := ginRouter.Group("")
	if opts.AuthRequired {
		api.Use(middleware.JWTAuthMiddleware())
	}

	tasks := handlers.NewTaskHandler(opts.Store, opts.Hub, opts.Logger)
	{
		api.GET("/tasks", tasks.GetTasks)
		api.POST("/tasks", tasks.CreateTask)
		api.PATCH("/tasks/:taskId", tasks.UpdateTaskStatus)
		api.GET("/users/:userId/tasks", tasks.GetUserTasks)

		api.GET("/users", handlers.GetUsers)
		api.GET("/projects", handlers.GetProjects)
		api.POST("/projects", handlers.CreateProject)
	}

	return ginRouter
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
