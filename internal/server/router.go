package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/join-board/internal/config"
	"github.com/yukikurage/join-board/internal/constants"
	"github.com/yukikurage/join-board/internal/gesture"
	"github.com/yukikurage/join-board/internal/handlers"
	"github.com/yukikurage/join-board/internal/kvstore"
	"github.com/yukikurage/join-board/internal/logger"
	"github.com/yukikurage/join-board/internal/metrics"
	"github.com/yukikurage/join-board/internal/middleware"
	"github.com/yukikurage/join-board/internal/repository"
	"github.com/yukikurage/join-board/internal/services"
)

// Deps are the collaborators the router is assembled from.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	Store        kvstore.Store
	SessionStore sessions.Store
	Metrics      *metrics.Metrics
	AI           *services.AIService
	// GestureClock overrides the long-press clock. Nil means the wall clock.
	GestureClock gesture.Clock
}

// Router is the gin engine together with the handlers that hold long-lived connections.
type Router struct {
	*gin.Engine
	gestures *handlers.GestureHandler
}

// CloseSessions ends the open board WebSockets and waits for their pending status commits.
// Storage must stay open until it returns.
func (r *Router) CloseSessions(ctx context.Context) error {
	return r.gestures.Shutdown(ctx)
}

// NewRouter wires repositories, services and handlers into a gin engine.
func NewRouter(deps Deps) *Router {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}

	userDB := repository.NewUserDatabaseRepository(deps.Store, cfg.StorageKey, log)
	userDB.ObserveUpdates(func(result string) {
		m.StoreUpdates.WithLabelValues(result).Inc()
	})
	userRepo := repository.NewUserRepository(userDB)
	taskRepo := repository.NewTaskRepository(userDB)
	contactRepo := repository.NewContactRepository(userDB)

	authService := services.NewAuthService(userRepo, cfg.GuestEmail, log)
	contactService := services.NewContactService(contactRepo, userRepo, cfg.GuestEmail, log)
	taskService := services.NewTaskService(taskRepo, contactRepo, deps.AI, log)
	boardService := services.NewBoardService(taskRepo, userRepo, cfg.GuestEmail)

	authHandler := handlers.NewAuthHandler(authService)
	contactHandler := handlers.NewContactHandler(contactService)
	taskHandler := handlers.NewTaskHandler(taskService)
	boardHandler := handlers.NewBoardHandler(boardService)
	gestureHandler := handlers.NewGestureHandler(taskService, m, handlers.GestureConfig{
		LongPress:      cfg.LongPress,
		PersistTimeout: cfg.PersistTimeout,
		Clock:          deps.GestureClock,
	}, log)

	loginLimiter := middleware.NewIPRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst, 10*time.Minute)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics(m))
	r.Use(middleware.RequestLogger(log.WithComponent("http")))
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", middleware.RateLimit(loginLimiter), authHandler.Signup)
			auth.POST("/login", middleware.RateLimit(loginLimiter), authHandler.Login)
			auth.POST("/guest", authHandler.GuestLogin)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Contact routes (protected)
		contacts := api.Group("/contacts")
		contacts.Use(middleware.RequireAuth())
		{
			contacts.GET("", contactHandler.ListContacts)
			contacts.POST("", contactHandler.CreateContact)
			contacts.GET("/:id", middleware.RequireContactAccess(contactService), contactHandler.GetContact)
			contacts.PUT("/:id", middleware.RequireContactAccess(contactService), contactHandler.UpdateContact)
			contacts.DELETE("/:id", middleware.RequireContactAccess(contactService), contactHandler.DeleteContact)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", middleware.RequireTaskAccess(taskService), taskHandler.GetTask)
			tasks.PUT("/:id", middleware.RequireTaskAccess(taskService), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskAccess(taskService), taskHandler.DeleteTask)
			tasks.PATCH("/:id/status", middleware.RequireTaskAccess(taskService), taskHandler.UpdateTaskStatus)
			tasks.POST("/:id/subtasks/:subtaskId/toggle", middleware.RequireTaskAccess(taskService), taskHandler.ToggleSubtask)
		}

		// Board routes (protected)
		board := api.Group("")
		board.Use(middleware.RequireAuth())
		{
			board.GET("/board", boardHandler.GetBoard)
			board.GET("/board/ws", gestureHandler.ServeWS)
			board.GET("/summary", boardHandler.GetSummary)
		}
	}

	return &Router{Engine: r, gestures: gestureHandler}
}
