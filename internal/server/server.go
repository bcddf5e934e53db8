package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/join-board/internal/config"
	"github.com/yukikurage/join-board/internal/logger"
	"github.com/yukikurage/join-board/internal/metrics"
	"github.com/yukikurage/join-board/internal/services"
)

// Server is the HTTP server together with the storage it owns.
type Server struct {
	cfg        *config.Config
	log        *logger.Logger
	httpServer *http.Server
	router     *Router
	closeStore func() error
}

// New opens storage and builds the router.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	store, closeStore, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	sessionStore, err := NewSessionStore(cfg)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		log.Infow("OPENAI_API_KEY not set, task generation disabled")
	}

	router := NewRouter(Deps{
		Config:       cfg,
		Logger:       log,
		Store:        store,
		SessionStore: sessionStore,
		Metrics:      metrics.New(),
		AI:           aiService,
	})

	return &Server{
		cfg: cfg,
		log: log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		router:     router,
		closeStore: closeStore,
	}, nil
}

// Start serves until Shutdown is called. It returns nil after a graceful stop.
func (s *Server) Start() error {
	s.log.Infow("Server starting", "addr", s.httpServer.Addr, "storage", s.cfg.StorageDriver)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and open gesture
// sessions, then closes storage.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Infow("Shutting down server")
	err := s.httpServer.Shutdown(ctx)
	if serr := s.router.CloseSessions(ctx); serr != nil && err == nil {
		err = serr
	}
	if cerr := s.closeStore(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close storage: %w", cerr)
	}
	return err
}
