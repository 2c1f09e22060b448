// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/videotube/videotube/internal/api"
	"github.com/videotube/videotube/internal/comment"
	"github.com/videotube/videotube/internal/config"
	"github.com/videotube/videotube/internal/db"
	"github.com/videotube/videotube/internal/engagement"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/middleware"
	"github.com/videotube/videotube/internal/playlist"
	"github.com/videotube/videotube/internal/search"
	"github.com/videotube/videotube/internal/video"
	"github.com/videotube/videotube/internal/view"
)

// Server represents the HTTP server
type Server struct {
	config          *config.Config
	db              *db.DB
	repos           *db.Repositories
	videoService    *video.Service
	commentService  *comment.Service
	likeService     *engagement.LikeService
	subService      *engagement.SubscriptionService
	playlistService *playlist.Service
	router          *gin.Engine
	server          *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) *Server {
	repos := db.NewRepositories(database)
	resolver := view.NewResolver(repos)
	searchProvider := search.NewSQLiteProvider(database)

	return &Server{
		config:          cfg,
		db:              database,
		repos:           repos,
		videoService:    video.NewService(repos, resolver, searchProvider),
		commentService:  comment.NewService(repos, resolver),
		likeService:     engagement.NewLikeService(repos, resolver),
		subService:      engagement.NewSubscriptionService(repos, resolver),
		playlistService: playlist.NewService(repos, resolver),
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	// Set Gin mode based on log level
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create new Gin router
	s.router = gin.New()

	// Add middleware stack
	s.router.Use(middleware.RequestLogger())  // Custom zerolog request logger
	s.router.Use(gin.Recovery())              // Panic recovery
	s.router.Use(cors.Default())              // CORS support (allows all origins)
	s.router.Use(middleware.ActorExtractor()) // Acting user identity

	// Create API route group
	apiGroup := s.router.Group("/api")

	// Register service routes
	api.SetupHealthRoutes(apiGroup, s.db)
	api.SetupVideoRoutes(apiGroup, s.videoService)
	api.SetupCommentRoutes(apiGroup, s.commentService)
	api.SetupEngagementRoutes(apiGroup, s.likeService, s.subService)
	api.SetupPlaylistRoutes(apiGroup, s.playlistService)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
