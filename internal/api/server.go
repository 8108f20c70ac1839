package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/kbahtiar/folio/internal/cleanup"
	"github.com/kbahtiar/folio/internal/config"
	"github.com/kbahtiar/folio/internal/pkg/supabase"
	"github.com/kbahtiar/folio/internal/session"
	"github.com/kbahtiar/folio/internal/storage"
	"github.com/kbahtiar/folio/pkg/database"
)

type Server struct {
	app     *fiber.App
	cfg     *config.Config
	db      *database.Clients
	sb      *supabase.Client
	store   storage.ObjectStore
	pending *cleanup.Sweeper
	logger  *slog.Logger
}

func NewServer(cfg *config.Config, db *database.Clients, sb *supabase.Client, log *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.Uploads.MaxSize),
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status}\n",
	}))
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Server.MaxRequests,
		Expiration: cfg.Server.RequestTimeout,
	}))

	server := &Server{
		app:     app,
		cfg:     cfg,
		db:      db,
		sb:      sb,
		store:   sb,
		pending: cleanup.NewSweeper(db, sb, cfg.Uploads, log),
		logger:  log,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	api := s.app.Group("/api")

	// Public routes. The read-only pages share a short response cache; the
	// download route is excluded because it mutates the counter.
	pageCache := cache.New(cache.Config{
		Expiration:   s.cfg.Server.CacheExpiration,
		CacheControl: true,
	})

	api.Post("/login", s.handleLogin)
	api.Post("/signup", s.handleSignup)
	api.Get("/home", pageCache, s.handleHome)
	api.Get("/projects", pageCache, s.handleProjects)
	api.Get("/activities", pageCache, s.handleActivityFeed)
	api.Get("/services", pageCache, s.handleServiceList)
	api.Get("/apps", pageCache, s.handleAppList)
	api.Get("/apps/:id/download", s.handleAppDownload)
	api.Post("/visit", s.handleVisit)

	// Protected routes
	dashboard := api.Group("/dashboard", session.Guard(s.cfg.JWT))
	dashboard.Post("/logout", s.handleLogout)
	dashboard.Get("/stats", s.handleStats)

	dashboard.Get("/profile", s.handleGetProfile)
	dashboard.Put("/profile", s.handleUpdateProfile)

	dashboard.Get("/portfolio", s.handleListPortfolio)
	dashboard.Get("/portfolio/:id", s.handleGetPortfolio)
	dashboard.Post("/portfolio", s.handleCreatePortfolio)
	dashboard.Put("/portfolio/:id", s.handleUpdatePortfolio)
	dashboard.Delete("/portfolio/:id", s.handleDeletePortfolio)

	dashboard.Get("/activities", s.handleListActivities)
	dashboard.Get("/activities/:id", s.handleGetActivity)
	dashboard.Post("/activities", s.handleCreateActivity)
	dashboard.Put("/activities/:id", s.handleUpdateActivity)
	dashboard.Delete("/activities/:id", s.handleDeleteActivity)

	dashboard.Get("/apps", s.handleListReleases)
	dashboard.Get("/apps/:id", s.handleGetRelease)
	dashboard.Post("/apps", s.handleCreateRelease)
	dashboard.Put("/apps/:id", s.handleUpdateRelease)
	dashboard.Patch("/apps/:id/pin", s.handlePinRelease)
	dashboard.Delete("/apps/:id", s.handleDeleteRelease)

	dashboard.Get("/services", s.handleListServices)
	dashboard.Get("/services/:id", s.handleGetService)
	dashboard.Post("/services", s.handleCreateService)
	dashboard.Put("/services/:id", s.handleUpdateService)
	dashboard.Delete("/services/:id", s.handleDeleteService)

	dashboard.Post("/uploads/:bucket", s.handleUpload)
}

func (s *Server) Start() error {
	return s.app.Listen(s.cfg.Server.Port)
}

func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

// RunSweeper runs the orphaned-upload sweep until ctx is canceled.
func (s *Server) RunSweeper(ctx context.Context) {
	s.pending.Run(ctx)
}

// dataError converts a failed remote operation into the uniform user-visible
// failure: logged with detail, surfaced as a message naming the operation,
// never retried.
func (s *Server) dataError(c *fiber.Ctx, op string, err error) error {
	s.logger.Error("Remote operation failed", "op", op, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to " + op,
	})
}
