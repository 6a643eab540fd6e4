// Package server contains the HTTP and WebSocket handlers of the Wise Advice API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "wiseadvice/docs" // swagger docs
	"wiseadvice/internal/cache"
	"wiseadvice/internal/config"
	"wiseadvice/internal/database"
	"wiseadvice/internal/featureflags"
	"wiseadvice/internal/middleware"
	"wiseadvice/internal/models"
	"wiseadvice/internal/notifications"
	"wiseadvice/internal/repository"
	"wiseadvice/internal/service"
	"wiseadvice/internal/tokens"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	repos        *repository.Repositories
	tokens       *tokens.Manager
	notifier     *notifications.Notifier
	hub          *notifications.Hub
	featureFlags *featureflags.Manager

	authService         *service.AuthService
	userService         *service.UserService
	postService         *service.PostService
	commentService      *service.CommentService
	categoryService     *service.CategoryService
	reactionService     *service.ReactionService
	notificationService *service.NotificationService
}

// NewServer connects to the database and Redis and builds a Server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb, err := cache.Connect(context.Background(), cfg.RedisURL)
	if err != nil {
		middleware.Logger.Warn("redis unavailable, continuing without it", slog.String("error", err.Error()))
		rdb = nil
	} else {
		middleware.Logger.Info("redis connected", slog.String("addr", rdb.Options().Addr))
	}
	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; rate limits then fail open and revocation, the
// category cache and realtime push are disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("database handle is required")
	}

	repos := repository.New(db)
	flags := featureflags.NewManager(cfg.FeatureFlags)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("wiseadvice-api"),
		repos:          repos,
		tokens:         tokens.NewManager(cfg.JWTSecret, redisClient),
		featureFlags:   flags,
	}

	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
		s.hub = notifications.NewHub()
	}

	auth := service.NewAuthorizer(repos.Users)
	s.reactionService = service.NewReactionService(repos, auth)
	s.notificationService = service.NewNotificationService(repos, s.notifier, flags)
	s.authService = service.NewAuthService(repos, s.tokens)
	s.userService = service.NewUserService(repos, auth, s.reactionService)
	s.postService = service.NewPostService(repos, auth, s.reactionService, s.notificationService)
	s.commentService = service.NewCommentService(repos, auth, s.reactionService, s.notificationService)
	s.categoryService = service.NewCategoryService(repos, auth, cache.New(redisClient), flags)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Propagates request and user ids into the request context for logging.
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	perMinute := s.config.RateLimitPerMinute
	if perMinute <= 0 {
		perMinute = 100
	}
	app.Use(limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Wise Advice Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	requireAuth := middleware.Auth(s.tokens, false)
	optionalAuth := middleware.OptionalAuth(s.tokens)

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, middleware.RegisterLimit), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, middleware.LoginLimit), s.Login)
	auth.Post("/logout", requireAuth, s.Logout)
	auth.Post("/password-reset", s.RequestPasswordReset)
	auth.Post("/password-reset/:token", s.ResetPassword)
	auth.Get("/confirm-email/:token", s.ConfirmEmail)

	users := api.Group("/users", requireAuth)
	users.Get("/", s.ListUsers)
	users.Post("/", s.CreateUser)
	users.Get("/:id", s.GetUser)
	users.Patch("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)

	api.Get("/user/posts", requireAuth, s.GetMyPosts)

	posts := api.Group("/posts")
	// Static segments are registered before /:id.
	posts.Get("/favorites", requireAuth, s.GetFavoritePosts)
	posts.Get("/subscriptions", requireAuth, s.GetSubscribedPosts)
	posts.Get("/", optionalAuth, s.GetPosts)
	posts.Post("/", requireAuth, middleware.RateLimit(s.redis, middleware.PostCreateLimit), s.CreatePost)
	posts.Get("/:id/comments", optionalAuth, s.GetPostComments)
	posts.Post("/:id/comments", requireAuth, middleware.RateLimit(s.redis, middleware.CommentCreateLimit), s.CreateComment)
	posts.Get("/:id/categories", optionalAuth, s.GetPostCategories)
	posts.Get("/:id/like", requireAuth, s.ListPostReactions(models.ReactionLike))
	posts.Get("/:id/dislike", requireAuth, s.ListPostReactions(models.ReactionDislike))
	posts.Post("/:id/like", requireAuth, s.ReactToPost(models.ReactionLike))
	posts.Post("/:id/dislike", requireAuth, s.ReactToPost(models.ReactionDislike))
	posts.Delete("/:id/like", requireAuth, s.RemovePostReaction(models.ReactionLike))
	posts.Delete("/:id/dislike", requireAuth, s.RemovePostReaction(models.ReactionDislike))
	posts.Post("/:id/favorites", requireAuth, s.AddFavorite)
	posts.Delete("/:id/favorites", requireAuth, s.RemoveFavorite)
	posts.Post("/:id/subscribe", requireAuth, s.Subscribe)
	posts.Delete("/:id/unsubscribe", requireAuth, s.Unsubscribe)
	posts.Patch("/:id/lock", requireAuth, s.LockPost(true))
	posts.Patch("/:id/unlock", requireAuth, s.LockPost(false))
	posts.Patch("/:postId/comments/:commentId", requireAuth, s.ChooseBestComment)
	posts.Get("/:id", optionalAuth, s.GetPost)
	posts.Patch("/:id", requireAuth, s.UpdatePost)
	posts.Delete("/:id", requireAuth, s.DeletePost)

	comments := api.Group("/comments")
	comments.Get("/:id/replies", optionalAuth, s.GetReplies)
	comments.Get("/:id/like", requireAuth, s.ListCommentReactions(models.ReactionLike))
	comments.Get("/:id/dislike", requireAuth, s.ListCommentReactions(models.ReactionDislike))
	comments.Post("/:id/like", requireAuth, s.ReactToComment(models.ReactionLike))
	comments.Post("/:id/dislike", requireAuth, s.ReactToComment(models.ReactionDislike))
	comments.Delete("/:id/like", requireAuth, s.RemoveCommentReaction(models.ReactionLike))
	comments.Delete("/:id/dislike", requireAuth, s.RemoveCommentReaction(models.ReactionDislike))
	comments.Post("/:id/reply", requireAuth, middleware.RateLimit(s.redis, middleware.CommentCreateLimit), s.ReplyToComment)
	comments.Patch("/:id/lock", requireAuth, s.LockComment(true))
	comments.Patch("/:id/unlock", requireAuth, s.LockComment(false))
	comments.Get("/:id", requireAuth, s.GetComment)
	comments.Patch("/:id", requireAuth, s.UpdateComment)
	comments.Delete("/:id", requireAuth, s.DeleteComment)

	categories := api.Group("/categories")
	categories.Get("/", s.ListCategories)
	categories.Get("/:id/posts", requireAuth, s.GetCategoryPosts)
	categories.Get("/:id", s.GetCategory)
	categories.Post("/", requireAuth, s.CreateCategory)
	categories.Patch("/:id", requireAuth, s.UpdateCategory)
	categories.Delete("/:id", requireAuth, s.DeleteCategory)

	notes := api.Group("/notifications", requireAuth)
	notes.Get("/", s.GetNotifications)
	notes.Post("/:id", s.MarkNotificationRead)

	api.Get("/feature-flags", optionalAuth, s.GetFeatureFlags)

	ws := api.Group("/ws", middleware.Auth(s.tokens, true))
	ws.Get("/notifications", s.NotificationsWebsocket())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck reports whether the database and Redis answer. Redis is
// optional, so a missing client does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// NewApp builds the Fiber app with middleware and routes. Start serves it;
// tests drive it with app.Test.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Wise Advice API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.NewApp()

	if s.notifier != nil && s.hub != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				middleware.Logger.Error("failed to start hub wiring",
					slog.String("hub", s.hub.Name()),
					slog.String("error", err.Error()),
				)
			}
		}()
	}

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			middleware.Logger.Error("error shutting down hub", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
