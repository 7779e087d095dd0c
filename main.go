package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/audit"
	"github.com/Legolasan/legolasan-in/pkg/auth"
	"github.com/Legolasan/legolasan-in/pkg/config"
	"github.com/Legolasan/legolasan-in/pkg/database"
	"github.com/Legolasan/legolasan-in/pkg/geoip"
	"github.com/Legolasan/legolasan-in/pkg/handlers"
	"github.com/Legolasan/legolasan-in/pkg/llm"
	"github.com/Legolasan/legolasan-in/pkg/middleware"
	"github.com/Legolasan/legolasan-in/pkg/models"
	"github.com/Legolasan/legolasan-in/pkg/portfolio"
	"github.com/Legolasan/legolasan-in/pkg/ratelimit"
	"github.com/Legolasan/legolasan-in/pkg/repositories"
	"github.com/Legolasan/legolasan-in/pkg/services"
	"github.com/Legolasan/legolasan-in/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("database", cfg.Database.Database),
		zap.Bool("redis", cfg.Redis.Host != ""),
		zap.Bool("chat", cfg.OpenAI.IsConfigured()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		// The geo cache falls back to in-memory only.
		logger.Warn("Redis unavailable, continuing without it", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	limiters := ratelimit.NewLimiters(ratelimit.InstanceConfig{
		Window:    time.Duration(cfg.RateLimit.WindowMs) * time.Millisecond,
		Strict:    cfg.RateLimit.Strict,
		Standard:  cfg.RateLimit.Standard,
		Relaxed:   cfg.RateLimit.Relaxed,
		Chat:      cfg.RateLimit.Chat,
		Analytics: cfg.RateLimit.Analytics,
	})
	defer limiters.Stop()

	geo := geoip.NewService(geoip.Config{
		Endpoint: cfg.GeoIP.Endpoint,
		Timeout:  time.Duration(cfg.GeoIP.TimeoutSeconds) * time.Second,
		CacheTTL: time.Duration(cfg.GeoIP.CacheTTLHours) * time.Hour,
	}, redisClient, logger)
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				geo.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()

	sessionTTL := time.Duration(cfg.Auth.SessionTTLMinutes) * time.Minute
	store := auth.NewSessionStore(cfg.Auth.SessionSecret, cfg.Env != "local", int(sessionTTL.Seconds()))
	authService := auth.NewAuthService(&cfg.Auth, store)
	mw := auth.NewMiddleware(authService, logger)
	auditor := audit.New(logger)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewClientProjectRepository(db)
	feedbackRepo := repositories.NewFeedbackRepository(db)
	postRepo := repositories.NewPostRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	taxonomyRepo := repositories.NewTaxonomyRepository(db)
	pageViewRepo := repositories.NewPageViewRepository(db)
	resumeRepo := repositories.NewResumeDownloadRepository(db)

	authorID, err := provisionAdmin(ctx, cfg, userRepo)
	if err != nil {
		logger.Fatal("Failed to provision admin user", zap.Error(err))
	}

	// Services
	projectService := services.NewProjectService(projectRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo, projectRepo)
	exportService := services.NewExportService(feedbackRepo, projectRepo)
	blogService := services.NewBlogService(postRepo)
	commentService := services.NewCommentService(commentRepo, postRepo)
	analyticsService := services.NewAnalyticsService(pageViewRepo, geo, logger)
	resumeService := services.NewResumeService(resumeRepo)
	featureService := services.NewFeatureService(cfg.Features.EnvFile, cfg.Features.RebuildCommand, logger)

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(authService, auditor, logger).RegisterRoutes(mux, mw)
	handlers.NewClientProjectsHandler(projectService, auditor, logger).RegisterRoutes(mux, mw)
	handlers.NewClientFeedbackHandler(feedbackService, exportService, limiters.Strict, auditor, logger).RegisterRoutes(mux, mw)
	handlers.NewBlogHandler(blogService, commentService, authorID, limiters.Standard, logger).RegisterRoutes(mux, mw)
	handlers.NewCommentsHandler(commentService, logger).RegisterRoutes(mux, mw)
	handlers.NewTaxonomyHandler(taxonomyRepo, logger).RegisterRoutes(mux, mw)
	handlers.NewAnalyticsHandler(analyticsService, limiters.Analytics, logger).RegisterRoutes(mux, mw)
	handlers.NewResumeHandler(resumeService, limiters.Strict, logger).RegisterRoutes(mux, mw)
	handlers.NewFeatureFlagsHandler(featureService, auditor, logger).RegisterRoutes(mux, mw)

	if cfg.OpenAI.IsConfigured() {
		chatClient, err := llm.NewClient(&llm.Config{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Temperature: cfg.OpenAI.Temperature,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create chat client", zap.Error(err))
		}
		chatService := services.NewChatService(chatClient, portfolio.Default)
		handlers.NewChatHandler(chatService, limiters.Chat, logger).RegisterRoutes(mux)
	} else {
		logger.Info("OPENAI_API_KEY not set, chat assistant disabled")
	}

	handlers.NewStaticHandler(ui.DistFS()).RegisterRoutes(mux)

	server := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// runMigrations opens a short-lived database/sql connection for the
// migration run; the pgx pool is created after the schema is current.
func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	return database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger)
}

// provisionAdmin upserts the configured admin account and returns its ID,
// which new blog posts are attributed to. Without an admin the blog write
// surface is unreachable anyway, so a zero ID is fine.
func provisionAdmin(ctx context.Context, cfg *config.Config, users repositories.UserRepository) (uuid.UUID, error) {
	if cfg.Auth.AdminEmail == "" {
		return uuid.UUID{}, nil
	}

	provider := "env"
	user := &models.User{
		Email:    cfg.Auth.AdminEmail,
		Role:     models.RoleAdmin,
		Provider: &provider,
	}
	if cfg.Auth.AdminName != "" {
		user.Name = &cfg.Auth.AdminName
	}

	if err := users.Upsert(ctx, user); err != nil {
		return uuid.UUID{}, err
	}
	return user.ID, nil
}
