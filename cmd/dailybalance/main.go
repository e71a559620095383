package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/SscSPs/dailybalance/internal/adapters/cloudsync/aztables"
	"github.com/SscSPs/dailybalance/internal/adapters/database/inmemory"
	"github.com/SscSPs/dailybalance/internal/adapters/database/pgsql"
	"github.com/SscSPs/dailybalance/internal/adapters/genai"
	"github.com/SscSPs/dailybalance/internal/core/ports/clients"
	portsrepo "github.com/SscSPs/dailybalance/internal/core/ports/repositories"
	"github.com/SscSPs/dailybalance/internal/core/services"
	"github.com/SscSPs/dailybalance/internal/handlers"
	"github.com/SscSPs/dailybalance/internal/middleware"
	"github.com/SscSPs/dailybalance/internal/platform/config"
	"github.com/SscSPs/dailybalance/internal/utils"
	"github.com/SscSPs/dailybalance/pkg/database"
)

// @title Daily Balance API
// @version 1.0
// @description Daily balance ledger with an AI advisor that applies commands embedded in its replies.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := newRepositoryProvider(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("backend", cfg.StorageBackend), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer repos.Close()

	var streamer clients.ModelStreamer
	if cfg.GeminiAPIKey != "" {
		s, err := genai.NewStreamer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize model provider", slog.String("error", err.Error()))
			os.Exit(1)
		}
		streamer = s
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	container := services.NewServiceContainer(cfg, repos, streamer, posthogClient)

	rate, err := limiter.NewRateFromFormatted(cfg.ChatRateLimit)
	if err != nil {
		logger.Error("Invalid CHAT_RATE_LIMIT", slog.String("value", cfg.ChatRateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	chatLimiter := limiter.New(memory.NewStore(), rate)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendBaseURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, chatLimiter, posthogClient)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageBackend), slog.Bool("advisor", container.Chat != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

// newRepositoryProvider opens the configured storage backend. Postgres runs its migrations first.
func newRepositoryProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		logger.Info("Database connection pool established.")
		logger.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			dbPool.Close()
			return portsrepo.RepositoryProvider{}, err
		}
		return pgsql.NewRepositoryProvider(dbPool), nil
	case config.StorageAzTables:
		store, err := aztables.NewStore(ctx, cfg.AzureTableServiceURL, cfg.AzureTableName, logger)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		return portsrepo.RepositoryProvider{LedgerStore: store, Close: func() {}}, nil
	case config.StorageMemory:
		return portsrepo.RepositoryProvider{LedgerStore: inmemory.NewStore(), Close: func() {}}, nil
	default:
		return portsrepo.RepositoryProvider{}, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
