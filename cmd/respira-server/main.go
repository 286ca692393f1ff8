package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/respira/respira/internal/config"
	"github.com/respira/respira/internal/domain/anomaly"
	"github.com/respira/respira/internal/domain/auditevent"
	"github.com/respira/respira/internal/domain/chat"
	"github.com/respira/respira/internal/domain/history"
	"github.com/respira/respira/internal/domain/intake"
	"github.com/respira/respira/internal/platform/auth"
	"github.com/respira/respira/internal/platform/cache"
	"github.com/respira/respira/internal/platform/db"
	"github.com/respira/respira/internal/platform/kvstore"
	"github.com/respira/respira/internal/platform/middleware"
	"github.com/respira/respira/internal/platform/upstream"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "respira-server",
		Short: "Respira clinical analytics API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the analytics API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations for the audit store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg, zerolog.Nop())
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg, zerolog.Nop())
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	})

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()

	// Audit store: Postgres when configured, in-memory otherwise.
	var auditRepo auditevent.AuditEventRepository
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = db.NewPool(ctx, cfg, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		auditRepo = auditevent.NewAuditEventRepoPG(pool)
	} else {
		auditRepo = auditevent.NewAuditEventRepoMem()
		logger.Warn().Msg("no DATABASE_URL configured, audit events are in-memory only")
	}
	auditSvc := auditevent.NewService(auditRepo, logger)

	// Upstream cache: Redis when configured, process-local LRU otherwise.
	var upstreamCache cache.Cache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		upstreamCache = cache.NewRedis(client)
		logger.Info().Msg("connected to redis cache")
	} else {
		upstreamCache = cache.NewLRU(256, time.Duration(cfg.HistoryCacheTTLS)*time.Second)
	}

	// Upstream model-service client
	upstreamClient := upstream.NewClient(
		cfg.UpstreamAPIURL,
		time.Duration(cfg.UpstreamTimeoutMS)*time.Millisecond,
		upstreamCache,
		time.Duration(cfg.HistoryCacheTTLS)*time.Second,
		logger,
	)

	// Dismissal persistence
	tracker := anomaly.NewTracker(kvstore.NewFileStore(cfg.DismissalStore))

	// Shared chat transcript
	transcript := chat.NewTranscript()

	// Domain services
	historySvc := history.NewService(upstreamClient)
	anomalySvc := anomaly.NewService(upstreamClient, tracker, auditSvc)
	chatSvc := chat.NewService(upstreamClient, transcript)
	intakeSvc := intake.NewService(upstreamClient, transcript, auditSvc,
		time.Duration(cfg.LookupDebounceMS)*time.Millisecond, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(auth.Identity())

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health check, including the audit store backing this instance
	e.GET("/health", func(c echo.Context) error {
		audit := db.Check(c.Request().Context(), pool)
		status := http.StatusOK
		overall := "ok"
		if !audit.Healthy {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}
		return c.JSON(status, map[string]interface{}{
			"status":  overall,
			"version": "0.1.0",
			"audit":   audit,
		})
	})

	// Domain handlers
	history.NewHandler(historySvc).RegisterRoutes(apiV1)
	anomaly.NewHandler(anomalySvc).RegisterRoutes(apiV1)
	chat.NewHandler(chatSvc).RegisterRoutes(apiV1)
	intake.NewHandler(intakeSvc).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
