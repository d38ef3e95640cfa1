package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/anitrack/anitrack/internal/admins"
	"github.com/anitrack/anitrack/internal/analytics"
	"github.com/anitrack/anitrack/internal/anime"
	"github.com/anitrack/anitrack/internal/app"
	"github.com/anitrack/anitrack/internal/audit"
	"github.com/anitrack/anitrack/internal/auth"
	"github.com/anitrack/anitrack/internal/community"
	"github.com/anitrack/anitrack/internal/lists"
	"github.com/anitrack/anitrack/internal/notifications"
	"github.com/anitrack/anitrack/internal/observability"
	"github.com/anitrack/anitrack/internal/platform/cache"
	"github.com/anitrack/anitrack/internal/platform/db"
	"github.com/anitrack/anitrack/internal/users"
	"github.com/anitrack/anitrack/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	metrics := observability.NewMetrics()

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, trending cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	usersRepo := users.NewRepository(pool)
	adminsRepo := admins.NewRepository(pool)
	auditStore := audit.NewStore(pool)

	verifier := auth.NewVerifier(cfg.TokenSecret)
	issuer := auth.NewIssuer(cfg.TokenSecret, cfg.TokenTTL)
	resolver := auth.NewResolver(usersRepo)
	policy := auth.NewPolicy(adminsRepo)
	auditLogger := auth.NewAuditLogger(auditStore, logger)
	defer auditLogger.Close()
	guard := auth.NewGuard(verifier, resolver, policy, auditLogger, logger)

	authService := auth.NewService(usersRepo, issuer)
	authHandler := auth.NewHandler(logger, authService)
	usersHandler := users.NewHandler(logger, usersRepo)
	adminsHandler := admins.NewHandler(logger, policy, usersRepo)

	auditService := audit.NewService(audit.NewTimelineRepository(pool))
	auditHandler := audit.NewHandler(auditService)

	catalogClient := anime.NewClient(cfg.CatalogBaseURL)
	animeService := anime.NewService(catalogClient, redisClient, logger, cfg.CatalogTrendingTTL)
	animeHandler := anime.NewHandler(logger, animeService)

	listsService := lists.NewService(lists.NewRepository(pool))
	listsHandler := lists.NewHandler(logger, listsService)

	communityHandler := community.NewHandler(community.NewRepository(pool))

	analyticsService := analytics.NewService(pool)
	analyticsHandler := analytics.NewHandler(logger, analyticsService)

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	notificationsService := notifications.NewService(notifications.NewRepository(pool), jobsClient)
	notificationsHandler := notifications.NewHandler(logger, notificationsService)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		Metrics:              metrics,
		Guard:                guard,
		AuthHandler:          authHandler,
		UsersHandler:         usersHandler,
		AdminsHandler:        adminsHandler,
		AuditHandler:         auditHandler,
		AnimeHandler:         animeHandler,
		ListsHandler:         listsHandler,
		CommunityHandler:     communityHandler,
		AnalyticsHandler:     analyticsHandler,
		NotificationsHandler: notificationsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
