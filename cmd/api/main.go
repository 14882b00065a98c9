package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/reelhouse-backend/api/routes"
	"github.com/angelmondragon/reelhouse-backend/internal/accounts"
	"github.com/angelmondragon/reelhouse-backend/internal/auth"
	"github.com/angelmondragon/reelhouse-backend/internal/comments"
	"github.com/angelmondragon/reelhouse-backend/internal/movies"
	"github.com/angelmondragon/reelhouse-backend/internal/profiles"
	"github.com/angelmondragon/reelhouse-backend/internal/users"
	"github.com/angelmondragon/reelhouse-backend/pkg/auth/session"
	"github.com/angelmondragon/reelhouse-backend/pkg/config"
	"github.com/angelmondragon/reelhouse-backend/pkg/db"
	"github.com/angelmondragon/reelhouse-backend/pkg/logger"
	"github.com/angelmondragon/reelhouse-backend/pkg/mailer"
	"github.com/angelmondragon/reelhouse-backend/pkg/metrics"
	"github.com/angelmondragon/reelhouse-backend/pkg/migrate"
	"github.com/angelmondragon/reelhouse-backend/pkg/redis"
	"github.com/angelmondragon/reelhouse-backend/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	store, err := storage.NewFS(cfg.Storage.Root, cfg.Storage.PublicBaseURL)
	if err != nil {
		logg.Error(context.Background(), "failed to create object store", err)
		os.Exit(1)
	}

	mail, err := mailer.NewResend(cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create mailer", err)
		os.Exit(1)
	}

	siteBaseURL := cfg.Site.BaseURL()

	accountsService, err := accounts.NewService(accounts.ServiceParams{
		TxRunner:           dbClient,
		UserRepoFactory:    accounts.DefaultUserRepoFactory,
		ProfileRepoFactory: accounts.DefaultProfileRepoFactory,
		MovieRepoFactory:   accounts.DefaultMovieRepoFactory,
		Store:              store,
		Mailer:             mail,
		PasswordConfig:     cfg.Password,
		ConfirmConfig:      cfg.Confirm,
		SiteBaseURL:        siteBaseURL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create accounts service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		ProfileRepo:    profiles.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	moviesService, err := movies.NewService(movies.ServiceParams{
		TxRunner:    dbClient,
		RepoFactory: movies.DefaultRepoFactory,
		Store:       store,
		SiteBaseURL: siteBaseURL,
		MaxBytes:    cfg.Media.MaxUploadBytes(),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create movies service", err)
		os.Exit(1)
	}

	commentsService, err := comments.NewService(comments.ServiceParams{
		Repo:        comments.NewRepository(dbClient.DB()),
		MovieFinder: movies.NewRepository(dbClient.DB()),
		SiteBaseURL: siteBaseURL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create comments service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Params{
		Config:          cfg,
		Logger:          logg,
		DBPinger:        dbClient,
		RedisClient:     redisClient,
		SessionChecker:  sessionManager,
		HTTPMetrics:     httpMetrics,
		MetricsGatherer: registry,
		AuthService:     authService,
		AccountsService: accountsService,
		MoviesService:   moviesService,
		CommentsService: commentsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
