package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/skovalev/blueprinthub/internal/config"
	"github.com/skovalev/blueprinthub/internal/db"
	"github.com/skovalev/blueprinthub/internal/events"
	"github.com/skovalev/blueprinthub/internal/httpserver"
	"github.com/skovalev/blueprinthub/internal/logging"
	mw "github.com/skovalev/blueprinthub/internal/middleware"
	"github.com/skovalev/blueprinthub/internal/repo"
	"github.com/skovalev/blueprinthub/internal/service"
	"github.com/skovalev/blueprinthub/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)

	gormRepo := &repo.GormRepo{DB: database}
	tokenSvc := &tokens.Service{Secret: cfg.JWTSecret, TTL: cfg.TokenTTL}

	authSvc := &service.AuthService{
		Repo:   gormRepo,
		Tokens: tokenSvc,
		Events: producer,
	}
	blueprintSvc := &service.BlueprintService{
		Repo:      gormRepo,
		Events:    producer,
		Extractor: service.PlaceholderExtractor{},
		UploadDir: cfg.UploadDir,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID(), echomw.CORS())
	e.Use(mw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:      &httpserver.AuthHTTP{Svc: authSvc},
		BlueprintHandler: &httpserver.BlueprintHTTP{Svc: blueprintSvc, Auth: authSvc},
		ExportsHandler:   &httpserver.ExportsHTTP{Dir: cfg.ExportDir},
		AuthMW:           mw.NewAuth(tokenSvc, gormRepo),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	pruneCtx, pruneCancel := context.WithCancel(context.Background())
	go pruneRevokedLoop(pruneCtx, gormRepo, cfg.TokenTTL, logger)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	pruneCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// pruneRevokedLoop periodically drops blocklist entries whose tokens have
// expired on their own, keeping the append-only revocation store bounded.
func pruneRevokedLoop(ctx context.Context, r *repo.GormRepo, tokenTTL time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-tokenTTL)
			n, err := r.PruneRevoked(ctx, cutoff)
			if err != nil {
				logger.Error("revocation prune failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("revocation entries pruned", "count", n)
			}
		}
	}
}
