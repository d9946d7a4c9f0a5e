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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"timer2ticket.app/gateway/common/id"
	"timer2ticket.app/gateway/common/logger"
	"timer2ticket.app/gateway/common/otel"
	"timer2ticket.app/gateway/core/config"
	"timer2ticket.app/gateway/core/db"
	"timer2ticket.app/gateway/internal/http/middleware"
	httprouter "timer2ticket.app/gateway/internal/http/router"
	"timer2ticket.app/gateway/internal/queue"
	"timer2ticket.app/gateway/internal/service"
	"timer2ticket.app/gateway/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "webhook gateway starting",
		"env", cfg.Env,
		"service", cfg.OTel.ServiceName,
		"anti_cycle_window", cfg.Webhook.AntiCycleWindow,
		"commercial", cfg.Subscription.IsCommercial,
	)
	if err := id.Init(cfg.NodeID); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	recorder, err := newDecisionRecorder(ctx, cfg.Redis)
	if err != nil {
		slog.ErrorContext(ctx, "failed to set up decision log", "error", err)
		os.Exit(1)
	}
	defer recorder.Close()

	stores := store.NewStores(database.Queries())
	services := service.NewServices(stores, cfg, recorder, slog.Default())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	// Deliveries already acknowledged still have to reach core.
	if err := services.Gateway().Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "gateway drain incomplete", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func newDecisionRecorder(ctx context.Context, cfg config.RedisConfig) (queue.DecisionRecorder, error) {
	if !cfg.Enabled() {
		slog.InfoContext(ctx, "decision log disabled (no redis configured)")
		return queue.NewNoopDecisionRecorder(), nil
	}

	redisOpts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	slog.InfoContext(ctx, "redis connected", "stream", cfg.DecisionStream)

	return queue.NewRedisDecisionRecorder(redisClient, cfg.DecisionStream, slog.Default()), nil
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services)

	return router
}

const banner = `
 _____ ____ _____    ____    _  _____ _______        ___ __   __
|_   _|___ \_   _|  / ___|  / \|_   _| ____\ \      / / \\ \ / /
  | |   __) || |   | |  _  / _ \ | | |  _|  \ \ /\ / / _ \\ V /
  | |  / __/ | |   | |_| |/ ___ \| | | |___  \ V  V / ___ \| |
  |_| |_____||_|    \____/_/   \_\_| |_____|  \_/\_/_/   \_\_|
`
