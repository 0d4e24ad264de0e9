package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"printify/internal/events"
	"printify/internal/httpapi"
	"printify/internal/logging"
	"printify/internal/webhook"
	"printify/pkg/config"
	"printify/pkg/db"
	"printify/pkg/printify"
)

func main() {
	storeKind := flag.String("store", "postgres", "event store: postgres or memory")
	flag.Parse()

	cfg := config.Load()

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Printify.WebhookSecret == "" {
		logger.Fatal("PRINTIFY_WEBHOOK_SECRET is required")
	}

	var store events.Store
	switch *storeKind {
	case "memory":
		logger.Warn("using in-memory event store; events are lost on restart")
		store = events.NewMemoryStore()
	case "postgres":
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			logger.Fatal("db open", zap.Error(err))
		}
		defer conn.Close()

		if err := db.MigrateConfig(cfg.MigrationsPath, cfg); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}
		store = events.NewRepository(conn)
	default:
		logger.Fatal("unknown -store", zap.String("store", *storeKind))
	}

	if cfg.Printify.APIToken != "" && cfg.PublicBaseURL != "" && len(cfg.Printify.WebhookTopics) > 0 {
		subscribe(ctx, cfg, logger)
	}

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:    cfg,
		Store:  store,
		Logger: logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http serve", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}

// subscribe registers the configured topics. Failures are logged and do not
// stop the server; deliveries for existing subscriptions still work.
func subscribe(ctx context.Context, cfg config.Config, logger *zap.Logger) {
	if info, err := printify.ParseToken(cfg.Printify.APIToken); err != nil {
		logger.Warn("api token could not be inspected", zap.Error(err))
	} else if info.Expired(time.Now()) {
		logger.Warn("api token is expired", zap.Time("expires_at", info.ExpiresAt))
		return
	}

	client := printify.New(cfg.Printify.APIToken,
		printify.WithShopID(cfg.Printify.ShopID),
		printify.WithBaseURL(cfg.Printify.BaseURL),
		printify.WithRateLimit(cfg.Printify.RateLimit, cfg.Printify.RateBurst),
		printify.WithLogger(logger.Named("printify")),
	)

	subCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	created, err := webhook.EnsureSubscriptions(subCtx, client.Webhooks, logger, "",
		cfg.PublicBaseURL, cfg.Printify.WebhookSecret, cfg.Printify.WebhookTopics)
	if err != nil {
		logger.Error("webhook subscription failed", zap.Error(err))
		return
	}
	logger.Info("webhook subscriptions checked", zap.Int("created", len(created)))
}
