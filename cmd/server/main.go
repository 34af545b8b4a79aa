package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/favorites-api/internal/auth"
	"github.com/ayush/favorites-api/internal/catalog"
	"github.com/ayush/favorites-api/internal/config"
	"github.com/ayush/favorites-api/internal/logging"
	"github.com/ayush/favorites-api/internal/middleware"
	"github.com/ayush/favorites-api/internal/server"
	"github.com/ayush/favorites-api/internal/store"
	"github.com/ayush/favorites-api/internal/telemetry"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.IsDevelopment())
	log := logging.Logger()
	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelServiceName, cfg.OTelEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("telemetry setup")
	}
	defer shutdownTracing(ctx)

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := store.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect")
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("postgres migrate")
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect")
	}
	defer mongoClient.Disconnect(ctx)
	events := store.NewEventStore(mongoClient.Database(cfg.MongoDB))
	if err := events.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo indexes")
	}

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect")
	}
	defer rdb.Close()
	sessions := auth.NewSessionStore(rdb)

	// ── MinIO ────────────────────────────────────────────────
	images, err := store.NewImageStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("minio connect")
	}

	// ── Metrics ──────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	// ── Router ───────────────────────────────────────────────
	if cfg.AuthDisabled {
		log.Warn().Msg("AUTH_DISABLED is set: favorite mutations are not scoped to the caller")
	}
	router := server.NewRouter(server.Deps{
		Catalog:        catalog.NewHandler(pgStore, events, images, metrics),
		Auth:           auth.NewHandler(pgStore, sessions),
		Sessions:       sessions,
		Users:          pgStore,
		Metrics:        metrics,
		Gatherer:       reg,
		AllowedOrigins: cfg.AllowedOrigins,
		ServiceName:    cfg.OTelServiceName,
		AuthDisabled:   cfg.AuthDisabled,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("favorites API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
