// Package main is the entry point for the Travel Journal API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pkordes/travel-journal/internal/config"
	"github.com/pkordes/travel-journal/internal/domain"
	"github.com/pkordes/travel-journal/internal/geocoding"
	"github.com/pkordes/travel-journal/internal/handler"
	"github.com/pkordes/travel-journal/internal/metrics"
	"github.com/pkordes/travel-journal/internal/middleware"
	"github.com/pkordes/travel-journal/internal/notify"
	"github.com/pkordes/travel-journal/internal/repo"
	"github.com/pkordes/travel-journal/internal/seed"
	"github.com/pkordes/travel-journal/internal/service"
	"github.com/pkordes/travel-journal/internal/session"
	"github.com/pkordes/travel-journal/migrations"
)

// maxBodyBytes caps request bodies. The largest legitimate body is an entry
// form submit with a handful of facts and image URLs.
const maxBodyBytes = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	out, closeLog := logOutput(cfg.LogFile)
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	code := 0
	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		code = 1
	}
	// os.Exit skips deferred calls, so the log file is flushed explicitly.
	closeLog()
	os.Exit(code)
}

// logOutput returns the log destination and a function that closes it.
// With a log file configured, lines go to stdout and to a size-rotated file.
func logOutput(logFile string) (io.Writer, func()) {
	if logFile == "" {
		return os.Stdout, func() {}
	}
	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	return io.MultiWriter(os.Stdout, rotator), func() { _ = rotator.Close() }
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// --- Store ------------------------------------------------------------
	// The location store lives in memory and starts from the seed set on
	// every boot.
	var seedLocs []domain.Location
	var err error
	if cfg.SeedFile != "" {
		seedLocs, err = seed.LoadFile(cfg.SeedFile)
	} else {
		seedLocs, err = seed.Default()
	}
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}
	locRepo, err := repo.NewLocationRepo(seedLocs)
	if err != nil {
		return fmt.Errorf("build store: %w", err)
	}
	locations := service.NewLocationService(locRepo)
	exports := service.NewExportService(locRepo)
	logger.Info("location store ready", "seeded", len(seedLocs))

	// --- Metrics ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)
	m.ObserveLocations(func() float64 {
		all, err := locations.All(context.Background())
		if err != nil {
			return 0
		}
		return float64(len(all))
	})

	// --- Cues -------------------------------------------------------------
	cues := notify.NewQueue(cfg.CueBuffer)
	m.ObserveCueDrops(cues.Dropped)

	// --- Geocoding --------------------------------------------------------
	cache, closeCache, err := openGeocodeCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	geocoder, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type: geocoding.ProviderTypeNominatim,
		Nominatim: geocoding.NominatimConfig{
			BaseURL:   cfg.GeocoderURL,
			UserAgent: cfg.GeocoderUserAgent,
			Rate:      cfg.GeocoderRate,
			Logger:    logger,
		},
		Cache:   cache,
		Metrics: m,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("build geocoder: %w", err)
	}

	// --- Session ----------------------------------------------------------
	sess := session.New(session.Config{
		Store:       locations,
		Geocoder:    geocoder,
		Notifier:    notify.Multi{cues, notify.NewLog(logger)},
		Logger:      logger,
		IdleTimeout: cfg.IdleTimeout,
	})
	defer sess.Close()

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Metrics →
	// Recoverer → CORS → body limit.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP.
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMetricsHandler(m))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	srvHandler := handler.NewServer(locations, exports, sess, cues, m)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Mount("/", srvHandler.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// WriteTimeout leaves room for a slow geocode lookup behind the rate limiter.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-stop:
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// openGeocodeCache connects the configured geocode cache backend. The
// returned close function is always safe to call.
func openGeocodeCache(ctx context.Context, cfg config.Config, logger *slog.Logger) (geocoding.Cache, func(), error) {
	switch geocoding.CacheBackend(cfg.GeocodeCache) {
	case geocoding.CacheRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			// The journal still works without a cache; lookups just go to
			// the provider every time.
			logger.Warn("redis unavailable, geocode cache disabled", "addr", cfg.RedisAddr, "error", err)
			_ = client.Close()
			return geocoding.NoCache{}, func() {}, nil
		}
		logger.Info("geocode cache ready", "backend", "redis", "addr", cfg.RedisAddr)
		return geocoding.NewRedisCache(client, geocoding.DefaultCacheTTL), func() { _ = client.Close() }, nil

	case geocoding.CachePostgres:
		// pgxpool manages a pool of Postgres connections.
		// New() does not open connections immediately; the first query does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create database pool: %w", err)
		}
		// Verify the DB is reachable before accepting traffic.
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("geocode cache ready", "backend", "postgres")
		return geocoding.NewPostgresCache(repo.NewGeocodeCacheRepo(pool), geocoding.DefaultCacheTTL), pool.Close, nil

	default:
		return geocoding.NoCache{}, func() {}, nil
	}
}

// migrate applies pending goose migrations. goose needs database/sql, so the
// pool is wrapped with the pgx stdlib adapter.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("migrations applied", "count", len(results))
	return nil
}
