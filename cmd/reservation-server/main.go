package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/config"
	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/service/availability"
	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/service/booking"
	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/store"
	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/store/postgres"
	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/store/rediscache"
	httpTransport "github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/transport/http"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", "reservation-server"),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", "reservation-server"),
	)
	slog.SetDefault(log)

	log.Info("starting", slog.String("http_addr", cfg.HTTPAddr), slog.String("log_level", cfg.LogLevel))

	log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
	db, err := postgres.Open(cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		os.Exit(1)
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	if cfg.RunMigrations {
		if err := postgres.Migrate(context.Background(), db, cfg.MigrationsDir); err != nil {
			log.Error("migrations failed", slog.Any("err", err))
			os.Exit(1)
		}
		version, err := postgres.MigrationVersion(context.Background(), db)
		if err == nil {
			log.Info("migrations applied", slog.Int64("version", version))
		}
	}

	var cache store.AvailabilityCache
	if cfg.RedisAddr != "" {
		client, err := rediscache.NewClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Error("redis connection failed", slog.Any("err", err), slog.String("redis_addr", cfg.RedisAddr))
			os.Exit(1)
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Warn("redis close failed", slog.Any("err", err))
			}
		}()
		cache = rediscache.NewAvailabilityCache(client, cfg.CacheTTL)
		log.Info("availability cache enabled", slog.String("redis_addr", cfg.RedisAddr))
	}

	if cfg.JWTSecret == "" {
		log.Error("jwt secret is required")
		os.Exit(1)
	}

	repo := postgres.NewBookingRepo(db)
	bookingSvc := booking.NewService(repo, cache, cfg.DefaultBillAmount)
	availabilitySvc := availability.NewService(repo, cache)

	router := httpTransport.InitRoutes(
		httpTransport.RouterConfig{
			JWTSecret:      cfg.JWTSecret,
			RequestTimeout: cfg.HTTPRequestTimeout,
		},
		httpTransport.NewAvailabilityHandler(availabilitySvc, log),
		httpTransport.NewBookingHandler(bookingSvc, log),
	)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("http server started", slog.String("http_addr", cfg.HTTPAddr))

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("http graceful shutdown failed; forcing close", slog.Any("err", err))
			_ = srv.Close()
		} else {
			log.Info("http server stopped")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped with error", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
