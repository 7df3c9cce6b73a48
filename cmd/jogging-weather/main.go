package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/jogging-weather/internal/api/http"
	"github.com/i474232898/jogging-weather/internal/auth"
	"github.com/i474232898/jogging-weather/internal/config"
	"github.com/i474232898/jogging-weather/internal/jogging"
	"github.com/i474232898/jogging-weather/internal/logging"
	"github.com/i474232898/jogging-weather/internal/scheduler"
	"github.com/i474232898/jogging-weather/internal/store"
	"github.com/i474232898/jogging-weather/internal/store/postgres"
	"github.com/i474232898/jogging-weather/internal/weather"
	"github.com/i474232898/jogging-weather/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		slog.Error("failed to build logger", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Record store.
	var recordStore jogging.Store
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		repo := postgres.NewRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			log.Error("failed to migrate postgres", "error", err)
			os.Exit(1)
		}
		recordStore = repo
	default:
		recordStore = store.NewMemoryStore()
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provs, err := providers.Build(cfg.WeatherProviders, httpClient, providers.Options{
		OpenMeteoBaseURL:  cfg.OpenMeteoBaseURL,
		OpenWeatherAPIKey: cfg.OpenWeatherAPIKey,
		WeatherAPIKey:     cfg.WeatherAPIKey,
	})
	if err != nil {
		log.Error("failed to configure weather providers", "error", err)
		os.Exit(1)
	}
	enricher := weather.NewEnricher(weather.NewChain(log, provs...), cfg.WeatherTimeout)

	service := jogging.NewService(recordStore, enricher, log)

	sched := scheduler.New(recordStore, cfg.StatsInterval, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "jogging-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Leave room for a full weather lookup.
		WriteTimeout: cfg.WeatherTimeout + 5*time.Second,
		ErrorHandler: httpapi.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "jogging-weather",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, service, auth.Middleware(auth.Config{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
	}))

	go func() {
		log.Info("jogging-weather listening", "port", cfg.Port, "store", cfg.StoreDriver, "providers", cfg.WeatherProviders)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
}
