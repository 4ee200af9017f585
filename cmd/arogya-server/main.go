package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arogya/arogya/internal/config"
	"github.com/arogya/arogya/internal/domain/alert"
	"github.com/arogya/arogya/internal/domain/blood"
	"github.com/arogya/arogya/internal/domain/facility"
	"github.com/arogya/arogya/internal/domain/supply"
	"github.com/arogya/arogya/internal/domain/transfer"
	"github.com/arogya/arogya/internal/domain/ward"
	"github.com/arogya/arogya/internal/platform/directory"
	"github.com/arogya/arogya/internal/platform/identity"
	"github.com/arogya/arogya/internal/platform/middleware"
	"github.com/arogya/arogya/internal/platform/notify"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "arogya-server",
		Short: "Hospital resource coordination API server",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the coordination API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(demo)
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "seed a demo hospital and blood bank at startup")
	return cmd
}

func runServer(demo bool) error {
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
	thresholds, err := cfg.BloodThresholds()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid blood thresholds")
	}

	// Outbound providers: remote where a URL is configured, local
	// deterministic stand-ins otherwise.
	var sender notify.Sender = notify.NewStaticSender()
	if cfg.NotifyURL != "" {
		sender = notify.NewHTTPSender(cfg.NotifyURL, cfg.ProviderTimeout, cfg.ProviderMaxRetries)
	}
	var dir directory.Directory = directory.NewDemoDirectory()
	if cfg.DirectoryURL != "" {
		dir = directory.NewHTTPDirectory(cfg.DirectoryURL, cfg.ProviderTimeout, cfg.ProviderMaxRetries)
	}
	var idp identity.Provider = identity.NewDemoProvider()
	if cfg.IdentityURL != "" {
		idp = identity.NewHTTPProvider(cfg.IdentityURL, cfg.ProviderTimeout, cfg.ProviderMaxRetries)
	}

	// Facility registry
	registry := facility.NewRegistry(facility.Options{
		BedLowAvailThreshold: cfg.BedLowAvailThreshold,
		BloodThresholds:      thresholds,
		BloodCriticalRatio:   cfg.BloodCriticalRatio,
		AlertRadiusMinKm:     cfg.AlertRadiusMinKm,
		AlertRadiusMaxKm:     cfg.AlertRadiusMaxKm,
		Sender:               sender,
		Logger:               logger,
	})
	if demo {
		if err := registry.SeedDemo(); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo data")
		}
		logger.Info().Msg("demo data seeded")
	}

	transferSvc := transfer.NewService(dir, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

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

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	// Domain handlers
	facility.NewHandler(registry).RegisterRoutes(apiV1)
	ward.NewHandler(registry, idp).RegisterRoutes(apiV1)
	blood.NewHandler(registry).RegisterRoutes(apiV1)
	alert.NewHandler(registry).RegisterRoutes(apiV1)
	supply.NewHandler(registry).RegisterRoutes(apiV1)
	transfer.NewHandler(transferSvc).RegisterRoutes(apiV1)

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
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
