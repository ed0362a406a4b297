package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appetax "github.com/jhoicas/etax-pipeline/internal/application/etax"
	"github.com/jhoicas/etax-pipeline/internal/infrastructure/axons"
	"github.com/jhoicas/etax-pipeline/internal/infrastructure/etda"
	infrapdf "github.com/jhoicas/etax-pipeline/internal/infrastructure/pdf"
	"github.com/jhoicas/etax-pipeline/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/etax-pipeline/internal/interfaces/http"
	"github.com/jhoicas/etax-pipeline/pkg/config"
	"github.com/jhoicas/etax-pipeline/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	journal := postgres.NewSubmissionRepository(pool)

	// PDF rendering: the Gen-PDF API when configured, otherwise the local
	// Maroto renderer (dev runs without gateway credentials).
	var renderer appetax.DocumentRenderer
	if cfg.ETax.GenPDFURL != "" {
		renderer = axons.NewPDFClient(cfg.ETax.GenPDFURL, cfg.ETax.GenPDFAPIKey)
	} else {
		renderer = infrapdf.NewMarotoRenderer()
	}

	// TSP client is only built outside dev. A nil gateway makes the
	// orchestrator stop each invoice at RENDERED.
	var gateway axons.GatewaySubmitter
	if cfg.App.Env != "dev" && cfg.App.Env != "development" {
		tokens := axons.NewTokenSource(
			cfg.ETax.TSPTokenURL,
			cfg.ETax.TSPClientID,
			cfg.ETax.TSPClientSecret,
			cfg.ETax.GenPDFAPIKey,
		)
		gateway = axons.NewClient(cfg.ETax.TSPBaseURL, cfg.ETax.GenPDFAPIKey, tokens)
	}

	builder := etda.NewBuilder(etda.BuilderConfig{
		SellerTaxID:     cfg.ETax.SellerTaxID,
		SellerName:      cfg.ETax.SellerName,
		NotifyEmail:     cfg.ETax.NotifyEmail,
		CCACode:         cfg.ETax.CCACode,
		CCAName:         cfg.ETax.CCAName,
		InternalDocType: cfg.ETax.InternalDocType,
	})

	processUC := appetax.NewProcessUseCase(log)
	orchestrator := appetax.NewOrchestrator(
		renderer, builder, gateway, journal,
		cfg.ETax.Workers,
		cfg.ETax.SellerTaxID, cfg.ETax.SellerBranch,
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProcessUC:    processUC,
		Orchestrator: orchestrator,
		Journal:      journal,
		MasterDir:    cfg.ETax.MasterDir,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
