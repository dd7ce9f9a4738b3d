package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	intake "github.com/goliatone/go-intake"
	"github.com/goliatone/go-intake/internal/config"
	"github.com/goliatone/go-intake/internal/logging"
	"github.com/goliatone/go-intake/internal/metrics"
	"github.com/goliatone/go-intake/internal/server"
)

func main() {
	configPath := flag.String("config", "", "config file (YAML, JSON or TOML); defaults to "+config.DefaultPath+" when present")
	addr := flag.String("addr", "", "listen address")
	endpoint := flag.String("endpoint", "", "workflow-creation endpoint")
	env := flag.String("env", "", "development or production")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Apply(config.Overrides{Env: *env, Endpoint: *endpoint, Addr: *addr}); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid flags: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// Submissions run under baseCtx so they survive the request that started
	// them; it is canceled only once the server has drained.
	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controllerOpts := []intake.Option{
		intake.WithEndpoint(cfg.Endpoint),
		intake.WithHTTPClient(&http.Client{Timeout: config.Timeout(cfg.RequestTimeout)}),
		intake.WithLogger(logger),
	}
	serverOpts := []server.Option{
		server.WithLogger(logger),
		server.WithBaseContext(baseCtx),
		server.WithTheme(cfg.Theme.RendererConfig()),
	}

	if cfg.Metrics.Enabled {
		m, err := metrics.New(cfg.Metrics.Namespace, nil)
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
		controllerOpts = append(controllerOpts, intake.WithObserver(m.Observe))
		serverOpts = append(serverOpts, server.WithMetrics(m, cfg.Metrics.Path, nil))
		logger.Info("metrics enabled", zap.String("path", cfg.Metrics.Path))
	}

	controller, err := intake.NewController(controllerOpts...)
	if err != nil {
		return fmt.Errorf("init controller: %w", err)
	}

	handler, err := server.New(controller, serverOpts...)
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  config.Timeout(cfg.Server.ReadTimeout),
		WriteTimeout: config.Timeout(cfg.Server.WriteTimeout),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", cfg.Server.Addr),
			zap.String("endpoint", cfg.Endpoint),
			zap.String("env", cfg.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), config.Timeout(cfg.Server.ShutdownTimeout))
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server stopped gracefully")
	return nil
}
