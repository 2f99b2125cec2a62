package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/coursepay/docs"
	"github.com/DanielPopoola/coursepay/internal/adapters/handler"
	"github.com/DanielPopoola/coursepay/internal/adapters/handler/middleware"
	"github.com/DanielPopoola/coursepay/internal/worker"
	"github.com/spf13/cobra"
)

var serveNoSweeper bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the payment API, webhook receiver and stale sweeper",
	Long: `Run the HTTP server.

Routes:
  /api/v1/payments/...   client API, bearer token required
  /webhooks/{provider}   provider callbacks, signature verified
  /healthz               postgres and redis reachability
  /docs/swagger.json     API description

The stale sweeper runs in the same process unless --no-sweeper is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoSweeper, "no-sweeper", false, "do not run the stale transaction sweeper in this process")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Info("starting coursepay",
		"version", Version,
		"env", cfg.Primary.Env,
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	app, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	swaggerJSON := docs.SwaggerInfo.ReadDoc()
	router, err := middleware.LoadRouter(swaggerJSON)
	if err != nil {
		return fmt.Errorf("load api description: %w", err)
	}

	auth := handler.NewAuthenticator(cfg.Auth, logger)
	payments := handler.NewPaymentHandler(app.initService, app.engine, app.refundService, app.queryService, logger)
	webhooks := handler.NewWebhookHandler(app.engine, app.signatureHeaders(), logger)

	mux := http.NewServeMux()
	payments.RegisterRoutes(mux, auth)
	webhooks.RegisterRoutes(mux)
	mux.Handle("GET /healthz", handler.HealthHandler(map[string]handler.Pinger{
		"postgres": app.db,
		"redis":    app.claimer,
	}, logger))
	mux.HandleFunc("GET /docs/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(swaggerJSON))
	})

	h := middleware.RequestValidator(router, logger)(mux)
	h = middleware.Recovery(logger)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Timeout(cfg.Server.RequestTimeout, logger)(h)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	if !serveNoSweeper {
		sweeper := worker.NewStaleSweeper(app.repo, app.engine, cfg.Worker, logger)
		go sweeper.Start(workerCtx)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down server...", "signal", sig.String())
	case err := <-serverErr:
		cancelWorkers()
		return fmt.Errorf("server error: %w", err)
	}

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
	return nil
}
