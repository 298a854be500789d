// Package admin holds the ordlensd commands.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/ordlens/internal/api/handlers"
	"github.com/cloo-solutions/ordlens/internal/backend"
	"github.com/cloo-solutions/ordlens/internal/config"
	"github.com/cloo-solutions/ordlens/internal/dispatch"
	"github.com/cloo-solutions/ordlens/internal/engine"
	"github.com/cloo-solutions/ordlens/internal/logging"
	"github.com/cloo-solutions/ordlens/internal/server"
	"github.com/cloo-solutions/ordlens/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		Long:  "Start the ordlens HTTP gateway in front of the similarity search backend",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides ORDLENS_PORT)")
	cmd.Flags().String("api-url", "", "Search backend base URL (overrides ORDLENS_API_URL)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}
	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		cfg.APIURL = apiURL
	}

	if err := logging.SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	logging.UseJSON()
	log := logging.Log

	if cfg.HasSentry() {
		shutdownTelemetry, err := telemetry.Init(cfg.Telemetry())
		if err != nil {
			log.WithError(err).Warn("telemetry init failed, continuing without tracing")
		} else {
			defer shutdownTelemetry()
		}
	}

	client := backend.NewClient(cfg.Backend())
	eng := engine.New(dispatch.New(client), engine.WithLogger(log), engine.Isolated())

	router := server.NewRouter(server.RouterConfig{
		LookupHandler:  handlers.NewLookupHandler(eng, cfg.MintURL),
		Busy:           eng,
		Logger:         log,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).WithField("api_url", cfg.APIURL).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
	}
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
