// Command ltiprovider serves one LTI tool provider configuration document
// (cartridge_basiclti_link XML) with its MCP and metrics endpoints.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lti-provider/internal/config"
	"lti-provider/internal/handler"
	"lti-provider/internal/middleware"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := initLogger()

	cfg, err := config.Load(context.Background())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Invalid tool definitions stop startup; Render cannot fail after this.
	tool, err := cfg.BuildConfiguration()
	if err != nil {
		return fmt.Errorf("building tool configuration: %w", err)
	}

	logger.Info("configuration loaded",
		slog.String("tool_id", tool.ID()),
		slog.String("launch_url", tool.LaunchURL()),
		slog.String("privacy_level", tool.LaunchPrivacy().String()),
		slog.Int("placements", len(tool.ConfiguredOptions())),
		slog.String("environment", cfg.Environment),
	)

	h, err := handler.New(tool, logger)
	if err != nil {
		return fmt.Errorf("creating handler: %w", err)
	}

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	httpHandler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.Logging(logger),
	)(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("serving tool configuration", slog.String("addr", server.Addr))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	logger.Info("stopped")
	return nil
}

// initLogger logs JSON in production (Cloud Logging) and text elsewhere.
func initLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}
	if os.Getenv("ENVIRONMENT") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
