package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pdf-diff/internal/config"
	"pdf-diff/internal/handler"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the comparison HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	container := config.NewContainerWithConfig(loadConfig(cmd))

	comparisonHandler := handler.NewComparisonHandler(container.Runs, container.History, container.Logger)
	authMiddleware := handler.NewAPITokenMiddleware(container.Config.GetAPIToken(), container.Logger)
	router := handler.NewRouter(comparisonHandler, authMiddleware.Middleware)

	server := &http.Server{
		Addr:    ":" + container.Config.GetServerPort(),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			container.Logger.Error("Server failed to start", err)
			return err
		}
	case <-ctx.Done():
	}

	container.Logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	if err := container.Runs.Shutdown(shutdownCtx); err != nil {
		container.Logger.Warn("Comparison runs still active at exit", "error", err)
	}

	container.Logger.Info("Server exited")
	return nil
}
