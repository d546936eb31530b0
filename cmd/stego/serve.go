package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yyyoichi/stego_lsb/internal/web"
)

// runWeb serves the browser UI until an interrupt arrives.
func runWeb(cfg Config, logger *zap.Logger) error {
	srv, err := web.NewServer(web.Config{
		MaxUploadBytes: cfg.MaxUploadBytes,
		ScanLimit:      cfg.ScanLimit,
		AbortThreshold: cfg.AbortThreshold,
		ArmorSeed:      cfg.ArmorSeed,
	}, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web mode listening", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	fmt.Printf("Starting GUI Mode at http://localhost%s\n", cfg.Addr)
	fmt.Println("Press Ctrl+C to stop the server.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-sigChan:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	fmt.Println("Server stopped.")
	return nil
}
