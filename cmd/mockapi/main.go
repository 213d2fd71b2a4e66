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

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"warehouse/internal/logging"
	"warehouse/internal/mockapi"
)

const shutdownTimeout = 30 * time.Second

func main() {
	addr := pflag.String("addr", ":8000", "listen address")
	publicURL := pflag.String("public-url", "", "base URL encoded into QR labels (default: request host)")
	debug := pflag.Bool("debug", false, "debug logging")
	pflag.Parse()

	logger, err := logging.New(logging.JSON, *debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	server := &http.Server{
		Addr:              *addr,
		Handler:           mockapi.New(*publicURL, logger.Named("mockapi")),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("mockapi listening", zap.String("addr", *addr), zap.String("public_url", *publicURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server shutdown complete")
}
