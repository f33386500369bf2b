package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"jobhub/internal/app"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the websocket listener",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "HTTP listen port (overrides HTTP_PORT)")
	serveCmd.Flags().String("ws-port", "", "websocket listen port (overrides WS_PORT)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, l, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := app.Bootstrap(ctx, cfg, l)
	if err != nil {
		return errors.Wrap(err, "bootstrap")
	}
	defer func() {
		if err := cleanup(); err != nil {
			l.Warn("cleanup failed", zap.Error(err))
		}
	}()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		return errors.Wrap(err, "invalid HTTP port")
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go srv.Hub.Run(hubCtx)

	errCh := make(chan error, 2)
	go func() {
		l.Info("http listening", zap.String("addr", addr))
		errCh <- srv.Fiber.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	if srv.WS != nil {
		go func() {
			l.Info("websocket listening", zap.String("addr", srv.WS.Addr))
			if err := srv.WS.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- errors.Wrap(err, "websocket server")
			}
		}()
	}

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
		l.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
		l.Warn("http shutdown failed", zap.Error(err))
	}
	if srv.WS != nil {
		if err := srv.WS.Shutdown(shutdownCtx); err != nil {
			l.Warn("websocket shutdown failed", zap.Error(err))
		}
	}
	stopHub()
	return runErr
}
