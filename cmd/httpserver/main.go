package main

import (
	"contactbook/httpserver"
	"contactbook/pkg/config"
	"contactbook/pkg/logger"
	"contactbook/pkg/sentry"
	"contactbook/storage"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Cannot load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		slog.Error("Cannot init sentry", "error", err)
		os.Exit(1)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeStorage, err := storage.NewService(ctx, cfg, log)
	if svc == nil {
		slog.Error("Cannot open contact storage", "error", err, "driver", cfg.Storage.Driver)
		sentry.WithTags(map[string]string{"storage": cfg.Storage.Driver}).Fatal(err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStorage(); err != nil {
			slog.Error("Cannot close contact storage", "error", err)
		}
	}()
	if err != nil {
		slog.Warn("Serving an empty contact list", "error", err, "driver", cfg.Storage.Driver)
		sentry.WithTags(map[string]string{"storage": cfg.Storage.Driver}).Error(err)
	}

	server := httpserver.Default(cfg)
	server.Logger = log
	server.ContactService = svc

	go func() {
		slog.Info("server started!", "addr", server.Addr, "storage", cfg.Storage.Driver)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped with error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("cannot shutdown server", "error", err)
	}
	slog.Info("server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
}
