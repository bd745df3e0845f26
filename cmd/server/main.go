package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Olprog59/go-contenthub/internal/app"
	"github.com/Olprog59/go-contenthub/internal/config"
	"github.com/Olprog59/go-contenthub/internal/logging"
	"github.com/Olprog59/go-contenthub/internal/transport/web"
	"github.com/Olprog59/go-contenthub/internal/ui"
)

const shutdownTimeout = 10 * time.Second

// main is the application entry point / Point d'entrée de l'application
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run initializes and starts the HTTP server / Initialise et démarre le serveur HTTP
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	closeLogs := logging.Setup(cfg, os.Stdout)
	defer closeLogs()
	logStartupInfo(cfg)

	container, err := app.NewContainer(cfg, nil)
	if err != nil {
		return err
	}
	defer container.Close()

	views, err := ui.NewRenderer(ui.DefaultStyles())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      web.NewMux(ctx, web.NewHandler(container, views), cfg, container),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}

// logStartupInfo displays startup information / Affiche les informations de démarrage
func logStartupInfo(conf *config.Config) {
	slog.Info("starting content hub",
		"environment", conf.Environment,
		"port", conf.Server.Port,
		"database", conf.Database.Type,
		"blog_page_size", conf.Blog.PageSize,
		"flashcards_page_size", conf.Flashcards.PageSize,
	)

	if conf.RateLimiter.Enabled {
		slog.Info("rate limiter enabled", "rps", conf.RateLimiter.RPS, "burst", conf.RateLimiter.Burst)
	} else {
		slog.Warn("rate limiter is DISABLED")
	}

	slog.Info("token durations",
		"access_token", conf.Auth.AccessTokenDuration,
		"refresh_token", conf.Auth.RefreshTokenDuration,
	)
}
