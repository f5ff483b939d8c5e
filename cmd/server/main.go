package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"wardflow/internal/platform/config"
	"wardflow/internal/platform/httpserver"
	"wardflow/internal/platform/logger"
	"wardflow/internal/platform/metrics"
	"wardflow/internal/repository"
	"wardflow/internal/service"
	"wardflow/internal/storage"
	"wardflow/internal/token"
	transporthttp "wardflow/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Clinical logic lives in the service and repository
// packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	store := storage.New()
	if cfg.Seed {
		storage.Seed(store)
		log.Info("seeded bootstrap fixture")
	}

	m := metrics.New()
	svc := service.New(repository.New(store),
		service.WithLogger(log),
		service.WithMetrics(m),
	)
	tokens := token.NewService(cfg.JWTSigningKey)
	router := transporthttp.NewRouter(transporthttp.New(svc, log), tokens, log, m)

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting wardflow", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
