package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"jobeval/internal/evaluation/handler"
	"jobeval/internal/jwttoken"
	"jobeval/internal/platform/httpserver"
	"jobeval/internal/platform/metrics"
	"jobeval/internal/platform/middleware"
	httptransport "jobeval/internal/transport/http"
)

func newServeCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the evaluation HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	_ = opts.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func runServe(ctx context.Context, opts *options) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := build(ctx, cfg, logger, prometheus.DefaultRegisterer, staticFlags{}, true)
	if err != nil {
		return err
	}
	defer c.close()

	var auth middleware.JWTValidator
	if cfg.AuthEnabled() {
		tokens := jwttoken.NewService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
		auth = jwttoken.NewServiceAdapter(tokens)
	} else {
		logger.Warn("auth.jwt_signing_key is empty, API routes are unauthenticated")
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    logger,
		Metrics:   metrics.New(),
		Readiness: c.service,
		Auth:      auth,
		Modules:   []httptransport.RouteRegistrar{handler.New(c.service, logger)},
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	// The audit worker outlives the listener so events from in-flight
	// requests are drained after Shutdown returns.
	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorker()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting jobeval", "addr", cfg.Server.Addr, "auth", cfg.AuthEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		stopWorker()
		return err
	})
	g.Go(func() error {
		if err := c.worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	for _, job := range c.background {
		g.Go(func() error {
			if err := job(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
