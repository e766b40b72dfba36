package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"opportunity/discovery-service/internal/api"
	"opportunity/discovery-service/internal/db"
	"opportunity/discovery-service/internal/grpcserver"
	"opportunity/discovery-service/internal/metrics"
	"opportunity/discovery-service/internal/scheduler"
	"opportunity/discovery-service/internal/store"
)

const (
	maxDBConns      = 10
	shutdownTimeout = 10 * time.Second
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API, gRPC health service and seed refresh",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c)
		},
	}
}

func serve(ctx context.Context, c *cli.Command) error {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Info("Connecting to PostgreSQL")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL, maxDBConns)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	st := store.NewPostgres(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}
	log.Info("PostgreSQL connected")

	// ── Redis (optional) ─────────────────────────────────────────────────────
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		log.Info("Redis connected")
	} else {
		log.Info("REDIS_URL not set, response cache and events disabled")
	}

	// ── Pipeline ─────────────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc, err := newService(cfg, log, st, rdb, m)
	if err != nil {
		return err
	}

	// ── Seed refresh ─────────────────────────────────────────────────────────
	sched := scheduler.New(svc, cfg.SeedQueries, cfg.RefreshIntervalHours, log)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stop()
		sched.Stop()
	}()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	api.NewHandler(svc, log).RegisterRoutes(mux)
	mux.Handle("GET /metrics", m.Handler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.WithRequestLog(mux, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	err = runServers(ctx, log, srv, grpcserver.NewServer(log), ":"+cfg.GRPCPort)
	log.Info("Stopped")
	return err
}

// runServers binds both listeners, gRPC first, then serves until ctx ends or
// either server fails, and shuts both down. A bind failure returns before
// anything is serving.
func runServers(ctx context.Context, log *zap.Logger, srv *http.Server, gs *grpcserver.Server, grpcAddr string) error {
	grpcLis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	httpLis, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		_ = grpcLis.Close()
		return fmt.Errorf("http listen: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", httpLis.Addr().String()), zap.String("version", api.Version))
		if err := srv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		if err := gs.Serve(grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down")
	case runErr = <-errCh:
		log.Error("Server failed, shutting down", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown error", zap.Error(err))
	}
	gs.Stop()
	return runErr
}
