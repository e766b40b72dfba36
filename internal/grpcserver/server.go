// Package grpcserver exposes the standard gRPC health service so
// orchestrators can probe the discovery process.
//
// It handles only transport concerns; search traffic stays on HTTP.
package grpcserver

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName is the health-check name reported while the process runs.
const ServiceName = "discovery.Opportunities"

// StopTimeout bounds how long Stop waits for open streams such as health
// watchers.
const StopTimeout = 5 * time.Second

// Server wraps a grpc.Server with the health service registered.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	log    *zap.Logger
}

// NewServer constructs a Server that reports SERVING for ServiceName and
// for the overall server ("").
func NewServer(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "grpc"))

	s := &Server{health: health.NewServer(), log: log}
	s.grpc = grpc.NewServer(grpc.ChainUnaryInterceptor(s.logUnary))
	healthpb.RegisterHealthServer(s.grpc, s.health)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return s
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	return s.grpc.Serve(lis)
}

// Stop flips every service to NOT_SERVING, so watchers see the drain, then
// waits up to StopTimeout for in-flight RPCs before closing connections.
func (s *Server) Stop() {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(StopTimeout):
		s.log.Warn("gRPC graceful stop timed out, closing connections")
		s.grpc.Stop()
		<-done
	}
	s.log.Info("gRPC server stopped")
}

// logUnary logs every unary call at debug level and failures at warn.
func (s *Server) logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	fields := []zap.Field{
		zap.String("method", info.FullMethod),
		zap.String("code", status.Code(err).String()),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		s.log.Warn("gRPC call failed", append(fields, zap.Error(err))...)
		return resp, err
	}
	s.log.Debug("gRPC call", fields...)
	return resp, nil
}
