// Package health поднимает стандартный gRPC health-сервис рядом с HTTP-сервером.
// Статус SERVING выставляется, пока база данных отвечает на ping.
package health

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
)

// ServiceName — имя сервиса в health-протоколе.
const ServiceName = "streamflix.billing"

const pingTimeout = 2 * time.Second

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server — gRPC-сервер со службой grpc.health.v1.Health.
type Server struct {
	grpcServer *grpc.Server
	health     *grpchealth.Server
	db         Pinger
	interval   time.Duration
	log        *slog.Logger
}

// NewServer создаёт сервер. До первой проверки статус NOT_SERVING.
func NewServer(db Pinger, interval time.Duration, log *slog.Logger) *Server {
	hs := grpchealth.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	return &Server{
		grpcServer: gs,
		health:     hs,
		db:         db,
		interval:   interval,
		log:        log,
	}
}

// Check пингует базу и обновляет статус.
func (s *Server) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	const op = "grpc.health.Check"
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.Ping(pingCtx); err != nil {
		s.log.Warn("database ping failed", slog.String("op", op), sl.Err(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Watch периодически обновляет статус до отмены ctx.
func (s *Server) Watch(ctx context.Context) {
	s.Check(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Serve обслуживает соединения на lis до остановки.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("gRPC health service listening on", slog.String("address", lis.Addr().String()))
	return s.grpcServer.Serve(lis)
}

// Stop переводит статус в NOT_SERVING и дожидается завершения запросов.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
