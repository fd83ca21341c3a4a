package api

import (
	"context"
	"log"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCHealth: стандартный grpc.health.v1; статус следует за доступностью БД
type GRPCHealth struct {
	server *grpc.Server
	health *health.Server
	ping   func(ctx context.Context) error
	logger *log.Logger
}

func NewGRPCHealth(ping func(ctx context.Context) error, logger *log.Logger) *GRPCHealth {
	srv := grpc.NewServer()
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, hs)
	return &GRPCHealth{server: srv, health: hs, ping: ping, logger: logger}
}

// Refresh выставляет SERVING или NOT_SERVING по результату ping
func (g *GRPCHealth) Refresh(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err := g.ping(ctx); err != nil {
		g.logger.Printf("⚠️ Health: база недоступна: %v", err)
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	g.health.SetServingStatus("", status)
	return status
}

// Watch обновляет статус раз в interval, пока не отменен ctx
func (g *GRPCHealth) Watch(ctx context.Context, interval time.Duration) {
	g.Refresh(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			g.health.Shutdown()
			return
		case <-ticker.C:
			g.Refresh(ctx)
		}
	}
}

// Serve блокируется до Stop
func (g *GRPCHealth) Serve(lis net.Listener) error {
	g.logger.Printf("📡 gRPC health server starting on %s", lis.Addr())
	return g.server.Serve(lis)
}

func (g *GRPCHealth) Stop() {
	g.server.GracefulStop()
}

// Check: то же, что вернет клиенту grpc.health.v1.Health/Check
func (g *GRPCHealth) Check(ctx context.Context) (grpc_health_v1.HealthCheckResponse_ServingStatus, error) {
	resp, err := g.health.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}
