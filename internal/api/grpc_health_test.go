package api

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"google.golang.org/grpc/health/grpc_health_v1"
)

func TestGRPCHealthFollowsPing(t *testing.T) {
	ctx := context.Background()
	var pingErr error
	h := NewGRPCHealth(func(context.Context) error { return pingErr }, log.New(io.Discard, "", 0))

	if got := h.Refresh(ctx); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("Refresh = %v, want SERVING", got)
	}
	status, err := h.Check(ctx)
	if err != nil || status != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("Check = %v, %v", status, err)
	}

	pingErr = errors.New("db down")
	h.Refresh(ctx)
	status, err = h.Check(ctx)
	if err != nil || status != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Errorf("Check after failure = %v, %v", status, err)
	}
}
