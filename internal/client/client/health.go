package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthChecker probes the server's gRPC health service. It drives the CLI's
// online/offline indicator.
type HealthChecker struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

func NewHealthChecker(addr string) (*HealthChecker, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &HealthChecker{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

// Ping returns nil only when the server reports SERVING.
func (h *HealthChecker) Ping(ctx context.Context) error {
	resp, err := h.client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: status %s", ErrUnavailable, resp.GetStatus())
	}
	return nil
}

func (h *HealthChecker) Close() error {
	return h.conn.Close()
}
