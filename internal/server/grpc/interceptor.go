package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// loggingInterceptor records every unary call at debug level; health polls
// are frequent and only worth seeing when they fail.
func (s *HealthServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	attrs := []any{
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		s.logger.Warn(ctx, "grpc call failed", append(attrs, "error", err)...)
	} else {
		s.logger.Debug(ctx, "grpc call", attrs...)
	}
	return resp, err
}
