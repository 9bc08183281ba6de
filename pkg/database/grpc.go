package database

import (
	"fmt"
	"net"

	"video_library_service/pkg/logger"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer gRPC health service，可依服務狀態切換 SERVING / NOT_SERVING
type HealthServer struct {
	server  *grpc.Server
	health  *health.Server
	service string
}

// NewHealthServer create a gRPC server exposing grpc.health.v1 for service
func NewHealthServer(service string) *HealthServer {
	hs := health.NewServer()
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(service, healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	return &HealthServer{server: srv, health: hs, service: service}
}

// SetServing switch the reported status of the service
func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_SERVING
	if !serving {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus(h.service, status)
	h.health.SetServingStatus("", status)
}

// Serve blocks serving on addr
func (h *HealthServer) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s : %w", addr, err)
	}
	logger.Log.Info("gRPC health server listening", zap.String("addr", addr))
	return h.server.Serve(lis)
}

// ServeListener blocks serving on lis
func (h *HealthServer) ServeListener(lis net.Listener) error {
	return h.server.Serve(lis)
}

// Stop graceful stop
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
