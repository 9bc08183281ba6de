package database

import (
	"context"
	"net"
	"testing"
	"time"

	"video_library_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestHealthServer(t *testing.T) {
	logger.SetNewNop()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	hs := NewHealthServer("library_service")
	go func() { _ = hs.ServeListener(lis) }()
	defer hs.Stop()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	check := func(service string) healthpb.HealthCheckResponse_ServingStatus {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		res, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		return res.Status
	}

	t.Run("預設 SERVING", func(t *testing.T) {
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check("library_service"))
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(""))
	})

	t.Run("切換 NOT_SERVING 再切回", func(t *testing.T) {
		hs.SetServing(false)
		assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check("library_service"))
		assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(""))

		hs.SetServing(true)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check("library_service"))
	})
}
