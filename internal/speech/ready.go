package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ProbeReady dials the engine's gRPC endpoint and verifies it reports a
// serving health status.
func ProbeReady(ctx context.Context, endpoint string, timeout time.Duration) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return errors.New("grpc endpoint is empty")
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	creds := grpc.WithTransportCredentials(insecure.NewCredentials())
	conn, err := grpc.NewClient(endpoint, creds)
	if err != nil {
		return fmt.Errorf("dial engine grpc %q: %w", endpoint, err)
	}
	defer func() { _ = conn.Close() }()

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn.Connect()
	if err := waitForReady(probeCtx, conn); err != nil {
		return fmt.Errorf("engine grpc not ready: %w", err)
	}

	resp, err := healthpb.NewHealthClient(conn).Check(probeCtx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("engine health check: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("engine reports health status %s", resp.GetStatus().String())
	}
	return nil
}

// waitForReady watches connectivity transitions until the link is usable or
// the context expires.
func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	for state := conn.GetState(); ; state = conn.GetState() {
		if state == connectivity.Ready {
			return nil
		}
		if state == connectivity.Shutdown {
			return errors.New("grpc connection is shut down")
		}
		if conn.WaitForStateChange(ctx, state) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("grpc never became ready; last state %s", state)
	}
}
