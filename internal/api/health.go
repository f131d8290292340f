package api

import (
	"fmt"
	"log"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer exposes the standard gRPC health service. It reports SERVING
// between Serve and Stop.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
}

// NewHealthServer creates a gRPC server with the health service registered.
func NewHealthServer() *HealthServer {
	s := &HealthServer{server: grpc.NewServer(), health: health.NewServer()}
	healthpb.RegisterHealthServer(s.server, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Serve marks the engine as serving and handles requests on ln in the background.
func (s *HealthServer) Serve(ln net.Listener) {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	go func() {
		log.Printf("gRPC health server starting on %s", ln.Addr())
		if err := s.server.Serve(ln); err != nil {
			log.Printf("gRPC health server failed: %v", err)
		}
	}()
}

// ListenAndServe listens on addr and calls Serve.
func (s *HealthServer) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", addr, err)
	}
	s.Serve(ln)
	return nil
}

// Stop reports NOT_SERVING to watchers and shuts the server down.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
	log.Println("gRPC health server stopped.")
}
