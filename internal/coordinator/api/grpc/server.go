package grpc

import (
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"github.com/nemanja-m/logscan/internal/coordinator/core"
	"github.com/nemanja-m/logscan/internal/shared/config"
	"github.com/nemanja-m/logscan/internal/shared/logging"
	"github.com/nemanja-m/logscan/internal/shared/proto"
)

type Server struct {
	grpcServer *grpc.Server
	logger     logging.Logger
}

func NewServer(
	cfg config.GRPCConfig,
	registry core.WorkerRegistry,
	logger logging.Logger,
) *Server {
	grpcServer := grpc.NewServer(
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             cfg.KeepaliveMinTime,
			PermitWithoutStream: true,
		}),
		// Fragments of large files exceed the 4MB default.
		grpc.MaxRecvMsgSize(MaxMessageSize),
		grpc.MaxSendMsgSize(MaxMessageSize),
	)

	proto.RegisterCoordinatorServiceServer(grpcServer, NewCoordinatorService(registry, logger))

	return &Server{
		grpcServer: grpcServer,
		logger:     logger,
	}
}

const (
	// MaxMessageSize bounds a single fragment transfer.
	MaxMessageSize = 1 << 30

	shutdownGracePeriod = 5 * time.Second
)

func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("Starting coordinator gRPC server", "addr", lis.Addr().String())
	return s.grpcServer.Serve(lis)
}

// Stop waits for in-flight calls to finish. Calls still blocked after the
// grace period, such as workers waiting on a failed run, are cancelled.
func (s *Server) Stop() {
	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(shutdownGracePeriod):
		s.grpcServer.Stop()
	}
}
