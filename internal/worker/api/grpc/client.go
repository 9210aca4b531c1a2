package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	"github.com/nemanja-m/logscan/internal/shared/config"
	"github.com/nemanja-m/logscan/internal/shared/proto"
	"github.com/nemanja-m/logscan/internal/worker/core"
	"github.com/nemanja-m/logscan/pkg/logscan"
)

const (
	// MaxMessageSize matches the coordinator's limit for a single fragment.
	MaxMessageSize = 1 << 30

	// DefaultKeepaliveTime must not be below the coordinator's
	// keepalive_min_time, or the coordinator closes the connection.
	DefaultKeepaliveTime = 30 * time.Second
)

type CoordinatorClient struct {
	conn   *grpc.ClientConn
	client proto.CoordinatorServiceClient

	workerID uuid.UUID
	rank     int
}

func NewCoordinatorClient(coordinatorAddr string, cfg config.WorkerGRPCConfig, workerID uuid.UUID, opts ...grpc.DialOption) (*CoordinatorClient, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepaliveParams(cfg)),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(MaxMessageSize)),
	}
	conn, err := grpc.NewClient(coordinatorAddr, append(dialOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to coordinator: %w", logscan.ErrTransport, err)
	}

	c := NewClient(proto.NewCoordinatorServiceClient(conn), workerID)
	c.conn = conn
	return c, nil
}

func keepaliveParams(cfg config.WorkerGRPCConfig) keepalive.ClientParameters {
	params := keepalive.ClientParameters{
		Time:                cfg.KeepaliveTime,
		Timeout:             cfg.KeepaliveTimeout,
		PermitWithoutStream: true,
	}
	if params.Time <= 0 {
		params.Time = DefaultKeepaliveTime
	}
	if params.Timeout <= 0 {
		params.Timeout = 5 * time.Second
	}
	return params
}

// NewClient wraps an existing service client, e.g. an in-process one.
func NewClient(client proto.CoordinatorServiceClient, workerID uuid.UUID) *CoordinatorClient {
	return &CoordinatorClient{
		client:   client,
		workerID: workerID,
	}
}

func (c *CoordinatorClient) WorkerID() uuid.UUID {
	return c.workerID
}

func (c *CoordinatorClient) RegisterWorker(ctx context.Context, addr string, parallelism int) (core.Assignment, error) {
	req := &proto.RegisterWorkerRequest{
		WorkerId:    c.workerID.String(),
		Address:     addr,
		Parallelism: uint32(parallelism),
	}
	resp, err := c.client.RegisterWorker(ctx, req)
	if err != nil {
		return core.Assignment{}, fmt.Errorf("%w: failed to register worker: %w", logscan.ErrTransport, err)
	}

	switch resp.Status {
	case proto.RegistrationStatusSuccess:
	case proto.RegistrationStatusBadRequest:
		return core.Assignment{}, fmt.Errorf("%w: bad request: %s", logscan.ErrTransport, resp.Message)
	case proto.RegistrationStatusRejected:
		return core.Assignment{}, fmt.Errorf("%w: coordinator rejected worker: %s", logscan.ErrTransport, resp.Message)
	default:
		return core.Assignment{}, fmt.Errorf("%w: coordinator failed to register worker: %s", logscan.ErrTransport, resp.Message)
	}

	c.rank = int(resp.Rank)
	return core.Assignment{Rank: int(resp.Rank), WorldSize: int(resp.WorldSize)}, nil
}

func (c *CoordinatorClient) FetchFragment(ctx context.Context) (logscan.Fragment, error) {
	req := &proto.FetchFragmentRequest{
		WorkerId: c.workerID.String(),
		Rank:     uint32(c.rank),
	}
	resp, err := c.client.FetchFragment(ctx, req)
	if err != nil {
		return logscan.Fragment{}, fmt.Errorf("%w: failed to fetch fragment: %w", logscan.ErrTransport, err)
	}
	return resp.Fragment(), nil
}

func (c *CoordinatorClient) ReportCounts(ctx context.Context, counts logscan.Counts, lines int) error {
	req := proto.NewReportCountsRequest(c.workerID.String(), c.rank, counts, lines)
	resp, err := c.client.ReportCounts(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: failed to report counts: %w", logscan.ErrTransport, err)
	}
	if !resp.Acknowledged {
		return fmt.Errorf("%w: coordinator did not acknowledge counts", logscan.ErrTransport)
	}
	return nil
}

func (c *CoordinatorClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
