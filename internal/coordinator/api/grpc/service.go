package grpc

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nemanja-m/logscan/internal/coordinator/core"
	"github.com/nemanja-m/logscan/internal/shared/logging"
	"github.com/nemanja-m/logscan/internal/shared/proto"
)

type CoordinatorService struct {
	proto.UnimplementedCoordinatorServiceServer

	registry core.WorkerRegistry

	logger logging.Logger
}

func NewCoordinatorService(registry core.WorkerRegistry, logger logging.Logger) *CoordinatorService {
	return &CoordinatorService{
		registry: registry,
		logger:   logger,
	}
}

func (s *CoordinatorService) RegisterWorker(
	ctx context.Context,
	req *proto.RegisterWorkerRequest,
) (*proto.RegisterWorkerResponse, error) {
	workerID, err := uuid.Parse(req.WorkerId)
	if err != nil {
		s.logger.Error("Invalid worker ID format", "worker_id", req.WorkerId, "error", err)
		return &proto.RegisterWorkerResponse{
			Status:  proto.RegistrationStatusBadRequest,
			Message: "Invalid worker ID format. Expected UUID.",
		}, nil
	}

	s.logger.Debug("Received worker registration", "worker_id", workerID.String(), "address", req.Address)

	rank, err := s.registry.Register(workerID, req.Address, int(req.Parallelism))
	if errors.Is(err, core.ErrRejected) {
		s.logger.Warn("Worker rejected", "worker_id", workerID.String(), "world_size", s.registry.WorldSize())
		return &proto.RegisterWorkerResponse{
			Status:    proto.RegistrationStatusRejected,
			Message:   err.Error(),
			WorldSize: uint32(s.registry.WorldSize()),
		}, nil
	}
	if err != nil {
		s.logger.Error("Failed to register worker", "worker_id", workerID.String(), "error", err)
		return &proto.RegisterWorkerResponse{
			Status:  proto.RegistrationStatusFailed,
			Message: err.Error(),
		}, nil
	}

	return &proto.RegisterWorkerResponse{
		Status:    proto.RegistrationStatusSuccess,
		Message:   "OK",
		Rank:      uint32(rank),
		WorldSize: uint32(s.registry.WorldSize()),
	}, nil
}

func (s *CoordinatorService) FetchFragment(
	ctx context.Context,
	req *proto.FetchFragmentRequest,
) (*proto.FetchFragmentResponse, error) {
	workerID, err := uuid.Parse(req.WorkerId)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid worker ID %q", req.WorkerId)
	}

	fragment, err := s.registry.FetchFragment(ctx, workerID, int(req.Rank))
	if err != nil {
		s.logger.Error("Failed to hand out fragment", "worker_id", workerID.String(), "rank", req.Rank, "error", err)
		return nil, toStatus(ctx, err)
	}

	s.logger.Debug("Fragment fetched",
		"worker_id", workerID.String(),
		"rank", fragment.Rank,
		"start", fragment.Start,
		"lines", len(fragment.Lines),
		"bytes", fragment.Lines.Bytes(),
	)
	return proto.NewFetchFragmentResponse(fragment), nil
}

func (s *CoordinatorService) ReportCounts(
	ctx context.Context,
	req *proto.ReportCountsRequest,
) (*proto.ReportCountsResponse, error) {
	workerID, err := uuid.Parse(req.WorkerId)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid worker ID %q", req.WorkerId)
	}

	if err := s.registry.ReportCounts(workerID, int(req.Rank), req.Counts(), int(req.Lines)); err != nil {
		s.logger.Error("Failed to record counts", "worker_id", workerID.String(), "rank", req.Rank, "error", err)
		return nil, toStatus(ctx, err)
	}

	s.logger.Debug("Counts reported",
		"worker_id", workerID.String(),
		"rank", req.Rank,
		"warnings", req.Warnings,
		"errors", req.Errors,
	)
	return &proto.ReportCountsResponse{Acknowledged: true}, nil
}

func toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, core.ErrUnknownWorker):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, core.ErrDuplicateReport):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, core.ErrInvalidReport):
		return status.Error(codes.FailedPrecondition, err.Error())
	case ctx.Err() != nil:
		return status.FromContextError(ctx.Err()).Err()
	default:
		return status.Error(codes.FailedPrecondition, err.Error())
	}
}
