package core

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nemanja-m/logscan/pkg/logscan"
)

var (
	ErrRejected        = errors.New("worker rejected: topology is full")
	ErrUnknownWorker   = errors.New("unknown worker")
	ErrDuplicateReport = errors.New("counts already reported")
	ErrInvalidReport   = errors.New("invalid counts report")
)

// Transport moves fragments out to remote ranks and count pairs back in.
// Every blocking call fails with logscan.ErrTransport once ctx is done.
type Transport interface {
	// AwaitWorkers blocks until every remote rank has registered.
	AwaitWorkers(ctx context.Context) error
	// SendFragment hands f to rank f.Rank and blocks until it was fetched.
	SendFragment(ctx context.Context, f logscan.Fragment) error
	// ReceiveCounts blocks until rank has reported its local counts.
	ReceiveCounts(ctx context.Context, rank int) (RankResult, error)
}

// WorkerRegistry is the worker-facing side of a run.
type WorkerRegistry interface {
	WorldSize() int
	Register(id uuid.UUID, addr string, parallelism int) (int, error)
	FetchFragment(ctx context.Context, id uuid.UUID, rank int) (logscan.Fragment, error)
	ReportCounts(id uuid.UUID, rank int, counts logscan.Counts, lines int) error
	Workers() []WorkerInfo
}

// RunService executes the counting pipeline as rank 0.
type RunService interface {
	Run(ctx context.Context, input string) (*Run, error)
}
