package core

import (
	"context"

	"github.com/nemanja-m/logscan/pkg/logscan"
)

// Assignment is what the coordinator tells a worker on registration.
type Assignment struct {
	Rank      int
	WorldSize int
}

type CoordinatorClient interface {
	RegisterWorker(ctx context.Context, addr string, parallelism int) (Assignment, error)
	FetchFragment(ctx context.Context) (logscan.Fragment, error)
	ReportCounts(ctx context.Context, counts logscan.Counts, lines int) error
	Close() error
}

// Result is the outcome of one worker's share of a run.
type Result struct {
	Assignment
	Start  int
	Lines  int
	Counts logscan.Counts
}

type WorkerService interface {
	Run(ctx context.Context) (Result, error)
}
