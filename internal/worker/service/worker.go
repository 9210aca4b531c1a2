package service

import (
	"context"
	"time"

	"github.com/nemanja-m/logscan/internal/shared/logging"
	"github.com/nemanja-m/logscan/internal/worker/core"
	"github.com/nemanja-m/logscan/pkg/logscan"
)

type workerService struct {
	client  core.CoordinatorClient
	scanner logscan.Scanner
	addr    string
	logger  logging.Logger
}

func NewWorkerService(
	client core.CoordinatorClient,
	scanner logscan.Scanner,
	addr string,
	logger logging.Logger,
) core.WorkerService {
	return &workerService{
		client:  client,
		scanner: scanner,
		addr:    addr,
		logger:  logger,
	}
}

// Run registers with the coordinator, fetches this worker's fragment, scans
// it and reports the local counts. Every step happens exactly once; any
// failure ends the worker.
func (w *workerService) Run(ctx context.Context) (core.Result, error) {
	assignment, err := w.client.RegisterWorker(ctx, w.addr, w.scanner.Parallelism())
	if err != nil {
		return core.Result{}, err
	}
	w.logger.Info("Registered with coordinator",
		"rank", assignment.Rank,
		"world_size", assignment.WorldSize,
		"parallelism", w.scanner.Parallelism(),
	)

	fragment, err := w.client.FetchFragment(ctx)
	if err != nil {
		return core.Result{}, err
	}
	w.logger.Debug("Fragment received",
		"rank", assignment.Rank,
		"start", fragment.Start,
		"lines", len(fragment.Lines),
		"bytes", fragment.Lines.Bytes(),
	)

	start := time.Now()
	counts := w.scanner.Scan(fragment.Lines)
	w.logger.Debug("Fragment scanned",
		"rank", assignment.Rank,
		"warnings", counts.Warnings,
		"errors", counts.Errors,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if err := w.client.ReportCounts(ctx, counts, len(fragment.Lines)); err != nil {
		return core.Result{}, err
	}

	w.logger.Info("Counts reported",
		"rank", assignment.Rank,
		"lines", len(fragment.Lines),
		"warnings", counts.Warnings,
		"errors", counts.Errors,
	)

	return core.Result{
		Assignment: assignment,
		Start:      fragment.Start,
		Lines:      len(fragment.Lines),
		Counts:     counts,
	}, nil
}
