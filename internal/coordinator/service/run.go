package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nemanja-m/logscan/internal/coordinator/core"
	"github.com/nemanja-m/logscan/internal/shared/logging"
	"github.com/nemanja-m/logscan/pkg/local"
	"github.com/nemanja-m/logscan/pkg/logscan"
)

type runService struct {
	workers   int
	transport core.Transport
	scanner   logscan.Scanner
	store     core.RunStore
	load      func(input string) (logscan.LineSet, error)
	logger    logging.Logger
}

func NewRunService(
	workers int,
	transport core.Transport,
	scanner logscan.Scanner,
	store core.RunStore,
	logger logging.Logger,
) core.RunService {
	return &runService{
		workers:   workers,
		transport: transport,
		scanner:   scanner,
		store:     store,
		load:      local.LoadPattern,
		logger:    logger,
	}
}

// Run waits for every rank to register, then loads the input, splits it
// across all ranks, scans the coordinator's own share and reduces every
// rank's counts into the run totals. StartedAt is reset once all ranks are
// present. Any error is fatal for the run; the returned run is still
// populated and persisted with status FAILED.
func (s *runService) Run(ctx context.Context, input string) (*core.Run, error) {
	run := &core.Run{
		ID:          uuid.New(),
		Input:       input,
		Status:      core.RunStatusRunning,
		Workers:     s.workers,
		Parallelism: s.scanner.Parallelism(),
		StartedAt:   time.Now().UTC(),
	}
	s.save(run)

	s.logger.Info("Run started",
		"run_id", run.ID.String(),
		"input", input,
		"workers", s.workers,
		"parallelism", run.Parallelism,
	)

	err := s.execute(ctx, run)

	completedAt := time.Now().UTC()
	run.CompletedAt = &completedAt
	if err != nil {
		run.Status = core.RunStatusFailed
		run.Error = err.Error()
		s.logger.Error("Run failed", "run_id", run.ID.String(), "error", err)
	} else {
		run.Status = core.RunStatusCompleted
		s.logger.Info("Run completed",
			"run_id", run.ID.String(),
			"lines", run.Lines,
			"warnings", run.Counts.Warnings,
			"errors", run.Counts.Errors,
			"duration", run.Duration().String(),
		)
	}
	s.save(run)

	return run, err
}

func (s *runService) execute(ctx context.Context, run *core.Run) error {
	if run.Input == "" {
		return fmt.Errorf("%w: input path is required", logscan.ErrArgument)
	}
	if s.workers < 1 {
		return fmt.Errorf("%w: worker count must be positive, got %d", logscan.ErrArgument, s.workers)
	}

	if s.workers > 1 {
		s.logger.Info("Waiting for workers", "expected", s.workers-1)
	}
	if err := s.transport.AwaitWorkers(ctx); err != nil {
		return err
	}
	// Elapsed time covers the run itself, not the wait for registrations.
	run.StartedAt = time.Now().UTC()

	lines, err := s.load(run.Input)
	if err != nil {
		return err
	}
	run.Lines = len(lines)

	ranges, err := logscan.Partition(len(lines), s.workers)
	if err != nil {
		return err
	}

	own, err := Distribute(ctx, lines, ranges, s.transport, s.logger)
	if err != nil {
		return err
	}

	results := make([]core.RankResult, 0, s.workers)
	results = append(results, core.RankResult{
		Rank:   0,
		Start:  own.Start,
		Lines:  len(own.Lines),
		Counts: s.scanner.Scan(own.Lines),
	})

	for rank := 1; rank < s.workers; rank++ {
		result, err := s.transport.ReceiveCounts(ctx, rank)
		if err != nil {
			return asTransportError(err)
		}
		s.logger.Debug("Counts received",
			"rank", rank,
			"lines", result.Lines,
			"warnings", result.Counts.Warnings,
			"errors", result.Counts.Errors,
		)
		results = append(results, result)
	}

	pairs := make([]logscan.Counts, len(results))
	for i, r := range results {
		pairs[i] = r.Counts
	}
	run.Ranks = results
	run.Counts = logscan.Reduce(pairs...)
	return nil
}

func (s *runService) save(run *core.Run) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveRun(run); err != nil {
		s.logger.Error("Failed to save run", "run_id", run.ID.String(), "error", err)
	}
}
