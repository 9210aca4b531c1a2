// Package hybrid runs a complete coordinator and worker topology inside one
// process. Ranks still exchange only encoded messages, never line memory.
package hybrid

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	coordinatorgrpc "github.com/nemanja-m/logscan/internal/coordinator/api/grpc"
	"github.com/nemanja-m/logscan/internal/coordinator/core"
	"github.com/nemanja-m/logscan/internal/coordinator/service"
	"github.com/nemanja-m/logscan/internal/shared/logging"
	"github.com/nemanja-m/logscan/internal/shared/proto"
	workergrpc "github.com/nemanja-m/logscan/internal/worker/api/grpc"
	workerservice "github.com/nemanja-m/logscan/internal/worker/service"
	"github.com/nemanja-m/logscan/pkg/local"
	"github.com/nemanja-m/logscan/pkg/logscan"
)

type Config struct {
	Input string
	// Workers is the number of ranks, the coordinator included.
	Workers int
	// Parallelism is the number of scan tasks per rank; zero means one per CPU.
	Parallelism int
}

type Engine struct {
	config Config
	store  core.RunStore
	logger logging.Logger
}

// NewEngine creates an engine. The store may be nil.
func NewEngine(config Config, store core.RunStore, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Engine{config: config, store: store, logger: logger}
}

// Threads returns the effective number of scan tasks per rank.
func (e *Engine) Threads() int {
	return local.NewScanner(e.config.Parallelism).Parallelism()
}

// Run executes one scan of the configured input. The first failure of any
// rank cancels the others and is the error returned.
func (e *Engine) Run(ctx context.Context) (*core.Run, error) {
	if e.config.Workers < 1 {
		return nil, fmt.Errorf("%w: worker count must be positive, got %d", logscan.ErrArgument, e.config.Workers)
	}
	if e.config.Parallelism < 0 {
		return nil, fmt.Errorf("%w: parallelism must not be negative, got %d", logscan.ErrArgument, e.config.Parallelism)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	exchange := service.NewExchange(e.config.Workers, e.logger)
	server := coordinatorgrpc.NewCoordinatorService(exchange, e.logger)

	var wg sync.WaitGroup
	for range e.config.Workers - 1 {
		wg.Go(func() {
			client := workergrpc.NewClient(proto.NewLocalCoordinatorServiceClient(server), uuid.New())
			worker := workerservice.NewWorkerService(client, local.NewScanner(e.config.Parallelism), "", e.logger)
			if _, err := worker.Run(ctx); err != nil {
				fail(err)
			}
		})
	}

	runService := service.NewRunService(
		e.config.Workers,
		exchange,
		local.NewScanner(e.config.Parallelism),
		e.store,
		e.logger,
	)
	run, err := runService.Run(ctx, e.config.Input)
	if err != nil {
		fail(err)
	}
	wg.Wait()

	return run, firstErr
}
