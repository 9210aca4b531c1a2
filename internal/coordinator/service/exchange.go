package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nemanja-m/logscan/internal/coordinator/core"
	"github.com/nemanja-m/logscan/internal/shared/logging"
	"github.com/nemanja-m/logscan/pkg/logscan"
)

var errFragmentSent = errors.New("fragment already sent")

type slot struct {
	worker   *core.WorkerInfo
	start    int
	lines    int
	fragment chan logscan.Fragment
	fetched  chan struct{}
	report   chan core.RankResult
}

// Exchange is the one-shot rendezvous between the coordinator and the
// remote ranks of a run. Rank 0 is the coordinator; ranks 1..worldSize-1 are
// handed out to workers in registration order.
type Exchange struct {
	worldSize int

	mu       sync.Mutex
	byID     map[uuid.UUID]int
	slots    []*slot
	nextRank int
	ready    chan struct{}

	logger logging.Logger
}

func NewExchange(worldSize int, logger logging.Logger) *Exchange {
	e := &Exchange{
		worldSize: worldSize,
		byID:      make(map[uuid.UUID]int),
		slots:     make([]*slot, worldSize),
		nextRank:  1,
		ready:     make(chan struct{}),
		logger:    logger,
	}
	for rank := 1; rank < worldSize; rank++ {
		e.slots[rank] = &slot{
			fragment: make(chan logscan.Fragment, 1),
			fetched:  make(chan struct{}),
			report:   make(chan core.RankResult, 1),
		}
	}
	if worldSize <= 1 {
		close(e.ready)
	}
	return e
}

func (e *Exchange) WorldSize() int {
	return e.worldSize
}

// Register assigns the next free rank to the worker. Registering the same
// worker again returns its existing rank.
func (e *Exchange) Register(id uuid.UUID, addr string, parallelism int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rank, ok := e.byID[id]; ok {
		return rank, nil
	}
	if e.nextRank >= e.worldSize {
		return 0, core.ErrRejected
	}

	rank := e.nextRank
	e.nextRank++
	e.byID[id] = rank
	e.slots[rank].worker = &core.WorkerInfo{
		ID:           id,
		Rank:         rank,
		Address:      addr,
		Parallelism:  parallelism,
		RegisteredAt: time.Now().UTC(),
	}

	e.logger.Info("Worker registered",
		"worker_id", id.String(),
		"rank", rank,
		"registered", rank,
		"expected", e.worldSize-1,
	)

	if e.nextRank == e.worldSize {
		close(e.ready)
	}
	return rank, nil
}

func (e *Exchange) AwaitWorkers(ctx context.Context) error {
	select {
	case <-e.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: waiting for %d workers: %w", logscan.ErrTransport, e.worldSize-1, ctx.Err())
	}
}

func (e *Exchange) SendFragment(ctx context.Context, f logscan.Fragment) error {
	s, err := e.slot(f.Rank)
	if err != nil {
		return err
	}

	e.mu.Lock()
	s.start = f.Start
	s.lines = len(f.Lines)
	e.mu.Unlock()

	select {
	case s.fragment <- f:
	default:
		return fmt.Errorf("rank %d: %w", f.Rank, errFragmentSent)
	}

	select {
	case <-s.fetched:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: rank %d did not fetch its fragment: %w", logscan.ErrTransport, f.Rank, ctx.Err())
	}
}

// FetchFragment blocks until the coordinator has sent the fragment for rank.
// Each fragment can be fetched exactly once.
func (e *Exchange) FetchFragment(ctx context.Context, id uuid.UUID, rank int) (logscan.Fragment, error) {
	s, err := e.owned(id, rank)
	if err != nil {
		return logscan.Fragment{}, err
	}

	e.mu.Lock()
	if s.worker.Fetched {
		e.mu.Unlock()
		return logscan.Fragment{}, fmt.Errorf("rank %d: fragment already fetched", rank)
	}
	e.mu.Unlock()

	select {
	case f := <-s.fragment:
		e.mu.Lock()
		s.worker.Fetched = true
		e.mu.Unlock()
		close(s.fetched)
		return f, nil
	case <-ctx.Done():
		return logscan.Fragment{}, fmt.Errorf("%w: rank %d: %w", logscan.ErrTransport, rank, ctx.Err())
	}
}

// ReportCounts records the counts of a rank that has fetched its fragment.
// The reported line count must match the fragment that was sent.
func (e *Exchange) ReportCounts(id uuid.UUID, rank int, counts logscan.Counts, lines int) error {
	s, err := e.owned(id, rank)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if s.worker.Reported {
		return fmt.Errorf("rank %d: %w", rank, core.ErrDuplicateReport)
	}
	if !s.worker.Fetched {
		return fmt.Errorf("%w: rank %d has not fetched its fragment", core.ErrInvalidReport, rank)
	}
	if lines != s.lines {
		return fmt.Errorf("%w: rank %d reported %d lines, fragment has %d", core.ErrInvalidReport, rank, lines, s.lines)
	}
	s.worker.Reported = true
	s.report <- core.RankResult{
		Rank:     rank,
		WorkerID: id,
		Start:    s.start,
		Lines:    lines,
		Counts:   counts,
	}
	return nil
}

func (e *Exchange) ReceiveCounts(ctx context.Context, rank int) (core.RankResult, error) {
	s, err := e.slot(rank)
	if err != nil {
		return core.RankResult{}, err
	}

	select {
	case result := <-s.report:
		return result, nil
	case <-ctx.Done():
		return core.RankResult{}, fmt.Errorf("%w: rank %d did not report: %w", logscan.ErrTransport, rank, ctx.Err())
	}
}

// Workers returns a snapshot of the registered workers ordered by rank.
func (e *Exchange) Workers() []core.WorkerInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	workers := make([]core.WorkerInfo, 0, len(e.byID))
	for _, rank := range e.byID {
		workers = append(workers, *e.slots[rank].worker)
	}
	slices.SortFunc(workers, func(a, b core.WorkerInfo) int {
		return a.Rank - b.Rank
	})
	return workers
}

func (e *Exchange) slot(rank int) (*slot, error) {
	if rank < 1 || rank >= e.worldSize {
		return nil, fmt.Errorf("rank %d out of range [1, %d)", rank, e.worldSize)
	}
	return e.slots[rank], nil
}

func (e *Exchange) owned(id uuid.UUID, rank int) (*slot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	registered, ok := e.byID[id]
	if !ok || registered != rank {
		return nil, fmt.Errorf("%w: %s is not registered as rank %d", core.ErrUnknownWorker, id, rank)
	}
	return e.slots[rank], nil
}
