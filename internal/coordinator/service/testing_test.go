package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nemanja-m/logscan/internal/coordinator/core"
	"github.com/nemanja-m/logscan/pkg/local"
	"github.com/nemanja-m/logscan/pkg/logscan"
)

// startWorkers runs n in-process workers against registry, each scanning
// its fragment with the given parallelism.
func startWorkers(t *testing.T, ctx context.Context, registry core.WorkerRegistry, n, parallelism int) <-chan error {
	t.Helper()

	errs := make(chan error, n)
	for range n {
		go func() {
			id := uuid.New()
			rank, err := registry.Register(id, "", parallelism)
			if err != nil {
				errs <- err
				return
			}
			fragment, err := registry.FetchFragment(ctx, id, rank)
			if err != nil {
				errs <- err
				return
			}
			counts := local.NewScanner(parallelism).Scan(fragment.Lines)
			errs <- registry.ReportCounts(id, rank, counts, len(fragment.Lines))
		}()
	}
	return errs
}

// failingTransport fails sends to one rank and delivers the rest.
type failingTransport struct {
	failRank int
	sent     chan int
}

func (f *failingTransport) AwaitWorkers(context.Context) error {
	return nil
}

func (f *failingTransport) SendFragment(ctx context.Context, fragment logscan.Fragment) error {
	if fragment.Rank == f.failRank {
		return errors.New("connection reset by peer")
	}
	if f.sent != nil {
		f.sent <- fragment.Rank
	}
	return nil
}

func (f *failingTransport) ReceiveCounts(ctx context.Context, rank int) (core.RankResult, error) {
	return core.RankResult{}, errors.New("unreachable")
}

// slowRegistration delays AwaitWorkers to stand in for workers that take a
// while to start.
type slowRegistration struct {
	core.Transport
	delay time.Duration
}

func (s *slowRegistration) AwaitWorkers(ctx context.Context) error {
	time.Sleep(s.delay)
	return s.Transport.AwaitWorkers(ctx)
}
