package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nemanja-m/logscan/internal/coordinator/core"
	"github.com/nemanja-m/logscan/internal/shared/logging"
	"github.com/nemanja-m/logscan/pkg/local"
	"github.com/nemanja-m/logscan/pkg/logscan"
)

// Distribute sends every remote rank its share of lines and returns the
// coordinator's own fragment, which is a view of lines and is never
// transferred. It blocks until every remote rank has fetched its fragment.
// The first failed transfer cancels the rest and fails the whole call.
func Distribute(
	ctx context.Context,
	lines logscan.LineSet,
	ranges []logscan.Range,
	transport core.Transport,
	logger logging.Logger,
) (logscan.Fragment, error) {
	if len(ranges) == 0 {
		return logscan.Fragment{}, fmt.Errorf("%w: no partition ranges", logscan.ErrArgument)
	}

	own := logscan.Fragment{
		Rank:  0,
		Start: ranges[0].Start,
		Lines: ranges[0].Slice(lines),
	}
	if len(ranges) == 1 {
		return own, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
	)

	pool := local.NewPool(len(ranges) - 1)
	pool.Start()
	for rank := 1; rank < len(ranges); rank++ {
		f := logscan.Fragment{
			Rank:  rank,
			Start: ranges[rank].Start,
			Lines: ranges[rank].Slice(lines),
		}
		pool.Submit(func() {
			if err := transport.SendFragment(ctx, f); err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			logger.Debug("Fragment delivered", "rank", f.Rank, "start", f.Start, "lines", len(f.Lines))
		})
	}
	pool.Close()

	if firstErr != nil {
		return logscan.Fragment{}, asTransportError(firstErr)
	}
	return own, nil
}

func asTransportError(err error) error {
	if errors.Is(err, logscan.ErrTransport) {
		return err
	}
	return fmt.Errorf("%w: %w", logscan.ErrTransport, err)
}
