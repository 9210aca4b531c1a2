package local

import (
	"runtime"

	"github.com/nemanja-m/logscan/pkg/logscan"
)

// Scanner counts marker lines using a bounded number of concurrent tasks.
type Scanner struct {
	parallelism int
}

// NewScanner returns a scanner running up to parallelism tasks. A
// non-positive value uses every available CPU.
func NewScanner(parallelism int) *Scanner {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	return &Scanner{parallelism: parallelism}
}

func (s *Scanner) Parallelism() int {
	return s.parallelism
}

// Scan splits lines into balanced slices, counts each slice on its own task
// and sums the per-task results once all tasks are done.
func (s *Scanner) Scan(lines logscan.LineSet) logscan.Counts {
	ranges, err := logscan.Partition(len(lines), s.parallelism)
	if err != nil {
		// parallelism is always positive
		panic(err)
	}

	partials := make([]logscan.Counts, len(ranges))

	pool := NewPool(s.parallelism)
	pool.Start()
	for i, r := range ranges {
		if r.Empty() {
			continue
		}
		slice := r.Slice(lines)
		pool.Submit(func() {
			partials[i] = logscan.CountLines(slice)
		})
	}
	pool.Close()

	return logscan.Reduce(partials...)
}
