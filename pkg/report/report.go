// Package report renders the summary of a finished scan.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/nemanja-m/logscan/pkg/logscan"
)

const title = "Hybrid Log Analyzer"

type Result struct {
	Workers int
	Threads int
	Counts  logscan.Counts
	Elapsed time.Duration
}

// Write prints the result block. Elapsed time is reported in seconds with
// four decimals.
func Write(w io.Writer, r Result) error {
	_, err := fmt.Fprintf(w,
		"%s\nProcesses: %d\nThreads per process: %d\nTotal WARNING lines: %d\nTotal ERROR lines: %d\nExecution time: %.4f seconds\n",
		title,
		r.Workers,
		r.Threads,
		r.Counts.Warnings,
		r.Counts.Errors,
		r.Elapsed.Seconds(),
	)
	return err
}
