package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/nemanja-m/logscan/pkg/logscan"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// Run is one pass of the counting pipeline over an input.
type Run struct {
	ID          uuid.UUID
	Input       string
	Status      RunStatus
	Workers     int
	Parallelism int
	Lines       int
	Counts      logscan.Counts
	Ranks       []RankResult

	StartedAt   time.Time
	CompletedAt *time.Time

	Error string
}

// Duration returns the elapsed wall-clock time of a finished run.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// RankResult is the local count pair reported by one rank.
type RankResult struct {
	Rank     int
	WorkerID uuid.UUID
	Start    int
	Lines    int
	Counts   logscan.Counts
}

type RunFilter struct {
	Status *RunStatus
	Limit  int
	Offset int
}

// WorkerInfo describes a registered worker. The coordinator itself is rank 0
// and never appears here.
type WorkerInfo struct {
	ID           uuid.UUID
	Rank         int
	Address      string
	Parallelism  int
	RegisteredAt time.Time
	Fetched      bool
	Reported     bool
}
