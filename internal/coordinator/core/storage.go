package core

import (
	"errors"

	"github.com/google/uuid"
)

var ErrRunNotFound = errors.New("run not found")

type RunStore interface {
	SaveRun(run *Run) error
	GetRun(id uuid.UUID) (*Run, error)
	GetRuns(filter RunFilter) ([]*Run, int, error)
	Close() error
}
