package storage

import (
	"fmt"

	"github.com/nemanja-m/logscan/internal/coordinator/core"
	"github.com/nemanja-m/logscan/internal/shared/config"
)

// Open returns the run store selected by cfg.
func Open(cfg config.StorageConfig) (core.RunStore, error) {
	switch cfg.Driver {
	case "", config.StorageDriverMemory:
		return NewInMemoryRunStore(), nil
	case config.StorageDriverSQLite:
		return OpenSQLiteRunStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
