package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nemanja-m/logscan/internal/coordinator/core"
	"github.com/nemanja-m/logscan/internal/shared/config"
	"github.com/nemanja-m/logscan/pkg/logscan"
)

func newRun(status core.RunStatus, startedAt time.Time) *core.Run {
	run := &core.Run{
		ID:          uuid.New(),
		Input:       "/var/log/app.log",
		Status:      status,
		Workers:     2,
		Parallelism: 4,
		StartedAt:   startedAt,
	}
	if status != core.RunStatusRunning {
		completedAt := startedAt.Add(1500 * time.Millisecond)
		run.CompletedAt = &completedAt
	}
	if status == core.RunStatusCompleted {
		run.Lines = 4
		run.Counts = logscan.Counts{Warnings: 2, Errors: 1}
		run.Ranks = []core.RankResult{
			{Rank: 0, Start: 0, Lines: 2, Counts: logscan.Counts{Warnings: 1}},
			{Rank: 1, WorkerID: uuid.New(), Start: 2, Lines: 2, Counts: logscan.Counts{Warnings: 1, Errors: 1}},
		}
	}
	if status == core.RunStatusFailed {
		run.Error = "transport error: rank 1 did not report"
	}
	return run
}

func storeImplementations(t *testing.T) map[string]core.RunStore {
	sqliteStore, err := OpenSQLiteRunStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]core.RunStore{
		"memory": NewInMemoryRunStore(),
		"sqlite": sqliteStore,
	}
}

func TestRunStore_SaveAndGet(t *testing.T) {
	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			run := newRun(core.RunStatusCompleted, time.Unix(1700000000, 0).UTC())
			require.NoError(t, store.SaveRun(run))

			got, err := store.GetRun(run.ID)
			require.NoError(t, err)
			require.Equal(t, run, got)
		})
	}
}

func TestRunStore_SaveUpdatesExistingRun(t *testing.T) {
	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			run := newRun(core.RunStatusRunning, time.Unix(1700000000, 0).UTC())
			require.NoError(t, store.SaveRun(run))

			completedAt := run.StartedAt.Add(time.Second)
			run.Status = core.RunStatusCompleted
			run.CompletedAt = &completedAt
			run.Lines = 10
			run.Counts = logscan.Counts{Warnings: 3, Errors: 4}
			require.NoError(t, store.SaveRun(run))

			got, err := store.GetRun(run.ID)
			require.NoError(t, err)
			require.Equal(t, core.RunStatusCompleted, got.Status)
			require.Equal(t, logscan.Counts{Warnings: 3, Errors: 4}, got.Counts)
			require.Equal(t, time.Second, got.Duration())

			_, total, err := store.GetRuns(core.RunFilter{})
			require.NoError(t, err)
			require.Equal(t, 1, total)
		})
	}
}

func TestRunStore_GetRunNotFound(t *testing.T) {
	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.GetRun(uuid.New())
			require.ErrorIs(t, err, core.ErrRunNotFound)
		})
	}
}

func TestRunStore_GetRunsFilterAndPagination(t *testing.T) {
	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			base := time.Unix(1700000000, 0).UTC()
			oldest := newRun(core.RunStatusCompleted, base)
			middle := newRun(core.RunStatusFailed, base.Add(time.Minute))
			newest := newRun(core.RunStatusCompleted, base.Add(2*time.Minute))
			for _, run := range []*core.Run{oldest, middle, newest} {
				require.NoError(t, store.SaveRun(run))
			}

			runs, total, err := store.GetRuns(core.RunFilter{})
			require.NoError(t, err)
			require.Equal(t, 3, total)
			require.Len(t, runs, 3)
			require.Equal(t, newest.ID, runs[0].ID)
			require.Equal(t, oldest.ID, runs[2].ID)

			completed := core.RunStatusCompleted
			runs, total, err = store.GetRuns(core.RunFilter{Status: &completed})
			require.NoError(t, err)
			require.Equal(t, 2, total)
			require.Len(t, runs, 2)

			runs, total, err = store.GetRuns(core.RunFilter{Limit: 1, Offset: 1})
			require.NoError(t, err)
			require.Equal(t, 3, total)
			require.Len(t, runs, 1)
			require.Equal(t, middle.ID, runs[0].ID)

			runs, _, err = store.GetRuns(core.RunFilter{Offset: 10})
			require.NoError(t, err)
			require.Empty(t, runs)
		})
	}
}

func TestInMemoryRunStore_CopiesRuns(t *testing.T) {
	store := NewInMemoryRunStore()
	run := newRun(core.RunStatusCompleted, time.Now().UTC())
	require.NoError(t, store.SaveRun(run))

	run.Status = core.RunStatusFailed
	run.Ranks[0].Lines = 99

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	require.Equal(t, core.RunStatusCompleted, got.Status)
	require.Equal(t, 2, got.Ranks[0].Lines)
}

func TestOpen(t *testing.T) {
	store, err := Open(config.StorageConfig{Driver: config.StorageDriverMemory})
	require.NoError(t, err)
	require.IsType(t, &InMemoryRunStore{}, store)

	store, err = Open(config.StorageConfig{Driver: config.StorageDriverSQLite, DSN: filepath.Join(t.TempDir(), "runs.db")})
	require.NoError(t, err)
	require.IsType(t, &SQLiteRunStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open(config.StorageConfig{Driver: "postgres"})
	require.Error(t, err)
}
