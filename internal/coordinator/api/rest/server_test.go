package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nemanja-m/logscan/internal/coordinator/core"
	"github.com/nemanja-m/logscan/internal/coordinator/storage"
	"github.com/nemanja-m/logscan/internal/shared/config"
	"github.com/nemanja-m/logscan/pkg/logscan"
)

type stubWorkers struct {
	worldSize int
	workers   []core.WorkerInfo
}

func (s stubWorkers) WorldSize() int             { return s.worldSize }
func (s stubWorkers) Workers() []core.WorkerInfo { return s.workers }

func newTestMux(t *testing.T, store core.RunStore, workers WorkerLister) *http.ServeMux {
	t.Helper()

	mux := http.NewServeMux()
	NewAPI(store, workers, newMockLogger()).RegisterRoutes(mux)
	return mux
}

func saveRun(t *testing.T, store core.RunStore, status core.RunStatus, startedAt time.Time) *core.Run {
	t.Helper()

	completedAt := startedAt.Add(1500 * time.Millisecond)
	run := &core.Run{
		ID:          uuid.New(),
		Input:       "/var/log/app.log",
		Status:      status,
		Workers:     2,
		Parallelism: 4,
		Lines:       10,
		Counts:      logscan.Counts{Warnings: 3, Errors: 2},
		Ranks: []core.RankResult{
			{Rank: 0, Start: 0, Lines: 5, Counts: logscan.Counts{Warnings: 1, Errors: 1}},
			{Rank: 1, WorkerID: uuid.New(), Start: 5, Lines: 5, Counts: logscan.Counts{Warnings: 2, Errors: 1}},
		},
		StartedAt:   startedAt,
		CompletedAt: &completedAt,
	}
	require.NoError(t, store.SaveRun(run))
	return run
}

func serve(t *testing.T, mux http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestGetRun(t *testing.T) {
	store := storage.NewInMemoryRunStore()
	run := saveRun(t, store, core.RunStatusCompleted, time.Now().UTC())
	mux := newTestMux(t, store, nil)

	w := serve(t, mux, "/api/runs/"+run.ID.String())
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp GetRunResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, run.ID.String(), resp.RunID)
	require.Equal(t, "COMPLETED", resp.Status)
	require.Equal(t, CountsInfo{Warnings: 3, Errors: 2}, resp.Counts)
	require.Len(t, resp.Ranks, 2)
	require.Empty(t, resp.Ranks[0].WorkerID)
	require.Equal(t, run.Ranks[1].WorkerID.String(), resp.Ranks[1].WorkerID)
	require.InDelta(t, 1.5, resp.DurationSeconds, 1e-9)
}

func TestGetRun_Errors(t *testing.T) {
	mux := newTestMux(t, storage.NewInMemoryRunStore(), nil)

	w := serve(t, mux, "/api/runs/not-a-uuid")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, mux, "/api/runs/"+uuid.NewString())
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "run not found", resp.Error)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListRuns(t *testing.T) {
	store := storage.NewInMemoryRunStore()
	base := time.Now().UTC()
	for i := range 5 {
		saveRun(t, store, core.RunStatusCompleted, base.Add(time.Duration(i)*time.Second))
	}
	failed := saveRun(t, store, core.RunStatusFailed, base.Add(10*time.Second))
	mux := newTestMux(t, store, nil)

	w := serve(t, mux, "/api/runs?limit=2&offset=1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListRunsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, 6, resp.Total)
	require.Equal(t, 2, resp.Limit)
	require.Len(t, resp.Runs, 2)
	require.NotNil(t, resp.NextOffset)
	require.Equal(t, 3, *resp.NextOffset)

	w = serve(t, mux, "/api/runs?status=failed")
	require.Equal(t, http.StatusOK, w.Code)
	resp = ListRunsResponse{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, 1, resp.Total)
	require.Equal(t, failed.ID.String(), resp.Runs[0].RunID)
	require.Nil(t, resp.NextOffset)
}

func TestListRuns_InvalidStatus(t *testing.T) {
	mux := newTestMux(t, storage.NewInMemoryRunStore(), nil)

	w := serve(t, mux, "/api/runs?status=bogus")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRuns_Empty(t *testing.T) {
	mux := newTestMux(t, storage.NewInMemoryRunStore(), nil)

	w := serve(t, mux, "/api/runs")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"runs":[],"total":0,"limit":10,"offset":0}`, w.Body.String())
}

func TestListWorkers(t *testing.T) {
	id := uuid.New()
	workers := stubWorkers{
		worldSize: 3,
		workers: []core.WorkerInfo{
			{ID: id, Rank: 1, Address: "10.0.0.2:9091", Parallelism: 8, RegisteredAt: time.Now().UTC(), Fetched: true},
		},
	}
	mux := newTestMux(t, storage.NewInMemoryRunStore(), workers)

	w := serve(t, mux, "/api/workers")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListWorkersResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, 3, resp.WorldSize)
	require.Len(t, resp.Workers, 1)
	require.Equal(t, id.String(), resp.Workers[0].WorkerID)
	require.True(t, resp.Workers[0].Fetched)
	require.False(t, resp.Workers[0].Reported)
}

func TestHealth(t *testing.T) {
	mux := newTestMux(t, storage.NewInMemoryRunStore(), nil)

	w := serve(t, mux, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestNewServer(t *testing.T) {
	server := NewServer(config.RESTConfig{Addr: ":0", ReadTimeout: time.Second}, storage.NewInMemoryRunStore(), nil, newMockLogger())
	require.Equal(t, ":0", server.Addr)
	require.Equal(t, time.Second, server.ReadTimeout)
	require.Equal(t, defaultWriteTimeout, server.WriteTimeout)

	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get(RequestIDHeader))
}
