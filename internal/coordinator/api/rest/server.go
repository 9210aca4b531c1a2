package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nemanja-m/logscan/internal/coordinator/core"
	"github.com/nemanja-m/logscan/internal/shared/config"
	"github.com/nemanja-m/logscan/internal/shared/logging"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// WorkerLister exposes the registrations of the current run.
type WorkerLister interface {
	WorldSize() int
	Workers() []core.WorkerInfo
}

type API struct {
	runs    core.RunStore
	workers WorkerLister
	logger  logging.Logger
}

func NewAPI(runs core.RunStore, workers WorkerLister, logger logging.Logger) *API {
	return &API{
		runs:    runs,
		workers: workers,
		logger:  logger,
	}
}

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/runs", a.listRuns)
	mux.HandleFunc("GET /api/runs/{id}", a.getRun)
	mux.HandleFunc("GET /api/workers", a.listWorkers)
	mux.HandleFunc("GET /healthz", a.health)
}

// getRun handles GET /api/runs/{id}
func (a *API) getRun(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		a.respondError(w, http.StatusBadRequest, "invalid run ID", err.Error())
		return
	}

	run, err := a.runs.GetRun(runID)
	if errors.Is(err, core.ErrRunNotFound) {
		a.respondError(w, http.StatusNotFound, "run not found", "")
		return
	}
	if err != nil {
		a.logger.Error("Failed to get run", "run_id", runID.String(), "error", err)
		a.respondError(w, http.StatusInternalServerError, "failed to get run", "")
		return
	}

	a.respondJSON(w, http.StatusOK, ToGetRunResponse(run))
}

// listRuns handles GET /api/runs with an optional status filter and pagination.
func (a *API) listRuns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := core.RunFilter{
		Limit:  defaultLimit,
		Offset: 0,
	}
	if s := query.Get("status"); s != "" {
		status := core.RunStatus(strings.ToUpper(s))
		switch status {
		case core.RunStatusRunning, core.RunStatusCompleted, core.RunStatusFailed:
			filter.Status = &status
		default:
			a.respondError(w, http.StatusBadRequest, "invalid status filter", s)
			return
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filter.Limit = min(l, maxLimit)
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filter.Offset = o
		}
	}

	runs, total, err := a.runs.GetRuns(filter)
	if err != nil {
		a.logger.Error("Failed to list runs", "error", err)
		a.respondError(w, http.StatusInternalServerError, "failed to list runs", "")
		return
	}

	summaries := make([]RunSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, ToRunSummary(run))
	}

	var nextOffset *int
	if end := filter.Offset + len(runs); end < total {
		nextOffset = &end
	}

	a.respondJSON(w, http.StatusOK, ListRunsResponse{
		Runs:       summaries,
		Total:      total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
		NextOffset: nextOffset,
	})
}

// listWorkers handles GET /api/workers
func (a *API) listWorkers(w http.ResponseWriter, r *http.Request) {
	resp := ListWorkersResponse{Workers: []WorkerSummary{}}
	if a.workers != nil {
		resp.WorldSize = a.workers.WorldSize()
		for _, worker := range a.workers.Workers() {
			resp.Workers = append(resp.Workers, ToWorkerSummary(worker))
		}
	}
	a.respondJSON(w, http.StatusOK, resp)
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (a *API) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Error("Failed to encode response", "error", err)
	}
}

func (a *API) respondError(w http.ResponseWriter, statusCode int, error string, message string) {
	a.respondJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
		Code:    statusCode,
	})
}

const (
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

func NewServer(cfg config.RESTConfig, runs core.RunStore, workers WorkerLister, logger logging.Logger) *http.Server {
	api := NewAPI(runs, workers, logger)
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	handler := ChainMiddleware(
		mux,
		RequestIDMiddleware,
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
	)

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  orDefault(cfg.ReadTimeout, defaultReadTimeout),
		WriteTimeout: orDefault(cfg.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:  orDefault(cfg.IdleTimeout, defaultIdleTimeout),
	}
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
