package rest

import (
	"time"
)

type CountsInfo struct {
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

type RankInfo struct {
	Rank     int        `json:"rank"`
	WorkerID string     `json:"worker_id,omitempty"`
	Start    int        `json:"start"`
	Lines    int        `json:"lines"`
	Counts   CountsInfo `json:"counts"`
}

type GetRunResponse struct {
	RunID           string     `json:"run_id"`
	Input           string     `json:"input"`
	Status          string     `json:"status"`
	Workers         int        `json:"workers"`
	Parallelism     int        `json:"parallelism"`
	Lines           int        `json:"lines"`
	Counts          CountsInfo `json:"counts"`
	Ranks           []RankInfo `json:"ranks"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	DurationSeconds float64    `json:"duration_seconds"`
	Error           string     `json:"error,omitempty"`
}

type RunSummary struct {
	RunID       string     `json:"run_id"`
	Input       string     `json:"input"`
	Status      string     `json:"status"`
	Counts      CountsInfo `json:"counts"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type ListRunsResponse struct {
	Runs       []RunSummary `json:"runs"`
	Total      int          `json:"total"`
	Limit      int          `json:"limit"`
	Offset     int          `json:"offset"`
	NextOffset *int         `json:"next_offset,omitempty"`
}

type WorkerSummary struct {
	WorkerID     string    `json:"worker_id"`
	Rank         int       `json:"rank"`
	Address      string    `json:"address,omitempty"`
	Parallelism  int       `json:"parallelism"`
	RegisteredAt time.Time `json:"registered_at"`
	Fetched      bool      `json:"fetched"`
	Reported     bool      `json:"reported"`
}

type ListWorkersResponse struct {
	WorldSize int             `json:"world_size"`
	Workers   []WorkerSummary `json:"workers"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
