package rest

import (
	"github.com/google/uuid"

	"github.com/nemanja-m/logscan/internal/coordinator/core"
	"github.com/nemanja-m/logscan/pkg/logscan"
)

func toCountsInfo(c logscan.Counts) CountsInfo {
	return CountsInfo{Warnings: c.Warnings, Errors: c.Errors}
}

func ToGetRunResponse(run *core.Run) GetRunResponse {
	ranks := make([]RankInfo, 0, len(run.Ranks))
	for _, r := range run.Ranks {
		info := RankInfo{
			Rank:   r.Rank,
			Start:  r.Start,
			Lines:  r.Lines,
			Counts: toCountsInfo(r.Counts),
		}
		if r.WorkerID != uuid.Nil {
			info.WorkerID = r.WorkerID.String()
		}
		ranks = append(ranks, info)
	}

	return GetRunResponse{
		RunID:           run.ID.String(),
		Input:           run.Input,
		Status:          string(run.Status),
		Workers:         run.Workers,
		Parallelism:     run.Parallelism,
		Lines:           run.Lines,
		Counts:          toCountsInfo(run.Counts),
		Ranks:           ranks,
		StartedAt:       run.StartedAt,
		CompletedAt:     run.CompletedAt,
		DurationSeconds: run.Duration().Seconds(),
		Error:           run.Error,
	}
}

func ToRunSummary(run *core.Run) RunSummary {
	return RunSummary{
		RunID:       run.ID.String(),
		Input:       run.Input,
		Status:      string(run.Status),
		Counts:      toCountsInfo(run.Counts),
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
	}
}

func ToWorkerSummary(w core.WorkerInfo) WorkerSummary {
	return WorkerSummary{
		WorkerID:     w.ID.String(),
		Rank:         w.Rank,
		Address:      w.Address,
		Parallelism:  w.Parallelism,
		RegisteredAt: w.RegisteredAt,
		Fetched:      w.Fetched,
		Reported:     w.Reported,
	}
}
