package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/dmarchuk/matchfeed/internal/domain/report"
	"github.com/dmarchuk/matchfeed/internal/platform/logging"
)

const (
	backfillStatusSuccess = "success"
	backfillStatusFailed  = "failed"

	backfillMaxWorkerCap = 8
)

// ReportFetcher pulls one full match report from the upstream feed.
type ReportFetcher interface {
	FetchMatchReport(ctx context.Context, externalMatchID int64) (report.Match, error)
}

type BackfillInput struct {
	// MatchIDs are external feed ids, deduplicated before dispatch.
	MatchIDs   []int64
	MaxWorkers int
}

type BackfillResult struct {
	TaskCount    int                  `json:"task_count"`
	SuccessCount int                  `json:"success_count"`
	FailedCount  int                  `json:"failed_count"`
	WorkerCount  int                  `json:"worker_count"`
	Tasks        []BackfillTaskResult `json:"tasks"`
}

type BackfillTaskResult struct {
	ExternalMatchID int64  `json:"external_match_id"`
	Status          string `json:"status"`
	MatchID         int64  `json:"match_id,omitempty"`
	EventsLoaded    int    `json:"events_loaded"`
	EventsSkipped   int    `json:"events_skipped"`
	DurationMs      int64  `json:"duration_ms"`
	Message         string `json:"message,omitempty"`
}

// BackfillService re-ingests a set of matches from the feed on a bounded
// worker pool. Distinct match ids touch disjoint rows, so tasks run in
// parallel without write conflicts.
type BackfillService struct {
	fetcher     ReportFetcher
	matchLoader *MatchLoaderService
	eventLoader *EventLoaderService
	maxWorkers  int
	logger      *logging.Logger
}

func NewBackfillService(
	fetcher ReportFetcher,
	matchLoader *MatchLoaderService,
	eventLoader *EventLoaderService,
	maxWorkers int,
	logger *logging.Logger,
) *BackfillService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BackfillService{
		fetcher:     fetcher,
		matchLoader: matchLoader,
		eventLoader: eventLoader,
		maxWorkers:  maxWorkers,
		logger:      logger,
	}
}

func (s *BackfillService) Backfill(ctx context.Context, input BackfillInput) (BackfillResult, error) {
	ctx, span := startUsecaseSpan(ctx, "BackfillService.Backfill")
	defer span.End()

	if s.fetcher == nil {
		return BackfillResult{}, fmt.Errorf("%w: report feed is not configured", ErrDependencyUnavailable)
	}

	ids := dedupeMatchIDs(input.MatchIDs)
	if len(ids) == 0 {
		return BackfillResult{}, fmt.Errorf("%w: at least one match id is required", ErrInvalidInput)
	}

	workerCount := normalizeBackfillWorkerCount(input.MaxWorkers, s.maxWorkers, len(ids))
	result := BackfillResult{
		TaskCount:   len(ids),
		WorkerCount: workerCount,
		Tasks:       make([]BackfillTaskResult, 0, len(ids)),
	}

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return BackfillResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	results := make(chan BackfillTaskResult, len(ids))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, externalID := range ids {
		externalID := externalID
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := s.runBackfillTask(ctx, externalID)
			row.DurationMs = time.Since(start).Milliseconds()

			if row.Status == backfillStatusSuccess {
				successCount.Add(1)
			} else {
				failedCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return BackfillResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].ExternalMatchID < result.Tasks[j].ExternalMatchID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "backfill finished",
		"tasks", result.TaskCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
	)

	return result, nil
}

func (s *BackfillService) runBackfillTask(ctx context.Context, externalID int64) BackfillTaskResult {
	row := BackfillTaskResult{ExternalMatchID: externalID}

	rep, err := s.fetcher.FetchMatchReport(ctx, externalID)
	if err != nil {
		row.Status = backfillStatusFailed
		row.Message = fmt.Sprintf("fetch report: %v", err)
		return row
	}

	saved, err := s.matchLoader.LoadMatch(ctx, rep)
	if err != nil {
		row.Status = backfillStatusFailed
		row.Message = fmt.Sprintf("load match: %v", err)
		return row
	}
	row.MatchID = saved.ID

	outcome, err := s.eventLoader.LoadMatchEvents(ctx, saved.ID, rep.Events)
	if err != nil {
		row.Status = backfillStatusFailed
		row.Message = fmt.Sprintf("load events: %v", err)
		return row
	}

	row.Status = backfillStatusSuccess
	row.EventsLoaded = outcome.TotalLoaded()
	row.EventsSkipped = len(outcome.Skipped)
	return row
}

func dedupeMatchIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func normalizeBackfillWorkerCount(requested, configured, taskCount int) int {
	value := requested
	if value <= 0 {
		value = configured
	}
	if value <= 0 {
		value = 1
	}
	if value > backfillMaxWorkerCap {
		value = backfillMaxWorkerCap
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
