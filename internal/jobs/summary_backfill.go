package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// backfillBatch caps how many sessions one run finalizes
const backfillBatch = 100

// Backfiller finalizes completed sessions whose summary was never written,
// typically because the summary insert failed after the last turn committed.
type Backfiller interface {
	BackfillSummaries(ctx context.Context, limit int) (int, error)
}

type BackfillConfig struct {
	Schedule   string        // cron schedule, e.g. "*/10 * * * *"
	Enabled    bool          // whether the scheduler runs at all
	RunTimeout time.Duration // upper bound on a single run
}

// SummaryBackfillJob periodically writes missing feedback summaries
type SummaryBackfillJob struct {
	backfiller Backfiller
	config     BackfillConfig
	cron       *cron.Cron
	logger     *zap.Logger

	mu      sync.Mutex
	running bool
}

func NewSummaryBackfillJob(backfiller Backfiller, config BackfillConfig, logger *zap.Logger) *SummaryBackfillJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = time.Minute
	}
	return &SummaryBackfillJob{
		backfiller: backfiller,
		config:     config,
		cron:       cron.New(),
		logger:     logger,
	}
}

// Start registers the schedule and starts the cron runner
func (j *SummaryBackfillJob) Start() error {
	if !j.config.Enabled {
		j.logger.Info("Summary backfill is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if _, err := j.RunOnce(context.Background()); err != nil {
			j.logger.Error("Summary backfill failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule summary backfill: %w", err)
	}

	j.cron.Start()
	j.logger.Info("Summary backfill started", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop halts the scheduler and waits for an in-flight run
func (j *SummaryBackfillJob) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
}

// ErrRunInProgress is returned when a previous run has not finished yet
var ErrRunInProgress = errors.New("summary backfill already running")

// RunOnce performs a single backfill pass and returns how many summaries were written
func (j *SummaryBackfillJob) RunOnce(ctx context.Context) (int, error) {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return 0, ErrRunInProgress
	}
	j.running = true
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, j.config.RunTimeout)
	defer cancel()

	written, err := j.backfiller.BackfillSummaries(ctx, backfillBatch)
	if err != nil {
		return written, fmt.Errorf("backfill summaries: %w", err)
	}
	if written > 0 {
		j.logger.Info("Backfilled feedback summaries", zap.Int("count", written))
	}
	return written, nil
}
