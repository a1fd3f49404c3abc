package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"revportal/internal/domain"
)

// PenaltyWorkerConfig holds settings for the penalty accrual worker.
type PenaltyWorkerConfig struct {
	Interval   time.Duration
	RunOnStart bool
}

// PenaltyWorker runs penalty accrual on a fixed interval.
type PenaltyWorker struct {
	penalties PenaltyService
	cfg       PenaltyWorkerConfig
	log       *zap.Logger
	today     func() domain.Date
}

// NewPenaltyWorker creates a new PenaltyWorker.
func NewPenaltyWorker(penalties PenaltyService, cfg PenaltyWorkerConfig, log *zap.Logger) *PenaltyWorker {
	return &PenaltyWorker{
		penalties: penalties,
		cfg:       cfg,
		log:       log.Named("penalty_worker"),
		today:     domain.Today,
	}
}

// Start runs the accrual loop until ctx is canceled. Each pass accrues as of
// the current day.
func (w *PenaltyWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.log.Info("started", zap.Duration("interval", w.cfg.Interval), zap.Bool("run_on_start", w.cfg.RunOnStart))

	if w.cfg.RunOnStart {
		w.runOnce(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Info("shutdown complete")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *PenaltyWorker) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	res := w.penalties.AccruePenalties(ctx, w.today())
	if len(res.Warnings) > 0 {
		w.log.Warn("accrual pass finished with warnings",
			zap.Int("updated_records", res.UpdatedRecords),
			zap.Strings("warnings", res.Warnings))
	}
}
