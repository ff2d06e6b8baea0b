package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/salary"
)

// SettlementSnapshotter computes every employee's settlement with the system
// rule set.
type SettlementSnapshotter interface {
	Snapshot(ctx context.Context) (salary.SettlementListResponse, error)
}

// SettlementRecorder publishes a snapshot, e.g. as metrics.
type SettlementRecorder interface {
	RecordSettlements(list salary.SettlementListResponse)
}

type SettlementJobs struct {
	settlements SettlementSnapshotter
	recorder    SettlementRecorder
	interval    time.Duration
}

func NewSettlementJobs(settlements SettlementSnapshotter, recorder SettlementRecorder, interval time.Duration) *SettlementJobs {
	return &SettlementJobs{
		settlements: settlements,
		recorder:    recorder,
		interval:    interval,
	}
}

func (j *SettlementJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("settlement_snapshot", j.interval, j.Snapshot)
}

func (j *SettlementJobs) Snapshot(ctx context.Context) error {
	list, err := j.settlements.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("settlement snapshot: %w", err)
	}

	if j.recorder != nil {
		j.recorder.RecordSettlements(list)
	}

	owing := 0
	for _, s := range list.Settlements {
		if s.UnpaidBaseSalary.IsPositive() {
			owing++
		}
	}
	slog.Info("Cron: settlement snapshot",
		"employees", len(list.Settlements),
		"employees_owed", owing,
		"unpaid_days", list.TotalUnpaidDays,
		"unpaid_base_salary", list.TotalUnpaidBase.String(),
	)
	return nil
}
