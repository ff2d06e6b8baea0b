package attendance

import (
	"context"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/report"
)

type AttendanceService interface {
	Upsert(ctx context.Context, req UpsertAttendanceRequest) (AttendanceResponse, error)
	GetByID(ctx context.Context, id string) (AttendanceResponse, error)
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	Delete(ctx context.Context, id string) error
	DayTotals(ctx context.Context, date string) (report.Totals, error)
	RecentChanges(ctx context.Context, limit int) ([]AttendanceResponse, error)
}
