package report

import (
	"context"
	"io"
)

// ReportService defines the interface for report generation
type ReportService interface {
	Stats(ctx context.Context, req RangeRequest) (StatsResponse, error)
	IncomeStats(ctx context.Context, req RangeRequest) (IncomeStatsResponse, error)

	// Export writes the records of the range as an XLSX workbook.
	Export(ctx context.Context, req RangeRequest, w io.Writer) error
}
