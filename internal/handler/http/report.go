package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/report"
	"github.com/ktv-ledger/ktv-backend-go/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler interface {
	// Totals for a date range, optionally grouped
	GetStats(w http.ResponseWriter, r *http.Request)

	// Revenue and payouts for the caller's role
	GetIncomeStats(w http.ResponseWriter, r *http.Request)

	// Spreadsheet download of attendance rows
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func parseRangeRequest(r *http.Request) report.RangeRequest {
	q := r.URL.Query()
	req := report.RangeRequest{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		GroupBy:   report.GroupBy(q.Get("group_by")),
	}
	if employeeID := q.Get("employee_id"); employeeID != "" {
		req.EmployeeID = &employeeID
	}
	return req
}

// GetStats handles GET /reports/stats
func (h *reportHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportService.Stats(r.Context(), parseRangeRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// GetIncomeStats handles GET /reports/income
func (h *reportHandlerImpl) GetIncomeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportService.IncomeStats(r.Context(), parseRangeRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// Export handles GET /reports/export
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := parseRangeRequest(r)

	// Buffer the workbook so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := h.reportService.Export(r.Context(), req, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s_%s.xlsx", req.StartDate, req.EndDate, uuid.NewString()[:8])
	slog.Info("Attendance export generated", "file", filename, "bytes", buf.Len())

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
