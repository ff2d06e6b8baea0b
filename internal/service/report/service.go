package report

import (
	"context"
	"io"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/attendance"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/report"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
)

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	resolver       ruleset.Resolver
}

func NewReportService(attendanceRepo attendance.AttendanceRepository, resolver ruleset.Resolver) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		resolver:       resolver,
	}
}

func (s *ReportServiceImpl) records(ctx context.Context, req *report.RangeRequest) ([]attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, end := req.Range()

	employeeID := req.EmployeeID
	if employeeID != nil && *employeeID == "" {
		employeeID = nil
	}
	return s.attendanceRepo.ListByRange(ctx, start, end, employeeID)
}

// Stats implements report.ReportService.
func (s *ReportServiceImpl) Stats(ctx context.Context, req report.RangeRequest) (report.StatsResponse, error) {
	records, err := s.records(ctx, &req)
	if err != nil {
		return report.StatsResponse{}, err
	}

	resp := report.StatsResponse{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		GroupBy:   req.GroupBy,
		Totals:    Sum(records),
	}
	if req.GroupBy != report.GroupByNone {
		resp.Groups = Aggregate(records, KeyFor(req.GroupBy))
	}
	return resp, nil
}

// IncomeStats implements report.ReportService. Revenue is priced with the
// caller's current client payment. Owner profit and venue fees are only
// reported to admins.
func (s *ReportServiceImpl) IncomeStats(ctx context.Context, req report.RangeRequest) (report.IncomeStatsResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return report.IncomeStatsResponse{}, err
	}
	records, err := s.records(ctx, &req)
	if err != nil {
		return report.IncomeStatsResponse{}, err
	}
	rules, err := s.resolver.Global(ctx, claims.RuleScope())
	if err != nil {
		return report.IncomeStatsResponse{}, err
	}

	totals := Sum(records)
	resp := report.IncomeStatsResponse{
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		ClientCount:      totals.ClientCount,
		WorkingDays:      totals.WorkingDays,
		Revenue:          revenue(totals.ClientCount, rules),
		TotalSalary:      totals.TotalSalary,
		BrokerCommission: totals.BrokerCommission,
		ByTemplate:       []report.IncomeGroup{},
	}
	if claims.IsAdmin() {
		fees := rules.VenueFee.Mul(decimal.NewFromInt(int64(totals.ClientCount)))
		resp.VenueFees = &fees
		profit := totals.OwnerProfit
		resp.OwnerProfit = &profit
	}

	for _, g := range Aggregate(records, ByTemplate) {
		ig := report.IncomeGroup{
			Template:         g.Key,
			ClientCount:      g.Totals.ClientCount,
			Revenue:          revenue(g.Totals.ClientCount, rules),
			TotalSalary:      g.Totals.TotalSalary,
			BrokerCommission: g.Totals.BrokerCommission,
		}
		if claims.IsAdmin() {
			profit := g.Totals.OwnerProfit
			ig.OwnerProfit = &profit
		}
		resp.ByTemplate = append(resp.ByTemplate, ig)
	}
	return resp, nil
}

func revenue(clients int, rules ruleset.RuleSet) decimal.Decimal {
	return rules.ClientPayment.Mul(decimal.NewFromInt(int64(clients)))
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.RangeRequest, w io.Writer) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	records, err := s.records(ctx, &req)
	if err != nil {
		return err
	}
	return writeWorkbook(w, records, claims.IsAdmin())
}
