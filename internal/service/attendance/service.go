package attendance

import (
	"context"
	"fmt"
	"math"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/attendance"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/employee"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/report"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/dateutil"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/validator"
	reportservice "github.com/ktv-ledger/ktv-backend-go/internal/service/report"
	salaryservice "github.com/ktv-ledger/ktv-backend-go/internal/service/salary"
)

const (
	defaultRecentChanges = 50
	maxRecentChanges     = 200
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	resolver ruleset.Resolver
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	resolver ruleset.Resolver,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		resolver:             resolver,
	}
}

// Upsert implements attendance.AttendanceService. The breakdown is computed
// with the employee's rule set at write time and stored with the record.
// A day not worked always stores zero clients.
func (a *AttendanceServiceImpl) Upsert(ctx context.Context, req attendance.UpsertAttendanceRequest) (attendance.AttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	date, err := dateutil.Parse(req.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	rules, err := a.resolver.Resolve(ctx, emp.RuleSource(claims.RuleScope()))
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to resolve rules for employee %s: %w", emp.ID, err)
	}

	clientCount := req.ClientCount
	if !req.IsWorking {
		clientCount = 0
	}
	breakdown, err := salaryservice.ComputeBreakdown(clientCount, req.IsWorking, rules)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	editor := claims.UserID
	saved, err := a.AttendanceRepository.Upsert(ctx, attendance.Attendance{
		EmployeeID:  emp.ID,
		Date:        date,
		IsWorking:   req.IsWorking,
		ClientCount: clientCount,
		Breakdown:   breakdown,
		CreatedBy:   &editor,
		UpdatedBy:   &editor,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(saved), nil
}

// GetByID implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetByID(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	att, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(att), nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && *filter.StartDate != "" && *filter.EndDate != "" {
		start, _ := dateutil.Parse(*filter.StartDate)
		end, _ := dateutil.Parse(*filter.EndDate)
		if start.After(end) {
			return attendance.ListAttendanceResponse{}, attendance.ErrInvalidDateRange
		}
	}

	attendances, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, attendance.NewAttendanceResponse(att))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Attendances: responses,
	}, nil
}

// Delete implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	return a.AttendanceRepository.Delete(ctx, id)
}

// DayTotals implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DayTotals(ctx context.Context, date string) (report.Totals, error) {
	day, err := dateutil.Parse(date)
	if err != nil {
		return report.Totals{}, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}

	records, err := a.AttendanceRepository.ListByRange(ctx, day, day, nil)
	if err != nil {
		return report.Totals{}, err
	}
	return reportservice.Sum(records), nil
}

// RecentChanges implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecentChanges(ctx context.Context, limit int) ([]attendance.AttendanceResponse, error) {
	if limit <= 0 {
		limit = defaultRecentChanges
	}
	limit = min(limit, maxRecentChanges)

	records, err := a.AttendanceRepository.ListRecentChanges(ctx, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		responses = append(responses, attendance.NewAttendanceResponse(att))
	}
	return responses, nil
}
