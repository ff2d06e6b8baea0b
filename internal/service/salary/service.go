package salary

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/attendance"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/employee"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/salary"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/dateutil"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// settlementConcurrency bounds the per-employee queries of ListSettlements.
const settlementConcurrency = 8

type SettlementServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	resolver       ruleset.Resolver
	loc            *time.Location
	now            func() time.Time
}

func NewSettlementService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	resolver ruleset.Resolver,
	loc *time.Location,
) *SettlementServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &SettlementServiceImpl{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		resolver:       resolver,
		loc:            loc,
		now:            time.Now,
	}
}

func (s *SettlementServiceImpl) today() time.Time {
	return dateutil.Date(s.now().In(s.loc))
}

// Preview computes a breakdown without storing anything. Without an employee
// the caller's global rule set is used.
func (s *SettlementServiceImpl) Preview(ctx context.Context, req salary.PreviewRequest) (salary.Breakdown, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return salary.Breakdown{}, err
	}
	if err := req.Validate(); err != nil {
		return salary.Breakdown{}, err
	}

	src := ruleset.GlobalSource(claims.RuleScope())
	if req.EmployeeID != nil {
		emp, err := s.employeeRepo.GetByID(ctx, *req.EmployeeID)
		if err != nil {
			return salary.Breakdown{}, err
		}
		src = emp.RuleSource(claims.RuleScope())
	}

	rules, err := s.resolver.Resolve(ctx, src)
	if err != nil {
		return salary.Breakdown{}, err
	}
	return ComputeBreakdown(req.ClientCount, req.IsWorking, rules)
}

// GetEmployeeSettlement implements salary.Service.
func (s *SettlementServiceImpl) GetEmployeeSettlement(ctx context.Context, employeeID string) (salary.Settlement, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return salary.Settlement{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return salary.Settlement{}, err
	}
	return s.settlementFor(ctx, emp, claims.RuleScope(), s.today())
}

func (s *SettlementServiceImpl) settlementFor(ctx context.Context, emp employee.Employee, scope *string, today time.Time) (salary.Settlement, error) {
	rules, err := s.resolver.Resolve(ctx, emp.RuleSource(scope))
	if err != nil {
		return salary.Settlement{}, fmt.Errorf("failed to resolve rules for employee %s: %w", emp.ID, err)
	}

	var records []attendance.Attendance
	if start := emp.SettlementStart(s.loc); !start.After(today) {
		records, err = s.attendanceRepo.ListByRange(ctx, start, today, &emp.ID)
		if err != nil {
			return salary.Settlement{}, err
		}
	}

	return ComputeSettlement(emp, IndexByDate(records), UniformRules(rules), today, s.loc)
}

// ListSettlements implements salary.Service. Employees owed the most come first.
func (s *SettlementServiceImpl) ListSettlements(ctx context.Context) (salary.SettlementListResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return salary.SettlementListResponse{}, err
	}
	return s.listFor(ctx, claims.RuleScope())
}

// Snapshot computes every settlement with the system rule set.
func (s *SettlementServiceImpl) Snapshot(ctx context.Context) (salary.SettlementListResponse, error) {
	return s.listFor(ctx, nil)
}

func (s *SettlementServiceImpl) listFor(ctx context.Context, scope *string) (salary.SettlementListResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return salary.SettlementListResponse{}, err
	}

	today := s.today()
	summaries := make([]salary.SettlementSummary, len(employees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(settlementConcurrency)
	for i, emp := range employees {
		g.Go(func() error {
			st, err := s.settlementFor(gctx, emp, scope, today)
			if err != nil {
				return err
			}
			summaries[i] = st.Summary()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return salary.SettlementListResponse{}, err
	}

	slices.SortStableFunc(summaries, func(a, b salary.SettlementSummary) int {
		if c := b.UnpaidBaseSalary.Cmp(a.UnpaidBaseSalary); c != 0 {
			return c
		}
		return cmp.Compare(a.EmployeeName, b.EmployeeName)
	})

	resp := salary.SettlementListResponse{
		Settlements:     summaries,
		TotalUnpaidBase: decimal.Zero,
		AsOf:            today,
	}
	for _, sum := range summaries {
		resp.TotalUnpaidDays += sum.UnpaidDays
		resp.TotalUnpaidBase = resp.TotalUnpaidBase.Add(sum.UnpaidBaseSalary)
	}
	return resp, nil
}

// UpdatePayoutDate moves or clears an employee's checkpoint and returns the
// settlement that remains afterwards.
func (s *SettlementServiceImpl) UpdatePayoutDate(ctx context.Context, req salary.UpdatePayoutDateRequest) (salary.SettlementSummary, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return salary.SettlementSummary{}, err
	}
	date, err := req.Parse()
	if err != nil {
		return salary.SettlementSummary{}, err
	}

	if err := s.employeeRepo.UpdateLastPayoutDate(ctx, req.EmployeeID, date); err != nil {
		return salary.SettlementSummary{}, err
	}
	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return salary.SettlementSummary{}, err
	}

	st, err := s.settlementFor(ctx, emp, claims.RuleScope(), s.today())
	if err != nil {
		return salary.SettlementSummary{}, err
	}
	return st.Summary(), nil
}
