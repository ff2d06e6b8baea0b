package salary

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/attendance"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/employee"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/salary"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/user"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployees struct {
	employee.EmployeeRepository
	byID map[string]employee.Employee
}

func (f *fakeEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployees) List(context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.byID {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmployees) UpdateLastPayoutDate(_ context.Context, id string, date *time.Time) error {
	e, ok := f.byID[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.LastPayoutDate = date
	f.byID[id] = e
	return nil
}

type fakeAttendance struct {
	attendance.AttendanceRepository
	records []attendance.Attendance
}

func (f *fakeAttendance) ListByRange(_ context.Context, start, end time.Time, employeeID *string) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, r := range f.records {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		if employeeID != nil && r.EmployeeID != *employeeID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fakeResolver struct {
	templates map[string]ruleset.TemplateData
}

func (f fakeResolver) Global(context.Context, *string) (ruleset.RuleSet, error) {
	return ruleset.Default(), nil
}

func (f fakeResolver) Resolve(_ context.Context, src ruleset.Source) (ruleset.RuleSet, error) {
	if src.Kind == ruleset.SourceGlobal {
		return ruleset.Default(), nil
	}
	data, ok := f.templates[src.TemplateID]
	if !ok {
		return ruleset.RuleSet{}, fmt.Errorf("%w: %w", salary.ErrInconsistentState, ruleset.ErrTemplateNotFound)
	}
	return ruleset.Default().WithTemplate(data), nil
}

func (f fakeResolver) Invalidate(context.Context, *string) {}

func userCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, err := jwt.WithClaims(context.Background(), jwtauth.New("HS256", []byte("secret"), nil),
		jwt.Claims{UserID: "user-1", Role: user.RoleUser})
	require.NoError(t, err)
	return ctx
}

func newTestSettlementService(t *testing.T, emps []employee.Employee, records []attendance.Attendance, templates map[string]ruleset.TemplateData) *SettlementServiceImpl {
	byID := map[string]employee.Employee{}
	for _, e := range emps {
		byID[e.ID] = e
	}
	svc := NewSettlementService(&fakeEmployees{byID: byID}, &fakeAttendance{records: records}, fakeResolver{templates: templates}, time.UTC)
	svc.now = func() time.Time { return date(t, "2024-03-03").Add(15 * time.Hour) }
	return svc
}

func working(empID, day string, clients int, t *testing.T) attendance.Attendance {
	return attendance.Attendance{ID: empID + day, EmployeeID: empID, Date: date(t, day), IsWorking: true, ClientCount: clients}
}

func TestSettlementService_ListSettlementsOrdersByUnpaid(t *testing.T) {
	paid := date(t, "2024-03-01")
	emps := []employee.Employee{
		{ID: "a", Name: "Amy", CreatedAt: date(t, "2024-03-01"), LastPayoutDate: &paid},
		{ID: "b", Name: "Bea", CreatedAt: date(t, "2024-03-01")},
		{ID: "c", Name: "Cat", CreatedAt: date(t, "2024-03-01")},
	}
	records := []attendance.Attendance{
		working("a", "2024-03-02", 1, t),
		working("b", "2024-03-01", 1, t),
		working("b", "2024-03-02", 0, t),
		working("c", "2024-03-01", 1, t),
		working("c", "2024-03-02", 0, t),
	}
	svc := newTestSettlementService(t, emps, records, nil)

	resp, err := svc.ListSettlements(userCtx(t))
	require.NoError(t, err)
	require.Len(t, resp.Settlements, 3)

	// Bea and Cat tie at 450 and sort by name; Amy is owed 350.
	assert.Equal(t, []string{"Bea", "Cat", "Amy"}, []string{
		resp.Settlements[0].EmployeeName, resp.Settlements[1].EmployeeName, resp.Settlements[2].EmployeeName,
	})
	assert.True(t, resp.TotalUnpaidBase.Equal(decimal.NewFromInt(1250)))
	assert.Equal(t, 5, resp.TotalUnpaidDays)
	assert.Equal(t, date(t, "2024-03-03"), resp.AsOf)
}

func TestSettlementService_DanglingTemplateSurfaces(t *testing.T) {
	missing := "gone"
	emps := []employee.Employee{{ID: "a", Name: "Amy", CreatedAt: date(t, "2024-03-01"), TemplateID: &missing}}
	svc := newTestSettlementService(t, emps, nil, nil)

	_, err := svc.GetEmployeeSettlement(userCtx(t), "a")
	assert.ErrorIs(t, err, salary.ErrInconsistentState)
	assert.ErrorIs(t, err, ruleset.ErrTemplateNotFound)

	_, err = svc.ListSettlements(userCtx(t))
	assert.ErrorIs(t, err, salary.ErrInconsistentState)
}

func TestSettlementService_UpdatePayoutDate(t *testing.T) {
	emps := []employee.Employee{{ID: "a", Name: "Amy", CreatedAt: date(t, "2024-03-01")}}
	records := []attendance.Attendance{
		working("a", "2024-03-01", 1, t),
		working("a", "2024-03-02", 1, t),
	}
	svc := newTestSettlementService(t, emps, records, nil)
	ctx := userCtx(t)

	checkpoint := "2024-03-01"
	sum, err := svc.UpdatePayoutDate(ctx, salary.UpdatePayoutDateRequest{EmployeeID: "a", LastPayoutDate: &checkpoint})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.UnpaidDays)
	assert.True(t, sum.UnpaidBaseSalary.Equal(decimal.NewFromInt(350)))

	future := "2024-04-01"
	sum, err = svc.UpdatePayoutDate(ctx, salary.UpdatePayoutDateRequest{EmployeeID: "a", LastPayoutDate: &future})
	require.NoError(t, err)
	assert.Zero(t, sum.UnpaidDays)
	assert.True(t, sum.UnpaidBaseSalary.IsZero())

	sum, err = svc.UpdatePayoutDate(ctx, salary.UpdatePayoutDateRequest{EmployeeID: "a"})
	require.NoError(t, err)
	assert.Nil(t, sum.LastPayoutDate)
	assert.Equal(t, 2, sum.UnpaidDays)

	bad := "03/01/2024"
	_, err = svc.UpdatePayoutDate(ctx, salary.UpdatePayoutDateRequest{EmployeeID: "a", LastPayoutDate: &bad})
	assert.Error(t, err)
}

func TestSettlementService_PreviewUsesEmployeeTemplate(t *testing.T) {
	tplID := "tpl"
	data := ruleset.Default().TemplateData()
	data.BaseSalaryWithClient = decimal.NewFromInt(500)
	emps := []employee.Employee{{ID: "00000000-0000-0000-0000-000000000001", Name: "Amy", TemplateID: &tplID}}
	svc := newTestSettlementService(t, emps, nil, map[string]ruleset.TemplateData{tplID: data})

	empID := emps[0].ID
	b, err := svc.Preview(userCtx(t), salary.PreviewRequest{EmployeeID: &empID, ClientCount: 1, IsWorking: true})
	require.NoError(t, err)
	assert.True(t, b.BaseSalary.Equal(decimal.NewFromInt(500)))

	b, err = svc.Preview(userCtx(t), salary.PreviewRequest{ClientCount: 1, IsWorking: true})
	require.NoError(t, err)
	assert.True(t, b.BaseSalary.Equal(decimal.NewFromInt(350)))
}
