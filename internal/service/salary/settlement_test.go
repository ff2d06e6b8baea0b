package salary

import (
	"testing"
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/attendance"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/employee"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestDays(t *testing.T) {
	var got []string
	for d := range Days(date(t, "2024-02-27"), date(t, "2024-03-01")) {
		got = append(got, d.Format("2006-01-02"))
	}
	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01"}, got)

	count := 0
	for range Days(date(t, "2024-03-02"), date(t, "2024-03-01")) {
		count++
	}
	assert.Zero(t, count)
}

func TestComputeSettlement_DenseWindow(t *testing.T) {
	emp := employee.Employee{
		ID:        "emp-1",
		Name:      "Lily",
		CreatedAt: date(t, "2024-01-01").Add(15 * time.Hour),
	}
	records := []attendance.Attendance{
		{ID: "a1", EmployeeID: "emp-1", Date: date(t, "2024-01-01"), IsWorking: true, ClientCount: 1},
		{ID: "a3", EmployeeID: "emp-1", Date: date(t, "2024-01-03"), IsWorking: true, ClientCount: 0},
	}

	s, err := ComputeSettlement(emp, IndexByDate(records), UniformRules(ruleset.Default()), date(t, "2024-01-03"), time.UTC)
	require.NoError(t, err)

	require.Len(t, s.Days, 3)
	assert.Equal(t, 2, s.UnpaidDays)
	assertDecimal(t, 450, s.UnpaidBaseSalary, "unpaid_base_salary")

	assertDecimal(t, 350, s.Days[0].BaseSalary, "day1")
	assert.True(t, s.Days[0].HasClients)

	assert.False(t, s.Days[1].Recorded)
	assert.False(t, s.Days[1].IsWorking)
	assertDecimal(t, 0, s.Days[1].BaseSalary, "day2")

	assertDecimal(t, 100, s.Days[2].BaseSalary, "day3")
	assert.False(t, s.Days[2].HasClients)
}

func TestComputeSettlement_StartsAfterCheckpoint(t *testing.T) {
	paid := date(t, "2024-01-02")
	emp := employee.Employee{ID: "emp-1", CreatedAt: date(t, "2023-12-01"), LastPayoutDate: &paid}
	records := []attendance.Attendance{
		{Date: date(t, "2024-01-02"), IsWorking: true, ClientCount: 3},
		{Date: date(t, "2024-01-03"), IsWorking: true, ClientCount: 2},
	}

	s, err := ComputeSettlement(emp, IndexByDate(records), UniformRules(ruleset.Default()), date(t, "2024-01-04"), time.UTC)
	require.NoError(t, err)

	assert.Equal(t, date(t, "2024-01-03"), s.StartDate)
	require.Len(t, s.Days, 2)
	assert.Equal(t, 1, s.UnpaidDays)
	assertDecimal(t, 350, s.UnpaidBaseSalary, "unpaid_base_salary")
	assert.Equal(t, &paid, s.LastPayoutDate)
}

func TestComputeSettlement_EmptyWindow(t *testing.T) {
	today := date(t, "2024-05-10")
	for _, checkpoint := range []string{"2024-05-10", "2024-05-11", "2025-01-01"} {
		cp := date(t, checkpoint)
		emp := employee.Employee{ID: "emp-1", CreatedAt: date(t, "2024-01-01"), LastPayoutDate: &cp}
		lookup := IndexByDate([]attendance.Attendance{{Date: today, IsWorking: true, ClientCount: 4}})

		s, err := ComputeSettlement(emp, lookup, UniformRules(ruleset.Default()), today, time.UTC)
		require.NoError(t, err)
		assert.Zero(t, s.UnpaidDays, checkpoint)
		assert.True(t, s.UnpaidBaseSalary.IsZero(), checkpoint)
		assert.Empty(t, s.Days, checkpoint)
	}
}

func TestComputeSettlement_CreatedToday(t *testing.T) {
	today := date(t, "2024-05-10")
	emp := employee.Employee{ID: "emp-1", CreatedAt: today.Add(9 * time.Hour)}

	s, err := ComputeSettlement(emp, IndexByDate(nil), UniformRules(ruleset.Default()), today, time.UTC)
	require.NoError(t, err)
	require.Len(t, s.Days, 1)
	assert.Zero(t, s.UnpaidDays)
	assert.True(t, s.UnpaidBaseSalary.IsZero())
}

func TestComputeSettlement_Additivity(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", CreatedAt: date(t, "2024-03-01")}
	var records []attendance.Attendance
	for i := 0; i < 31; i += 2 {
		records = append(records, attendance.Attendance{
			Date:        date(t, "2024-03-01").AddDate(0, 0, i),
			IsWorking:   i%4 == 0,
			ClientCount: i % 5,
		})
	}

	s, err := ComputeSettlement(emp, IndexByDate(records), UniformRules(ruleset.Default()), date(t, "2024-03-31"), time.UTC)
	require.NoError(t, err)
	require.Len(t, s.Days, 31)

	sum := decimal.Zero
	working := 0
	for i, d := range s.Days {
		assert.Equal(t, date(t, "2024-03-01").AddDate(0, 0, i), d.Date)
		sum = sum.Add(d.BaseSalary)
		if d.IsWorking {
			working++
		}
	}
	assert.True(t, sum.Equal(s.UnpaidBaseSalary))
	assert.Equal(t, working, s.UnpaidDays)
}

func TestComputeSettlement_UsesRulesForEachDay(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", CreatedAt: date(t, "2024-01-01")}
	records := []attendance.Attendance{
		{Date: date(t, "2024-01-01"), IsWorking: true, ClientCount: 1},
		{Date: date(t, "2024-01-02"), IsWorking: true, ClientCount: 1},
	}
	cheaper := ruleset.Default()
	cheaper.BaseSalaryWithClient = decimal.NewFromInt(300)
	rulesFor := func(d time.Time) ruleset.RuleSet {
		if d.Equal(date(t, "2024-01-02")) {
			return cheaper
		}
		return ruleset.Default()
	}

	s, err := ComputeSettlement(emp, IndexByDate(records), rulesFor, date(t, "2024-01-02"), time.UTC)
	require.NoError(t, err)
	assertDecimal(t, 650, s.UnpaidBaseSalary, "unpaid_base_salary")
}

func TestComputeSettlement_CorruptRecord(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", CreatedAt: date(t, "2024-01-01")}
	records := []attendance.Attendance{{ID: "bad", Date: date(t, "2024-01-01"), IsWorking: true, ClientCount: -2}}

	_, err := ComputeSettlement(emp, IndexByDate(records), UniformRules(ruleset.Default()), date(t, "2024-01-01"), time.UTC)
	require.Error(t, err)
	assert.ErrorIs(t, err, salary.ErrInconsistentState)
	assert.ErrorIs(t, err, salary.ErrInvalidInput)
}
