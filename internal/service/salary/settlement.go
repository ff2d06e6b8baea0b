package salary

import (
	"fmt"
	"iter"
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/attendance"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/employee"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/salary"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// AttendanceLookup returns the record stored for a calendar date, if any.
type AttendanceLookup func(date time.Time) (attendance.Attendance, bool)

// RulesForDate returns the rule set in effect on a calendar date.
type RulesForDate func(date time.Time) ruleset.RuleSet

// Days yields every calendar date from start to end inclusive. Nothing is
// yielded when start is after end.
func Days(start, end time.Time) iter.Seq[time.Time] {
	start, end = dateutil.Date(start), dateutil.Date(end)
	return func(yield func(time.Time) bool) {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// IndexByDate builds an AttendanceLookup over records of a single employee.
func IndexByDate(records []attendance.Attendance) AttendanceLookup {
	byDate := make(map[string]attendance.Attendance, len(records))
	for _, r := range records {
		byDate[dateutil.Format(r.Date)] = r
	}
	return func(date time.Time) (attendance.Attendance, bool) {
		r, ok := byDate[dateutil.Format(date)]
		return r, ok
	}
}

// UniformRules applies one rule set to every date.
func UniformRules(rules ruleset.RuleSet) RulesForDate {
	return func(time.Time) ruleset.RuleSet { return rules }
}

// ComputeSettlement walks every day from the employee's first unpaid day to
// today inclusive. Days without a record count as not worked with a zero base
// salary. Base salaries of recorded days are recomputed with rulesFor.
// A first unpaid day after today yields an empty settlement. The employee's
// checkpoint is never modified.
func ComputeSettlement(emp employee.Employee, lookup AttendanceLookup, rulesFor RulesForDate, today time.Time, loc *time.Location) (salary.Settlement, error) {
	start := emp.SettlementStart(loc)
	today = dateutil.Date(today)

	s := salary.Settlement{
		EmployeeID:       emp.ID,
		EmployeeName:     emp.Name,
		LastPayoutDate:   emp.LastPayoutDate,
		StartDate:        start,
		EndDate:          today,
		UnpaidBaseSalary: decimal.Zero,
		Days:             []salary.DailyRecord{},
	}

	for day := range Days(start, today) {
		rec := salary.DailyRecord{Date: day, BaseSalary: decimal.Zero}

		if a, ok := lookup(day); ok {
			b, err := ComputeBreakdown(a.ClientCount, a.IsWorking, rulesFor(day))
			if err != nil {
				return salary.Settlement{}, fmt.Errorf("%w: attendance %s on %s: %w",
					salary.ErrInconsistentState, a.ID, dateutil.Format(day), err)
			}
			rec.Recorded = true
			rec.IsWorking = a.IsWorking
			if a.IsWorking {
				rec.ClientCount = a.ClientCount
				rec.HasClients = a.ClientCount > 0
			}
			rec.BaseSalary = b.BaseSalary
		}

		if rec.IsWorking {
			s.UnpaidDays++
		}
		s.UnpaidBaseSalary = s.UnpaidBaseSalary.Add(rec.BaseSalary)
		s.Days = append(s.Days, rec)
	}

	return s, nil
}
