package report

import (
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/attendance"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/report"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// KeyFunc picks the group a record belongs to.
type KeyFunc func(a attendance.Attendance) string

func ByEmployee(a attendance.Attendance) string {
	if a.EmployeeName != nil && *a.EmployeeName != "" {
		return *a.EmployeeName
	}
	return a.EmployeeID
}

func ByDate(a attendance.Attendance) string {
	return dateutil.Format(a.Date)
}

// ByTemplate groups by the employee's template name. Employees on the global
// rule set share report.GlobalRulesLabel.
func ByTemplate(a attendance.Attendance) string {
	if a.TemplateName != nil && *a.TemplateName != "" {
		return *a.TemplateName
	}
	return report.GlobalRulesLabel
}

func Ungrouped(attendance.Attendance) string {
	return "all"
}

// KeyFor returns the KeyFunc of a grouping mode.
func KeyFor(g report.GroupBy) KeyFunc {
	switch g {
	case report.GroupByEmployee:
		return ByEmployee
	case report.GroupByDate:
		return ByDate
	case report.GroupByTemplate:
		return ByTemplate
	}
	return Ungrouped
}

func zeroTotals() report.Totals {
	return report.Totals{
		TotalSalary:      decimal.Zero,
		BrokerCommission: decimal.Zero,
		OwnerProfit:      decimal.Zero,
	}
}

func add(t report.Totals, a attendance.Attendance) report.Totals {
	t.TotalSalary = t.TotalSalary.Add(a.Breakdown.TotalSalary)
	t.BrokerCommission = t.BrokerCommission.Add(a.Breakdown.BrokerCommission)
	t.OwnerProfit = t.OwnerProfit.Add(a.Breakdown.OwnerProfit)
	t.RecordCount++
	if a.IsWorking {
		t.WorkingDays++
		t.ClientCount += a.ClientCount
	}
	return t
}

// Sum totals every record.
func Sum(records []attendance.Attendance) report.Totals {
	t := zeroTotals()
	for _, a := range records {
		t = add(t, a)
	}
	return t
}

// Aggregate folds records into one group per key. Groups appear in the
// order their key is first seen.
func Aggregate(records []attendance.Attendance, key KeyFunc) []report.Group {
	index := map[string]int{}
	groups := []report.Group{}
	for _, a := range records {
		k := key(a)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, report.Group{Key: k, Totals: zeroTotals()})
		}
		groups[i].Totals = add(groups[i].Totals, a)
	}
	return groups
}
