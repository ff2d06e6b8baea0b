package report

import "github.com/shopspring/decimal"

// Totals is the per-field sum of a set of attendance records.
type Totals struct {
	TotalSalary      decimal.Decimal `json:"total_salary"`
	BrokerCommission decimal.Decimal `json:"broker_commission"`
	OwnerProfit      decimal.Decimal `json:"owner_profit"`
	ClientCount      int             `json:"client_count"`
	WorkingDays      int             `json:"working_days"`
	RecordCount      int             `json:"record_count"`
}

// Group is the totals of all records sharing one grouping key.
type Group struct {
	Key    string `json:"key"`
	Totals Totals `json:"totals"`
}

// GroupBy selects the grouping key of a report.
type GroupBy string

const (
	GroupByNone     GroupBy = "none"
	GroupByEmployee GroupBy = "employee"
	GroupByDate     GroupBy = "date"
	GroupByTemplate GroupBy = "template"
)

func (g GroupBy) IsValid() bool {
	switch g {
	case GroupByNone, GroupByEmployee, GroupByDate, GroupByTemplate:
		return true
	}
	return false
}

// GlobalRulesLabel is the template-group key of records computed with the
// global rule set.
const GlobalRulesLabel = "Global settings"
