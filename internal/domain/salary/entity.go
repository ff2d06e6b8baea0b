package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// Breakdown is the result of one day's salary calculation.
// TotalSalary is always BaseSalary + Commission; OwnerProfit may be negative.
type Breakdown struct {
	BaseSalary       decimal.Decimal `json:"base_salary"`
	Commission       decimal.Decimal `json:"commission"`
	TotalSalary      decimal.Decimal `json:"total_salary"`
	BrokerCommission decimal.Decimal `json:"broker_commission"`
	OwnerProfit      decimal.Decimal `json:"owner_profit"`
}

// ZeroBreakdown is the breakdown of a day not worked.
func ZeroBreakdown() Breakdown {
	return Breakdown{
		BaseSalary:       decimal.Zero,
		Commission:       decimal.Zero,
		TotalSalary:      decimal.Zero,
		BrokerCommission: decimal.Zero,
		OwnerProfit:      decimal.Zero,
	}
}

// DailyRecord is one calendar day inside a settlement window.
type DailyRecord struct {
	Date        time.Time       `json:"date"`
	IsWorking   bool            `json:"is_working"`
	HasClients  bool            `json:"has_clients"`
	ClientCount int             `json:"client_count"`
	BaseSalary  decimal.Decimal `json:"base_salary"`
	Recorded    bool            `json:"recorded"`
}

// Settlement is the unpaid balance of one employee over
// (last payout date, today].
type Settlement struct {
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     string          `json:"employee_name"`
	LastPayoutDate   *time.Time      `json:"last_payout_date"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	UnpaidDays       int             `json:"unpaid_days"`
	UnpaidBaseSalary decimal.Decimal `json:"unpaid_base_salary"`
	Days             []DailyRecord   `json:"days"`
}
