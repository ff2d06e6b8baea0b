package report

import (
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/dateutil"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MaxRangeDays bounds every report query.
const MaxRangeDays = 366

type RangeRequest struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	GroupBy    GroupBy `json:"group_by"`
	EmployeeID *string `json:"employee_id,omitempty"`

	start time.Time
	end   time.Time
}

func (r *RangeRequest) Validate() error {
	var errs validator.ValidationErrors

	start, err := dateutil.Parse(r.StartDate)
	if err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, err := dateutil.Parse(r.EndDate)
	if err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if r.GroupBy == "" {
		r.GroupBy = GroupByNone
	}
	if !r.GroupBy.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "group_by",
			Message: ErrInvalidGroupBy.Error(),
		})
	}

	if r.EmployeeID != nil && *r.EmployeeID != "" && !validator.IsValidUUID(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	if end.Before(start) {
		return ErrInvalidDateRange
	}
	if end.Sub(start) > MaxRangeDays*24*time.Hour {
		return ErrRangeTooLarge
	}

	r.start, r.end = start, end
	return nil
}

// Range returns the parsed bounds. Valid only after Validate succeeded.
func (r *RangeRequest) Range() (time.Time, time.Time) {
	return r.start, r.end
}

type StatsResponse struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	GroupBy   GroupBy `json:"group_by"`
	Totals    Totals  `json:"totals"`
	Groups    []Group `json:"groups,omitempty"`
}

// IncomeStatsResponse is role-dependent: OwnerProfit and VenueFees are only
// filled for admins.
type IncomeStatsResponse struct {
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date"`
	ClientCount      int              `json:"client_count"`
	WorkingDays      int              `json:"working_days"`
	Revenue          decimal.Decimal  `json:"revenue"`
	TotalSalary      decimal.Decimal  `json:"total_salary"`
	BrokerCommission decimal.Decimal  `json:"broker_commission"`
	VenueFees        *decimal.Decimal `json:"venue_fees,omitempty"`
	OwnerProfit      *decimal.Decimal `json:"owner_profit,omitempty"`
	ByTemplate       []IncomeGroup    `json:"by_template"`
}

type IncomeGroup struct {
	Template         string           `json:"template"`
	ClientCount      int              `json:"client_count"`
	Revenue          decimal.Decimal  `json:"revenue"`
	TotalSalary      decimal.Decimal  `json:"total_salary"`
	BrokerCommission decimal.Decimal  `json:"broker_commission"`
	OwnerProfit      *decimal.Decimal `json:"owner_profit,omitempty"`
}
