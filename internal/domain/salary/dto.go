package salary

import (
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/dateutil"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PreviewRequest struct {
	EmployeeID  *string `json:"employee_id,omitempty"`
	ClientCount int     `json:"client_count"`
	IsWorking   bool    `json:"is_working"`
}

func (r *PreviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ClientCount < 0 {
		errs = append(errs, validator.ValidationError{Field: "client_count", Message: "must be non-negative"})
	}
	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePayoutDateRequest struct {
	EmployeeID     string  `json:"-"`
	LastPayoutDate *string `json:"last_payout_date"`
}

// Parse validates the request and returns the checkpoint date, nil to clear it.
func (r *UpdatePayoutDateRequest) Parse() (*time.Time, error) {
	if r.LastPayoutDate == nil || *r.LastPayoutDate == "" {
		return nil, nil
	}
	d, err := dateutil.Parse(*r.LastPayoutDate)
	if err != nil {
		return nil, validator.ValidationErrors{{Field: "last_payout_date", Message: "must be in YYYY-MM-DD format"}}
	}
	return &d, nil
}

type SettlementSummary struct {
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     string          `json:"employee_name"`
	LastPayoutDate   *time.Time      `json:"last_payout_date"`
	StartDate        time.Time       `json:"start_date"`
	UnpaidDays       int             `json:"unpaid_days"`
	UnpaidBaseSalary decimal.Decimal `json:"unpaid_base_salary"`
}

type SettlementListResponse struct {
	Settlements     []SettlementSummary `json:"settlements"`
	TotalUnpaidDays int                 `json:"total_unpaid_days"`
	TotalUnpaidBase decimal.Decimal     `json:"total_unpaid_base_salary"`
	AsOf            time.Time           `json:"as_of"`
}

func (s Settlement) Summary() SettlementSummary {
	return SettlementSummary{
		EmployeeID:       s.EmployeeID,
		EmployeeName:     s.EmployeeName,
		LastPayoutDate:   s.LastPayoutDate,
		StartDate:        s.StartDate,
		UnpaidDays:       s.UnpaidDays,
		UnpaidBaseSalary: s.UnpaidBaseSalary,
	}
}
