package report

import "errors"

var (
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrRangeTooLarge    = errors.New("date range must not exceed 366 days")
	ErrInvalidGroupBy   = errors.New("group_by must be one of: none, employee, date, template")
)
