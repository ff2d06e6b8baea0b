package attendance

import (
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/salary"
)

// Attendance is one employee's record for one calendar date. The breakdown
// is computed when the record is written and stored alongside it.
type Attendance struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	IsWorking   bool
	ClientCount int
	Breakdown   salary.Breakdown
	CreatedBy   *string
	UpdatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DTO
	EmployeeName  *string
	TemplateName  *string
	UpdatedByName *string
}
