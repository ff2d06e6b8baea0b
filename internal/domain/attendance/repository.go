package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Upsert writes the record for (employee, date), overwriting any existing one.
	// CreatedBy is kept from the first write.
	Upsert(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListByRange returns every record in [start, end], optionally for one
	// employee, ordered by date then employee name.
	ListByRange(ctx context.Context, start, end time.Time, employeeID *string) ([]Attendance, error)

	// ListRecentChanges returns the most recently written records.
	ListRecentChanges(ctx context.Context, limit int) ([]Attendance, error)

	Delete(ctx context.Context, id string) error
}
