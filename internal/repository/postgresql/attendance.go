package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/attendance"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/employee"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceSelect = `
	SELECT
		a.id, a.employee_id, a.date, a.is_working, a.client_count,
		a.base_salary, a.commission, a.total_salary, a.broker_commission, a.owner_profit,
		a.created_by, a.updated_by, a.created_at, a.updated_at,
		e.name AS employee_name,
		t.name AS template_name,
		COALESCE(u.name, u.username) AS updated_by_name
	FROM attendance a
	JOIN employees e ON e.id = a.employee_id
	LEFT JOIN settings_templates t ON t.id = e.template_id
	LEFT JOIN users u ON u.id = a.updated_by
`

// scanAttendance reads one joined row. NULL amounts read as zero.
func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		att                                   attendance.Attendance
		base, commission, total, broker, prof decimal.NullDecimal
		clientCount                           *int
	)
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.IsWorking, &clientCount,
		&base, &commission, &total, &broker, &prof,
		&att.CreatedBy, &att.UpdatedBy, &att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName, &att.TemplateName, &att.UpdatedByName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if clientCount != nil {
		att.ClientCount = *clientCount
	}
	att.Breakdown.BaseSalary = orZero(base)
	att.Breakdown.Commission = orZero(commission)
	att.Breakdown.TotalSalary = orZero(total)
	att.Breakdown.BrokerCommission = orZero(broker)
	att.Breakdown.OwnerProfit = orZero(prof)
	return att, nil
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func collectAttendance(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}

// Upsert implements attendance.AttendanceRepository.
func (a *attendanceRepository) Upsert(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	query := `
		INSERT INTO attendance (
			id, employee_id, date, is_working, client_count,
			base_salary, commission, total_salary, broker_commission, owner_profit,
			created_by, updated_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (employee_id, date) DO UPDATE SET
			is_working = EXCLUDED.is_working,
			client_count = EXCLUDED.client_count,
			base_salary = EXCLUDED.base_salary,
			commission = EXCLUDED.commission,
			total_salary = EXCLUDED.total_salary,
			broker_commission = EXCLUDED.broker_commission,
			owner_profit = EXCLUDED.owner_profit,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING id
	`
	b := att.Breakdown
	var savedID string
	err = q.QueryRow(ctx, query,
		id.String(), att.EmployeeID, att.Date, att.IsWorking, att.ClientCount,
		b.BaseSalary, b.Commission, b.TotalSalary, b.BrokerCommission, b.OwnerProfit,
		att.CreatedBy, att.UpdatedBy,
	).Scan(&savedID)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return attendance.Attendance{}, employee.ErrEmployeeNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return a.GetByID(ctx, savedID)
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+" WHERE a.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}
	return att, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.IsWorking != nil {
		baseWhere += fmt.Sprintf(" AND a.is_working = $%d", argIdx)
		args = append(args, *filter.IsWorking)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendance a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	// Build ORDER BY
	orderByField := "a.date"
	switch filter.SortBy {
	case "employee_name":
		orderByField = "e.name"
	case "client_count":
		orderByField = "a.client_count"
	case "total_salary":
		orderByField = "a.total_salary"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY %s %s, e.name ASC
		LIMIT $%d OFFSET $%d
	`, attendanceSelect, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 50
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance: %w", err)
	}
	records, err := collectAttendance(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListByRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByRange(ctx context.Context, start, end time.Time, employeeID *string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := attendanceSelect + `
		WHERE a.date BETWEEN $1 AND $2
		  AND ($3::uuid IS NULL OR a.employee_id = $3::uuid)
		ORDER BY a.date ASC, e.name ASC
	`
	rows, err := q.Query(ctx, query, start, end, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance range: %w", err)
	}
	return collectAttendance(rows)
}

// ListRecentChanges implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListRecentChanges(ctx context.Context, limit int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, attendanceSelect+" ORDER BY a.updated_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance changes: %w", err)
	}
	return collectAttendance(rows)
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
