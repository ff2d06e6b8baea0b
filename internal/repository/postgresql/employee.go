package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/employee"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT e.id, e.name, e.template_id, e.last_payout_date, e.created_at, e.updated_at,
		t.name AS template_name
	FROM employees e
	LEFT JOIN settings_templates t ON t.id = e.template_id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.Name, &e.TemplateID, &e.LastPayoutDate, &e.CreatedAt, &e.UpdatedAt,
		&e.TemplateName,
	)
	return e, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, employeeSelect+" WHERE e.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, employeeSelect+" ORDER BY e.name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
	}

	query := `
		INSERT INTO employees (id, name, template_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, name, template_id, last_payout_date, created_at, updated_at
	`
	var created employee.Employee
	err = q.QueryRow(ctx, query, id.String(), newEmployee.Name, newEmployee.TemplateID).Scan(
		&created.ID, &created.Name, &created.TemplateID, &created.LastPayoutDate,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return employee.Employee{}, employee.ErrEmployeeNameExists
		}
		if isPgError(err, pgForeignKeyViolation) {
			return employee.Employee{}, ruleset.ErrTemplateNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// UpdateName implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateName(ctx context.Context, id string, name string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET name = $1, updated_at = NOW() WHERE id = $2`, name, id)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return employee.ErrEmployeeNameExists
		}
		return fmt.Errorf("failed to update employee with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// AssignTemplate implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) AssignTemplate(ctx context.Context, id string, templateID *string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET template_id = $1, updated_at = NOW() WHERE id = $2`, templateID, id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ruleset.ErrTemplateNotFound
		}
		return fmt.Errorf("failed to assign template to employee with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdateLastPayoutDate implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateLastPayoutDate(ctx context.Context, id string, date *time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET last_payout_date = $1, updated_at = NOW() WHERE id = $2`, date, id)
	if err != nil {
		return fmt.Errorf("failed to update payout date of employee with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete implements employee.EmployeeRepository. Attendance rows cascade.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
