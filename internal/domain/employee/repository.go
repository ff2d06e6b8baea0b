package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	UpdateName(ctx context.Context, id string, name string) error
	AssignTemplate(ctx context.Context, id string, templateID *string) error
	UpdateLastPayoutDate(ctx context.Context, id string, date *time.Time) error
	Delete(ctx context.Context, id string) error
}
