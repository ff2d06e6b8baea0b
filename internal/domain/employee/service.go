package employee

import (
	"context"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
)

type EmployeeService interface {
	List(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
	AssignTemplate(ctx context.Context, req AssignTemplateRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
	GetRuleSet(ctx context.Context, id string) (ruleset.ResolvedRuleSetResponse, error)
}
