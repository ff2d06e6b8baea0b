package employee

import (
	"context"
	"fmt"
	"strings"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/employee"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	rulesetRepo  ruleset.Repository
	resolver     ruleset.Resolver
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	rulesetRepo ruleset.Repository,
	resolver ruleset.Resolver,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		rulesetRepo:  rulesetRepo,
		resolver:     resolver,
	}
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, employee.NewEmployeeResponse(e))
	}
	return resp, nil
}

// GetByID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

// checkTemplate makes sure the caller can see the template being assigned.
func (s *EmployeeServiceImpl) checkTemplate(ctx context.Context, templateID *string) error {
	if templateID == nil {
		return nil
	}
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	t, err := s.rulesetRepo.GetTemplateByID(ctx, *templateID)
	if err != nil {
		return err
	}
	if !claims.IsAdmin() && !t.VisibleTo(claims.UserID) {
		return ruleset.ErrTemplateNotFound
	}
	return nil
}

func normalizeTemplateID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	templateID := normalizeTemplateID(req.TemplateID)
	if err := s.checkTemplate(ctx, templateID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		Name:       strings.TrimSpace(req.Name),
		TemplateID: templateID,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.GetByID(ctx, created.ID)
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.employeeRepo.UpdateName(ctx, req.ID, strings.TrimSpace(req.Name)); err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.GetByID(ctx, req.ID)
}

// AssignTemplate implements employee.EmployeeService. A nil template id
// puts the employee back on the global rule set.
func (s *EmployeeServiceImpl) AssignTemplate(ctx context.Context, req employee.AssignTemplateRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	templateID := normalizeTemplateID(req.TemplateID)
	if err := s.checkTemplate(ctx, templateID); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.employeeRepo.AssignTemplate(ctx, req.ID, templateID); err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.GetByID(ctx, req.ID)
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string) error {
	return s.employeeRepo.Delete(ctx, id)
}

// GetRuleSet implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetRuleSet(ctx context.Context, id string) (ruleset.ResolvedRuleSetResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return ruleset.ResolvedRuleSetResponse{}, err
	}
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return ruleset.ResolvedRuleSetResponse{}, err
	}

	src := e.RuleSource(claims.RuleScope())
	rs, err := s.resolver.Resolve(ctx, src)
	if err != nil {
		return ruleset.ResolvedRuleSetResponse{}, fmt.Errorf("failed to resolve rules for employee %s: %w", id, err)
	}

	resp := ruleset.ResolvedRuleSetResponse{Source: src.Kind, RuleSet: rs}
	if src.Kind == ruleset.SourceTemplate {
		resp.TemplateID = e.TemplateID
		resp.TemplateName = e.TemplateName
	}
	return resp, nil
}
