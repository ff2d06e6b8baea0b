package ruleset

import (
	"context"
	"fmt"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
)

type ServiceImpl struct {
	repo     ruleset.Repository
	resolver ruleset.Resolver
}

func NewService(repo ruleset.Repository, resolver ruleset.Resolver) ruleset.Service {
	return &ServiceImpl{repo: repo, resolver: resolver}
}

// GetSettings implements ruleset.Service.
func (s *ServiceImpl) GetSettings(ctx context.Context) (ruleset.SettingsResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return ruleset.SettingsResponse{}, err
	}
	return s.settingsFor(ctx, claims.RuleScope())
}

func (s *ServiceImpl) settingsFor(ctx context.Context, scope *string) (ruleset.SettingsResponse, error) {
	system, err := s.repo.ListSettings(ctx, nil)
	if err != nil {
		return ruleset.SettingsResponse{}, err
	}
	var own []ruleset.Setting
	if scope != nil {
		if own, err = s.repo.ListSettings(ctx, scope); err != nil {
			return ruleset.SettingsResponse{}, err
		}
	}

	rs := ruleset.FromSettings(system, own)
	scopes := make(map[ruleset.SettingKey]string, len(ruleset.SettingKeys))
	descriptions := make(map[ruleset.SettingKey]string, len(ruleset.SettingKeys))
	for _, row := range system {
		scopes[row.Key] = "system"
		if row.Description != nil {
			descriptions[row.Key] = *row.Description
		}
	}
	for _, row := range own {
		scopes[row.Key] = "user"
	}

	resp := ruleset.SettingsResponse{RuleSet: rs}
	for _, key := range ruleset.SettingKeys {
		scope, ok := scopes[key]
		if !ok {
			scope = "default"
		}
		desc, ok := descriptions[key]
		if !ok {
			desc = ruleset.SettingDescriptions[key]
		}
		resp.Settings = append(resp.Settings, ruleset.SettingResponse{
			Key:         key,
			Value:       rs.Value(key),
			Description: desc,
			Scope:       scope,
		})
	}
	return resp, nil
}

// UpdateSettings implements ruleset.Service. Admins write the system rows,
// other users their own.
func (s *ServiceImpl) UpdateSettings(ctx context.Context, req ruleset.UpdateSettingsRequest) (ruleset.SettingsResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return ruleset.SettingsResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return ruleset.SettingsResponse{}, err
	}

	var rows []ruleset.Setting
	for _, key := range ruleset.SettingKeys {
		if v, ok := req.Values[key]; ok {
			rows = append(rows, ruleset.Setting{Key: key, Value: v})
		}
	}
	return s.writeSettings(ctx, claims.RuleScope(), rows)
}

func (s *ServiceImpl) writeSettings(ctx context.Context, scope *string, rows []ruleset.Setting) (ruleset.SettingsResponse, error) {
	if err := s.repo.UpsertSettings(ctx, scope, rows); err != nil {
		return ruleset.SettingsResponse{}, err
	}
	s.resolver.Invalidate(ctx, scope)
	return s.settingsFor(ctx, scope)
}

// ListTemplates implements ruleset.Service.
func (s *ServiceImpl) ListTemplates(ctx context.Context) ([]ruleset.TemplateResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	templates, err := s.repo.ListTemplates(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	resp := make([]ruleset.TemplateResponse, 0, len(templates))
	for _, t := range templates {
		resp = append(resp, ruleset.NewTemplateResponse(t))
	}
	return resp, nil
}

// getVisible hides templates the caller may not read behind ErrTemplateNotFound.
func (s *ServiceImpl) getVisible(ctx context.Context, claims jwt.Claims, id string) (ruleset.Template, error) {
	t, err := s.repo.GetTemplateByID(ctx, id)
	if err != nil {
		return ruleset.Template{}, err
	}
	if !claims.IsAdmin() && !t.VisibleTo(claims.UserID) {
		return ruleset.Template{}, ruleset.ErrTemplateNotFound
	}
	return t, nil
}

func canModify(claims jwt.Claims, t ruleset.Template) bool {
	if claims.IsAdmin() {
		return true
	}
	return t.UserID != nil && *t.UserID == claims.UserID
}

// GetTemplate implements ruleset.Service.
func (s *ServiceImpl) GetTemplate(ctx context.Context, id string) (ruleset.TemplateResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return ruleset.TemplateResponse{}, err
	}
	t, err := s.getVisible(ctx, claims, id)
	if err != nil {
		return ruleset.TemplateResponse{}, err
	}
	return ruleset.NewTemplateResponse(t), nil
}

// CreateTemplate implements ruleset.Service. Only admins create global templates.
func (s *ServiceImpl) CreateTemplate(ctx context.Context, req ruleset.CreateTemplateRequest) (ruleset.TemplateResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return ruleset.TemplateResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return ruleset.TemplateResponse{}, err
	}
	return s.create(ctx, claims, req.Name, req.Description, req.Data, req.IsGlobal)
}

func (s *ServiceImpl) create(ctx context.Context, claims jwt.Claims, name string, description *string, data ruleset.TemplateData, isGlobal bool) (ruleset.TemplateResponse, error) {
	if isGlobal && !claims.IsAdmin() {
		return ruleset.TemplateResponse{}, ruleset.ErrTemplateForbidden
	}
	owner := claims.UserID
	created, err := s.repo.CreateTemplate(ctx, ruleset.Template{
		Name:        name,
		Description: description,
		Data:        data,
		UserID:      &owner,
		IsGlobal:    isGlobal,
	})
	if err != nil {
		return ruleset.TemplateResponse{}, err
	}
	return ruleset.NewTemplateResponse(created), nil
}

// UpdateTemplate implements ruleset.Service.
func (s *ServiceImpl) UpdateTemplate(ctx context.Context, req ruleset.UpdateTemplateRequest) (ruleset.TemplateResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return ruleset.TemplateResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return ruleset.TemplateResponse{}, err
	}

	t, err := s.getVisible(ctx, claims, req.ID)
	if err != nil {
		return ruleset.TemplateResponse{}, err
	}
	if !canModify(claims, t) {
		return ruleset.TemplateResponse{}, ruleset.ErrTemplateForbidden
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Data != nil {
		t.Data = *req.Data
	}
	if req.IsGlobal != nil {
		if *req.IsGlobal && !claims.IsAdmin() {
			return ruleset.TemplateResponse{}, ruleset.ErrTemplateForbidden
		}
		t.IsGlobal = *req.IsGlobal
	}

	updated, err := s.repo.UpdateTemplate(ctx, t)
	if err != nil {
		return ruleset.TemplateResponse{}, err
	}
	return ruleset.NewTemplateResponse(updated), nil
}

// DeleteTemplate implements ruleset.Service.
func (s *ServiceImpl) DeleteTemplate(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	t, err := s.getVisible(ctx, claims, id)
	if err != nil {
		return err
	}
	if !canModify(claims, t) {
		return ruleset.ErrTemplateForbidden
	}
	return s.repo.DeleteTemplate(ctx, id)
}

// ApplyTemplate implements ruleset.Service. The template's salary-side values
// are copied into the caller's global settings.
func (s *ServiceImpl) ApplyTemplate(ctx context.Context, id string) (ruleset.SettingsResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return ruleset.SettingsResponse{}, err
	}
	t, err := s.getVisible(ctx, claims, id)
	if err != nil {
		return ruleset.SettingsResponse{}, err
	}

	applied := ruleset.RuleSet{}.WithTemplate(t.Data)
	var rows []ruleset.Setting
	for _, key := range ruleset.SettingKeys {
		if key == ruleset.KeyClientPayment || key == ruleset.KeyVenueFee {
			continue
		}
		rows = append(rows, ruleset.Setting{Key: key, Value: applied.Value(key)})
	}
	return s.writeSettings(ctx, claims.RuleScope(), rows)
}

// CreateTemplateFromCurrent implements ruleset.Service.
func (s *ServiceImpl) CreateTemplateFromCurrent(ctx context.Context, req ruleset.CreateFromCurrentRequest) (ruleset.TemplateResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return ruleset.TemplateResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return ruleset.TemplateResponse{}, err
	}

	current, err := s.resolver.Global(ctx, claims.RuleScope())
	if err != nil {
		return ruleset.TemplateResponse{}, fmt.Errorf("failed to read current settings: %w", err)
	}
	return s.create(ctx, claims, req.Name, req.Description, current.TemplateData(), req.IsGlobal)
}
