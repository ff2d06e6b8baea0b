package ruleset

import "context"

// Resolver turns a Source into a concrete RuleSet.
type Resolver interface {
	Global(ctx context.Context, userID *string) (RuleSet, error)
	Resolve(ctx context.Context, src Source) (RuleSet, error)
	// Invalidate drops cached global rule sets; nil drops every scope.
	Invalidate(ctx context.Context, userID *string)
}

type Service interface {
	GetSettings(ctx context.Context) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)

	ListTemplates(ctx context.Context) ([]TemplateResponse, error)
	GetTemplate(ctx context.Context, id string) (TemplateResponse, error)
	CreateTemplate(ctx context.Context, req CreateTemplateRequest) (TemplateResponse, error)
	UpdateTemplate(ctx context.Context, req UpdateTemplateRequest) (TemplateResponse, error)
	DeleteTemplate(ctx context.Context, id string) error
	ApplyTemplate(ctx context.Context, id string) (SettingsResponse, error)
	CreateTemplateFromCurrent(ctx context.Context, req CreateFromCurrentRequest) (TemplateResponse, error)
}
