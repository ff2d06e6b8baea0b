package ruleset

import "context"

type Repository interface {
	// Settings. A nil userID addresses the system rows.
	ListSettings(ctx context.Context, userID *string) ([]Setting, error)
	UpsertSettings(ctx context.Context, userID *string, settings []Setting) error

	// Templates
	CreateTemplate(ctx context.Context, template Template) (Template, error)
	GetTemplateByID(ctx context.Context, id string) (Template, error)
	ListTemplates(ctx context.Context, userID string) ([]Template, error)
	UpdateTemplate(ctx context.Context, template Template) (Template, error)
	DeleteTemplate(ctx context.Context, id string) error
}
