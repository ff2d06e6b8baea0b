package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/database"
)

type rulesetRepositoryImpl struct {
	db *database.DB
}

func NewRuleSetRepository(db *database.DB) ruleset.Repository {
	return &rulesetRepositoryImpl{db: db}
}

// ListSettings implements ruleset.Repository.
func (r *rulesetRepositoryImpl) ListSettings(ctx context.Context, userID *string) ([]ruleset.Setting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT key, value, description, user_id, updated_at
		FROM settings
		WHERE user_id IS NOT DISTINCT FROM $1::uuid
		ORDER BY key
	`
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	settings := []ruleset.Setting{}
	for rows.Next() {
		var s ruleset.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.Description, &s.UserID, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}
	return settings, nil
}

// UpsertSettings implements ruleset.Repository. All rows are written in one transaction.
func (r *rulesetRepositoryImpl) UpsertSettings(ctx context.Context, userID *string, settings []ruleset.Setting) error {
	query := `
		INSERT INTO settings (key, value, description, user_id, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (key, user_id) DO UPDATE SET
			value = EXCLUDED.value,
			description = COALESCE(EXCLUDED.description, settings.description),
			updated_at = NOW()
	`
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)
		for _, s := range settings {
			if _, err := q.Exec(ctx, query, string(s.Key), s.Value, s.Description, userID); err != nil {
				return fmt.Errorf("failed to upsert setting %s: %w", s.Key, err)
			}
		}
		return nil
	})
}

const templateColumns = `id, name, description, template_data, user_id, is_global, created_at, updated_at`

func scanTemplate(row pgx.Row) (ruleset.Template, error) {
	var t ruleset.Template
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Data, &t.UserID, &t.IsGlobal, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// CreateTemplate implements ruleset.Repository.
func (r *rulesetRepositoryImpl) CreateTemplate(ctx context.Context, template ruleset.Template) (ruleset.Template, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return ruleset.Template{}, fmt.Errorf("failed to generate template id: %w", err)
	}

	query := `
		INSERT INTO settings_templates (id, name, description, template_data, user_id, is_global, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + templateColumns
	created, err := scanTemplate(q.QueryRow(ctx, query,
		id.String(), template.Name, template.Description, template.Data, template.UserID, template.IsGlobal,
	))
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return ruleset.Template{}, ruleset.ErrTemplateNameExists
		}
		return ruleset.Template{}, fmt.Errorf("failed to create template: %w", err)
	}
	return created, nil
}

// GetTemplateByID implements ruleset.Repository.
func (r *rulesetRepositoryImpl) GetTemplateByID(ctx context.Context, id string) (ruleset.Template, error) {
	q := GetQuerier(ctx, r.db)

	t, err := scanTemplate(q.QueryRow(ctx, `SELECT `+templateColumns+` FROM settings_templates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ruleset.Template{}, ruleset.ErrTemplateNotFound
		}
		return ruleset.Template{}, fmt.Errorf("failed to get template: %w", err)
	}
	return t, nil
}

// ListTemplates implements ruleset.Repository.
func (r *rulesetRepositoryImpl) ListTemplates(ctx context.Context, userID string) ([]ruleset.Template, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + templateColumns + `
		FROM settings_templates
		WHERE is_global OR user_id IS NULL OR user_id = $1
		ORDER BY is_global DESC, name ASC
	`
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := []ruleset.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", err)
	}
	return templates, nil
}

// UpdateTemplate implements ruleset.Repository.
func (r *rulesetRepositoryImpl) UpdateTemplate(ctx context.Context, template ruleset.Template) (ruleset.Template, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE settings_templates
		SET name = $1, description = $2, template_data = $3, is_global = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + templateColumns
	updated, err := scanTemplate(q.QueryRow(ctx, query,
		template.Name, template.Description, template.Data, template.IsGlobal, template.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ruleset.Template{}, ruleset.ErrTemplateNotFound
		}
		if isPgError(err, pgUniqueViolation) {
			return ruleset.Template{}, ruleset.ErrTemplateNameExists
		}
		return ruleset.Template{}, fmt.Errorf("failed to update template: %w", err)
	}
	return updated, nil
}

// DeleteTemplate implements ruleset.Repository. Templates still assigned to
// an employee cannot be deleted.
func (r *rulesetRepositoryImpl) DeleteTemplate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM settings_templates WHERE id = $1`, id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ruleset.ErrTemplateInUse
		}
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ruleset.ErrTemplateNotFound
	}
	return nil
}
