package ruleset

import (
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SETTINGS DTOs ==========

type SettingResponse struct {
	Key         SettingKey      `json:"key"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
	Scope       string          `json:"scope"` // "user", "system" or "default"
}

type SettingsResponse struct {
	Settings []SettingResponse `json:"settings"`
	RuleSet  RuleSet           `json:"rule_set"`
}

type UpdateSettingsRequest struct {
	Values map[SettingKey]decimal.Decimal `json:"values"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Values) == 0 {
		errs = append(errs, validator.ValidationError{Field: "values", Message: "at least one setting is required"})
	}
	for key, value := range r.Values {
		if !key.IsValid() {
			errs = append(errs, validator.ValidationError{Field: string(key), Message: "unknown setting key"})
			continue
		}
		if value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: string(key), Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks the non-negativity of every field.
func (r RuleSet) Validate() error {
	var errs validator.ValidationErrors
	for _, key := range SettingKeys {
		if r.Value(key).IsNegative() {
			errs = append(errs, validator.ValidationError{Field: string(key), Message: "must be non-negative"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (d TemplateData) validate(prefix string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"base_salary_with_client", d.BaseSalaryWithClient},
		{"base_salary_no_client", d.BaseSalaryNoClient},
		{"first_client_bonus", d.FirstClientBonus},
		{"additional_client_bonus", d.AdditionalClientBonus},
		{"broker_first_client", d.BrokerFirstClient},
		{"broker_additional_client", d.BrokerAdditionalClient},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: prefix + f.name, Message: "must be non-negative"})
		}
	}
	return errs
}

// ========== TEMPLATE DTOs ==========

type CreateTemplateRequest struct {
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	Data        TemplateData `json:"template_data"`
	IsGlobal    bool         `json:"is_global"`
}

func (r *CreateTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must be at most 100 characters"})
	}
	errs = append(errs, r.Data.validate("template_data.")...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateTemplateRequest struct {
	ID          string        `json:"-"`
	Name        *string       `json:"name,omitempty"`
	Description *string       `json:"description,omitempty"`
	Data        *TemplateData `json:"template_data,omitempty"`
	IsGlobal    *bool         `json:"is_global,omitempty"`
}

func (r *UpdateTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "cannot be empty"})
	}
	if r.Data != nil {
		errs = append(errs, r.Data.validate("template_data.")...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateFromCurrentRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsGlobal    bool    `json:"is_global"`
}

func (r *CreateFromCurrentRequest) Validate() error {
	if validator.IsEmpty(r.Name) {
		return validator.ValidationErrors{{Field: "name", Message: "is required"}}
	}
	return nil
}

type TemplateResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	Data        TemplateData `json:"template_data"`
	IsGlobal    bool         `json:"is_global"`
	UserID      *string      `json:"user_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func NewTemplateResponse(t Template) TemplateResponse {
	return TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Data:        t.Data,
		IsGlobal:    t.IsGlobal,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ResolvedRuleSetResponse shows an employee's effective rule set and where it came from.
type ResolvedRuleSetResponse struct {
	Source       SourceKind `json:"source"`
	TemplateID   *string    `json:"template_id,omitempty"`
	TemplateName *string    `json:"template_name,omitempty"`
	RuleSet      RuleSet    `json:"rule_set"`
}
