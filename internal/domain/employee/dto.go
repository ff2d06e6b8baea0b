package employee

import (
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/dateutil"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	Name       string  `json:"name"`
	TemplateID *string `json:"template_id,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 100 characters"})
	}
	if r.TemplateID != nil && *r.TemplateID != "" && !validator.IsValidUUID(*r.TemplateID) {
		errs = append(errs, validator.ValidationError{Field: "template_id", Message: "template_id must be a valid UUID"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID   string `json:"-"`
	Name string `json:"name"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	if validator.IsEmpty(r.Name) {
		return validator.ValidationErrors{{Field: "name", Message: "name is required"}}
	}
	return nil
}

// AssignTemplateRequest sets or, with a null template_id, clears the template.
type AssignTemplateRequest struct {
	ID         string  `json:"-"`
	TemplateID *string `json:"template_id"`
}

func (r *AssignTemplateRequest) Validate() error {
	if r.TemplateID != nil && *r.TemplateID != "" && !validator.IsValidUUID(*r.TemplateID) {
		return validator.ValidationErrors{{Field: "template_id", Message: "template_id must be a valid UUID"}}
	}
	return nil
}

type EmployeeResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	TemplateID     *string   `json:"template_id"`
	TemplateName   *string   `json:"template_name"`
	LastPayoutDate *string   `json:"last_payout_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		TemplateID:   e.TemplateID,
		TemplateName: e.TemplateName,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.LastPayoutDate != nil {
		d := dateutil.Format(*e.LastPayoutDate)
		resp.LastPayoutDate = &d
	}
	return resp
}
