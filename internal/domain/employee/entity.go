package employee

import (
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/dateutil"
)

type Employee struct {
	ID             string
	Name           string
	TemplateID     *string
	LastPayoutDate *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined fields
	TemplateName *string
}

// RuleSource tags where this employee's rule set comes from. userID scopes
// the global values used for the fields a template never overrides.
func (e Employee) RuleSource(userID *string) ruleset.Source {
	if e.TemplateID != nil && *e.TemplateID != "" {
		return ruleset.TemplateSource(*e.TemplateID, userID)
	}
	return ruleset.GlobalSource(userID)
}

// SettlementStart is the first unpaid day: the day after the last payout,
// or the creation date for an employee never paid.
func (e Employee) SettlementStart(loc *time.Location) time.Time {
	if e.LastPayoutDate != nil {
		return dateutil.NextDay(*e.LastPayoutDate)
	}
	if loc == nil {
		loc = time.UTC
	}
	return dateutil.Date(e.CreatedAt.In(loc))
}
