package ruleset

import (
	"time"

	"github.com/shopspring/decimal"
)

// RuleSet is the bundle of pay rates, commissions and fees used for one
// calculation. It is passed by value and never mutated once resolved.
type RuleSet struct {
	ClientPayment          decimal.Decimal `json:"client_payment"`
	VenueFee               decimal.Decimal `json:"venue_fee"`
	BaseSalaryWithClient   decimal.Decimal `json:"base_salary_with_client"`
	BaseSalaryNoClient     decimal.Decimal `json:"base_salary_no_client"`
	FirstClientBonus       decimal.Decimal `json:"first_client_bonus"`
	AdditionalClientBonus  decimal.Decimal `json:"additional_client_bonus"`
	BrokerFirstClient      decimal.Decimal `json:"broker_first_client"`
	BrokerAdditionalClient decimal.Decimal `json:"broker_additional_client"`
}

// Default returns the built-in rule set used when neither a user-scoped nor
// a system settings row exists for a key.
func Default() RuleSet {
	return RuleSet{
		ClientPayment:          decimal.NewFromInt(900),
		VenueFee:               decimal.NewFromInt(120),
		BaseSalaryWithClient:   decimal.NewFromInt(350),
		BaseSalaryNoClient:     decimal.NewFromInt(100),
		FirstClientBonus:       decimal.NewFromInt(200),
		AdditionalClientBonus:  decimal.NewFromInt(300),
		BrokerFirstClient:      decimal.NewFromInt(50),
		BrokerAdditionalClient: decimal.NewFromInt(100),
	}
}

// WithTemplate overrides the salary-side fields with the template's values.
// ClientPayment and VenueFee always stay global.
func (r RuleSet) WithTemplate(d TemplateData) RuleSet {
	r.BaseSalaryWithClient = d.BaseSalaryWithClient
	r.BaseSalaryNoClient = d.BaseSalaryNoClient
	r.FirstClientBonus = d.FirstClientBonus
	r.AdditionalClientBonus = d.AdditionalClientBonus
	r.BrokerFirstClient = d.BrokerFirstClient
	r.BrokerAdditionalClient = d.BrokerAdditionalClient
	return r
}

// TemplateData extracts the salary-side fields.
func (r RuleSet) TemplateData() TemplateData {
	return TemplateData{
		BaseSalaryWithClient:   r.BaseSalaryWithClient,
		BaseSalaryNoClient:     r.BaseSalaryNoClient,
		FirstClientBonus:       r.FirstClientBonus,
		AdditionalClientBonus:  r.AdditionalClientBonus,
		BrokerFirstClient:      r.BrokerFirstClient,
		BrokerAdditionalClient: r.BrokerAdditionalClient,
	}
}

// Value returns the field stored under key.
func (r RuleSet) Value(key SettingKey) decimal.Decimal {
	switch key {
	case KeyClientPayment:
		return r.ClientPayment
	case KeyVenueFee:
		return r.VenueFee
	case KeyBaseSalaryWithClient:
		return r.BaseSalaryWithClient
	case KeyBaseSalaryNoClient:
		return r.BaseSalaryNoClient
	case KeyFirstClientBonus:
		return r.FirstClientBonus
	case KeyAdditionalClientBonus:
		return r.AdditionalClientBonus
	case KeyBrokerFirstClient:
		return r.BrokerFirstClient
	case KeyBrokerAdditionalClient:
		return r.BrokerAdditionalClient
	}
	return decimal.Zero
}

func (r *RuleSet) set(key SettingKey, v decimal.Decimal) {
	switch key {
	case KeyClientPayment:
		r.ClientPayment = v
	case KeyVenueFee:
		r.VenueFee = v
	case KeyBaseSalaryWithClient:
		r.BaseSalaryWithClient = v
	case KeyBaseSalaryNoClient:
		r.BaseSalaryNoClient = v
	case KeyFirstClientBonus:
		r.FirstClientBonus = v
	case KeyAdditionalClientBonus:
		r.AdditionalClientBonus = v
	case KeyBrokerFirstClient:
		r.BrokerFirstClient = v
	case KeyBrokerAdditionalClient:
		r.BrokerAdditionalClient = v
	}
}

// FromSettings builds the global rule set for one scope. For every key the
// user-scoped row wins over the system row, which wins over Default.
// An explicit zero is honoured.
func FromSettings(system, user []Setting) RuleSet {
	rs := Default()
	for _, s := range system {
		if s.UserID == nil {
			rs.set(s.Key, s.Value)
		}
	}
	for _, s := range user {
		if s.UserID != nil {
			rs.set(s.Key, s.Value)
		}
	}
	return rs
}

// SettingKey names one field of the global rule set in the settings table.
type SettingKey string

const (
	KeyClientPayment          SettingKey = "client_payment"
	KeyVenueFee               SettingKey = "venue_fee"
	KeyBaseSalaryWithClient   SettingKey = "base_salary_with_client"
	KeyBaseSalaryNoClient     SettingKey = "base_salary_no_client"
	KeyFirstClientBonus       SettingKey = "first_client_bonus"
	KeyAdditionalClientBonus  SettingKey = "additional_client_bonus"
	KeyBrokerFirstClient      SettingKey = "broker_first_client"
	KeyBrokerAdditionalClient SettingKey = "broker_additional_client"
)

// SettingKeys lists every key in display order.
var SettingKeys = []SettingKey{
	KeyClientPayment,
	KeyVenueFee,
	KeyBaseSalaryWithClient,
	KeyBaseSalaryNoClient,
	KeyFirstClientBonus,
	KeyAdditionalClientBonus,
	KeyBrokerFirstClient,
	KeyBrokerAdditionalClient,
}

// SettingDescriptions are seeded alongside the system rows.
var SettingDescriptions = map[SettingKey]string{
	KeyClientPayment:          "Amount a client pays per engagement",
	KeyVenueFee:               "Venue fee per engagement",
	KeyBaseSalaryWithClient:   "Daily base salary when the employee had clients",
	KeyBaseSalaryNoClient:     "Daily base salary when the employee had no clients",
	KeyFirstClientBonus:       "Commission for the first client of the day",
	KeyAdditionalClientBonus:  "Commission for each additional client",
	KeyBrokerFirstClient:      "Broker commission for the first client",
	KeyBrokerAdditionalClient: "Broker commission for each additional client",
}

// IsValid reports whether k is a known setting key.
func (k SettingKey) IsValid() bool {
	_, ok := SettingDescriptions[k]
	return ok
}

// Setting is one row of the settings table. UserID nil marks the system row.
type Setting struct {
	Key         SettingKey
	Value       decimal.Decimal
	Description *string
	UserID      *string
	UpdatedAt   time.Time
}

// TemplateData holds the salary-side values a template overrides.
type TemplateData struct {
	BaseSalaryWithClient   decimal.Decimal `json:"base_salary_with_client"`
	BaseSalaryNoClient     decimal.Decimal `json:"base_salary_no_client"`
	FirstClientBonus       decimal.Decimal `json:"first_client_bonus"`
	AdditionalClientBonus  decimal.Decimal `json:"additional_client_bonus"`
	BrokerFirstClient      decimal.Decimal `json:"broker_first_client"`
	BrokerAdditionalClient decimal.Decimal `json:"broker_additional_client"`
}

// Template is a saved rule set that can be assigned to employees. Global
// templates (UserID nil) are visible to every user.
type Template struct {
	ID          string
	Name        string
	Description *string
	Data        TemplateData
	UserID      *string
	IsGlobal    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VisibleTo reports whether userID may read the template.
func (t Template) VisibleTo(userID string) bool {
	return t.IsGlobal || t.UserID == nil || *t.UserID == userID
}

// SourceKind tags where an employee's rule set comes from.
type SourceKind string

const (
	SourceGlobal   SourceKind = "global"
	SourceTemplate SourceKind = "template"
)

// Source is resolved into a concrete RuleSet before any calculation.
// UserID scopes the global rule set; TemplateID is set only for SourceTemplate.
type Source struct {
	Kind       SourceKind
	UserID     *string
	TemplateID string
}

func GlobalSource(userID *string) Source {
	return Source{Kind: SourceGlobal, UserID: userID}
}

func TemplateSource(templateID string, userID *string) Source {
	return Source{Kind: SourceTemplate, UserID: userID, TemplateID: templateID}
}
