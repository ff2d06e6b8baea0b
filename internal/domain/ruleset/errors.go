package ruleset

import "errors"

var (
	ErrTemplateNotFound   = errors.New("rule set template not found")
	ErrTemplateInUse      = errors.New("rule set template is assigned to employees")
	ErrTemplateNameExists = errors.New("rule set template name already exists")
	ErrTemplateForbidden  = errors.New("not allowed to modify this template")
	ErrUnknownSettingKey  = errors.New("unknown setting key")
)
