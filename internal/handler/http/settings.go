package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/handler/http/response"
)

type RuleSetHandler interface {
	// Global settings
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)

	// Templates
	ListTemplates(w http.ResponseWriter, r *http.Request)
	GetTemplate(w http.ResponseWriter, r *http.Request)
	CreateTemplate(w http.ResponseWriter, r *http.Request)
	UpdateTemplate(w http.ResponseWriter, r *http.Request)
	DeleteTemplate(w http.ResponseWriter, r *http.Request)
	ApplyTemplate(w http.ResponseWriter, r *http.Request)
	CreateTemplateFromCurrent(w http.ResponseWriter, r *http.Request)
}

type ruleSetHandlerImpl struct {
	ruleSetService ruleset.Service
}

func NewRuleSetHandler(ruleSetService ruleset.Service) RuleSetHandler {
	return &ruleSetHandlerImpl{
		ruleSetService: ruleSetService,
	}
}

// GetSettings implements RuleSetHandler.
func (h *ruleSetHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.ruleSetService.GetSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, settings)
}

// UpdateSettings implements RuleSetHandler.
func (h *ruleSetHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req ruleset.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateSettings decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	settings, err := h.ruleSetService.UpdateSettings(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settings updated successfully", settings)
}

// ListTemplates implements RuleSetHandler.
func (h *ruleSetHandlerImpl) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.ruleSetService.ListTemplates(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, templates)
}

// GetTemplate implements RuleSetHandler.
func (h *ruleSetHandlerImpl) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.ruleSetService.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, tpl)
}

// CreateTemplate implements RuleSetHandler.
func (h *ruleSetHandlerImpl) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req ruleset.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateTemplate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tpl, err := h.ruleSetService.CreateTemplate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Template created successfully", tpl)
}

// UpdateTemplate implements RuleSetHandler.
func (h *ruleSetHandlerImpl) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req ruleset.UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateTemplate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	tpl, err := h.ruleSetService.UpdateTemplate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Template updated successfully", tpl)
}

// DeleteTemplate implements RuleSetHandler.
func (h *ruleSetHandlerImpl) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.ruleSetService.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Template deleted successfully", nil)
}

// ApplyTemplate implements RuleSetHandler.
func (h *ruleSetHandlerImpl) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	settings, err := h.ruleSetService.ApplyTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Template applied to settings", settings)
}

// CreateTemplateFromCurrent implements RuleSetHandler.
func (h *ruleSetHandlerImpl) CreateTemplateFromCurrent(w http.ResponseWriter, r *http.Request) {
	var req ruleset.CreateFromCurrentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateTemplateFromCurrent decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tpl, err := h.ruleSetService.CreateTemplateFromCurrent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Template created from current settings", tpl)
}
