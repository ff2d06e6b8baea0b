package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/salary"
	"github.com/ktv-ledger/ktv-backend-go/internal/handler/http/response"
)

type SettlementHandler interface {
	ListSettlements(w http.ResponseWriter, r *http.Request)
	GetSettlement(w http.ResponseWriter, r *http.Request)
	UpdatePayoutDate(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)
}

type settlementHandlerImpl struct {
	salaryService salary.Service
}

func NewSettlementHandler(salaryService salary.Service) SettlementHandler {
	return &settlementHandlerImpl{
		salaryService: salaryService,
	}
}

// ListSettlements implements SettlementHandler.
func (h *settlementHandlerImpl) ListSettlements(w http.ResponseWriter, r *http.Request) {
	list, err := h.salaryService.ListSettlements(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

// GetSettlement implements SettlementHandler.
func (h *settlementHandlerImpl) GetSettlement(w http.ResponseWriter, r *http.Request) {
	s, err := h.salaryService.GetEmployeeSettlement(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, s)
}

// UpdatePayoutDate implements SettlementHandler.
func (h *settlementHandlerImpl) UpdatePayoutDate(w http.ResponseWriter, r *http.Request) {
	var req salary.UpdatePayoutDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdatePayoutDate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeID")

	summary, err := h.salaryService.UpdatePayoutDate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Payout date updated", "employee_id", req.EmployeeID, "last_payout_date", req.LastPayoutDate)
	response.SuccessWithMessage(w, "Payout date updated successfully", summary)
}

// Preview implements SettlementHandler.
func (h *settlementHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	var req salary.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Preview decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	breakdown, err := h.salaryService.Preview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, breakdown)
}
