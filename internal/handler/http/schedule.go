package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ScheduleHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewScheduleHandler(scheduleService schedule.ScheduleService) ScheduleHandler {
	return &scheduleHandlerImpl{
		scheduleService: scheduleService,
	}
}

// Get implements ScheduleHandler.
func (h *scheduleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.scheduleService.GetSchedule(r.Context(), caller, employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Upsert implements ScheduleHandler.
func (h *scheduleHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req schedule.UpsertScheduleRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Upsert schedule decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.scheduleService.UpsertSchedule(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedule saved", result)
}
