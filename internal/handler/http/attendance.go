package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	RecordHistorical(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ListJustifications(w http.ResponseWriter, r *http.Request)
	RecordJustification(w http.ResponseWriter, r *http.Request)
	Aggregate(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Punch implements AttendanceHandler.
func (h *attendanceHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	var req attendance.PunchRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Punch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.attendanceService.PunchNow(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded", result)
}

// ListMine implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	filter := parseEventFilter(r)

	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.attendanceService.ListMyEvents(r.Context(), caller, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := parseEventFilter(r)
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.attendanceService.ListEvents(r.Context(), caller, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// RecordHistorical implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecordHistorical(w http.ResponseWriter, r *http.Request) {
	var req attendance.HistoricalRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RecordHistorical decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.attendanceService.RecordHistorical(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Event recorded", result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	caller := middleware.IdentityFromContext(r.Context())
	if err := h.attendanceService.DeleteEvent(r.Context(), caller, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Event deleted successfully", nil)
}

// ListJustifications implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListJustifications(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := attendance.JustificationFilter{
		EmployeeID: optionalQuery(query.Get("employee_id")),
		StartDate:  optionalQuery(query.Get("start_date")),
		EndDate:    optionalQuery(query.Get("end_date")),
	}

	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.attendanceService.ListJustifications(r.Context(), caller, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// RecordJustification implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecordJustification(w http.ResponseWriter, r *http.Request) {
	var req attendance.RecordJustificationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RecordJustification decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.attendanceService.RecordJustification(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Justification recorded", result)
}

// Aggregate implements AttendanceHandler.
func (h *attendanceHandlerImpl) Aggregate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := attendance.AggregateFilter{
		Group:      query.Get("group"),
		EmployeeID: optionalQuery(query.Get("employee_id")),
		Action:     optionalQuery(query.Get("action")),
		StartDate:  optionalQuery(query.Get("start_date")),
		EndDate:    optionalQuery(query.Get("end_date")),
	}

	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.attendanceService.AggregateCounts(r.Context(), caller, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// parseEventFilter reads the shared listing parameters. Unparseable page or
// limit values fall back to the defaults applied by the service.
func parseEventFilter(r *http.Request) attendance.EventFilter {
	query := r.URL.Query()
	filter := attendance.EventFilter{
		Date:      optionalQuery(query.Get("date")),
		StartDate: optionalQuery(query.Get("start_date")),
		EndDate:   optionalQuery(query.Get("end_date")),
		Action:    optionalQuery(query.Get("action")),
	}

	if p := query.Get("page"); p != "" {
		if page, err := strconv.Atoi(p); err == nil {
			filter.Page = page
		}
	}
	if l := query.Get("limit"); l != "" {
		if limit, err := strconv.Atoi(l); err == nil {
			filter.Limit = limit
		}
	}

	return filter
}

func optionalQuery(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
