package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punctuality"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
)

type PunctualityHandler interface {
	Aggregate(w http.ResponseWriter, r *http.Request)
	Daily(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type punctualityHandlerImpl struct {
	punctualityService punctuality.PunctualityService
}

func NewPunctualityHandler(punctualityService punctuality.PunctualityService) PunctualityHandler {
	return &punctualityHandlerImpl{
		punctualityService: punctualityService,
	}
}

// Aggregate implements PunctualityHandler.
func (h *punctualityHandlerImpl) Aggregate(w http.ResponseWriter, r *http.Request) {
	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.punctualityService.Aggregate(r.Context(), caller, parsePunctualityRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Daily implements PunctualityHandler.
func (h *punctualityHandlerImpl) Daily(w http.ResponseWriter, r *http.Request) {
	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.punctualityService.Daily(r.Context(), caller, parsePunctualityRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements PunctualityHandler.
func (h *punctualityHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	caller := middleware.IdentityFromContext(r.Context())
	report, err := h.punctualityService.ExportXLSX(r.Context(), caller, parsePunctualityRequest(r))
	if err != nil {
		slog.Error("Punctuality export error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.File(w, report.Filename, report.ContentType, report.Content)
}

func parsePunctualityRequest(r *http.Request) punctuality.Request {
	query := r.URL.Query()
	return punctuality.Request{
		EmployeeID: query.Get("employee_id"),
		StartDate:  query.Get("start_date"),
		EndDate:    query.Get("end_date"),
		Group:      query.Get("group"),
	}
}
