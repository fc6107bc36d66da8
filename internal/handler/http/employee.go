package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	Directory(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	SetRole(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// Directory implements EmployeeHandler.
func (h *employeeHandlerImpl) Directory(w http.ResponseWriter, r *http.Request) {
	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.employeeService.Directory(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := employee.EmployeeFilter{Query: r.URL.Query().Get("q")}

	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.employeeService.ListEmployees(r.Context(), caller, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Create implements EmployeeHandler.
func (h *employeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create employee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.employeeService.CreateEmployee(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", result)
}

// Get implements EmployeeHandler.
func (h *employeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.employeeService.GetEmployee(r.Context(), caller, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SetRole implements EmployeeHandler.
func (h *employeeHandlerImpl) SetRole(w http.ResponseWriter, r *http.Request) {
	var req employee.SetRoleRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Set role decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	caller := middleware.IdentityFromContext(r.Context())
	if err := h.employeeService.SetRole(r.Context(), caller, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Role updated successfully", nil)
}

// ResetPassword implements EmployeeHandler.
func (h *employeeHandlerImpl) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req employee.ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Reset password decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	caller := middleware.IdentityFromContext(r.Context())
	if err := h.employeeService.ResetPassword(r.Context(), caller, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Password updated successfully", nil)
}

// Delete implements EmployeeHandler.
func (h *employeeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	caller := middleware.IdentityFromContext(r.Context())
	if err := h.employeeService.DeleteEmployee(r.Context(), caller, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}
