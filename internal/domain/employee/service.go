package employee

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
)

// EmployeeService defines the employee directory operations
type EmployeeService interface {
	// CreateEmployee registers a new employee (admin only)
	CreateEmployee(ctx context.Context, caller auth.Identity, req CreateEmployeeRequest) (EmployeeResponse, error)

	// ListEmployees lists employees with optional search (admin only)
	ListEmployees(ctx context.Context, caller auth.Identity, filter EmployeeFilter) ([]EmployeeResponse, error)

	// Directory lists id, name and handle of every employee (any authenticated caller)
	Directory(ctx context.Context, caller auth.Identity) ([]DirectoryEntry, error)

	// GetEmployee returns a single employee; regular callers may only read themselves
	GetEmployee(ctx context.Context, caller auth.Identity, id string) (EmployeeResponse, error)

	SetRole(ctx context.Context, caller auth.Identity, req SetRoleRequest) error
	ResetPassword(ctx context.Context, caller auth.Identity, req ResetPasswordRequest) error

	// DeleteEmployee removes the employee together with schedule, events and justifications
	DeleteEmployee(ctx context.Context, caller auth.Identity, id string) error

	// BootstrapAdmin creates or repairs the initial "admin" account
	BootstrapAdmin(ctx context.Context) (BootstrapResponse, error)

	// Register creates a regular employee without an admin, when enabled
	Register(ctx context.Context, req RegisterRequest) (EmployeeResponse, error)
}
