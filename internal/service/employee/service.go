package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

const bootstrapEmail = "admin@localhost"

// Options carries the configuration the directory depends on.
type Options struct {
	BootstrapPassword   string
	AllowPublicRegister bool
}

type EmployeeServiceImpl struct {
	tx           database.Transactor
	employeeRepo employee.EmployeeRepository
	opts         Options
}

func NewEmployeeService(tx database.Transactor, employeeRepo employee.EmployeeRepository, opts Options) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
		opts:         opts,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, caller auth.Identity, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	newEmployee := employee.Employee{
		Name:   req.Name,
		Handle: req.Handle,
		Email:  req.Email,
		Role:   employee.Role(req.Role),
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		newEmployee.PasswordHash = &hash
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee created", "employee_id", created.ID, "role", created.Role, "created_by", caller.EmployeeID)
	return employee.ToResponse(created), nil
}

// Register implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Register(ctx context.Context, req employee.RegisterRequest) (employee.EmployeeResponse, error) {
	if !s.opts.AllowPublicRegister {
		return employee.EmployeeResponse{}, employee.ErrRegistrationDisabled
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		Name:         req.Name,
		Handle:       &req.Handle,
		Email:        req.Email,
		PasswordHash: &hash,
		Role:         employee.RoleUser,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee self-registered", "employee_id", created.ID, "handle", req.Handle)
	return employee.ToResponse(created), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, caller auth.Identity, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.ToResponse(e))
	}
	return responses, nil
}

// Directory implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Directory(ctx context.Context, caller auth.Identity) ([]employee.DirectoryEntry, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	entries := make([]employee.DirectoryEntry, 0, len(employees))
	for _, e := range employees {
		entries = append(entries, employee.DirectoryEntry{ID: e.ID, Name: e.Name, Handle: e.Handle})
	}
	return entries, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, caller auth.Identity, id string) (employee.EmployeeResponse, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !caller.CanActFor(id) {
		return employee.EmployeeResponse{}, auth.ErrForbidden
	}
	if !validator.IsValidUUID(id) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(e), nil
}

// SetRole implements employee.EmployeeService.
func (s *EmployeeServiceImpl) SetRole(ctx context.Context, caller auth.Identity, req employee.SetRoleRequest) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if req.ID == caller.EmployeeID && employee.Role(req.Role) != employee.RoleAdmin {
		return employee.ErrCannotDemoteSelf
	}
	if !validator.IsValidUUID(req.ID) {
		return employee.ErrEmployeeNotFound
	}

	if err := s.employeeRepo.UpdateRole(ctx, req.ID, employee.Role(req.Role)); err != nil {
		return err
	}

	slog.Info("Employee role changed", "employee_id", req.ID, "role", req.Role, "changed_by", caller.EmployeeID)
	return nil
}

// ResetPassword implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ResetPassword(ctx context.Context, caller auth.Identity, req employee.ResetPasswordRequest) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if !validator.IsValidUUID(req.ID) {
		return employee.ErrEmployeeNotFound
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}
	if err := s.employeeRepo.UpdatePassword(ctx, req.ID, hash); err != nil {
		return err
	}

	slog.Info("Employee password reset", "employee_id", req.ID, "reset_by", caller.EmployeeID)
	return nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, caller auth.Identity, id string) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	if id == caller.EmployeeID {
		return employee.ErrCannotDeleteSelf
	}
	if !validator.IsValidUUID(id) {
		return employee.ErrEmployeeNotFound
	}

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Employee deleted", "employee_id", id, "deleted_by", caller.EmployeeID)
	return nil
}

// BootstrapAdmin implements employee.EmployeeService. An existing "admin"
// handle is promoted and gets the bootstrap password; otherwise the account
// is created only while no administrator exists.
func (s *EmployeeServiceImpl) BootstrapAdmin(ctx context.Context) (employee.BootstrapResponse, error) {
	hash, err := hashPassword(s.opts.BootstrapPassword)
	if err != nil {
		return employee.BootstrapResponse{}, err
	}

	var resp employee.BootstrapResponse
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.employeeRepo.GetByHandle(txCtx, employee.BootstrapHandle)
		switch {
		case err == nil:
			if err := s.employeeRepo.UpdateRole(txCtx, existing.ID, employee.RoleAdmin); err != nil {
				return err
			}
			if err := s.employeeRepo.UpdatePassword(txCtx, existing.ID, hash); err != nil {
				return err
			}
			resp = employee.BootstrapResponse{ID: existing.ID, Updated: true}
			return nil
		case !errors.Is(err, employee.ErrEmployeeNotFound):
			return err
		}

		admins, err := s.employeeRepo.CountAdmins(txCtx)
		if err != nil {
			return fmt.Errorf("failed to count administrators: %w", err)
		}
		if admins > 0 {
			return employee.ErrAlreadyInitialized
		}

		handle, email := employee.BootstrapHandle, bootstrapEmail
		created, err := s.employeeRepo.Create(txCtx, employee.Employee{
			Name:         "Admin",
			Handle:       &handle,
			Email:        &email,
			PasswordHash: &hash,
			Role:         employee.RoleAdmin,
		})
		if err != nil {
			return err
		}
		resp = employee.BootstrapResponse{ID: created.ID, Created: true}
		return nil
	})
	if err != nil {
		return employee.BootstrapResponse{}, err
	}

	slog.Info("Administrator bootstrapped", "employee_id", resp.ID, "created", resp.Created, "updated", resp.Updated)
	return resp, nil
}
