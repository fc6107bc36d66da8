package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// EMPLOYEE DTOs
// ========================================

type CreateEmployeeRequest struct {
	Name     string  `json:"name"`
	Handle   *string `json:"handle,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     string  `json:"role,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 200 characters",
		})
	}

	r.Handle = trimOptional(r.Handle)
	if r.Handle != nil && !validator.IsValidHandle(*r.Handle) {
		errs = append(errs, validator.ValidationError{
			Field:   "handle",
			Message: "handle must be 3-60 characters of letters, numbers, dots, underscores or hyphens",
		})
	}

	r.Email = trimOptional(r.Email)
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if r.Password != nil {
		if err := validatePassword(*r.Password); err != nil {
			errs = append(errs, *err)
		}
		if r.Handle == nil && r.Email == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "handle",
				Message: "handle or email is required when a password is set",
			})
		}
	}

	if r.Role == "" {
		r.Role = string(RoleUser)
	}
	if !validator.IsInSlice(r.Role, RoleValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: user, admin",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RegisterRequest struct {
	Name     string  `json:"name"`
	Handle   string  `json:"handle"`
	Email    *string `json:"email,omitempty"`
	Password string  `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Handle = strings.TrimSpace(r.Handle)
	if !validator.IsValidHandle(r.Handle) {
		errs = append(errs, validator.ValidationError{
			Field:   "handle",
			Message: "handle must be 3-60 characters of letters, numbers, dots, underscores or hyphens",
		})
	}

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		r.Name = r.Handle
	}
	if len(r.Name) > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 200 characters",
		})
	}

	r.Email = trimOptional(r.Email)
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if err := validatePassword(r.Password); err != nil {
		errs = append(errs, *err)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SetRoleRequest struct {
	ID   string `json:"-"`
	Role string `json:"role"`
}

func (r *SetRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if !validator.IsInSlice(r.Role, RoleValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: user, admin",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ResetPasswordRequest struct {
	ID       string `json:"-"`
	Password string `json:"password"`
}

func (r *ResetPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if err := validatePassword(r.Password); err != nil {
		errs = append(errs, *err)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeFilter struct {
	Query string
}

type EmployeeResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Handle    *string `json:"handle"`
	Email     *string `json:"email"`
	Role      string  `json:"role"`
	IsAdmin   bool    `json:"is_admin"`
	CreatedAt string  `json:"created_at"`
}

type DirectoryEntry struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Handle *string `json:"handle"`
}

type BootstrapResponse struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
	Updated bool   `json:"updated"`
}

// ToResponse converts an Employee into its public representation.
func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Handle:    e.Handle,
		Email:     e.Email,
		Role:      string(e.Role),
		IsAdmin:   e.IsAdmin(),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validatePassword(password string) *validator.ValidationError {
	switch {
	case validator.IsEmpty(password):
		return &validator.ValidationError{Field: "password", Message: "password is required"}
	case len(password) < 5:
		return &validator.ValidationError{Field: "password", Message: "password must be at least 5 characters long"}
	case len(password) > 72:
		return &validator.ValidationError{Field: "password", Message: "password must not exceed 72 characters"}
	}
	return nil
}
