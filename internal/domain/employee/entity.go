package employee

import "time"

type Role string

const (
	RoleUser  Role = "user"  // Regular employee, may punch for self only
	RoleAdmin Role = "admin" // Manages employees, schedules and reports
)

var RoleValues = []string{
	string(RoleUser),
	string(RoleAdmin),
}

type Employee struct {
	ID           string
	Name         string
	Handle       *string
	Email        *string
	PasswordHash *string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin checks if the employee holds the admin role
func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

// BootstrapHandle is the handle reserved for the first administrator.
const BootstrapHandle = "admin"
