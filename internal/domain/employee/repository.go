package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetByLogin matches identifier against email or handle.
	GetByLogin(ctx context.Context, identifier string) (Employee, error)
	// FindByNameOrHandle resolves a display name or handle to an employee.
	FindByNameOrHandle(ctx context.Context, nameOrHandle string) (Employee, error)
	GetByHandle(ctx context.Context, handle string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	UpdateRole(ctx context.Context, id string, role Role) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	Delete(ctx context.Context, id string) error
	CountAdmins(ctx context.Context) (int64, error)
}
