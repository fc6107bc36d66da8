package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, name, handle, email, password_hash, role, created_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(&emp.ID, &emp.Name, &emp.Handle, &emp.Email, &emp.PasswordHash, &emp.Role, &emp.CreatedAt)
	return emp, err
}

func (e *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg any) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE ` + where + ` LIMIT 1`
	emp, err := scanEmployee(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if newEmployee.ID == "" {
		id, err := newID()
		if err != nil {
			return employee.Employee{}, err
		}
		newEmployee.ID = id
	}
	if newEmployee.Role == "" {
		newEmployee.Role = employee.RoleUser
	}

	query := `
		INSERT INTO employees (id, name, handle, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := q.QueryRow(ctx, query,
		newEmployee.ID,
		newEmployee.Name,
		newEmployee.Handle,
		newEmployee.Email,
		newEmployee.PasswordHash,
		newEmployee.Role,
	).Scan(&newEmployee.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmployeeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return newEmployee, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return e.getOne(ctx, "id = $1", id)
}

// GetByLogin implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByLogin(ctx context.Context, identifier string) (employee.Employee, error) {
	return e.getOne(ctx, "(LOWER(email) = LOWER($1) OR handle = $1) ORDER BY (handle = $1) DESC NULLS LAST", identifier)
}

// FindByNameOrHandle implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) FindByNameOrHandle(ctx context.Context, nameOrHandle string) (employee.Employee, error) {
	return e.getOne(ctx, "(name = $1 OR handle = $1) ORDER BY (handle = $1) DESC NULLS LAST, created_at", nameOrHandle)
}

// GetByHandle implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByHandle(ctx context.Context, handle string) (employee.Employee, error) {
	return e.getOne(ctx, "handle = $1", handle)
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees`
	var args []interface{}
	if filter.Query != "" {
		query += ` WHERE name ILIKE $1 OR handle ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+filter.Query+"%")
	}
	query += ` ORDER BY name, created_at`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// UpdateRole implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdateRole(ctx context.Context, id string, role employee.Role) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET role = $1 WHERE id = $2`, role, id)
	if err != nil {
		return fmt.Errorf("failed to update employee role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdatePassword implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update employee password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete implements employee.EmployeeRepository. Schedule, events,
// justifications and refresh tokens cascade.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// CountAdmins implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CountAdmins(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, e.db)

	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE role = $1`, employee.RoleAdmin).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}
