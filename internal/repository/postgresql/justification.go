package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
)

type justificationRepositoryImpl struct {
	db *database.DB
}

func NewJustificationRepository(db *database.DB) attendance.JustificationRepository {
	return &justificationRepositoryImpl{db: db}
}

// Create implements attendance.JustificationRepository.
func (r *justificationRepositoryImpl) Create(ctx context.Context, j attendance.Justification) (attendance.Justification, error) {
	q := GetQuerier(ctx, r.db)

	if j.ID == "" {
		id, err := newID()
		if err != nil {
			return attendance.Justification{}, err
		}
		j.ID = id
	}

	query := `
		INSERT INTO justifications (id, employee_id, date, type, description)
		VALUES ($1, $2, $3::date, $4, $5)
		RETURNING created_at
	`
	err := q.QueryRow(ctx, query, j.ID, j.EmployeeID, j.Date.Format("2006-01-02"), j.Type, j.Description).Scan(&j.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return attendance.Justification{}, employee.ErrUnknownEmployee
		}
		return attendance.Justification{}, fmt.Errorf("failed to create justification: %w", err)
	}

	return j, nil
}

// List implements attendance.JustificationRepository.
func (r *justificationRepositoryImpl) List(ctx context.Context, filter attendance.JustificationFilter) ([]attendance.Justification, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("j.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("j.date >= $%d::date", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("j.date <= $%d::date", argIdx))
		args = append(args, *filter.EndDate)
	}

	query := fmt.Sprintf(`
		SELECT j.id, j.employee_id, j.date, j.type, j.description, j.created_at, e.name, e.handle
		FROM justifications j
		JOIN employees e ON e.id = j.employee_id
		WHERE %s
		ORDER BY j.date DESC, j.created_at DESC
	`, strings.Join(conditions, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list justifications: %w", err)
	}
	defer rows.Close()

	justifications := make([]attendance.Justification, 0)
	for rows.Next() {
		var j attendance.Justification
		err := rows.Scan(&j.ID, &j.EmployeeID, &j.Date, &j.Type, &j.Description, &j.CreatedAt, &j.EmployeeName, &j.EmployeeHandle)
		if err != nil {
			return nil, fmt.Errorf("failed to scan justification: %w", err)
		}
		justifications = append(justifications, j)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return justifications, nil
}
